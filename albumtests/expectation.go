package albumtests

import (
	"fmt"
	"strings"

	"github.com/crudcheck/albums-contract-tests/servicedef"
	"github.com/crudcheck/albums-contract-tests/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const maxBodyInMessage = 500

// Expectation describes what a response must look like. Zero-valued fields are not checked.
// Keys applies to a single record, ElementKeys to every record of a collection.
type Expectation struct {
	Status      int
	Shape       servicedef.BodyShape
	Count       ldvalue.OptionalInt
	Keys        []string
	ElementKeys []string
}

func (e Expectation) String() string {
	var parts []string
	if e.Status != 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.Status))
	}
	if e.Shape != "" {
		parts = append(parts, string(e.Shape))
	}
	if e.Count.IsDefined() {
		parts = append(parts, fmt.Sprintf("%d elements", e.Count.IntValue()))
	}
	if e.Keys != nil {
		parts = append(parts, fmt.Sprintf("keys %v", e.Keys))
	}
	if e.ElementKeys != nil {
		parts = append(parts, fmt.Sprintf("element keys %v", e.ElementKeys))
	}
	return strings.Join(parts, ", ")
}

// Verify fails the check if the response does not meet the expectation. A wrong status or shape
// stops the check, since nothing after it would be meaningful.
func (e Expectation) Verify(t *T, resp transport.Response) {
	if e.Status != 0 {
		require.Equal(t, e.Status, resp.StatusCode,
			"unexpected status code; response body was: %s", abbreviate(resp.Body))
	}
	if e.Shape != "" {
		require.Equal(t, e.Shape, servicedef.ShapeOf(resp.Body),
			"unexpected response body shape; body was: %s", abbreviate(resp.Body))
	}
	if e.Count.IsDefined() {
		assert.Equal(t, e.Count.IntValue(), servicedef.SequenceLength(resp.Body),
			"unexpected number of records in the collection")
	}
	if e.Keys != nil {
		album, err := servicedef.ParseAlbum(resp.Body)
		require.NoError(t, err, "could not decode the record")
		assert.True(t, album.HasExactKeys(e.Keys),
			"record keys were %v, expected exactly %v", album.SortedKeys(), sortedKeys(e.Keys))
	}
	if e.ElementKeys != nil {
		albums, err := servicedef.ParseAlbumList(resp.Body)
		require.NoError(t, err, "could not decode the collection")
		for i, album := range albums {
			if !album.HasExactKeys(e.ElementKeys) {
				assert.Fail(t, fmt.Sprintf("record %d in the collection had keys %v, expected exactly %v",
					i, album.SortedKeys(), sortedKeys(e.ElementKeys)), "collection record: %s", album)
				break
			}
		}
	}
}

// RequireResponse fails the check if the request failed or if the response does not meet the
// expectation.
func RequireResponse(t *T, resp transport.Response, err error, expected Expectation) transport.Response {
	require.NoError(t, err, "request failed")
	t.Debug("Expecting %s", expected)
	expected.Verify(t, resp)
	return resp
}

// RequireAlbumResponse is RequireResponse for a response that must contain a single record,
// which it returns.
func RequireAlbumResponse(t *T, resp transport.Response, err error, status int) servicedef.Album {
	RequireResponse(t, resp, err, Expectation{Status: status, Shape: servicedef.ShapeMapping})
	album, err := servicedef.ParseAlbum(resp.Body)
	require.NoError(t, err, "could not decode the record")
	return album
}

// RequireSnapshot reads a record that the check is about to change. Failing to read it fails the
// check.
func RequireSnapshot(t *T, id int) servicedef.Album {
	resp, err := t.Client().Get(t.Context(), id)
	album := RequireAlbumResponse(t, resp, err, 200)
	requireAllFields(t, album)
	t.Debug("Record %d before the change: %s", id, album)
	return album
}

func requireAllFields(t *T, album servicedef.Album) {
	require.True(t, album.ID.IsDefined(), "record has no %q: %s", servicedef.FieldID, album)
	require.True(t, album.UserID.IsDefined(), "record has no %q: %s", servicedef.FieldUserID, album)
	require.True(t, album.Title.IsDefined(), "record has no %q: %s", servicedef.FieldTitle, album)
}

func abbreviate(body []byte) string {
	if len(body) == 0 {
		return "<empty>"
	}
	if len(body) > maxBodyInMessage {
		return string(body[:maxBodyInMessage]) + "..."
	}
	return string(body)
}

func sortedKeys(keys []string) []string {
	return servicedef.Album{Keys: keys}.SortedKeys()
}

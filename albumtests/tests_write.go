package albumtests

import (
	"strconv"

	"github.com/crudcheck/albums-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DoCreateTest checks that a new record is accepted and echoed back.
func DoCreateTest(t *T) {
	values := t.Checks().Create
	params := servicedef.AlbumParams{
		UserID: ldvalue.NewOptionalInt(values.UserID),
		Title:  ldvalue.NewOptionalString(values.Title),
	}

	resp, err := t.Client().Create(t.Context(), params)
	created := RequireAlbumResponse(t, resp, err, 201)

	requireUserID(t, created, values.UserID)
	requireTitle(t, created, values.Title)
}

// DoUpdateTest checks that PUT replaces userId and title but never the id, even if the body
// contains a different one.
func DoUpdateTest(t *T) {
	checks := t.Checks()
	before := RequireSnapshot(t, checks.UpdateID)
	params := servicedef.AlbumParams{
		UserID: ldvalue.NewOptionalInt(checks.Update.UserID),
		Title:  ldvalue.NewOptionalString(checks.Update.Title),
		ID:     ldvalue.NewOptionalInt(checks.UpdateBodyID),
	}

	resp, err := t.Client().Replace(t.Context(), checks.UpdateID, params)
	after := RequireAlbumResponse(t, resp, err, 200)

	requireID(t, after, before.ID.IntValue())
	requireUserID(t, after, checks.Update.UserID)
	requireTitle(t, after, checks.Update.Title)
	assert.NotEqual(t, before.Title.StringValue(), after.Title.StringValue(), "title did not change")
	assert.NotEqual(t, before.UserID.StringValue(), after.UserID.StringValue(), "userId did not change")
}

// DoPatchTitleTest checks that PATCH with only a title changes nothing else.
func DoPatchTitleTest(t *T) {
	checks := t.Checks()
	before := RequireSnapshot(t, checks.PatchTitleID)
	params := servicedef.AlbumParams{Title: ldvalue.NewOptionalString(checks.PatchTitle)}

	resp, err := t.Client().Patch(t.Context(), checks.PatchTitleID, params)
	after := RequireAlbumResponse(t, resp, err, 200)

	requireTitle(t, after, checks.PatchTitle)
	assert.NotEqual(t, before.Title.StringValue(), after.Title.StringValue(), "title did not change")
	requireID(t, after, before.ID.IntValue())
	require.True(t, after.UserID.IsDefined(), "record has no %q: %s", servicedef.FieldUserID, after)
	assert.Equal(t, before.UserID.StringValue(), after.UserID.StringValue(), "userId changed")
}

// DoPatchUserIDTest checks that PATCH with only a userId changes nothing else.
func DoPatchUserIDTest(t *T) {
	checks := t.Checks()
	before := RequireSnapshot(t, checks.PatchUserIDID)
	params := servicedef.AlbumParams{UserID: ldvalue.NewOptionalInt(checks.PatchUserID)}

	resp, err := t.Client().Patch(t.Context(), checks.PatchUserIDID, params)
	after := RequireAlbumResponse(t, resp, err, 200)

	requireUserID(t, after, checks.PatchUserID)
	assert.NotEqual(t, before.UserID.StringValue(), after.UserID.StringValue(), "userId did not change")
	requireID(t, after, before.ID.IntValue())
	require.True(t, after.Title.IsDefined(), "record has no %q: %s", servicedef.FieldTitle, after)
	assert.Equal(t, before.Title.StringValue(), after.Title.StringValue(), "title changed")
}

// userId is compared by its string form, since a service may echo a number back as a string.
func requireUserID(t *T, album servicedef.Album, expected int) {
	require.True(t, album.UserID.IsDefined(), "record has no %q: %s", servicedef.FieldUserID, album)
	assert.Equal(t, strconv.Itoa(expected), album.UserID.StringValue(), "unexpected userId")
}

func requireTitle(t *T, album servicedef.Album, expected string) {
	require.True(t, album.Title.IsDefined(), "record has no %q: %s", servicedef.FieldTitle, album)
	assert.Equal(t, expected, album.Title.StringValue(), "unexpected title")
}

func requireID(t *T, album servicedef.Album, expected int) {
	require.True(t, album.ID.IsDefined(), "record has no %q: %s", servicedef.FieldID, album)
	assert.Equal(t, expected, album.ID.IntValue(), "id changed")
}

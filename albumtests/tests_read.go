package albumtests

import (
	"github.com/crudcheck/albums-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DoListTest checks that the collection lists the whole fixture, each record with exactly the
// album fields.
func DoListTest(t *T) {
	resp, err := t.Client().List(t.Context())
	RequireResponse(t, resp, err, Expectation{
		Status:      200,
		Shape:       servicedef.ShapeSequence,
		Count:       ldvalue.NewOptionalInt(t.FixtureCount()),
		ElementKeys: servicedef.AlbumFieldNames,
	})
}

// DoReadTest checks that a single record has exactly the album fields.
func DoReadTest(t *T) {
	resp, err := t.Client().Get(t.Context(), t.Checks().ReadID)
	RequireResponse(t, resp, err, Expectation{
		Status: 200,
		Shape:  servicedef.ShapeMapping,
		Keys:   servicedef.AlbumFieldNames,
	})
}

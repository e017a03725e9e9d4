package albumtests

// DoDeleteTest checks that a deleted record can no longer be read.
func DoDeleteTest(t *T) {
	id := t.Checks().DeleteID

	resp, err := t.Client().Delete(t.Context(), id)
	RequireResponse(t, resp, err, Expectation{Status: 200})

	resp, err = t.Client().Get(t.Context(), id)
	RequireResponse(t, resp, err, Expectation{Status: 404})
}

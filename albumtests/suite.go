package albumtests

import (
	"github.com/crudcheck/albums-contract-tests/framework"
)

// RunTestSuite runs every check against the configured service and returns the results.
func RunTestSuite(
	config SuiteConfig,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	env := &environment{config: config}
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := &T{context: c, env: env, client: config.Client}

		t.Run("albums", DoAlbumTests)
	})
}

// DoAlbumTests runs the checks of the albums collection.
func DoAlbumTests(t *T) {
	t.Run("list", DoListTest)
	t.Run("read", DoReadTest)
	t.Run("create", DoCreateTest)
	t.Run("update", DoUpdateTest)
	t.Run("patch title", DoPatchTitleTest)
	t.Run("patch userId", DoPatchUserIDTest)
	t.Run("delete", DoDeleteTest)
}

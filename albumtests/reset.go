package albumtests

import (
	"context"
	"fmt"
	"net/http"

	"github.com/crudcheck/albums-contract-tests/transport"
)

// RemoteReset returns a ResetFunc that does a POST to resetURL, such as the /admin/reset route
// of the mock service when it runs in another process.
func RemoteReset(tr transport.Transport, resetURL string) ResetFunc {
	return func(ctx context.Context) error {
		resp, err := tr.Send(ctx, transport.Request{Method: http.MethodPost, URL: resetURL})
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fixture reset returned status %d", resp.StatusCode)
		}
		return nil
	}
}

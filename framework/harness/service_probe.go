package harness

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

const probeInterval = time.Millisecond * 100

// AwaitService polls the given URL with GET requests until the service answers, or until the
// timeout expires. Connection errors are retried. Any HTTP response other than 200 is an error.
func AwaitService(client *http.Client, url string, timeout time.Duration, output io.Writer) error {
	if client == nil {
		client = http.DefaultClient
	}
	fmt.Fprintf(output, "Connecting to service at %s", url)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := client.Get(url)
		if err == nil {
			fmt.Fprintln(output)
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if resp.StatusCode != 200 {
				return fmt.Errorf("service returned status code %d", resp.StatusCode)
			}
			fmt.Fprintln(output, "Service is responding")
			return nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(probeInterval)
	}
}

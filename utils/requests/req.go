package requests

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

var client = http.Client{Timeout: 15 * time.Second}

// Reads the response body all at once with [io.ReadAll], but with an additional check for client/server error codes
// so that we know the body is safe to read. Error statuses are reported along with the URL.
func ReadResponseBody(response *http.Response, url string) ([]byte, error) {
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return nil, fmt.Errorf("failed to read response body from %s. %s", url, response.Status)
	}

	return io.ReadAll(response.Body)
}

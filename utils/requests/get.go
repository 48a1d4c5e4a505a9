package requests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	response, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error during GET request to %s:\n  %w", url, err)
	}

	resBody, err := ReadResponseBody(response, url)
	if err != nil {
		return nil, fmt.Errorf("error during GET request to %s:\n  %w", url, err)
	}

	return resBody, nil
}

// Sends a GET request and unmarshals the JSON response body into T.
func JsonGet[T any](ctx context.Context, url string) (T, error) {
	var data T

	res, err := Get(ctx, url)
	if err != nil {
		return data, err
	}

	if err := json.Unmarshal(res, &data); err != nil {
		return data, fmt.Errorf("[GET] failed to unmarshal response body from %s: %w", url, err)
	}

	return data, nil
}

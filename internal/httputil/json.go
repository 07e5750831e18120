// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned by GetJSON for any non-200 response.
type StatusError struct {
	API  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned HTTP %d", e.API, e.Code)
}

// GetJSON issues a GET with retry and decodes a 200 response into v. api
// names the service in error messages. headers are added to the request.
func GetJSON(ctx context.Context, client *http.Client, api, url, userAgent string, headers map[string]string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("%s API request: %w", api, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{API: api, Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing %s response: %w", api, err)
	}
	return nil
}

package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTP aliases for readibility
type HTTPHeader map[string]string
type HTTPBody []byte

func (h HTTPHeader) Accept(contentType string) HTTPHeader {
	h["Accept"] = contentType
	return h
}

// MaxBodySize bounds how much of a response MakeRequest reads. The full
// table is well under 100 KiB.
var MaxBodySize int64 = 8 << 20

// ErrResponseTooLarge is returned when a response body exceeds MaxBodySize.
var ErrResponseTooLarge = errors.New("response too large")

// MakeRequest() is a wrapper function that condenses simple HTTP
// requests done to a single call. It expects an optional HTTP client,
// URL, HTTP method, request body, and request headers.
//
// Returns a HTTP response object, response body as byte array, and any
// error that may have occurred with making the request.
func MakeRequest(ctx context.Context, client *http.Client, url string, httpMethod string, body HTTPBody, header HTTPHeader) (*http.Response, HTTPBody, error) {
	// use defaults if no client provided
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, httpMethod, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create new HTTP request: %w", err)
	}
	req.Header.Add("User-Agent", "nut-hcl")
	for k, v := range header {
		req.Header.Add(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make request: %w", err)
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, MaxBodySize+1))
	if cerr := res.Body.Close(); cerr != nil {
		log.Warn().Err(cerr).Msg("could not close response resource")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(b)) > MaxBodySize {
		return nil, nil, fmt.Errorf("%w: more than %d bytes from %s", ErrResponseTooLarge, MaxBodySize, url)
	}
	return res, b, nil
}

// FetchTable downloads a published data file, such as the website's
// ups_data.js, and returns its raw contents.
func FetchTable(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	headers := HTTPHeader{}.Accept("application/javascript, application/json;q=0.9, */*;q=0.5")
	res, body, err := MakeRequest(ctx, client, url, http.MethodGet, nil, headers)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("returned status code %d when fetching %s", res.StatusCode, url)
	}
	return body, nil
}

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mini-rodalies-3d/stopboard/internal/errors"
)

// maxBodyBytes caps how much of a response is kept; arrival lists for a
// single stop are a few kilobytes.
const maxBodyBytes = 4 << 20

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Text returns the raw body.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the body into v. Decode failures are protocol failures and
// carry the raw body as an error detail.
func (r *Response) JSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.WithDetail(
			errors.Mark(errors.Wrap(err, "decoding response"), errors.ErrProtocol),
			r.Text())
	}
	return nil
}

// Check returns a *ResponseError for any non-2xx status.
func (r *Response) Check() error {
	if r.StatusCode < 200 || r.StatusCode > 299 {
		return errors.WithDetail(
			errors.Mark(&ResponseError{StatusCode: r.StatusCode, Body: r.Text()}, errors.ErrProtocol),
			r.Text())
	}
	return nil
}

// ResponseError is a non-success status from a source.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Client issues one GET per source per cycle.
type Client interface {
	Get(ctx context.Context, url string, headers http.Header) (*Response, error)
}

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a client whose requests give up after timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs the request and reads the whole body. Only failures to get a
// response at all are returned as errors; status codes are left to Check.
func (c *HTTPClient) Get(ctx context.Context, url string, headers http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Transport(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Transport(err, "failed to read response")
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

package revalidate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPPinger calls the frontend's /api/revalidate endpoint for a route.
type HTTPPinger struct {
	client *resty.Client
	token  string
}

// NewHTTPPinger builds a pinger for the frontend at baseURL. Returns nil
// when baseURL is empty, which disables route revalidation entirely.
func NewHTTPPinger(baseURL, token string) *HTTPPinger {
	if baseURL == "" {
		return nil
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2)
	return &HTTPPinger{client: c, token: token}
}

type revalidateRequest struct {
	Path string `json:"path"`
}

// Revalidate POSTs the route path to the frontend.
func (p *HTTPPinger) Revalidate(ctx context.Context, path string) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.token).
		SetBody(&revalidateRequest{Path: path}).
		Post("/api/revalidate")
	if err != nil {
		return fmt.Errorf("revalidate %s: %w", path, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("revalidate %s: status %d", path, resp.StatusCode())
	}
	return nil
}

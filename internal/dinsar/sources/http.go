package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// HTTPSource downloads a CSV export from an http(s) endpoint.
type HTTPSource struct {
	name    string
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewHTTPSource creates a source for rawURL guarded by its own circuit breaker.
func NewHTTPSource(rawURL string, cfg HTTPClientConfig) (*HTTPSource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("source url %q has no host", rawURL)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "source:" + u.Host + u.Path,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &HTTPSource{
		name:    rawURL,
		url:     rawURL,
		httpCfg: cfg,
		circuit: cb,
	}, nil
}

func (s *HTTPSource) Name() string {
	return s.name
}

// Open fetches the export. The caller must close the returned body.
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/csv")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.name, err)
	}
	return resp.Body, nil
}

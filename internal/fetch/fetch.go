package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/slok/fanout/internal/log"
)

// DefaultTimeout is the default timeout of a single fetch.
const DefaultTimeout = 6100 * time.Millisecond

// Fetcher knows how to get the payload of a URL.
type Fetcher interface {
	// Fetch returns the body of the URL. Any transport or HTTP status failure
	// is returned as a *TransportError.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

//go:generate mockery --case underscore --output fetchmock --outpkg fetchmock --name Fetcher

// TransportError is returned when a fetch fails.
type TransportError struct {
	URL string
	// StatusCode is set when the server answered with a non 2xx status.
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPFetcherConfig is the configuration of the HTTPFetcher.
type HTTPFetcherConfig struct {
	// Client is the HTTP client used for the requests, it can be shared between fetchers.
	Client *http.Client
	// Timeout is applied to every fetch.
	Timeout time.Duration
	// DisableRedirects makes the fetcher fail on redirects instead of following them.
	DisableRedirects bool
	Logger           log.Logger
}

func (c *HTTPFetcherConfig) defaults() error {
	if c.Client == nil {
		c.Client = http.DefaultClient
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout can't be negative")
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "fetch.HTTPFetcher"})
	return nil
}

// HTTPFetcher fetches URLs with HTTP GET requests.
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
	logger  log.Logger
}

// NewHTTPFetcher returns a new HTTPFetcher.
func NewHTTPFetcher(cfg HTTPFetcherConfig) (*HTTPFetcher, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Shallow copy so the redirect policy doesn't change the shared client,
	// the transport (and its connection pool) is still shared.
	client := *cfg.Client
	if cfg.DisableRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	}

	return &HTTPFetcher{
		client:  &client,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}, nil
}

// Fetch satisfies Fetcher interface.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	f.logger.Debugf("Fetched %d bytes from %s", len(body), url)
	return body, nil
}

// NewPooledClient returns an HTTP client with its own connection pool and the
// func that releases its connections. The client is safe for concurrent use.
func NewPooledClient() (*http.Client, func()) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &http.Client{Transport: transport}, transport.CloseIdleConnections
}

// PooledFetcherFactory returns a factory of fetchers that use a fresh pooled
// client each time. The returned func releases the client connections.
func PooledFetcherFactory(cfg HTTPFetcherConfig) func(ctx context.Context) (Fetcher, func(), error) {
	return func(ctx context.Context) (Fetcher, func(), error) {
		client, release := NewPooledClient()
		c := cfg
		c.Client = client
		f, err := NewHTTPFetcher(c)
		if err != nil {
			release()
			return nil, nil, fmt.Errorf("could not create fetcher: %w", err)
		}
		return f, release, nil
	}
}

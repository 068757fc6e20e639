package agenda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/doisellos/storefront/pkg/logging"
)

const (
	defaultBaseURL = "http://ice-club.my"
	defaultPath    = "/get_agenda.php"
)

var agendaTracer = otel.Tracer("storefront.internal.agenda")

// Fetcher retrieves the raw agenda payload for a query. HTTPFetcher talks to
// the PHP endpoint directly or to the serverless relay; both speak the same
// query string and JSON body.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (*Payload, error)
}

// HTTPFetcher issues a single GET per Fetch. It never retries.
type HTTPFetcher struct {
	httpClient *http.Client
	baseURL    string
	path       string
	logger     *logging.Logger
	timeout    *time.Duration
}

// FetcherOption customizes an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.httpClient = c
		}
	}
}

// WithPath overrides the endpoint path, e.g. "/api/agenda" for the relay.
func WithPath(path string) FetcherOption {
	return func(f *HTTPFetcher) {
		if strings.TrimSpace(path) != "" {
			f.path = "/" + strings.TrimLeft(path, "/")
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded. The
// timeout is set on a copy, so a shared client passed to WithHTTPClient is
// never modified.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.timeout = &d
	}
}

// NewHTTPFetcher constructs a fetcher for baseURL.
func NewHTTPFetcher(baseURL string, logger *logging.Logger, opts ...FetcherOption) *HTTPFetcher {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = logging.Default()
	}
	f := &HTTPFetcher{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		path:       defaultPath,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.timeout != nil {
		c := *f.httpClient
		c.Timeout = *f.timeout
		f.httpClient = &c
	}
	return f
}

// Endpoint returns the full URL requested for q.
func (f *HTTPFetcher) Endpoint(q Query) string {
	v := url.Values{}
	v.Set("barbeiro", q.Barber)
	v.Set("data", q.Date)
	return f.baseURL + f.path + "?" + v.Encode()
}

// Fetch performs the GET and decodes the JSON body.
func (f *HTTPFetcher) Fetch(ctx context.Context, q Query) (*Payload, error) {
	ctx, span := agendaTracer.Start(ctx, "agenda.fetch", trace.WithAttributes(
		attribute.String("agenda.barber", q.Barber),
		attribute.String("agenda.date", q.Date),
	))
	defer span.End()

	payload, err := f.fetch(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return payload, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, q Query) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Endpoint(q), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrConnection, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http request: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrConnection, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(body)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		f.logger.Warn("agenda non-2xx response", "status", resp.StatusCode, "barber", q.Barber, "date", q.Date, "body", msg)
		return nil, fmt.Errorf("%w: upstream returned %d", ErrConnection, resp.StatusCode)
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrConnection, err)
	}
	payload.Raw = json.RawMessage(body)
	return &payload, nil
}

package website

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Default configuration values.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultUserAgent    = "ragman/1.0 (+https://github.com/custodia-labs/ragman)"
	DefaultMaxBodyBytes = 10 << 20

	defaultMaxRetries        = 3
	defaultRequestsPerSecond = 2
)

// Config holds website connector configuration.
type Config struct {
	// URL is the page to fetch.
	URL string

	// Timeout is the HTTP client timeout.
	Timeout time.Duration

	// UserAgent identifies the client in requests.
	UserAgent string

	// MaxBodyBytes caps the response size read into memory.
	MaxBodyBytes int64

	// MaxRetries is the retry count for transient failures.
	MaxRetries uint64

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Connector fetches the content of a single web page. Extraction of
// the readable article happens downstream in the html normaliser; this
// connector only speaks HTTP.
type Connector struct {
	sourceID   string
	pageURL    string
	userAgent  string
	maxBody    int64
	maxRetries uint64
	client     *http.Client
	limiter    *rate.Limiter

	mu     sync.Mutex
	closed bool
}

// New creates a website connector. Zero-value config fields fall back
// to the package defaults.
func New(sourceID string, cfg Config) *Connector {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Connector{
		sourceID:   sourceID,
		pageURL:    cfg.URL,
		userAgent:  cfg.UserAgent,
		maxBody:    cfg.MaxBodyBytes,
		maxRetries: cfg.MaxRetries,
		client:     client,
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return domain.SourceTypeWebsite.String()
}

// SourceID returns the source identifier.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// Capabilities returns the connector's capabilities.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsWatch:      false,
		SupportsValidation: true,
	}
}

// Validate checks that the configured URL is well-formed. It does not
// touch the network; unreachable pages surface during Fetch.
func (c *Connector) Validate(ctx context.Context) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return domain.ErrConnectorClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	parsed, err := url.Parse(c.pageURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", c.pageURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", c.pageURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", c.pageURL)
	}
	return nil
}

// Fetch retrieves the page and emits it as a single RawDocument.
// Transient failures (network errors, 429, 5xx) are retried with
// exponential backoff before surfacing.
func (c *Connector) Fetch(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docsChan := make(chan domain.RawDocument)
	errsChan := make(chan error, 1)

	go func() {
		defer close(docsChan)
		defer close(errsChan)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			errsChan <- domain.ErrConnectorClosed
			return
		}
		c.mu.Unlock()

		if err := c.limiter.Wait(ctx); err != nil {
			return
		}

		var (
			body        []byte
			contentType string
		)
		operation := func() error {
			data, mimeType, err := c.get(ctx)
			if err != nil {
				return err
			}
			body = data
			contentType = mimeType
			return nil
		}

		policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
		if err := backoff.Retry(operation, policy); err != nil {
			if ctx.Err() == nil {
				errsChan <- err
			}
			return
		}

		doc := domain.RawDocument{
			ID:         DocumentID(c.pageURL),
			SourceID:   c.sourceID,
			Name:       c.pageURL,
			URI:        c.pageURL,
			MIMEType:   contentType,
			Content:    body,
			SourceKind: domain.SourceKindWebsite,
			FetchedAt:  time.Now(),
		}

		select {
		case <-ctx.Done():
		case docsChan <- doc:
		}
	}()

	return docsChan, errsChan
}

// get performs one HTTP request. Non-retryable failures are wrapped
// with backoff.Permanent.
func (c *Connector) get(ctx context.Context) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return nil, "", backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", c.pageURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Proceed.
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, "", fmt.Errorf("fetch %s: %w", c.pageURL, domain.ErrRateLimited)
	case resp.StatusCode >= 500:
		return nil, "", fmt.Errorf("fetch %s: status %d", c.pageURL, resp.StatusCode)
	default:
		return nil, "", backoff.Permanent(fmt.Errorf("fetch %s: status %d", c.pageURL, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", c.pageURL, err)
	}

	return body, responseMIMEType(resp), nil
}

// Watch is not supported for websites; they are re-synced on an
// interval instead.
func (c *Connector) Watch(_ context.Context) (<-chan domain.RawDocumentChange, error) {
	return nil, domain.ErrNotImplemented
}

// Close marks the connector as closed.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// DocumentID derives the stable document identifier for a page URL.
// The same URL always produces the same ID, so re-fetching a page
// replaces its previous version.
func DocumentID(pageURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(pageURL)).String()
}

// responseMIMEType extracts the media type from the Content-Type
// header, defaulting to text/html.
func responseMIMEType(resp *http.Response) string {
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return "text/html"
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		return "text/html"
	}
	return mediaType
}

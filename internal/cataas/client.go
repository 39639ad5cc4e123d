package cataas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Mode is the response format a fetch expects.
type Mode int

const (
	ModeImage Mode = iota
	ModeHTML
	ModeJSON
)

// Modes lists every fetch mode in cycle order.
var Modes = []Mode{ModeImage, ModeHTML, ModeJSON}

func (m Mode) String() string {
	switch m {
	case ModeHTML:
		return "html"
	case ModeJSON:
		return "json"
	default:
		return "image"
	}
}

// ParseMode maps a mode name back to a Mode, defaulting to ModeImage.
func ParseMode(name string) Mode {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "html":
		return ModeHTML
	case "json":
		return ModeJSON
	default:
		return ModeImage
	}
}

// Fetcher defines the typed fetch operations. It is implemented by *Client and
// can be replaced in tests.
type Fetcher interface {
	Image(ctx context.Context, req Request) (*Image, error)
	HTML(ctx context.Context, req Request) (*HTMLCard, error)
	JSON(ctx context.Context, req Request) (*Record, error)
	Tags(ctx context.Context) ([]string, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the cataas HTTP API.
type Client struct {
	domain    string
	http      *http.Client
	userAgent string
	logger    *log.Logger
}

const (
	defaultUserAgent = "cattery/0.1"
	requestTimeout   = 15 * time.Second
	maxBodyBytes     = 32 << 20
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for response diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for domain; an empty domain uses DefaultDomain.
func NewClient(domain string, opts ...Option) (*Client, error) {
	base, err := parseDomain(domain)
	if err != nil {
		return nil, err
	}
	c := &Client{
		domain:    base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Domain returns the normalised API root.
func (c *Client) Domain() string {
	return c.domain
}

// URL builds the request URL for req against the client's domain.
func (c *Client) URL(req Request) string {
	return BuildURL(c.domain, req.Path, req.Query)
}

// Image fetches raw image bytes. html or json flags are rejected before any
// request is made.
func (c *Client) Image(ctx context.Context, req Request) (*Image, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if req.Query.HTML || req.Query.JSON {
		return nil, &FormatError{HTML: req.Query.HTML, JSON: req.Query.JSON}
	}

	target := c.URL(req)
	body, contentType, err := c.get(ctx, target, "image/*")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(contentType, "image") || len(body) == 0 {
		return nil, &ContentTypeError{Mode: ModeImage, Observed: contentType, Requested: true}
	}

	detected := mimetype.Detect(body)
	return &Image{
		URL:         target,
		ContentType: contentType,
		Detected:    detected.String(),
		Extension:   detected.Extension(),
		Data:        body,
	}, nil
}

// HTML fetches the html=true card for req.
func (c *Client) HTML(ctx context.Context, req Request) (*HTMLCard, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	target := c.URL(req)
	body, contentType, err := c.get(ctx, target, "text/html")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(contentType, "html") {
		c.logger.Printf("cataas: %s returned %q, expected html", target, contentType)
		return nil, &ContentTypeError{Mode: ModeHTML, Observed: contentType, Requested: req.Query.HTML}
	}

	card, err := ParseHTMLCard(c.domain, string(body))
	if err != nil {
		return nil, err
	}
	card.URL = target
	return card, nil
}

// JSON fetches and validates the json=true record for req.
func (c *Client) JSON(ctx context.Context, req Request) (*Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	target := c.URL(req)
	body, contentType, err := c.get(ctx, target, "application/json")
	if err != nil {
		return nil, err
	}
	if !req.Query.JSON || !strings.Contains(contentType, "json") {
		c.logger.Printf("cataas: %s returned %q, expected json: %s", target, contentType, snippet(body))
		return nil, &ContentTypeError{Mode: ModeJSON, Observed: contentType, Requested: req.Query.JSON}
	}

	rec, err := ParseRecord(body)
	if err != nil {
		c.logger.Printf("cataas: %s: %v: %s", target, err, snippet(body))
		return nil, err
	}
	return rec, nil
}

// Tags fetches the tag vocabulary, dropping empty and single-character tags.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	target := TagsURL(c.domain)
	body, _, err := c.get(ctx, target, "application/json")
	if err != nil {
		return nil, err
	}
	var raw []string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		if len(tag) > 1 {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

func (c *Client) get(ctx context.Context, target, accept string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, "", &StatusError{URL: target, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func parseDomain(domain string) (string, error) {
	trimmed := strings.TrimSpace(domain)
	if trimmed == "" {
		trimmed = DefaultDomain
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", domain, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("parse base url %q: missing host", domain)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

func snippet(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

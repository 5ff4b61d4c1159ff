// Package api is the client for the Rewind365 backend API.
//
// Every read falls back to a fixed example payload when the backend cannot
// be reached, unless the client was built with WithFallback(false). The
// returned Result records which of the two the caller got.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bryan-buckman/rewind365/internal/model"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultHTTPTimeout bounds every request made by the client.
	DefaultHTTPTimeout = 10 * time.Second
)

// API paths.
const (
	PathChannels    = "/api/teams/channels"
	PathFolders     = "/api/outlook/folders"
	PathPreferences = "/api/preferences"
	PathDigest      = "/api/digest"
)

// ErrStatus is matched by errors returned for non-2xx responses.
var ErrStatus = errors.New("unexpected status")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %s: %d %s", e.Method, e.Path, ErrStatus, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Origin tells whether data came from the backend or from the built-in
// fallback payload.
type Origin int

const (
	OriginLive Origin = iota
	OriginFallback
)

func (o Origin) String() string {
	switch o {
	case OriginLive:
		return "live"
	case OriginFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// Result is the outcome of a read. Exactly one of these holds:
//   - Err == nil, Origin == OriginLive: Data came from the backend.
//   - Err == nil, Origin == OriginFallback: the request failed with Cause
//     and Data is the example payload.
//   - Err != nil: the request failed and fallback is disabled.
type Result[T any] struct {
	Data   T
	Origin Origin
	Cause  error
	Err    error
}

// Fallback reports whether Data is synthetic.
func (r Result[T]) Fallback() bool {
	return r.Err == nil && r.Origin == OriginFallback
}

// WriteReceipt describes a preferences write. Callers are not required to
// look at it: a write always "succeeds" from the UI's point of view.
type WriteReceipt struct {
	Delivered bool
	Cause     error
}

// Client talks to the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	fallback   bool
	logger     *log.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithFallback enables or disables the example-payload fallback.
func WithFallback(enabled bool) Option {
	return func(c *Client) { c.fallback = enabled }
}

// WithLogger sets the logger used for request failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock sets the clock used to timestamp fallback digests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a client for the API at baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		fallback:   true,
		logger:     log.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FallbackEnabled reports whether reads fall back to example payloads.
func (c *Client) FallbackEnabled() bool {
	return c.fallback
}

// ListChannels returns the Teams channels available to the user.
func (c *Client) ListChannels(ctx context.Context) Result[[]model.Channel] {
	var channels []model.Channel
	if err := c.getJSON(ctx, PathChannels, &channels); err != nil {
		c.logger.Printf("api: failed to fetch Teams channels from %s: %v", c.baseURL+PathChannels, err)
		return fallbackResult(c.fallback, err, FallbackChannels())
	}
	return Result[[]model.Channel]{Data: channels, Origin: OriginLive}
}

// ListFolders returns the Outlook folders available to the user.
func (c *Client) ListFolders(ctx context.Context) Result[[]model.Folder] {
	var folders []model.Folder
	if err := c.getJSON(ctx, PathFolders, &folders); err != nil {
		c.logger.Printf("api: failed to fetch Outlook folders from %s: %v", c.baseURL+PathFolders, err)
		return fallbackResult(c.fallback, err, FallbackFolders())
	}
	return Result[[]model.Folder]{Data: folders, Origin: OriginLive}
}

// ReadPreferences returns the saved preferences, or nil Data if the user
// has none. The fallback for preferences is "none".
func (c *Client) ReadPreferences(ctx context.Context) Result[*model.UserPreferences] {
	var prefs *model.UserPreferences
	if err := c.getJSON(ctx, PathPreferences, &prefs); err != nil {
		c.logger.Printf("api: failed to get preferences from %s: %v", c.baseURL+PathPreferences, err)
		return fallbackResult[*model.UserPreferences](c.fallback, err, nil)
	}
	return Result[*model.UserPreferences]{Data: prefs, Origin: OriginLive}
}

// WritePreferences saves prefs. Failures are logged and swallowed.
func (c *Client) WritePreferences(ctx context.Context, prefs model.UserPreferences) WriteReceipt {
	if prefs.SelectedChannels == nil {
		prefs.SelectedChannels = []string{}
	}
	if prefs.SelectedFolders == nil {
		prefs.SelectedFolders = []string{}
	}
	body, err := json.Marshal(prefs)
	if err == nil {
		err = c.do(ctx, http.MethodPost, PathPreferences, bytes.NewReader(body), nil)
	}
	if err != nil {
		c.logger.Printf("api: failed to save preferences to %s: %v", c.baseURL+PathPreferences, err)
		c.logger.Printf("api: preferences not saved: channels=%v folders=%v", prefs.SelectedChannels, prefs.SelectedFolders)
		return WriteReceipt{Cause: err}
	}
	return WriteReceipt{Delivered: true}
}

// ReadDailyDigest returns today's digest.
func (c *Client) ReadDailyDigest(ctx context.Context) Result[model.DailyDigest] {
	var digest model.DailyDigest
	if err := c.getJSON(ctx, PathDigest, &digest); err != nil {
		c.logger.Printf("api: failed to fetch daily digest from %s: %v", c.baseURL+PathDigest, err)
		return fallbackResult(c.fallback, err, FallbackDigest(c.now()))
	}
	return Result[model.DailyDigest]{Data: digest, Origin: OriginLive}
}

func fallbackResult[T any](enabled bool, cause error, data T) Result[T] {
	if !enabled {
		var zero T
		return Result[T]{Data: zero, Err: cause}
	}
	return Result[T]{Data: data, Origin: OriginFallback, Cause: cause}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do performs one request. out may be nil, in which case the body is
// discarded.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"semaphore/portal/internal/auth"
	"semaphore/portal/internal/cache"
)

// Client talks to the LMS backend on behalf of the session found in the
// request context. Every call is a single attempt.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      cache.Store
	cacheTTL   time.Duration
	observe    func(method string, status int)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithCache enables tagged read caching.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// WithObserver is called after every backend round trip; status is 0 when
// the transport failed.
func WithObserver(fn func(method string, status int)) Option {
	return func(c *Client) {
		c.observe = fn
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		observe:    func(string, int) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestOptions struct {
	tags []string
}

type RequestOption func(*requestOptions)

// WithTags marks a GET as cacheable under the given tags.
func WithTags(tags ...string) RequestOption {
	return func(o *requestOptions) {
		o.tags = append(o.tags, tags...)
	}
}

func (c *Client) Do(ctx context.Context, method, path string, query Query, body, out interface{}, opts ...RequestOption) error {
	session := auth.SessionFrom(ctx)
	if !session.HasToken() {
		return ErrNoSession
	}
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	cacheable := method == http.MethodGet && c.cache != nil && len(ro.tags) > 0
	key := ""
	if cacheable {
		key = cacheKey(session.AccessToken, endpoint)
		data, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Printf("cache get %s: %v", path, err)
		} else if ok {
			return decodeInto(data, out)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, 0)
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()
	c.observe(method, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}
	if cacheable {
		if err := c.cache.Set(ctx, key, data, c.cacheTTL, ro.tags...); err != nil {
			log.Printf("cache set %s: %v", path, err)
		}
	}
	return decodeInto(data, out)
}

// Invalidate drops every cached read carrying one of the tags.
func (c *Client) Invalidate(ctx context.Context, tags ...string) error {
	if c.cache == nil || len(tags) == 0 {
		return nil
	}
	return c.cache.InvalidateTags(ctx, tags...)
}

func decodeInto(data []byte, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}
	return nil
}

// cacheKey scopes cached reads to the token that fetched them.
func cacheKey(token, endpoint string) string {
	sum := sha256.Sum256([]byte(token + "|" + endpoint))
	return hex.EncodeToString(sum[:])
}

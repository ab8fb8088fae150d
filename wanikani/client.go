// Package wanikani implements a typed client for the WaniKani v2 API.
// It layers conditional requests, rate governing, and cursor pagination over
// the envelope model in the resource package, so callers work with decoded
// resources and never with raw HTTP.
package wanikani

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/crabigator-dev/wanikani-go/cache"
	"github.com/crabigator-dev/wanikani-go/ratelimit"
	"github.com/crabigator-dev/wanikani-go/resource"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTANTS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// BaseURL is the production API root.
	BaseURL = "https://api.wanikani.com/v2"

	// APIVersion is the revision this client is written against, sent with
	// every request in the Wanikani-Revision header.
	APIVersion = "20170710"

	headerRevision = "Wanikani-Revision"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the WaniKani API client.
type ClientConfig struct {
	// Token is the personal access token used as a Bearer credential.
	Token string

	// BaseURL overrides the API root. Defaults to BaseURL.
	BaseURL string

	// Revision overrides the Wanikani-Revision header. Defaults to APIVersion.
	Revision string

	// Timeout is the HTTP request timeout. Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the underlying HTTP client.
	HTTPClient *http.Client

	// Store backs the conditional-request cache. Defaults to an in-memory
	// store; pass a cache.Redis to share validators across processes.
	Store cache.Store

	// Logger for structured logging.
	Logger *slog.Logger

	// Debug enables per-request debug logging.
	Debug bool
}

// DefaultClientConfig returns sensible defaults for the given token.
func DefaultClientConfig(token string) ClientConfig {
	return ClientConfig{
		Token:    token,
		BaseURL:  BaseURL,
		Revision: APIVersion,
		Timeout:  30 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the WaniKani API client. All exported methods are safe for
// concurrent use; the governor and cache serialize their own state.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	governor   *ratelimit.Governor
	cache      *cache.Conditional
}

// NewClient creates a new WaniKani API client.
func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.Revision == "" {
		config.Revision = APIVersion
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     config.Logger,
		governor:   ratelimit.NewGovernor(),
		cache:      cache.NewConditional(config.Store),
	}
}

// RateLimit returns the quota state observed on the most recent response.
func (c *Client) RateLimit() ratelimit.Snapshot {
	return c.governor.State()
}

// GetResourceByURL fetches and decodes an arbitrary API URL. The URL must be
// under the client's base URL; collections' next_url and previous_url links
// are the intended inputs.
func (c *Client) GetResourceByURL(ctx context.Context, fullURL string) (resource.Envelope, error) {
	return c.do(ctx, http.MethodGet, fullURL, nil)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST PIPELINE
// ══════════════════════════════════════════════════════════════════════════════

// get fetches a path relative to the base URL with optional query parameters.
func (c *Client) get(ctx context.Context, path string, query url.Values) (resource.Envelope, error) {
	fullURL := c.config.BaseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, fullURL, nil)
}

// collectionURL joins a collection path with its encoded filter.
func (c *Client) collectionURL(path string, query url.Values) string {
	fullURL := c.config.BaseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	return fullURL
}

// getResource fetches a path expected to produce a singular resource.
func (c *Client) getResource(ctx context.Context, path string) (*resource.Resource, error) {
	env, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	res, ok := env.(*resource.Resource)
	if !ok {
		return nil, fmt.Errorf("wanikani: %s: expected a singular resource, got %s", path, env.CommonData().Object)
	}
	return res, nil
}

// send performs a write request and decodes the resulting envelope.
func (c *Client) send(ctx context.Context, method, path string, body any) (*resource.Resource, error) {
	env, err := c.do(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	res, ok := env.(*resource.Resource)
	if !ok {
		return nil, fmt.Errorf("wanikani: %s: expected a singular resource, got %s", path, env.CommonData().Object)
	}
	return res, nil
}

// do runs the full pipeline for one logical request: wait out the governor,
// attach auth and conditional validators, execute, feed the response headers
// back to the governor, then map the status to an envelope or a typed error.
// A 429 is retried exactly once after the advertised reset.
func (c *Client) do(ctx context.Context, method, fullURL string, body any) (resource.Envelope, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = marshalBody(body)
		if err != nil {
			return nil, err
		}
	}

	conditional := method == http.MethodGet
	key := cache.Key{Method: method, URL: fullURL, Revision: c.config.Revision}

	for attempt := 0; ; attempt++ {
		if err := c.waitQuota(ctx); err != nil {
			return nil, err
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.config.Token)
		req.Header.Set(headerRevision, c.config.Revision)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json; charset=utf-8")
		}

		if conditional {
			v, err := c.cache.Prepare(ctx, key)
			if err != nil {
				// A broken validator store degrades to unconditional
				// requests, it never fails them.
				c.logger.Warn("validator lookup failed", "url", fullURL, "error", err)
			}
			switch {
			case v.ETag != "":
				req.Header.Set("If-None-Match", v.ETag)
			case v.LastModified != "":
				req.Header.Set("If-Modified-Since", v.LastModified)
			}
		}

		if c.config.Debug {
			c.logger.Debug("wanikani api request", "method", method, "url", fullURL, "attempt", attempt)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, &TransportError{Op: "http request", Err: err}
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		// Headers are fed back on every response, success or failure.
		c.governor.Observe(resp.Header)

		if readErr != nil {
			return nil, &TransportError{Op: "read response", Err: readErr}
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated:
			env, err := resource.Decode(respBody)
			if err != nil {
				return nil, err
			}
			if conditional {
				c.storeValidators(ctx, key, resp.Header, env, respBody)
			}
			return env, nil

		case http.StatusNotModified:
			return c.cache.NotModified(ctx, key)

		case http.StatusTooManyRequests:
			c.governor.MarkExhausted(resp.Header)
			if attempt == 0 {
				c.logger.Debug("quota exhausted, retrying after reset", "url", fullURL)
				continue
			}
			return nil, &RateLimitedError{Reset: c.governor.State().Reset}

		case http.StatusUnauthorized, http.StatusForbidden:
			// Both mean the token is no good for this request; neither
			// recovers without a new token.
			return nil, &AuthError{Message: apiMessage(respBody, "invalid token")}

		case http.StatusNotFound:
			return nil, &NotFoundError{URL: fullURL}

		case http.StatusUnprocessableEntity:
			return nil, &ValidationError{Message: apiMessage(respBody, "unprocessable entity")}

		default:
			return nil, &APIError{StatusCode: resp.StatusCode, Message: apiMessage(respBody, "")}
		}
	}
}

// waitQuota blocks until the governor allows a request or the context ends.
func (c *Client) waitQuota(ctx context.Context) error {
	delay := c.governor.Delay()
	if delay <= 0 {
		return nil
	}

	if c.config.Debug {
		c.logger.Debug("waiting for quota", "delay", delay)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func marshalBody(body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	return payload, nil
}

// storeValidators records the response's ETag and Last-Modified for future
// conditional requests. Store failures are logged, never surfaced: the next
// request simply goes out unconditional.
func (c *Client) storeValidators(ctx context.Context, key cache.Key, headers http.Header, env resource.Envelope, body []byte) {
	v := cache.Validators{
		ETag:         headers.Get("Etag"),
		LastModified: headers.Get("Last-Modified"),
	}
	if v.ETag == "" && v.LastModified == "" {
		return
	}

	if err := c.cache.ObserveSuccess(ctx, key, v, env.CommonData().DataUpdatedAt, body); err != nil {
		c.logger.Warn("validator store failed", "url", key.URL, "error", err)
	}
}

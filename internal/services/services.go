// Package services is the single HTTP client of the backend REST API. It owns
// the base URL, forwards the session's bearer token, turns a 401 into
// ErrUnauthorized and fronts reads with the query cache.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"admin-dashboard/internal/auth"
	"admin-dashboard/internal/cache"
	"admin-dashboard/internal/config"
	"admin-dashboard/internal/resilience"
	"admin-dashboard/internal/telemetry"
)

// Cached resources. Mutations invalidate by these names.
const (
	ResourceProducts   = "products"
	ResourceUsers      = "users"
	ResourceLogs       = "logs"
	ResourceAliExpress = "aliexpress"
	ResourceSNS        = "sns"
	ResourceDashboard  = "dashboard"
)

const maxErrorBody = 64 << 10

// QueryCache stores GET responses between page loads.
type QueryCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	InvalidateResource(ctx context.Context, resource string) error
}

type ServiceClient struct {
	baseURL    string
	healthURL  string
	client     *http.Client
	cache      QueryCache
	cacheTTL   time.Duration
	retries    int
	retryDelay time.Duration

	aliexpressCB *resilience.CircuitBreaker
}

// NewServiceClient builds the client. qc may be nil to disable query caching.
func NewServiceClient(cfg *config.Config, qc QueryCache) *ServiceClient {
	return &ServiceClient{
		baseURL:    cfg.APIBase(),
		healthURL:  strings.TrimRight(cfg.APIURL, "/") + "/health",
		client:     &http.Client{Timeout: cfg.RequestTimeout},
		cache:      qc,
		cacheTTL:   cfg.CacheTTL,
		retries:    cfg.QueryRetries,
		retryDelay: cfg.RetryDelay,

		aliexpressCB: resilience.NewCircuitBreaker("aliexpress", cfg.BreakerThreshold, cfg.BreakerTimeout),
	}
}

// call describes one backend request. endpoint is the route template used as
// the metrics label; resource selects the cache namespace.
type call struct {
	method   string
	endpoint string
	path     string
	params   url.Values
	body     any
	resource string
}

func (c call) pathAndQuery() string {
	if len(c.params) == 0 {
		return c.path
	}
	return c.path + "?" + c.params.Encode()
}

// query performs a GET through the cache with the configured retry budget.
func (s *ServiceClient) query(ctx context.Context, c call, target any) error {
	c.method = http.MethodGet

	var key string
	if s.cache != nil && c.resource != "" {
		key = cache.QueryKey(c.resource, auth.TokenFromContext(ctx), c.pathAndQuery())
		if data, err := s.cache.Get(ctx, key); err == nil {
			if err := json.Unmarshal(data, target); err == nil {
				telemetry.ObserveCache(c.resource, true)
				return nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.WarnContext(ctx, "Query cache read failed", "key", key, "error", err)
		}
		telemetry.ObserveCache(c.resource, false)
	}

	var data []byte
	err := resilience.Retry(ctx, s.retries+1, s.retryDelay, isRetryable, func() error {
		var err error
		data, err = s.do(ctx, c, s.baseURL)
		return err
	})
	if err != nil {
		return err
	}

	if err := decode(data, target); err != nil {
		return fmt.Errorf("decode %s: %w", c.endpoint, err)
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			slog.WarnContext(ctx, "Query cache write failed", "key", key, "error", err)
		}
	}
	return nil
}

// mutate sends a non-GET request once and, on success, drops the cached
// queries of every resource it may have changed.
func (s *ServiceClient) mutate(ctx context.Context, c call, target any, invalidate ...string) error {
	data, err := s.do(ctx, c, s.baseURL)
	if err != nil {
		return err
	}

	if s.cache != nil {
		for _, resource := range invalidate {
			if err := s.cache.InvalidateResource(ctx, resource); err != nil {
				slog.WarnContext(ctx, "Query cache invalidation failed", "resource", resource, "error", err)
			}
		}
	}

	if target == nil {
		return nil
	}
	if err := decode(data, target); err != nil {
		return fmt.Errorf("decode %s: %w", c.endpoint, err)
	}
	return nil
}

func (s *ServiceClient) do(ctx context.Context, c call, base string) ([]byte, error) {
	var body io.Reader
	if c.body != nil {
		payload, err := json.Marshal(c.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", c.endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, base+c.pathAndQuery(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := auth.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := telemetry.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(telemetry.RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		telemetry.ObserveUpstream(c.method, c.endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("%s %s: %w", c.method, c.endpoint, err)
	}
	defer resp.Body.Close()
	telemetry.ObserveUpstream(c.method, c.endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			Method:     c.method,
			Endpoint:   c.endpoint,
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(raw),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", c.endpoint, err)
	}
	return data, nil
}

// guarded runs an AliExpress read behind the breaker. Client errors do not
// count as breaker failures.
func (s *ServiceClient) guarded(ctx context.Context, c call, target any) error {
	var clientErr error
	err := s.aliexpressCB.Execute(func() error {
		err := s.query(ctx, c, target)
		if err != nil && !isRetryable(err) {
			clientErr = err
			return nil
		}
		return err
	})
	if clientErr != nil {
		return clientErr
	}
	return err
}

func decode(data []byte, target any) error {
	if target == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}

func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled)
}

// params drops empty values so the backend applies its own defaults.
type params url.Values

func (p params) setStr(key, value string) params {
	if value = strings.TrimSpace(value); value != "" {
		url.Values(p).Set(key, value)
	}
	return p
}

func (p params) setInt(key string, value int) params {
	if value > 0 {
		url.Values(p).Set(key, strconv.Itoa(value))
	}
	return p
}

func (p params) setFloat(key string, value float64) params {
	if value > 0 {
		url.Values(p).Set(key, strconv.FormatFloat(value, 'f', -1, 64))
	}
	return p
}

func (p params) values() url.Values {
	return url.Values(p)
}

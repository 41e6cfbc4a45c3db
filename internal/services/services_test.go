package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-dashboard/internal/auth"
	"admin-dashboard/internal/cache"
	"admin-dashboard/internal/config"
	"admin-dashboard/internal/models"
	"admin-dashboard/internal/resilience"
)

func testConfig(url string) *config.Config {
	cfg := config.NewConfig()
	cfg.APIURL = url
	cfg.RetryDelay = time.Millisecond
	cfg.RequestTimeout = 2 * time.Second
	return cfg
}

func sessionCtx(token string) context.Context {
	return auth.WithToken(context.Background(), token)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListProducts_AttachesTokenAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "lamp", r.URL.Query().Get("search"))
		writeJSON(w, http.StatusOK, []models.Product{{ID: 1, Title: "Desk lamp"}})
	}))
	defer srv.Close()

	c := NewServiceClient(testConfig(srv.URL), nil)
	products, err := c.ListProducts(sessionCtx("tok"), 2, 20, "lamp")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Desk lamp", products[0].Title)
}

func TestQuery_OmitsEmptyParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("search"))
		assert.False(t, r.URL.Query().Has("level"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, []models.LogEntry{})
	}))
	defer srv.Close()

	c := NewServiceClient(testConfig(srv.URL), nil)
	logs, err := c.ListLogs(sessionCtx("tok"), models.LogFilter{Page: 1, Limit: 50, Search: "  "})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, models.PlatformList{})
	}))
	defer srv.Close()

	_, err := NewServiceClient(testConfig(srv.URL), nil).Platforms(context.Background())
	require.NoError(t, err)
}

func TestUnauthorized(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
	}))
	defer srv.Close()

	_, err := NewServiceClient(testConfig(srv.URL), nil).GetProduct(sessionCtx("expired"), "7")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), hits.Load(), "401 must not be retried")
}

func TestQuery_RetriesOnceOnServerError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "upstream"})
			return
		}
		writeJSON(w, http.StatusOK, []models.User{{ID: 3, Username: "kim"}})
	}))
	defer srv.Close()

	users, err := NewServiceClient(testConfig(srv.URL), nil).ListUsers(sessionCtx("tok"), 1, 20, "")

	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int32(2), hits.Load())
}

func TestQuery_GivesUpAfterSingleRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewServiceClient(testConfig(srv.URL), nil).ListUsers(sessionCtx("tok"), 1, 20, "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, int32(2), hits.Load())
}

func TestQuery_DoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Product not found"})
	}))
	defer srv.Close()

	_, err := NewServiceClient(testConfig(srv.URL), nil).GetProduct(sessionCtx("tok"), "404")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Product not found", apiErr.Detail)
	assert.Equal(t, "Product not found", UserMessage(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestMutation_NeverRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewServiceClient(testConfig(srv.URL), nil).SyncShopify(sessionCtx("tok"))

	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestMutation_SendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/aliexpress/import-batch", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body models.BatchImportRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"a1", "b2"}, body.ProductIDs)
		writeJSON(w, http.StatusOK, models.BatchImportResult{NewProducts: []string{"a1"}, ExistingProducts: []string{"b2"}})
	}))
	defer srv.Close()

	out, err := NewServiceClient(testConfig(srv.URL), nil).ImportBatch(sessionCtx("tok"), []string{"a1", "b2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, out.ExistingProducts)
}

func TestCache_ServesRepeatedQueriesAndInvalidatesOnMutation(t *testing.T) {
	mr := miniredis.RunT(t)
	qc, err := cache.NewClient(mr.Addr())
	require.NoError(t, err)
	defer qc.Close()

	var listHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/products":
			listHits.Add(1)
			writeJSON(w, http.StatusOK, []models.Product{{ID: 1, Title: "Mug"}})
		case r.Method == http.MethodDelete:
			writeJSON(w, http.StatusOK, models.Message{Message: "deleted"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewServiceClient(testConfig(srv.URL), qc)
	ctx := sessionCtx("tok")

	for i := 0; i < 2; i++ {
		_, err := c.ListProducts(ctx, 1, 20, "")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), listHits.Load())

	_, err = c.DeleteProduct(ctx, "1")
	require.NoError(t, err)

	_, err = c.ListProducts(ctx, 1, 20, "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), listHits.Load())
}

func TestCache_IsScopedPerSession(t *testing.T) {
	mr := miniredis.RunT(t)
	qc, err := cache.NewClient(mr.Addr())
	require.NoError(t, err)
	defer qc.Close()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, []models.User{})
	}))
	defer srv.Close()

	c := NewServiceClient(testConfig(srv.URL), qc)
	_, err = c.ListUsers(sessionCtx("alice"), 1, 20, "")
	require.NoError(t, err)
	_, err = c.ListUsers(sessionCtx("bob"), 1, 20, "")
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
}

func TestAliExpressBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.QueryRetries = 0
	cfg.BreakerThreshold = 2
	cfg.BreakerTimeout = time.Minute
	c := NewServiceClient(cfg, nil)
	ctx := sessionCtx("tok")

	for i := 0; i < 2; i++ {
		_, err := c.TrendingAliExpress(ctx, "Home & Garden", 10)
		require.Error(t, err)
	}
	_, err := c.SearchAliExpress(ctx, models.AliExpressQuery{Keyword: "lamp"})

	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(2), hits.Load())
}

func TestAliExpressClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "field required"}},
		})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.BreakerThreshold = 1
	c := NewServiceClient(cfg, nil)

	for i := 0; i < 3; i++ {
		_, err := c.SearchAliExpress(sessionCtx("tok"), models.AliExpressQuery{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "field required", apiErr.Detail)
	}
	assert.Equal(t, resilience.StateClosed, c.aliexpressCB.State())
}

func TestHealthUsesUnversionedRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		writeJSON(w, http.StatusOK, models.Health{Status: "healthy"})
	}))
	defer srv.Close()

	h, err := NewServiceClient(testConfig(srv.URL), nil).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
}

func TestExportLogsCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		assert.Equal(t, "error", r.URL.Query().Get("level"))
		writeJSON(w, http.StatusOK, models.LogCSVExport{CSVData: "id,level\n1,ERROR\n"})
	}))
	defer srv.Close()

	out, err := NewServiceClient(testConfig(srv.URL), nil).ExportLogsCSV(sessionCtx("tok"), models.LogFilter{Level: "error"})
	require.NoError(t, err)
	assert.Equal(t, "id,level\n1,ERROR\n", out)
}

func TestGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/7", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":7,"username":"kim","email":"kim@example.com","is_active":false,"is_superuser":true}`))
	}))
	defer srv.Close()

	c := NewServiceClient(testConfig(srv.URL), nil)
	u, err := c.GetUser(sessionCtx("tok"), "7")

	require.NoError(t, err)
	assert.Equal(t, 7, u.ID)
	assert.Equal(t, "kim", u.Username)
	assert.False(t, u.IsActive)
	assert.True(t, u.IsSuperuser)
}

func TestGetAliExpressProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/aliexpress/product/1005001", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"1005001","title":"LED desk lamp","price":"$4.99","orders":1520,"rating":4.7}`))
	}))
	defer srv.Close()

	c := NewServiceClient(testConfig(srv.URL), nil)
	p, err := c.GetAliExpressProduct(sessionCtx("tok"), "1005001")

	require.NoError(t, err)
	assert.Equal(t, "LED desk lamp", p.Title)
	assert.Equal(t, "$4.99", p.Price)
	assert.Equal(t, 1520, p.Orders)
	assert.InDelta(t, 4.7, p.Rating, 0.001)
}

// Command backend-stub serves an in-memory copy of the shop backend API so the
// dashboard can be run and demoed without the real service.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"admin-dashboard/internal/models"
)

type server struct {
	store *store
	token string
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	addr := ":" + getEnv("STUB_PORT", "8000")
	srv := &server{store: newStore(time.Now), token: os.Getenv("STUB_TOKEN")}

	slog.Info("Backend stub listening", "addr", addr, "token_required", srv.token != "")
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		slog.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	api := func(pattern string, fn http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(method+" /api/v1"+path, s.authorized(fn))
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Health{Status: "healthy"})
	})

	api("GET /products", s.listProducts)
	api("GET /products/{id}", s.getProduct)
	api("PUT /products/{id}", s.updateProduct)
	api("DELETE /products/{id}", s.deleteProduct)
	api("POST /products/sync-shopify", s.syncShopify)

	api("GET /users", s.listUsers)
	api("GET /users/{id}", s.getUser)
	api("POST /users", s.createUser)
	api("PUT /users/{id}", s.updateUser)
	api("DELETE /users/{id}", s.deleteUser)
	api("POST /users/{id}/activate", s.setUserActive(true))
	api("POST /users/{id}/deactivate", s.setUserActive(false))

	api("GET /logs", s.listLogs)
	api("DELETE /logs", s.clearLogs)
	api("GET /logs/realtime", s.realtimeLogs)
	api("GET /logs/stats", s.logStats)
	api("GET /logs/errors", s.errorLogs)
	api("GET /logs/export", s.exportLogs)

	api("GET /aliexpress/search", s.searchAliExpress)
	api("GET /aliexpress/trending", s.trendingAliExpress)
	api("GET /aliexpress/product/{id}", s.aliexpressProduct)
	api("POST /aliexpress/import", s.importProduct)
	api("POST /aliexpress/import-batch", s.importBatch)
	api("GET /aliexpress/import-status", s.importStatus)

	api("GET /sns/content/{id}", s.listContent)
	api("POST /sns/generate/{id}", s.generateContent)
	api("PUT /sns/content/{id}", s.updateContent)
	api("POST /sns/content/{id}/regenerate", s.regenerateContent)
	api("GET /sns/platforms", s.platforms)
	api("GET /sns/analytics", s.analytics)

	api("GET /dashboard/stats", s.dashboardStats)
	api("GET /dashboard/recent-activity", s.recentActivity)
	api("GET /dashboard/sales", s.sales)

	return mux
}

// authorized requires a bearer token, and the configured one when set.
func (s *server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" || (s.token != "" && token != s.token) {
			slog.Warn("Rejected request", "path", r.URL.Path)
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func message(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, models.Message{Message: msg})
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return false
	}
	return true
}

func (s *server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.store.listProducts(q.Get("search"), queryInt(r, "page", 1), queryInt(r, "limit", 20)))
}

func (s *server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, found := s.store.product(id)
	if !found {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var upd models.ProductUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	if !s.store.updateProduct(id, upd) {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	message(w, "Product updated successfully")
}

func (s *server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !s.store.deleteProduct(id) {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	message(w, "Product deleted successfully")
}

func (s *server) syncShopify(w http.ResponseWriter, r *http.Request) {
	message(w, "Shopify sync started in the background")
}

func (s *server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.store.listUsers(q.Get("search"), queryInt(r, "page", 1), queryInt(r, "limit", 20)))
}

func (s *server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, found := s.store.user(id)
	if !found {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *server) createUser(w http.ResponseWriter, r *http.Request) {
	var in models.UserCreate
	if !decodeBody(w, r, &in) {
		return
	}
	u, ok := s.store.createUser(in)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Username or email already registered")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var upd models.UserUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	found := s.store.editUser(id, func(u *models.User) {
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.FullName != nil {
			u.FullName = *upd.FullName
		}
		if upd.IsSuperuser != nil {
			u.IsSuperuser = *upd.IsSuperuser
		}
	})
	if !found {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	message(w, "User updated successfully")
}

func (s *server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !s.store.editUser(id, nil) {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	message(w, "User deleted successfully")
}

func (s *server) setUserActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if !s.store.editUser(id, func(u *models.User) { u.IsActive = active }) {
			writeDetail(w, http.StatusNotFound, "User not found")
			return
		}
		if active {
			message(w, "User activated successfully")
			return
		}
		message(w, "User deactivated successfully")
	}
}

func (s *server) listLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	logs := s.store.filterLogs(q.Get("level"), q.Get("module"), q.Get("search"))
	writeJSON(w, http.StatusOK, page(logs, queryInt(r, "page", 1), queryInt(r, "limit", 50)))
}

func (s *server) clearLogs(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)
	n := s.store.clearLogs(days)
	writeJSON(w, http.StatusOK, models.ClearLogsResult{
		Message:      "Old logs deleted",
		DeletedCount: n,
	})
}

func (s *server) realtimeLogs(w http.ResponseWriter, r *http.Request) {
	logs := s.store.logsAfter(queryInt(r, "last_id", 0))
	latest := queryInt(r, "last_id", 0)
	if len(logs) > 0 {
		latest = logs[0].ID
	}
	writeJSON(w, http.StatusOK, models.RealtimeLogs{Logs: logs, LatestID: latest})
}

func (s *server) logStats(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	st := s.store.logStats()
	st.DateRange = models.DateRange{
		Start: time.Now().AddDate(0, 0, -days).Format(time.RFC3339),
		End:   time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *server) errorLogs(w http.ResponseWriter, r *http.Request) {
	logs := s.store.filterLogs("ERROR", "", "")
	writeJSON(w, http.StatusOK, page(logs, queryInt(r, "page", 1), queryInt(r, "limit", 20)))
}

func (s *server) exportLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	logs := s.store.filterLogs(q.Get("level"), "", "")

	if q.Get("format") != "csv" {
		writeJSON(w, http.StatusOK, models.LogExport{Logs: logs})
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	_ = cw.Write([]string{"id", "level", "message", "module", "function", "created_at"})
	for _, l := range logs {
		_ = cw.Write([]string{strconv.Itoa(l.ID), l.Level, l.Message, l.Module, l.Function, l.CreatedAt})
	}
	cw.Flush()
	writeJSON(w, http.StatusOK, models.LogCSVExport{CSVData: buf.String()})
}

var catalogue = []models.AliExpressProduct{
	{ID: "1005001", Title: "LED desk lamp", Price: "$4.99", Orders: 1520, Rating: 4.7},
	{ID: "1005002", Title: "Bluetooth earbuds", Price: "$12.30", Orders: 8400, Rating: 4.5},
	{ID: "1005003", Title: "Silicone kitchen set", Price: "$7.80", Orders: 640, Rating: 4.6},
	{ID: "1005004", Title: "Running armband", Price: "$3.10", Orders: 95, Rating: 4.2},
}

func (s *server) searchAliExpress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keyword := strings.ToLower(q.Get("keyword"))
	if keyword == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "keyword is required")
		return
	}
	minOrders := queryInt(r, "min_orders", 0)

	out := []models.AliExpressProduct{}
	for _, p := range catalogue {
		if strings.Contains(strings.ToLower(p.Title), keyword) && p.Orders >= minOrders {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, models.AliExpressSearchResult{
		Products: out,
		Total:    len(out),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 20),
	})
}

func (s *server) trendingAliExpress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.TrendingResult{
		Products: catalogue,
		Category: r.URL.Query().Get("category"),
		Total:    len(catalogue),
	})
}

func (s *server) aliexpressProduct(w http.ResponseWriter, r *http.Request) {
	for _, p := range catalogue {
		if p.ID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Product not found")
}

func (s *server) importProduct(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("product_id")
	if id == "" {
		var req models.ImportRequest
		if !decodeBody(w, r, &req) {
			return
		}
		id = req.ProductID
	}
	s.store.importProduct(id)
	writeJSON(w, http.StatusOK, models.ImportResult{
		Message:   "Product import started",
		ProductID: id,
		Status:    "processing",
	})
}

func (s *server) importBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchImportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	for _, id := range req.ProductIDs {
		s.store.importProduct(id)
	}
	writeJSON(w, http.StatusOK, models.BatchImportResult{
		Message:     strconv.Itoa(len(req.ProductIDs)) + " products queued for import",
		NewProducts: req.ProductIDs,
		Status:      "processing",
	})
}

func (s *server) importStatus(w http.ResponseWriter, r *http.Request) {
	imports := s.store.imports()
	writeJSON(w, http.StatusOK, models.ImportStatus{RecentImports: imports, TotalImported: len(imports)})
}

func (s *server) listContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.store.contentFor(id, r.URL.Query().Get("platform")))
}

func (s *server) generateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, found := s.store.product(id); !found {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	req := models.GenerateRequest{
		Platform:    r.URL.Query().Get("platform"),
		ContentType: r.URL.Query().Get("content_type"),
	}
	if req.ContentType == "" {
		req.ContentType = "post"
	}
	writeJSON(w, http.StatusOK, s.store.addContent(id, req))
}

func (s *server) updateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var upd models.ContentUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	_, found := s.store.editContent(id, func(c *models.SNSContent) {
		if upd.Title != nil {
			c.Title = *upd.Title
		}
		if upd.Description != nil {
			c.Description = *upd.Description
		}
		if upd.Hashtags != nil {
			c.Hashtags = upd.Hashtags
		}
	})
	if !found {
		writeDetail(w, http.StatusNotFound, "Content not found")
		return
	}
	message(w, "Content updated successfully")
}

func (s *server) regenerateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, found := s.store.editContent(id, func(c *models.SNSContent) {
		c.GeneratedContent = "Fresh take: " + c.Title + " is back in stock."
	})
	if !found {
		writeDetail(w, http.StatusNotFound, "Content not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) platforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.PlatformList{Platforms: []models.Platform{
		{Name: "instagram", DisplayName: "Instagram", Description: "Photo and video sharing", ContentTypes: []string{"post", "story", "reel"}},
		{Name: "tiktok", DisplayName: "TikTok", Description: "Short-form video", ContentTypes: []string{"video", "duet"}},
		{Name: "pinterest", DisplayName: "Pinterest", Description: "Visual discovery", ContentTypes: []string{"pin", "board"}},
		{Name: "facebook", DisplayName: "Facebook", Description: "Social network", ContentTypes: []string{"post", "story"}},
		{Name: "twitter", DisplayName: "Twitter", Description: "Microblogging", ContentTypes: []string{"tweet", "thread"}},
	}})
}

func (s *server) analytics(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)
	o := s.store.overview()
	rate := 0.0
	if o.TotalSNSContent > 0 {
		rate = float64(o.PublishedSNSContent) / float64(o.TotalSNSContent) * 100
	}
	writeJSON(w, http.StatusOK, models.SNSAnalytics{
		Period: models.AnalyticsPeriod{
			Start: time.Now().AddDate(0, 0, -days).Format(time.RFC3339),
			End:   time.Now().Format(time.RFC3339),
			Days:  days,
		},
		Overview: models.AnalyticsOverview{
			TotalContent:     o.TotalSNSContent,
			PublishedContent: o.PublishedSNSContent,
			PublishRate:      rate,
		},
		PlatformStats: map[string]models.PlatformStats{},
	})
}

func (s *server) dashboardStats(w http.ResponseWriter, r *http.Request) {
	recent := s.store.filterLogs("", "", "")
	writeJSON(w, http.StatusOK, models.DashboardStats{
		Overview:         s.store.overview(),
		ProductTrends:    s.store.trends(),
		RecentActivities: activities(page(recent, 1, 10)),
	})
}

func (s *server) recentActivity(w http.ResponseWriter, r *http.Request) {
	recent := s.store.filterLogs("", "", "")
	writeJSON(w, http.StatusOK, models.RecentActivity{Activities: activities(page(recent, 1, 20))})
}

func activities(logs []models.LogEntry) []models.Activity {
	out := make([]models.Activity, 0, len(logs))
	for _, l := range logs {
		out = append(out, models.Activity{ID: l.ID, Level: l.Level, Message: l.Message, CreatedAt: l.CreatedAt})
	}
	return out
}

func (s *server) sales(w http.ResponseWriter, r *http.Request) {
	var (
		points []models.SalesPoint
		total  float64
	)
	for i := 6; i >= 0; i-- {
		v := float64(100 + 25*i)
		total += v
		points = append(points, models.SalesPoint{Date: time.Now().AddDate(0, 0, -i).Format("2006-01-02"), Sales: v})
	}
	writeJSON(w, http.StatusOK, models.SalesSummary{
		SalesData:         points,
		TotalSales:        total,
		AverageDailySales: total / float64(len(points)),
	})
}

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"admin-dashboard/internal/auth"
	"admin-dashboard/internal/config"
	"admin-dashboard/internal/services"
	"admin-dashboard/internal/telemetry"
	"admin-dashboard/internal/web"
)

// RateLimiter throttles expensive actions per client.
type RateLimiter interface {
	IsRateLimited(ctx context.Context, key string, max int, window time.Duration) bool
}

type Handler struct {
	cfg     *config.Config
	svc     *services.ServiceClient
	limiter RateLimiter
	auth    *auth.Middleware
	views   *web.Renderer
}

// NewHandler wires the page handlers. limiter may be nil.
func NewHandler(cfg *config.Config, svc *services.ServiceClient, limiter RateLimiter, authMW *auth.Middleware, views *web.Renderer) *Handler {
	return &Handler{
		cfg:     cfg,
		svc:     svc,
		limiter: limiter,
		auth:    authMW,
		views:   views,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	public := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, telemetry.Middleware(fn))
	}
	page := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, telemetry.Middleware(h.auth.RequireSession(fn)))
	}
	stream := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, telemetry.Middleware(h.auth.RequireSessionAPI(fn)))
	}

	public("GET /login", h.LoginPage)
	public("POST /login", h.limited("login", h.Login))
	public("POST /logout", h.Logout)
	public("GET /healthz", h.Healthz)

	page("GET /{$}", h.Dashboard)
	stream("GET /events/dashboard", h.DashboardStream)

	page("GET /products", h.Products)
	page("POST /products/sync", h.limited("sync-shopify", h.SyncShopify))
	page("GET /products/{id}", h.ProductDetail)
	page("POST /products/{id}", h.UpdateProduct)
	page("POST /products/{id}/delete", h.DeleteProduct)

	page("GET /aliexpress", h.AliExpress)
	page("GET /aliexpress/product/{id}", h.AliExpressProduct)
	page("POST /aliexpress/import", h.limited("import", h.ImportProduct))
	page("POST /aliexpress/import-batch", h.limited("import", h.ImportBatch))

	page("GET /logs", h.Logs)
	page("GET /logs/errors", h.ErrorLogs)
	page("GET /logs/export", h.ExportLogs)
	page("POST /logs/clear", h.ClearLogs)
	stream("GET /logs/stream", h.LogStream)

	page("GET /users", h.Users)
	page("POST /users", h.CreateUser)
	page("GET /users/{id}", h.UserDetail)
	page("POST /users/{id}", h.UpdateUser)
	page("POST /users/{id}/delete", h.DeleteUser)
	page("POST /users/{id}/activate", h.ActivateUser)
	page("POST /users/{id}/deactivate", h.DeactivateUser)

	page("GET /sns", h.SNS)
	page("GET /sns/content/{productID}", h.SNSContent)
	page("POST /sns/generate/{productID}", h.limited("generate", h.GenerateSNSContent))
	page("POST /sns/content/{id}", h.UpdateSNSContent)
	page("POST /sns/content/{id}/regenerate", h.limited("generate", h.RegenerateSNSContent))
}

// render fills the shared page chrome and writes the template.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title, nav string, data any) {
	h.views.Render(w, status, name, web.Page{
		Title: title,
		Nav:   nav,
		Flash: popFlash(w, r),
		User:  auth.SubjectFromContext(r.Context()),
		Data:  data,
	})
}

// sessionExpired reports whether err means the backend rejected the session;
// if so the cookie is dropped and the viewer sent to the login page.
func (h *Handler) sessionExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, services.ErrUnauthorized) {
		return false
	}
	slog.InfoContext(r.Context(), "Backend rejected session", "path", r.URL.Path)
	h.auth.ClearSession(w)
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
	return true
}

// errText logs err and returns the inline error message for a page section.
func errText(r *http.Request, what string, err error) string {
	if err == nil {
		return ""
	}
	slog.ErrorContext(r.Context(), "Backend request failed", "what", what, "error", err)
	return services.UserMessage(err)
}

// firstUnauthorized returns the first session rejection among errs.
func firstUnauthorized(errs ...error) error {
	for _, err := range errs {
		if errors.Is(err, services.ErrUnauthorized) {
			return err
		}
	}
	return nil
}

// afterMutation flashes the outcome of a write and redirects to target.
func (h *Handler) afterMutation(w http.ResponseWriter, r *http.Request, target, success string, err error) {
	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		slog.ErrorContext(r.Context(), "Mutation failed", "path", r.URL.Path, "error", err)
		setFlash(w, web.FlashError, services.UserMessage(err))
	} else {
		setFlash(w, web.FlashSuccess, success)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) limited(action string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.limiter != nil && h.limiter.IsRateLimited(r.Context(), action+":"+clientIP(r), h.cfg.RateLimitMax, h.cfg.RateLimitWindow) {
			slog.WarnContext(r.Context(), "Rate limit exceeded", "ip", clientIP(r), "action", action)
			setFlash(w, web.FlashError, "Too many requests. Please wait a moment and try again.")
			http.Redirect(w, r, backTo(r, "/"), http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	clientIP := r.RemoteAddr
	if idx := strings.LastIndex(clientIP, ":"); idx != -1 {
		clientIP = clientIP[:idx]
	}
	return clientIP
}

// backTo returns the same-site page the form was posted from, or fallback.
func backTo(r *http.Request, fallback string) string {
	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	if i := strings.Index(ref, "://"); i != -1 {
		rest := ref[i+3:]
		slash := strings.Index(rest, "/")
		if slash == -1 || rest[:slash] != r.Host {
			return fallback
		}
		ref = rest[slash:]
	}
	if !strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "//") {
		return fallback
	}
	return ref
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

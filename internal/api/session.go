package api

import (
	"log/slog"
	"net/http"
	"strings"

	"admin-dashboard/internal/auth"
	"admin-dashboard/internal/web"
)

// expiredLoginURL is where event streams send the viewer once the backend
// rejects the session mid-stream.
const expiredLoginURL = auth.LoginPath + "?expired=1"

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	flash := popFlash(w, r)
	if r.URL.Query().Get("expired") != "" {
		h.auth.ClearSession(w)
		flash = &web.Flash{Kind: web.FlashError, Message: "Your session has expired. Please sign in again."}
	}

	h.views.Render(w, http.StatusOK, "login.html", web.Page{
		Title: "Sign in",
		Flash: flash,
	})
}

// Login stores the pasted API token as the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.PostFormValue("token"))

	sub, err := h.auth.Validate(token)
	if err != nil {
		slog.WarnContext(r.Context(), "Login rejected", "ip", clientIP(r), "error", err)
		setFlash(w, web.FlashError, "That token is invalid or has expired.")
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}

	h.auth.SetSession(w, token)
	slog.InfoContext(r.Context(), "Session started", "subject", sub)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.ClearSession(w)
	setFlash(w, web.FlashSuccess, "You have been signed out.")
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}

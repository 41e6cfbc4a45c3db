package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"admin-dashboard/internal/web"
)

const flashCookie = "flash"

func setFlash(w http.ResponseWriter, kind, message string) {
	raw, err := json.Marshal(web.Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads the pending notification, if any, and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) *web.Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f web.Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	if f.Kind != web.FlashSuccess {
		f.Kind = web.FlashError
	}
	return &f
}

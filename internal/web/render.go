// Package web renders the dashboard's HTML pages from embedded templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

//go:embed templates/*.html
var templateFS embed.FS

// Flash is the one-shot notification shown at the top of the next page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

type Page struct {
	Title string
	Nav   string
	Flash *Flash
	User  string
	Data  any
}

type Renderer struct {
	pages map[string]*template.Template
}

var pageFiles = []string{
	"dashboard.html",
	"products.html",
	"product_detail.html",
	"aliexpress.html",
	"aliexpress_product.html",
	"logs.html",
	"log_errors.html",
	"users.html",
	"user_detail.html",
	"sns.html",
	"sns_content.html",
	"error.html",
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageFiles)+1)}

	for _, name := range pageFiles {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}

	login, err := template.New("login.html").Funcs(funcs).ParseFS(templateFS, "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login.html: %w", err)
	}
	r.pages["login.html"] = login

	return r, nil
}

// Render executes the page into a buffer first so template errors never
// produce half-written responses.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	t, ok := r.pages[name]
	if !ok {
		slog.Error("Unknown template", "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		slog.Error("Template render error", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var funcs = template.FuncMap{
	"datetime": func(s string) string {
		if t, ok := parseTime(s); ok {
			return t.Format("2006-01-02 15:04:05")
		}
		return s
	},
	"date": func(s string) string {
		if t, ok := parseTime(s); ok {
			return t.Format("2006-01-02")
		}
		return s
	},
	"initial": func(s string) string {
		r, _ := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError {
			return "?"
		}
		return string(unicode.ToUpper(r))
	},
	"pct": func(f float64) string {
		return fmt.Sprintf("%.1f", f)
	},
	"money": func(f float64) string {
		return fmt.Sprintf("%.2f", f)
	},
	"join":  strings.Join,
	"lower": strings.ToLower,
	"platformIcon": func(name string) string {
		switch name {
		case "instagram":
			return "📷"
		case "tiktok":
			return "🎵"
		case "pinterest":
			return "📌"
		case "facebook":
			return "📘"
		case "twitter":
			return "🐦"
		}
		return "🌐"
	},
}

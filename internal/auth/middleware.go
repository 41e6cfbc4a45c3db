package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "auth_token"
	LoginPath  = "/login"
)

var (
	ErrMissingToken = errors.New("missing session token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

type ctxKey int

const (
	tokenKey ctxKey = iota
	subjectKey
)

// WithToken stores the bearer token forwarded to the backend on every call.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func SubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(subjectKey).(string)
	return sub
}

type Middleware struct {
	secretKey    []byte
	cookieSecure bool
	now          func() time.Time
}

// NewMiddleware verifies HMAC signatures when secret is set. Without a secret
// the backend stays the authority and only JWT expiry is checked locally.
func NewMiddleware(secret string, cookieSecure bool) *Middleware {
	m := &Middleware{
		cookieSecure: cookieSecure,
		now:          time.Now,
	}
	if secret != "" {
		m.secretKey = []byte(secret)
	}
	return m
}

// Validate checks token and returns its subject claim, if any.
func (m *Middleware) Validate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}

	if m.secretKey != nil {
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		}, jwt.WithTimeFunc(m.now))
		if err != nil || !token.Valid {
			return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		sub, _ := token.Claims.GetSubject()
		return sub, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		// Opaque API token.
		return "", nil
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && !m.now().Before(exp.Time) {
		return "", fmt.Errorf("%w: token expired at %s", ErrInvalidToken, exp.Time.Format(time.RFC3339))
	}
	sub, _ := claims.GetSubject()
	return sub, nil
}

// RequireSession redirects to the login page when the request carries no valid token.
func (m *Middleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return m.require(next, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	})
}

// RequireSessionAPI answers 401 instead of redirecting, for streams and downloads.
func (m *Middleware) RequireSessionAPI(next http.HandlerFunc) http.HandlerFunc {
	return m.require(next, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
	})
}

func (m *Middleware) require(next http.HandlerFunc, reject http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, fromCookie := tokenFromRequest(r)

		sub, err := m.Validate(tokenString)
		if err != nil {
			if !errors.Is(err, ErrMissingToken) {
				slog.WarnContext(r.Context(), "Invalid token attempt", "error", err)
			}
			if fromCookie {
				m.ClearSession(w)
			}
			reject(w, r)
			return
		}

		ctx := WithToken(r.Context(), tokenString)
		if sub != "" {
			ctx = context.WithValue(ctx, subjectKey, sub)
		}
		next(w, r.WithContext(ctx))
	}
}

func tokenFromRequest(r *http.Request) (token string, fromCookie bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1], false
		}
		return "", false
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value, true
	}
	return "", false
}

func (m *Middleware) SetSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Middleware) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

package api

import (
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie the reverse proxy forwards on every
// auth-check subrequest. The name is fixed; the nginx snippet shipped with
// the service references it directly.
const SessionCookieName = "nginxhashlock_session"

// sessionTokenFromRequest returns the session cookie value, or "" when the
// cookie is absent.
func sessionTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func writeSessionCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
		MaxAge:   int(maxAge.Seconds()),
	})
}

func requestIsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		return true
	}
	return strings.Contains(strings.ToLower(r.Header.Get("Forwarded")), "proto=https")
}

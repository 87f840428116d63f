package auth

import (
	"net/http"
	"time"
)

// CookieName is the name of the session cookie carrying the wire
// token.
const CookieName = "proxy_auth"

// epoch is the Expires value logout uses to force immediate browser
// deletion: Thu, 01 Jan 1970 00:00:00 GMT.
var epoch = time.Unix(0, 0).UTC()

// SetSessionCookie attaches the proxy_auth cookie carrying wireToken,
// expiring at the same instant the token itself expires.
func SetSessionCookie(w http.ResponseWriter, wireToken string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    wireToken,
		Path:     "/",
		HttpOnly: true,
		Expires:  expires.UTC(),
	})
}

// ClearSessionCookie emits the empty-valued, epoch-expired cookie that
// logout uses to make the browser drop the session immediately.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  epoch,
	})
}

// SessionToken returns the value of the proxy_auth cookie from the
// request's Cookie header, if present. Go's http.Request.Cookie parses
// the header as a semicolon-separated list and silently skips
// individual malformed entries rather than rejecting the whole
// header, which matches the robustness the dispatcher requires.
func SessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

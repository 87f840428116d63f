package dispatcher

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/poletaevvlad/authproxy/internal/auth"
)

// handleLogin implements the Unauthenticated POST "/" submission: read
// the body, extract credentials, check them, and either mint a
// session or re-render the login page with wrong_credentials set.
func (d *Dispatcher) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	username, hasUsername, password, hasPassword := extractFormFields(body)
	if !hasPassword {
		d.Assets.RenderLogin(w, true)
		return
	}

	loginUsername := ""
	if hasUsername {
		loginUsername = username
	}

	if !auth.CanLogin(d.Config, loginUsername, password) {
		d.Assets.RenderLogin(w, true)
		return
	}

	expiration := d.now().Add(sessionTTL)
	token, err := auth.Mint(auth.Payload{
		Expiration: uint64(expiration.Unix()),
		Username:   loginUsername,
	}, d.Config.SecretBytes())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	auth.SetSessionCookie(w, token, expiration)
	redirectToRoot(w)
}

// extractFormFields scans an application/x-www-form-urlencoded body
// for the "username" and "password" fields, stopping as soon as both
// have been found. Malformed pairs (missing "=", undecodable percent
// escapes) are skipped rather than aborting the scan, so binary
// garbage in the body simply yields fields that were never found.
func extractFormFields(body []byte) (username string, hasUsername bool, password string, hasPassword bool) {
	for _, pair := range strings.Split(string(body), "&") {
		if hasUsername && hasPassword {
			return
		}
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		switch decodedKey {
		case "username":
			if hasUsername {
				continue
			}
			decoded, err := url.QueryUnescape(value)
			if err != nil {
				continue
			}
			username, hasUsername = decoded, true
		case "password":
			if hasPassword {
				continue
			}
			decoded, err := url.QueryUnescape(value)
			if err != nil {
				continue
			}
			password, hasPassword = decoded, true
		}
	}
	return
}

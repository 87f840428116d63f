// Package dispatcher implements the per-request state machine that
// decides, for every incoming request, whether to serve the login
// page, accept a login submission, clear a session, or forward to the
// upstream.
package dispatcher

import (
	"net/http"
	"time"

	"github.com/poletaevvlad/authproxy/internal/assets"
	"github.com/poletaevvlad/authproxy/internal/auth"
	"github.com/poletaevvlad/authproxy/internal/config"
	"github.com/poletaevvlad/authproxy/internal/proxy"
)

// stylesPath is the unusual static-asset path chosen so it cannot
// collide with an upstream route.
const stylesPath = "/proxy:styles.css"

const sessionTTL = 24 * time.Hour

// Dispatcher holds everything a request handler needs. It carries no
// mutable state of its own: Config is read-only for the process
// lifetime, and Client (an *http.Client outside tests) is safe for
// concurrent use.
type Dispatcher struct {
	Config *config.Config
	Client proxy.Client
	Assets *assets.Assets

	// Now is overridable in tests; defaults to time.Now when nil.
	Now func() time.Time
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ServeHTTP is the single entry point mounted as a catch-all handler:
// the dispatcher's routing depends on auth state, not just method and
// path, so it cannot be expressed as a static router table.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	username, authenticated := d.authenticate(r)

	if authenticated {
		d.serveAuthenticated(w, r, username)
		return
	}
	d.serveUnauthenticated(w, r)
}

// authenticate verifies the proxy_auth cookie, if present. A missing
// cookie and an invalid one are indistinguishable to the caller: both
// just mean "no session".
func (d *Dispatcher) authenticate(r *http.Request) (username string, ok bool) {
	token, present := auth.SessionToken(r)
	if !present {
		return "", false
	}
	payload, verr := auth.Verify(token, d.Config.SecretBytes(), uint64(d.now().Unix()))
	if verr != auth.ErrNone {
		return "", false
	}
	return payload.Username, true
}

func (d *Dispatcher) serveAuthenticated(w http.ResponseWriter, r *http.Request, username string) {
	if r.URL.Path == "/logout" || r.URL.Path == "/logout/" {
		auth.ClearSessionCookie(w)
		redirectToRoot(w)
		return
	}
	proxy.Forward(d.Client, w, r, d.Config.UpstreamBase(), username)
}

func (d *Dispatcher) serveUnauthenticated(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		d.Assets.RenderLogin(w, false)
	case r.Method == http.MethodPost && r.URL.Path == "/":
		d.handleLogin(w, r)
	case r.Method == http.MethodGet && r.URL.Path == stylesPath:
		d.Assets.ServeStyles(w)
	default:
		redirectToRoot(w)
	}
}

func redirectToRoot(w http.ResponseWriter) {
	w.Header().Set("Location", "/")
	w.WriteHeader(http.StatusSeeOther)
}

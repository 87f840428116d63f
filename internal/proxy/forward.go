package proxy

import (
	"io"
	"net/http"
)

// Client is satisfied by *http.Client; forwarding is built directly
// on it (rather than net/http/httputil.ReverseProxy) so that header
// injection and gateway-failure synthesis stay explicit.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// Forward builds an outbound request for r rewritten against base,
// optionally injecting X-Auth-Username, sends it with client, and
// copies the upstream response verbatim into w. Any transport failure
// (DNS, connect, read) is surfaced to the caller as a synthetic 502
// with an empty body — the forwarder never retries.
func Forward(client Client, w http.ResponseWriter, r *http.Request, base Base, username string) {
	target := Rewrite(r.URL.Path, r.URL.RawQuery, base)

	outReq, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		writeBadGateway(w)
		return
	}
	outReq.Header = r.Header.Clone()
	if username != "" {
		outReq.Header.Set("X-Auth-Username", username)
	} else {
		outReq.Header.Del("X-Auth-Username")
	}

	resp, err := client.Do(outReq)
	if err != nil {
		writeBadGateway(w)
		return
	}
	defer resp.Body.Close()

	dst := w.Header()
	for key, values := range resp.Header {
		for _, v := range values {
			dst.Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

func writeBadGateway(w http.ResponseWriter) {
	w.WriteHeader(http.StatusBadGateway)
}

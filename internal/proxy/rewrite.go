// Package proxy rewrites local request URIs into upstream URIs and
// forwards requests to the upstream service.
package proxy

import (
	"fmt"
	"strings"
)

// Base describes the upstream the proxy forwards to: scheme
// (defaulting to http), authority (host[:port]), and a path prefix
// the proxy is mounted under.
type Base struct {
	Scheme    string
	Authority string
	Path      string
}

func (b Base) scheme() string {
	if b.Scheme == "" {
		return "http"
	}
	return b.Scheme
}

// Rewrite composes the upstream URI for a local request with path
// localPath and query localQuery (without the leading "?"). It
// collapses exactly one slash at the join between the upstream's path
// prefix and the local path, and preserves a trailing slash on the
// local path.
func Rewrite(localPath, localQuery string, base Base) string {
	path := base.Path
	if localPath != "/" {
		switch {
		case strings.HasSuffix(path, "/"):
			path += strings.TrimPrefix(localPath, "/")
		default:
			path += localPath
		}
	}

	u := fmt.Sprintf("%s://%s%s", base.scheme(), base.Authority, path)
	if localQuery != "" {
		u += "?" + localQuery
	}
	return u
}

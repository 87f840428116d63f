package server

import (
	"crypto/tls"
	"net"
)

// tlsListenerFor wraps listener so every accepted connection performs
// a TLS handshake using tlsConfig, which certmagic keeps populated
// with a renewed certificate for the configured domain.
func tlsListenerFor(listener net.Listener, tlsConfig *tls.Config) net.Listener {
	return tls.NewListener(listener, tlsConfig)
}

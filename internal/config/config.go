// Package config builds the read-only configuration adapter shared by
// every request handler for the lifetime of the process. The same
// *Config value satisfies both the secret-holding capability the
// token codec needs and the credential-lookup capability the login
// handler needs, so the dispatcher only ever has to carry one handle.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/poletaevvlad/authproxy/internal/auth"
	"github.com/poletaevvlad/authproxy/internal/proxy"
)

// Config is built once at startup by Load and never mutated
// afterwards; every field is safe to read concurrently without a
// lock.
type Config struct {
	Secret      [32]byte
	Upstream    proxy.Base
	Credentials map[string]auth.Credential

	Host          string
	Port          int
	TLSDomain     string
	MaxConnsPerIP int
	MaxTotalConns int64
}

// SecretBytes returns the signing secret. It is the capability
// internal/auth's token codec consumes; Config never logs or
// otherwise exposes this value.
func (c *Config) SecretBytes() [32]byte { return c.Secret }

// CredentialsFor implements auth.CredentialsStore.
func (c *Config) CredentialsFor(username string) (auth.Credential, bool) {
	cred, ok := c.Credentials[username]
	return cred, ok
}

// RequiresUsername implements auth.CredentialsStore: true iff no
// anonymous (empty-username) entry exists.
func (c *Config) RequiresUsername() bool {
	_, anonymous := c.Credentials[""]
	return !anonymous
}

// UpstreamBase returns the composed upstream base the proxy forwards
// requests to.
func (c *Config) UpstreamBase() proxy.Base { return c.Upstream }

// Addr returns the host:port pair to bind the listener to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// envConfig mirrors the flag-overridable settings caarlos0/env can parse
// directly from the process environment; Load applies CLI flag
// overrides on top of whatever this produces.
type envConfig struct {
	Upstream      string `env:"UPSTREAM_URL"`
	Secret        string `env:"AUTH_SECRET"`
	SecretFile    string `env:"AUTH_SECRET_FILE"`
	Users         string `env:"AUTH_USERS"`
	Host          string `env:"HOST" envDefault:"127.0.0.1"`
	Port          string `env:"PORT" envDefault:"3000"`
	TLSDomain     string `env:"TLS_DOMAIN"`
	MaxConnsPerIP int    `env:"MAX_CONNS_PER_IP" envDefault:"50"`
	MaxConns      int64  `env:"MAX_CONNS" envDefault:"10000"`
}

// Flags holds the command-line overrides recognised by cmd/server.
// Any non-empty/non-zero field here wins over the environment.
type Flags struct {
	Upstream      string
	Secret        string
	SecretFile    string
	Users         string
	Host          string
	Port          string
	TLSDomain     string
	MaxConnsPerIP int
	MaxConns      int64
}

// Load resolves configuration from the environment overlaid with CLI
// flags, validates every field, and returns the immutable adapter. A
// non-nil error here is always fatal: the server must not start with
// a partially valid configuration.
func Load(flags Flags) (*Config, error) {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	applyFlags(&e, flags)

	secret, err := resolveSecret(e.Secret, e.SecretFile)
	if err != nil {
		return nil, err
	}

	upstream, err := ParseUpstream(e.Upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream: %w", err)
	}

	creds, err := ParseCredentials(e.Users)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	port, err := ParsePort(e.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	host, err := ParseHost(e.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid host: %w", err)
	}

	return &Config{
		Secret:        secret,
		Upstream:      upstream,
		Credentials:   creds,
		Host:          host,
		Port:          port,
		TLSDomain:     e.TLSDomain,
		MaxConnsPerIP: e.MaxConnsPerIP,
		MaxTotalConns: e.MaxConns,
	}, nil
}

func applyFlags(e *envConfig, f Flags) {
	if f.Upstream != "" {
		e.Upstream = f.Upstream
	}
	if f.Secret != "" {
		e.Secret = f.Secret
	}
	if f.SecretFile != "" {
		e.SecretFile = f.SecretFile
	}
	if f.Users != "" {
		e.Users = f.Users
	}
	if f.Host != "" {
		e.Host = f.Host
	}
	if f.Port != "" {
		e.Port = f.Port
	}
	if f.TLSDomain != "" {
		e.TLSDomain = f.TLSDomain
	}
	if f.MaxConnsPerIP != 0 {
		e.MaxConnsPerIP = f.MaxConnsPerIP
	}
	if f.MaxConns != 0 {
		e.MaxConns = f.MaxConns
	}
}

package config

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/poletaevvlad/authproxy/internal/auth"
	"github.com/poletaevvlad/authproxy/internal/proxy"
	"github.com/poletaevvlad/authproxy/internal/security"
)

// ParseSecretHex decodes a 64-hex-digit signing secret into its
// 32-byte form.
func ParseSecretHex(raw string) ([32]byte, error) {
	var secret [32]byte
	decoded, err := hex.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return secret, fmt.Errorf("secret is not valid hex: %w", err)
	}
	if len(decoded) != 32 {
		return secret, fmt.Errorf("secret must decode to 32 bytes, got %d", len(decoded))
	}
	copy(secret[:], decoded)
	return secret, nil
}

// resolveSecret reads the secret either directly or from a file (the
// file form exists so the value need not appear in a process listing
// or shell history). Exactly one of raw/path must be set.
func resolveSecret(raw, path string) ([32]byte, error) {
	var zero [32]byte
	switch {
	case raw != "" && path != "":
		return zero, fmt.Errorf("specify either a secret or a secret file, not both")
	case raw != "":
		return ParseSecretHex(raw)
	case path != "":
		return secretFromFile(path)
	default:
		return zero, fmt.Errorf("a signing secret is required")
	}
}

func secretFromFile(path string) ([32]byte, error) {
	var zero [32]byte
	if _, err := os.Stat(path); err != nil {
		return zero, fmt.Errorf("reading secret file: %w", err)
	}
	security.EnsureSecretFilePermissions(path)

	contents, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("reading secret file: %w", err)
	}
	return ParseSecretHex(string(bytes.TrimSpace(contents)))
}

// ParseUpstream parses the upstream base URI. Per the wire protocol,
// the scheme must be absent or exactly "http", an authority is
// required, and no query string is permitted.
func ParseUpstream(raw string) (proxy.Base, error) {
	if raw == "" {
		return proxy.Base{}, fmt.Errorf("upstream URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return proxy.Base{}, fmt.Errorf("could not parse URL: %w", err)
	}
	if u.Scheme != "" && u.Scheme != "http" {
		return proxy.Base{}, fmt.Errorf("scheme must be http, got %q", u.Scheme)
	}
	if u.Host == "" {
		return proxy.Base{}, fmt.Errorf("authority (host) is required")
	}
	if u.RawQuery != "" {
		return proxy.Base{}, fmt.Errorf("query string is not permitted in the upstream URL")
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	return proxy.Base{Scheme: "http", Authority: u.Host, Path: path}, nil
}

// ParseCredentials parses the semicolon-separated credential list in
// the form "[username]:salt:hex-hash". An anonymous entry (no
// username) must be the only entry in the table.
func ParseCredentials(raw string) (map[string]auth.Credential, error) {
	table := make(map[string]auth.Credential)
	if strings.TrimSpace(raw) == "" {
		return table, fmt.Errorf("at least one credential entry is required")
	}

	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		username, cred, err := parseCredentialEntry(part)
		if err != nil {
			return nil, err
		}
		if _, dup := table[username]; dup {
			if username == "" {
				return nil, fmt.Errorf("duplicate anonymous credential entry")
			}
			return nil, fmt.Errorf("duplicate credential entry for user %q", username)
		}
		table[username] = cred
	}

	if _, anonymous := table[""]; anonymous && len(table) > 1 {
		return nil, fmt.Errorf("a user without a username must be the only user")
	}
	return table, nil
}

func parseCredentialEntry(entry string) (string, auth.Credential, error) {
	parts := strings.Split(entry, ":")
	var username, salt, hashHex string
	switch len(parts) {
	case 2:
		salt, hashHex = parts[0], parts[1]
	case 3:
		username, salt, hashHex = parts[0], parts[1], parts[2]
	default:
		return "", auth.Credential{}, fmt.Errorf("wrong number of components in credential entry %q", entry)
	}

	if len(salt) < 5 {
		return "", auth.Credential{}, fmt.Errorf("the value for salt is too short in entry %q", entry)
	}

	decoded, err := hex.DecodeString(hashHex)
	if err != nil || len(decoded) != 32 {
		return "", auth.Credential{}, fmt.Errorf("invalid password hash in entry %q", entry)
	}
	var hash [32]byte
	copy(hash[:], decoded)

	return username, auth.Credential{Salt: salt, PasswordHash: hash}, nil
}

// ParsePort parses a TCP port number; 0 is rejected as invalid.
func ParsePort(raw string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("port number could not be parsed: %w", err)
	}
	if port == 0 {
		return 0, fmt.Errorf("port number cannot be zero")
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("port number out of range: %d", port)
	}
	return port, nil
}

// ParseHost validates the bind host; any non-empty string is accepted
// as-is (hostname resolution and literal IPs are both legal).
func ParseHost(raw string) (string, error) {
	host := strings.TrimSpace(raw)
	if host == "" {
		return "", fmt.Errorf("host cannot be empty")
	}
	return host, nil
}

// Package auth implements the signed-token codec and salted-credential
// store that together form the authentication core of the proxy.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// VerifyError classifies why a wire token failed verification. The
// dispatcher treats every variant identically (no session), but tests
// and internal logging distinguish them.
type VerifyError int

const (
	// ErrNone indicates successful verification.
	ErrNone VerifyError = iota
	// ErrFormat covers malformed wire tokens: missing separator, bad
	// base64, non-UTF-8 or non-JSON payload bytes.
	ErrFormat
	// ErrSignature covers a well-formed token whose signature does not
	// match the configured secret.
	ErrSignature
	// ErrExpired covers a token with a valid signature whose expiration
	// has passed.
	ErrExpired
)

func (e VerifyError) Error() string {
	switch e {
	case ErrNone:
		return "no error"
	case ErrFormat:
		return "malformed token"
	case ErrSignature:
		return "signature mismatch"
	case ErrExpired:
		return "token expired"
	default:
		return "unknown verification error"
	}
}

// Payload is the single recognised shape of a token's JSON body.
// Username is an optional transport convenience (see design notes):
// a verified token may carry the identity that minted it so the
// dispatcher can forward it upstream without consulting the
// credential store again. Unrecognised extra fields on decode are
// tolerated and ignored by json.Unmarshal's default behaviour.
type Payload struct {
	Expiration uint64 `json:"expiration"`
	Username   string `json:"username,omitempty"`
}

// separator is the single ASCII byte inserted between the JSON payload
// and the secret before hashing, and also the character used to join
// the two base64 segments on the wire.
const separator = '.'

// sign computes the signature of payloadJSON under secret: SHA-256
// over payloadJSON || '.' || secret.
func sign(payloadJSON []byte, secret [32]byte) [32]byte {
	h := sha256.New()
	h.Write(payloadJSON)
	h.Write([]byte{separator})
	h.Write(secret[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Mint serialises payload to canonical JSON and returns the dotted,
// unpadded base64url wire token signed with secret.
func Mint(payload Payload, secret [32]byte) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sig := sign(body, secret)
	return base64.RawURLEncoding.EncodeToString(body) + string(separator) +
		base64.RawURLEncoding.EncodeToString(sig[:]), nil
}

// Verify checks a wire token against secret at the given instant
// (seconds since the Unix epoch). The ordering below is load-bearing:
// the signature is checked before the payload is ever parsed as JSON,
// so a forged or truncated token can never reach the JSON decoder.
func Verify(wireToken string, secret [32]byte, nowSeconds uint64) (Payload, VerifyError) {
	idx := strings.IndexByte(wireToken, separator)
	if idx < 0 {
		return Payload{}, ErrFormat
	}
	payloadPart, sigPart := wireToken[:idx], wireToken[idx+1:]

	payloadBytes, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return Payload{}, ErrFormat
	}
	sigBytes, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return Payload{}, ErrFormat
	}

	want := sign(payloadBytes, secret)
	if len(sigBytes) != len(want) || subtle.ConstantTimeCompare(sigBytes, want[:]) != 1 {
		return Payload{}, ErrSignature
	}

	if !utf8.Valid(payloadBytes) {
		return Payload{}, ErrFormat
	}
	var payload Payload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return Payload{}, ErrFormat
	}

	if payload.Expiration > nowSeconds {
		return payload, ErrNone
	}
	return payload, ErrExpired
}

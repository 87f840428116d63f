package auth

import (
	"crypto/sha256"
	"crypto/subtle"
)

// Credential is a single entry in a credential table: a salt and the
// salted hash of the password it authorises.
type Credential struct {
	Salt         string
	PasswordHash [32]byte
}

// CredentialsStore is the capability the credential store exposes to
// the dispatcher. A config adapter satisfies this directly, so the
// same object that answers SecretBytes() also answers CredentialsFor() —
// one handle, two capabilities.
type CredentialsStore interface {
	// CredentialsFor looks up the credential for username. The empty
	// string denotes the anonymous (no-username) entry. ok is false on
	// a miss.
	CredentialsFor(username string) (Credential, bool)
	// RequiresUsername is true iff no anonymous entry exists, i.e. the
	// login form must collect a username.
	RequiresUsername() bool
}

// GenerateHash computes the salted password hash used both to build a
// Credential at configuration time and to verify a login attempt:
// SHA-256(salt || ":" || password).
func GenerateHash(salt, password string) [32]byte {
	h := sha256.New()
	h.Write([]byte(salt))
	h.Write([]byte(":"))
	h.Write([]byte(password))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// CanLogin checks a login attempt against store. A missing username
// (anonymous login) is represented by an empty string. The hash
// comparison is constant-time; a lookup miss and a wrong password are
// deliberately indistinguishable to the caller.
func CanLogin(store CredentialsStore, username, password string) bool {
	cred, ok := store.CredentialsFor(username)
	if !ok {
		return false
	}
	got := GenerateHash(cred.Salt, password)
	return subtle.ConstantTimeCompare(got[:], cred.PasswordHash[:]) == 1
}

// Command mkuser generates a credential-table entry for the proxy's
// AUTH_USERS list. It prints "[username]:salt:hex-hash" for a given
// username (optional, for anonymous/shared-password mode) and
// password, generating a fresh random salt unless one is supplied.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/poletaevvlad/authproxy/internal/auth"
)

func main() {
	username := flag.String("username", "", "username for this credential (omit for anonymous/shared-password mode)")
	password := flag.String("password", "", "password to hash (required)")
	salt := flag.String("salt", "", "salt to use instead of generating a random one (must be at least 5 characters)")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "error: -password is required")
		os.Exit(1)
	}

	s := *salt
	if s == "" {
		var err error
		s, err = randomSalt()
		if err != nil {
			log.Fatalf("generating salt: %v", err)
		}
	}
	if len(s) < 5 {
		fmt.Fprintln(os.Stderr, "error: salt must be at least 5 characters")
		os.Exit(1)
	}

	hash := auth.GenerateHash(s, *password)

	entry := fmt.Sprintf("%s:%s:%s", *username, s, hex.EncodeToString(hash[:]))
	fmt.Println(entry)
}

func randomSalt() (string, error) {
	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

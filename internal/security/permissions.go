// Package security holds small file-permission hygiene checks for
// sensitive on-disk material — here, the signing secret file.
package security

import (
	"fmt"
	"log"
	"os"
)

// CheckFilePermissions verifies that path has exactly expectedPerms,
// fixing it in place (and logging a warning) if not. A missing file
// is not an error here; the caller is responsible for deciding
// whether the file must exist.
func CheckFilePermissions(path string, expectedPerms os.FileMode) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to check file permissions: %w", err)
	}

	actualPerms := info.Mode().Perm()
	if actualPerms != expectedPerms {
		log.Printf("WARNING: %s has permissions %o, should be %o", path, actualPerms, expectedPerms)
		log.Printf("Attempting to fix permissions...")

		if err := os.Chmod(path, expectedPerms); err != nil {
			return fmt.Errorf("failed to set permissions: %w", err)
		}

		log.Printf("fixed permissions for %s", path)
	}

	return nil
}

// EnsureSecretFilePermissions ensures the signing-secret file is
// readable only by its owner (0600); the secret is too sensitive to
// risk leaving group/world readable.
func EnsureSecretFilePermissions(path string) {
	if err := CheckFilePermissions(path, 0o600); err != nil {
		log.Printf("Warning: could not secure secret file permissions: %v", err)
	}
}

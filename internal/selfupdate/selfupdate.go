// Package selfupdate implements the self-update contract referenced by
// spec.md's Non-goals: hash-compare the running binary against a remote
// manifest and atomically replace it. The GUI relaunch step itself is
// out of scope (the GUI shell is out of scope for this module), so this
// package exposes only the file-level half of the contract.
package selfupdate

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/novaforge/launcher/internal/content"
)

// Manifest describes the latest published binary for the current
// platform.
type Manifest struct {
	SHA1 string
	URL  string
}

// NeedsUpdate reports whether the binary at currentPath's hash differs
// from manifest.SHA1.
func NeedsUpdate(currentPath string, manifest Manifest) (bool, error) {
	f, err := os.Open(currentPath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return false, err
	}
	return hex.EncodeToString(h.Sum(nil)) != manifest.SHA1, nil
}

// Apply downloads manifest.URL and atomically replaces currentPath with
// it (download to a sibling temp file, verify hash, rename over).
func Apply(ctx context.Context, currentPath string, manifest Manifest) error {
	data, err := content.FetchBytes(ctx, manifest.URL)
	if err != nil {
		return err
	}

	h := sha1.Sum(data)
	if hex.EncodeToString(h[:]) != manifest.SHA1 {
		return fmt.Errorf("selfupdate: downloaded binary hash mismatch")
	}

	tmp := currentPath + ".update"
	if err := os.WriteFile(tmp, data, 0o755); err != nil {
		return err
	}
	if err := os.Rename(tmp, currentPath); err != nil {
		return err
	}
	return nil
}

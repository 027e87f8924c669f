package content

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ExtractNatives unpacks every entry of the jar at archivePath into
// destDir, skipping any entry whose top-level path component (or a
// configured exclude prefix) matches exclude. Directory entries and
// signature/metadata files under META-INF are always skipped, matching
// the original's extract_natives exclusion handling.
func ExtractNatives(archivePath, destDir string, exclude []string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if isExcluded(f.Name, exclude) {
			continue
		}

		target := filepath.Join(destDir, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			continue // zip-slip guard
		}
		if err := extractOne(f, target); err != nil {
			return err
		}
	}
	return nil
}

func isExcluded(name string, exclude []string) bool {
	if strings.HasPrefix(name, "META-INF/") {
		return true
	}
	for _, prefix := range exclude {
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func extractOne(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode()|0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

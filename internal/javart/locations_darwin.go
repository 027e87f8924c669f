//go:build darwin

package javart

import (
	"os"
	"path/filepath"
)

// platformLocations enumerates macOS's standard JVM install locations
// plus Homebrew's openjdk formula prefixes, per find_java.rs.
func platformLocations() []string {
	roots := []string{
		"/Library/Java/JavaVirtualMachines",
		"/System/Library/Java/JavaVirtualMachines",
	}
	var out []string
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				out = append(out, filepath.Join(root, e.Name(), "Contents", "Home", "bin", "java"))
			}
		}
	}

	for _, prefix := range []string{"/usr/local/opt", "/opt/homebrew/opt"} {
		entries, err := os.ReadDir(prefix)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() && len(e.Name()) >= 7 && e.Name()[:7] == "openjdk" {
				out = append(out, filepath.Join(prefix, e.Name(), "bin", "java"))
			}
		}
	}
	return out
}

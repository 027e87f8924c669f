//go:build linux

package javart

import (
	"os"
	"path/filepath"
)

// platformLocations enumerates the common filesystem locations Linux
// package managers install JDKs/JREs into, per find_java.rs.
func platformLocations() []string {
	roots := []string{"/usr/java", "/usr/lib/jvm", "/usr/lib64/jvm", "/usr/lib32/jvm", "/opt/jdk"}
	var out []string
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				out = append(out, filepath.Join(root, e.Name(), "bin", "java"))
			}
		}
	}
	return out
}

package launch

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/novaforge/launcher/internal/library"
	"github.com/novaforge/launcher/internal/model"
	"github.com/novaforge/launcher/internal/rules"
)

// ClasspathSeparator is the platform path-list separator Minecraft
// expects: ";" on Windows, ":" elsewhere.
func ClasspathSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}

// BuildClasspath resolves each applicable library's on-disk path under
// librariesDir, dedups by resolved path (first occurrence wins — the
// same invariant the planner already enforces, reapplied here since the
// launcher may be called with a library list that wasn't re-planned),
// appends the client jar last, and joins with the platform separator.
// On Windows, every path's forward slashes are normalized to backslashes
// after joining.
func BuildClasspath(libs []model.Library, librariesDir, clientJarPath string) string {
	seen := make(map[string]bool, len(libs)+1)
	var parts []string

	for _, lib := range libs {
		if len(lib.Rules) > 0 && !rules.Applies(lib.Rules, nil) {
			continue
		}
		p := filepath.Join(librariesDir, filepath.FromSlash(library.ResolvedPath(lib)))
		if seen[p] {
			continue
		}
		seen[p] = true
		parts = append(parts, p)
	}
	parts = append(parts, clientJarPath)

	cp := strings.Join(parts, ClasspathSeparator())
	if runtime.GOOS == "windows" {
		cp = strings.ReplaceAll(cp, "/", "\\")
	}
	return cp
}

// LongPath canonicalizes path to its long form on Windows (avoiding 8.3
// short-name surprises for the JVM); it is a no-op elsewhere.
func LongPath(path string) string {
	return longPath(path)
}

// ensureAbs is used by callers that need a canonical game directory
// before handing it to LongPath.
func ensureAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

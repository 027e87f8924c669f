// Package launch implements the Launcher (J): classpath assembly,
// variable-map construction, JVM/game argument evaluation and process
// spawn. Grounded on src/launcher/launcher.go's PrepareCMD/LaunchMinecraft
// (parseMinecraftArguments, buildClasspath) and
// original_source/launcher/src/launcher/launch.rs for the exact
// variable keys and GC option prelude.
package launch

import "strings"

// Vars is the single-pass variable substitution map keyed by the bare
// `${key}` token name.
type Vars map[string]string

// Substitute replaces every `${key}` occurrence in s with vars[key] in
// one non-recursive pass; unknown keys pass through unchanged.
func Substitute(s string, vars Vars) string {
	var b strings.Builder
	b.Grow(len(s))

	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			break
		}
		end := strings.Index(s[start:], "}")
		if end < 0 {
			b.WriteString(s)
			break
		}
		end += start

		b.WriteString(s[:start])
		key := s[start+2 : end]
		if v, ok := vars[key]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
	return b.String()
}

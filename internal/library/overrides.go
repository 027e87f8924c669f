package library

import (
	"embed"
	"encoding/json"

	"github.com/novaforge/launcher/internal/model"
)

//go:embed meta/*.json
var metaFS embed.FS

// libraryPatch is one entry of the Mojang per-library patch table:
// replaces a library's downloads/natives/rules wholesale and may append
// extra libraries alongside it.
type libraryPatch struct {
	Downloads           *model.LibraryDownloads `json:"downloads,omitempty"`
	Natives             map[string]string       `json:"natives,omitempty"`
	Rules               []model.Rule            `json:"rules,omitempty"`
	AdditionalLibraries []string                `json:"additionalLibraries,omitempty"`
}

type lwjglReplacement struct {
	GroupIDs  []string `json:"group_ids"`
	Libraries []string `json:"libraries"`
}

var (
	mojangPatches    map[string]libraryPatch
	extraOverrides   map[string]libraryPatch
	lwjglReplacements map[string]lwjglReplacement
)

func init() {
	mojangPatches = loadPatches("meta/mojang-library-patches.json")
	extraOverrides = loadPatches("meta/library-overrides.json")
	lwjglReplacements = loadLWJGL("meta/lwjgl-version-matches.json")
}

func loadPatches(path string) map[string]libraryPatch {
	data, err := metaFS.ReadFile(path)
	if err != nil {
		panic("library: failed to load embedded " + path + ": " + err.Error())
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		panic("library: invalid embedded " + path + ": " + err.Error())
	}
	out := make(map[string]libraryPatch, len(raw))
	for k, v := range raw {
		if k == "_comment" {
			continue
		}
		var p libraryPatch
		if err := json.Unmarshal(v, &p); err != nil {
			continue
		}
		out[k] = p
	}
	return out
}

func loadLWJGL(path string) map[string]lwjglReplacement {
	data, err := metaFS.ReadFile(path)
	if err != nil {
		panic("library: failed to load embedded " + path + ": " + err.Error())
	}
	var out map[string]lwjglReplacement
	if err := json.Unmarshal(data, &out); err != nil {
		panic("library: invalid embedded " + path + ": " + err.Error())
	}
	return out
}

// ApplyPatches applies the per-library Mojang patch table (then the
// launcher-local override table) to libs, appending any
// additionalLibraries a matching patch declares. Matching is by the bare
// "group:artifact:version" name, ignoring classifier.
func ApplyPatches(libs []model.Library) []model.Library {
	out := make([]model.Library, 0, len(libs))
	var additional []string

	apply := func(lib model.Library, patch libraryPatch) model.Library {
		if patch.Downloads != nil {
			lib.Downloads = patch.Downloads
		}
		if patch.Natives != nil {
			lib.Natives = patch.Natives
		}
		if patch.Rules != nil {
			lib.Rules = patch.Rules
		}
		additional = append(additional, patch.AdditionalLibraries...)
		return lib
	}

	for _, lib := range libs {
		key := FullName(lib.Name)
		if patch, ok := mojangPatches[key]; ok {
			lib = apply(lib, patch)
		}
		if patch, ok := extraOverrides[key]; ok {
			lib = apply(lib, patch)
		}
		out = append(out, lib)
	}

	for _, name := range additional {
		out = append(out, model.Library{Name: name})
	}
	return out
}

// ApplyLWJGLReplacement drops every library whose group is part of the
// LWJGL replacement set for rootGameID (if any is configured) and
// appends the curated replacement library list in its place.
func ApplyLWJGLReplacement(rootGameID string, libs []model.Library) []model.Library {
	repl, ok := lwjglReplacements[rootGameID]
	if !ok {
		return libs
	}
	isLWJGLGroup := func(group string) bool {
		for _, g := range repl.GroupIDs {
			if g == group {
				return true
			}
		}
		return false
	}

	out := make([]model.Library, 0, len(libs)+len(repl.Libraries))
	for _, lib := range libs {
		if isLWJGLGroup(GroupID(lib.Name)) {
			continue
		}
		out = append(out, lib)
	}
	for _, name := range repl.Libraries {
		out = append(out, model.Library{Name: name})
	}
	return out
}

// Dedup keeps the first occurrence of each library by resolved jar path,
// matching the planner's "first occurrence wins" invariant.
func Dedup(libs []model.Library) []model.Library {
	seen := make(map[string]bool, len(libs))
	out := make([]model.Library, 0, len(libs))
	for _, lib := range libs {
		p := ResolvedPath(lib)
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, lib)
	}
	return out
}

package library

import (
	"context"
	"strings"

	"github.com/novaforge/launcher/internal/content"
	"github.com/novaforge/launcher/internal/model"
	"github.com/novaforge/launcher/internal/rules"
)

// Plan is the effective library list plus the check/download entry pairs
// the sync engine needs to bring the libraries directory up to date.
type Plan struct {
	Libraries []model.Library
	Checks    []content.CheckEntry
	Downloads []content.DownloadEntry
}

// Build applies the override chain (Mojang patches, LWJGL replacement,
// extra forge libs, dedup), filters to applicable libraries for the
// current platform, and derives CheckEntry/DownloadEntry pairs for each
// library's artifact and (if present) its OS-specific native classifier.
// extraForgeLibs are appended by the overlay before dedup, per §4.4 step
// 3. Entries whose hash must be resolved via a sibling .sha1 file are
// fetched eagerly, one at a time, since the planner has no progress-free
// fetch phase of its own in this Go port; ctx allows cancelling those
// fetches. A sidecar that cannot be fetched leaves the expected sha1 empty.
func Build(ctx context.Context, rootGameID string, libs []model.Library, extraForgeLibs []string, librariesDir string) (Plan, error) {
	effective := ApplyPatches(libs)
	effective = ApplyLWJGLReplacement(rootGameID, effective)
	for _, name := range extraForgeLibs {
		effective = append(effective, model.Library{Name: name})
	}
	effective = Dedup(effective)

	var applicable []model.Library
	for _, lib := range effective {
		// A library with no rules field at all is unconditionally
		// applicable; Applies only gates libraries that declare rules.
		if len(lib.Rules) == 0 || rules.Applies(lib.Rules, nil) {
			applicable = append(applicable, lib)
		}
	}

	var checks []content.CheckEntry
	var downloads []content.DownloadEntry

	for _, lib := range applicable {
		url, sha1, size, path, ok := artifactEntry(lib)
		if ok {
			if sha1 == "" {
				if resolved, err := resolveSHA1(ctx, url); err == nil {
					sha1 = resolved
				}
			}
			full := joinPath(librariesDir, path)
			checks = append(checks, content.CheckEntry{Path: full, ExpectedSHA1: sha1, ExpectedSize: size})
			downloads = append(downloads, content.DownloadEntry{Path: full, URL: url, ExpectedSHA1: sha1, ExpectedSize: size})
		}

		if nurl, nsha1, nsize, npath, ok := nativeEntry(lib); ok {
			full := joinPath(librariesDir, npath)
			checks = append(checks, content.CheckEntry{Path: full, ExpectedSHA1: nsha1, ExpectedSize: nsize})
			downloads = append(downloads, content.DownloadEntry{Path: full, URL: nurl, ExpectedSHA1: nsha1, ExpectedSize: nsize})
		}
	}

	return Plan{Libraries: applicable, Checks: checks, Downloads: downloads}, nil
}

func artifactEntry(lib model.Library) (url, sha1 string, size int64, path string, ok bool) {
	if lib.Downloads != nil && lib.Downloads.Artifact != nil {
		a := lib.Downloads.Artifact
		p := a.Path
		if p == "" {
			p = PathFromName(lib.Name, "")
		}
		return a.URL, a.SHA1, a.Size, p, a.URL != ""
	}
	if lib.URL != "" {
		p := PathFromName(lib.Name, "")
		return strings.TrimSuffix(lib.URL, "/") + "/" + p, "", 0, p, true
	}
	return "", "", 0, "", false
}

func nativeEntry(lib model.Library) (url, sha1 string, size int64, path string, ok bool) {
	if lib.Natives == nil || lib.Downloads == nil || lib.Downloads.Classifiers == nil {
		return "", "", 0, "", false
	}
	classifier, ok := lib.Natives[rules.OSArchTag()]
	if !ok {
		return "", "", 0, "", false
	}
	d, ok := lib.Downloads.Classifiers[classifier]
	if !ok || d.URL == "" {
		return "", "", 0, "", false
	}
	p := d.Path
	if p == "" {
		p = PathFromName(lib.Name, classifier)
	}
	return d.URL, d.SHA1, d.Size, p, true
}

func resolveSHA1(ctx context.Context, artifactURL string) (string, error) {
	return content.FetchString(ctx, artifactURL+".sha1")
}

func joinPath(base, rel string) string {
	return base + "/" + strings.TrimPrefix(rel, "/")
}

// NativeExtractSpec returns the archive path and exclude-prefix set to
// use when re-extracting lib's natives classifier into the shared
// natives directory, or ok=false if lib has none for this platform.
func NativeExtractSpec(lib model.Library, librariesDir string) (archivePath string, exclude []string, ok bool) {
	_, _, _, path, found := nativeEntry(lib)
	if !found {
		return "", nil, false
	}
	if lib.Extract != nil {
		exclude = lib.Extract.Exclude
	}
	return joinPath(librariesDir, path), exclude, true
}

// Package overlay implements the Overlay Planner: turning a modpack's
// extra-metadata objects list into check/download entries honoring the
// include vs. include_no_overwrite preserve rule, and pruning stray
// overwrite-owned files that a prior sync wrote but the current overlay
// no longer declares. Grounded on
// original_source/launcher/src/version/sync.rs::get_objects_entries.
package overlay

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/novaforge/launcher/internal/content"
	"github.com/novaforge/launcher/internal/model"
)

// Plan is the overlay's check/download entries plus the set of
// overwrite-owned relative paths, used by PruneStale after a sync.
type Plan struct {
	Checks       []content.CheckEntry
	Downloads    []content.DownloadEntry
	OverwritePaths map[string]bool
}

// Build derives the overlay's file plan. include marks paths the engine
// may freely overwrite or delete; includeNoOverwrite marks paths it may
// install if absent but must leave alone if present. A path in both sets
// is treated as overwrite, per the conflict rule. forceOverwrite (a
// user-requested repair sync) elevates every includeNoOverwrite path to
// overwrite as well.
func Build(objects []model.Object, include, includeNoOverwrite []string, instanceDir string, forceOverwrite bool) Plan {
	overwrite := toSet(include)
	preserve := toSet(includeNoOverwrite)
	for p := range overwrite {
		delete(preserve, p) // conflict rule: both sets -> overwrite
	}
	if forceOverwrite {
		for p := range preserve {
			overwrite[p] = true
		}
		preserve = map[string]bool{}
	}

	var checks []content.CheckEntry
	var downloads []content.DownloadEntry

	for _, obj := range objects {
		full := filepath.Join(instanceDir, filepath.FromSlash(obj.Path))

		if preserve[strings.TrimPrefix(obj.Path, "/")] {
			if _, err := os.Stat(full); err == nil {
				continue // preserve existing user file
			}
		}

		checks = append(checks, content.CheckEntry{Path: full, ExpectedSHA1: obj.SHA1, ExpectedSize: obj.Size})
		downloads = append(downloads, content.DownloadEntry{Path: full, URL: obj.URL, ExpectedSHA1: obj.SHA1, ExpectedSize: obj.Size})
	}

	return Plan{Checks: checks, Downloads: downloads, OverwritePaths: overwrite}
}

func toSet(paths []string) map[string]bool {
	out := make(map[string]bool, len(paths))
	for _, p := range paths {
		out[strings.TrimPrefix(p, "/")] = true
	}
	return out
}

// PruneStale removes any file under instanceDir whose relative path is
// owned by overwritePaths but is no longer present in currentObjects —
// the overlay-owned equivalent of a stale-mod cleanup on modpack update,
// supplemented from the original's orphan-removal step in
// get_objects_entries (dropped by the distilled spec's "plan
// inclusion/exclusion" wording). overwritePaths entries are usually
// directories (e.g. "config/", "mods/") rather than individual files, so
// each is expanded to the real files currently on disk beneath it —
// mirroring get_modpack_files/files::get_files_in_dir's directory walk —
// before the currentObjects diff decides what to delete.
func PruneStale(instanceDir string, overwritePaths map[string]bool, currentObjects []model.Object) error {
	keep := make(map[string]bool, len(currentObjects))
	for _, obj := range currentObjects {
		keep[strings.TrimPrefix(obj.Path, "/")] = true
	}

	for relPath := range overwritePaths {
		full := filepath.Join(instanceDir, filepath.FromSlash(relPath))
		info, err := os.Stat(full)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if !info.IsDir() {
			if err := pruneFileIfStale(full, relPath, keep); err != nil {
				return err
			}
			continue
		}
		if err := filepath.Walk(full, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(instanceDir, path)
			if err != nil {
				return err
			}
			return pruneFileIfStale(path, filepath.ToSlash(rel), keep)
		}); err != nil {
			return err
		}
	}
	return nil
}

func pruneFileIfStale(full, relPath string, keep map[string]bool) error {
	if keep[relPath] {
		return nil
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

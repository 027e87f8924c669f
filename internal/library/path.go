// Package library implements the Library Planner: applying Mojang
// per-library patches and LWJGL group replacement, deduplicating the
// effective library list, and deriving the CheckEntry/DownloadEntry pairs
// the content store needs. Maven path derivation is grounded on
// original_source/shared/src/version/version_metadata.rs's
// get_path_from_name/get_group_id/get_full_name.
package library

import (
	"strings"

	"github.com/novaforge/launcher/internal/model"
)

// nameParts splits a library's "group:artifact:version[:classifier]"
// name into its components.
type nameParts struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
}

func parseName(name string) nameParts {
	fields := strings.Split(name, ":")
	p := nameParts{}
	if len(fields) > 0 {
		p.Group = fields[0]
	}
	if len(fields) > 1 {
		p.Artifact = fields[1]
	}
	if len(fields) > 2 {
		p.Version = fields[2]
	}
	if len(fields) > 3 {
		p.Classifier = fields[3]
	}
	return p
}

// GroupID returns the Maven group id of a library name.
func GroupID(name string) string {
	return parseName(name).Group
}

// PathFromName derives the Maven-style relative path for a library name,
// optionally with a classifier suffix (the classifier argument wins over
// one embedded in the name). The file extension is always ".jar".
func PathFromName(name, classifier string) string {
	p := parseName(name)
	file := p.Artifact + "-" + p.Version
	if classifier != "" {
		file += "-" + classifier
	} else if p.Classifier != "" {
		file += "-" + p.Classifier
	}
	file += ".jar"

	groupPath := strings.ReplaceAll(p.Group, ".", "/")
	return strings.Join([]string{groupPath, p.Artifact, p.Version, file}, "/")
}

// FullName returns the "group:artifact:version" triple without any
// classifier, used as the dedup/patch-lookup key.
func FullName(name string) string {
	p := parseName(name)
	return strings.Join([]string{p.Group, p.Artifact, p.Version}, ":")
}

// ResolvedPath returns where lib's main artifact lives under the shared
// libraries directory, preferring an explicit downloads.artifact.path
// when present.
func ResolvedPath(lib model.Library) string {
	if lib.Downloads != nil && lib.Downloads.Artifact != nil && lib.Downloads.Artifact.Path != "" {
		return lib.Downloads.Artifact.Path
	}
	return PathFromName(lib.Name, "")
}

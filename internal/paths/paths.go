// Package paths centralizes the on-disk layout under the launcher's data
// directory, matching the teacher's convention of one small helper file
// per concern instead of scattering path joins through the pipeline.
package paths

import (
	"os"
	"path/filepath"
)

func created(dir string) string {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		panic("paths: failed to create directory " + dir + ": " + err.Error())
	}
	return dir
}

func parentCreated(file string) string {
	created(filepath.Dir(file))
	return file
}

// RelInstancesDir is the instances directory's path relative to the data
// directory.
const RelInstancesDir = "instances"

// InstancesDir returns the directory holding installed instance trees,
// migrating a pre-existing legacy "modpacks" directory on first access.
func InstancesDir(dataDir string) string {
	old := filepath.Join(dataDir, "modpacks")
	cur := filepath.Join(dataDir, RelInstancesDir)
	migrateLegacyInstancesDir(old, cur)
	return created(cur)
}

func migrateLegacyInstancesDir(old, cur string) {
	oldInfo, oldErr := os.Stat(old)
	_, curErr := os.Stat(cur)
	if oldErr == nil && oldInfo.IsDir() && os.IsNotExist(curErr) {
		if err := os.Rename(old, cur); err != nil {
			panic("paths: failed to migrate legacy modpacks directory: " + err.Error())
		}
	}
}

// RelInstanceDir is an instance's directory path relative to the data
// directory.
func RelInstanceDir(versionName string) string {
	return filepath.Join(RelInstancesDir, versionName)
}

// InstanceDir returns the directory holding one installed instance.
func InstanceDir(dataDir, versionName string) string {
	InstancesDir(dataDir) // trigger migration
	return created(filepath.Join(dataDir, RelInstanceDir(versionName)))
}

// ManifestPath returns the path of the cached version manifest.
func ManifestPath(dataDir string) string {
	return parentCreated(filepath.Join(dataDir, "version_manifest.json"))
}

// JavaDir returns the directory holding provisioned JRE/JDK installs.
func JavaDir(dataDir string) string {
	return created(filepath.Join(dataDir, "java"))
}

// LogsDir returns the directory holding launcher and game logs.
func LogsDir(dataDir string) string {
	return created(filepath.Join(dataDir, "logs"))
}

// LibrariesDir returns the shared libraries directory.
func LibrariesDir(dataDir string) string {
	return created(filepath.Join(dataDir, "libraries"))
}

// NativesDir returns the shared natives-extraction directory.
func NativesDir(dataDir string) string {
	return created(filepath.Join(dataDir, "natives"))
}

// RelVersionsDir is the versions directory's path relative to the data
// directory.
const RelVersionsDir = "versions"

// VersionsDir returns the directory holding per-version metadata/jars.
func VersionsDir(dataDir string) string {
	return created(filepath.Join(dataDir, RelVersionsDir))
}

// RelMetadataPath is a version's metadata path relative to the versions
// directory.
func RelMetadataPath(versionID string) string {
	return filepath.Join(versionID, versionID+".json")
}

// MetadataPath returns a version's metadata document path.
func MetadataPath(versionsDir, versionID string) string {
	return parentCreated(filepath.Join(versionsDir, RelMetadataPath(versionID)))
}

// ClientJarPath returns a version's client jar path.
func ClientJarPath(dataDir, id string) string {
	return parentCreated(filepath.Join(VersionsDir(dataDir), id, id+".jar"))
}

// RelVersionsExtraDir is the versions_extra directory relative to the
// data directory.
const RelVersionsExtraDir = "versions_extra"

// VersionsExtraDir returns the directory holding modpack-specific extra
// metadata documents.
func VersionsExtraDir(dataDir string) string {
	return created(filepath.Join(dataDir, RelVersionsExtraDir))
}

// RelExtraMetadataPath is an extra metadata document's path relative to
// the versions_extra directory.
func RelExtraMetadataPath(versionName string) string {
	return versionName + ".json"
}

// ExtraMetadataPath returns an extra metadata document's path.
func ExtraMetadataPath(versionsExtraDir, versionName string) string {
	return parentCreated(filepath.Join(versionsExtraDir, RelExtraMetadataPath(versionName)))
}

// AssetsDir returns the shared assets directory.
func AssetsDir(dataDir string) string {
	return created(filepath.Join(dataDir, "assets"))
}

// AssetIndexPath returns an asset index document's path.
func AssetIndexPath(assetsDir, assetIndex string) string {
	return parentCreated(filepath.Join(assetsDir, "indexes", assetIndex+".json"))
}

// AssetObjectsDir returns the directory holding content-addressed asset
// objects.
func AssetObjectsDir(assetsDir string) string {
	return created(filepath.Join(assetsDir, "objects"))
}

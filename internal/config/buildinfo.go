package config

import "fmt"

// Build-time parameters, bound via -ldflags -X at compile time (the
// Go-native analogue of the original's include!(concat!(env!("OUT_DIR"),
// ...)) codegen). LauncherName and VersionManifestURL are required;
// AutoUpdateBaseURL is optional (no self-update endpoint configured means
// self-update is disabled).
var (
	LauncherName       = "NovaForge"
	VersionManifestURL = "https://meta.novaforge.dev/version_manifest.json"
	AutoUpdateBaseURL  = ""
	Version            = "dev"
)

func init() {
	if LauncherName == "" {
		panic("config: required build parameter LauncherName is empty")
	}
	if VersionManifestURL == "" {
		panic(fmt.Sprintf("config: required build parameter VersionManifestURL is empty (launcher %q built without a manifest source)", LauncherName))
	}
}

// Package rules evaluates the OS/arch/feature rule lists Mojang attaches
// to libraries and modern arguments, generalizing the teacher's
// shouldIncludeLibrary/getOSName pair to the full rule grammar described
// by the original implementation's rules.rs.
package rules

import (
	"regexp"
	"runtime"

	"github.com/novaforge/launcher/internal/model"
)

// OSName returns the Mojang platform tag for the current GOOS:
// "windows", "osx" or "linux".
func OSName() string {
	switch runtime.GOOS {
	case "windows":
		return "windows"
	case "darwin":
		return "osx"
	default:
		return "linux"
	}
}

// Arch returns the Mojang architecture tag for the current GOARCH.
func Arch() string {
	switch runtime.GOARCH {
	case "arm64":
		return "arm64"
	case "arm":
		return "arm32"
	default:
		return "x86_64"
	}
}

// OSArchTag returns the natives-classifier suffix used to select a
// platform-specific library artifact: "linux", "linux-arm64",
// "linux-arm32", "osx", "osx-arm64", "windows", "windows-arm64".
func OSArchTag() string {
	name := OSName()
	switch {
	case name == "osx" && Arch() == "arm64":
		return "osx-arm64"
	case name == "windows" && Arch() == "arm64":
		return "windows-arm64"
	case name == "linux" && Arch() == "arm64":
		return "linux-arm64"
	case name == "linux" && Arch() == "arm32":
		return "linux-arm32"
	default:
		return name
	}
}

// osVersionOverride lets tests and the Windows-specific build pin the
// detected OS version string; unset (the portable default) means "no
// version", so a rule requiring one simply never matches on that build.
var osVersionOverride string

func osVersion() string {
	return osVersionOverride
}

// Features are the named boolean feature flags a modern argument rule
// can gate on (e.g. has_custom_resolution, is_demo_user).
type Features map[string]bool

// Applies evaluates a rule list against the current platform and the
// supplied feature flags: true iff at least one rule matched and
// resolved to allow, and no matched rule resolved to disallow.
// Unmatched rules are ignored. A matched disallow rule fails the whole
// list immediately, and an empty or all-non-matching list yields false —
// matching rules_apply in the original's rules.rs, which starts
// some_allowed at false and returns early on the first matched disallow.
// Callers that need "no rules at all" to mean "always applicable" (e.g.
// a library with no rules field) must check len(list) == 0 themselves
// before calling Applies; Applies itself never treats absence of rules
// as permission.
func Applies(list []model.Rule, features Features) bool {
	allowed := false
	for _, r := range list {
		if !ruleMatches(r, features) {
			continue
		}
		if r.Action != "allow" {
			return false
		}
		allowed = true
	}
	return allowed
}

func ruleMatches(r model.Rule, features Features) bool {
	if r.Os != nil {
		if r.Os.Name != "" && r.Os.Name != OSName() {
			return false
		}
		if r.Os.Arch != "" && r.Os.Arch != Arch() {
			return false
		}
		if r.Os.Version != "" {
			re, err := regexp.Compile(r.Os.Version)
			if err != nil || !re.MatchString(osVersion()) {
				return false
			}
		}
	}
	for key, want := range r.Features {
		wantBool, _ := want.(bool)
		if features[key] != wantBool {
			return false
		}
	}
	return true
}

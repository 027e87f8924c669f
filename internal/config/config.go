// Package config persists config.json and exposes the build-time
// parameters baked into the binary, grounded on
// original_source/launcher/src/config/runtime_config.rs for the exact
// key set and original_source/launcher/src/config/build_config.rs for
// the compile-time-parameter pattern (ported from include_str!/OUT_DIR
// codegen to Go's -ldflags -X strings).
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/novaforge/launcher/internal/content"
	"github.com/novaforge/launcher/internal/model"
)

// Bounds on the configured Java heap size, in megabytes, matching
// launcher/src/constants.rs.
const (
	MinJavaMB = 256
	MaxJavaMB = 65536
)

// DefaultXmx is used when config.json doesn't set one.
const DefaultXmx = "4096m"

// Config is the persisted config.json document.
type Config struct {
	VersionsAuthData         map[string]model.VersionAuthData `json:"versions_auth_data,omitempty"`
	JavaPaths                map[string]string                `json:"java_paths,omitempty"`
	AssetsDir                string                            `json:"assets_dir,omitempty"`
	DataDir                  string                            `json:"data_dir,omitempty"`
	Xmx                      string                            `json:"xmx,omitempty"`
	SelectedModpackName      string                            `json:"selected_modpack_name,omitempty"`
	Lang                     string                            `json:"lang,omitempty"`
	CloseLauncherAfterLaunch bool                              `json:"close_launcher_after_launch,omitempty"`
}

// Load reads and parses path, returning a zero-value Config with
// defaults applied if the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.applyDefaults()
	return &c, nil
}

func defaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Xmx == "" {
		c.Xmx = DefaultXmx
	}
	if c.VersionsAuthData == nil {
		c.VersionsAuthData = map[string]model.VersionAuthData{}
	}
	if c.JavaPaths == nil {
		c.JavaPaths = map[string]string{}
	}
}

// Save persists c to path as indented JSON, first backing up any existing
// file at path+".bak" so a crash mid-write never loses the prior config.
func (c *Config) Save(path string) error {
	if _, err := os.Stat(path); err == nil {
		if err := content.CopyFile(path, path+".bak"); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ValidateXmx parses xmx (a string like "4096m") and checks it falls
// within [MinJavaMB, MaxJavaMB].
func ValidateXmx(xmx string) error {
	mb, err := parseMegabytes(xmx)
	if err != nil {
		return fmt.Errorf("config: invalid xmx %q: %w", xmx, err)
	}
	if mb < MinJavaMB || mb > MaxJavaMB {
		return fmt.Errorf("config: xmx %dM out of range [%d, %d]", mb, MinJavaMB, MaxJavaMB)
	}
	return nil
}

func parseMegabytes(s string) (int, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("too short")
	}
	suffix := s[len(s)-1]
	var mult int
	switch suffix {
	case 'm', 'M':
		mult = 1
	case 'g', 'G':
		mult = 1024
	default:
		return 0, fmt.Errorf("unrecognized unit suffix %q", suffix)
	}
	var n int
	for _, r := range s[:len(s)-1] {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a number: %s", s)
		}
		n = n*10 + int(r-'0')
	}
	return n * mult, nil
}

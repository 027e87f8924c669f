package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaforge/launcher/internal/model"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultXmx, c.Xmx)
	assert.NotNil(t, c.VersionsAuthData)
	assert.NotNil(t, c.JavaPaths)
}

func TestLoadParsesExistingFileAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"xmx":"8192m","lang":"en"}`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8192m", c.Xmx)
	assert.Equal(t, "en", c.Lang)
	assert.NotNil(t, c.VersionsAuthData)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveWritesIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	c := defaultConfig()
	c.Xmx = "2048m"

	require.NoError(t, c.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"xmx": "2048m"`)
}

func TestSaveBacksUpExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"xmx":"1024m"}`), 0o644))

	c := defaultConfig()
	c.Xmx = "4096m"
	require.NoError(t, c.Save(path))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(backup), "1024m")

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(current), "4096m")
}

func TestSaveNoBackupWhenFileAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	c := defaultConfig()
	require.NoError(t, c.Save(path))

	_, err := os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))
}

func TestValidateXmxAcceptsInRangeValues(t *testing.T) {
	assert.NoError(t, ValidateXmx("256m"))
	assert.NoError(t, ValidateXmx("4096M"))
	assert.NoError(t, ValidateXmx("8g"))
	assert.NoError(t, ValidateXmx("64G"))
}

func TestValidateXmxRejectsOutOfRange(t *testing.T) {
	assert.Error(t, ValidateXmx("128m"))
	assert.Error(t, ValidateXmx("128g"))
}

func TestValidateXmxRejectsMalformed(t *testing.T) {
	assert.Error(t, ValidateXmx(""))
	assert.Error(t, ValidateXmx("m"))
	assert.Error(t, ValidateXmx("4096x"))
	assert.Error(t, ValidateXmx("abcm"))
}

func TestConfigRoundTripsVersionAuthData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	c := defaultConfig()
	c.VersionsAuthData["1.20.1"] = model.VersionAuthData{Username: "steve", UserUUID: "uuid-1"}
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "steve", loaded.VersionsAuthData["1.20.1"].Username)
}

package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstancesDirCreatesDirectory(t *testing.T) {
	dataDir := t.TempDir()
	dir := InstancesDir(dataDir)
	assert.Equal(t, filepath.Join(dataDir, "instances"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInstancesDirMigratesLegacyModpacksDir(t *testing.T) {
	dataDir := t.TempDir()
	legacy := filepath.Join(dataDir, "modpacks")
	require.NoError(t, os.MkdirAll(legacy, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(legacy, "marker.txt"), []byte("x"), 0o644))

	dir := InstancesDir(dataDir)

	_, err := os.Stat(legacy)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "marker.txt"))
	assert.NoError(t, err)
}

func TestInstancesDirLeavesCurrentDirAloneWhenBothExist(t *testing.T) {
	dataDir := t.TempDir()
	legacy := filepath.Join(dataDir, "modpacks")
	cur := filepath.Join(dataDir, "instances")
	require.NoError(t, os.MkdirAll(legacy, 0o755))
	require.NoError(t, os.MkdirAll(cur, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cur, "keep.txt"), []byte("keep"), 0o644))

	InstancesDir(dataDir)

	_, err := os.Stat(filepath.Join(cur, "keep.txt"))
	assert.NoError(t, err)
}

func TestInstanceDirJoinsVersionName(t *testing.T) {
	dataDir := t.TempDir()
	dir := InstanceDir(dataDir, "my-pack")
	assert.Equal(t, filepath.Join(dataDir, "instances", "my-pack"), dir)
}

func TestClientJarPathCreatesParent(t *testing.T) {
	dataDir := t.TempDir()
	p := ClientJarPath(dataDir, "1.20.1")
	assert.Equal(t, filepath.Join(dataDir, "versions", "1.20.1", "1.20.1.jar"), p)

	info, err := os.Stat(filepath.Dir(p))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestAssetIndexPathAndObjectsDir(t *testing.T) {
	assetsDir := t.TempDir()
	idx := AssetIndexPath(assetsDir, "17")
	assert.Equal(t, filepath.Join(assetsDir, "indexes", "17.json"), idx)

	objDir := AssetObjectsDir(assetsDir)
	assert.Equal(t, filepath.Join(assetsDir, "objects"), objDir)
	info, err := os.Stat(objDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExtraMetadataPath(t *testing.T) {
	dataDir := t.TempDir()
	dir := VersionsExtraDir(dataDir)
	p := ExtraMetadataPath(dir, "my-pack")
	assert.Equal(t, filepath.Join(dir, "my-pack.json"), p)
}

func TestAssetsDir(t *testing.T) {
	dataDir := t.TempDir()
	dir := AssetsDir(dataDir)
	assert.Equal(t, filepath.Join(dataDir, "assets"), dir)
}

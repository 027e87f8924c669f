package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaforge/launcher/internal/content"
	"github.com/novaforge/launcher/internal/model"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "NotSynced", NotSynced.String())
	assert.Equal(t, "Syncing", Syncing.String())
	assert.Equal(t, "Synced", Synced.String())
	assert.Equal(t, "SyncError", SyncError.String())
	assert.Equal(t, "SyncErrorOffline", SyncErrorOffline.String())
	assert.Equal(t, "Unknown", State(99).String())
}

func TestClientDownloadPrefersOverride(t *testing.T) {
	merged := model.MergedVersionMetadata{
		Downloads: &model.Downloads{Client: &model.Download{URL: "https://vanilla/client.jar", SHA1: "v1", Size: 10}},
	}
	extra := &model.ExtraVersionMetadata{
		ClientDownloadOverride: &model.Download{URL: "https://overlay/client.jar", SHA1: "v2", Size: 20},
	}

	url, sha1, size := clientDownload(merged, extra)
	assert.Equal(t, "https://overlay/client.jar", url)
	assert.Equal(t, "v2", sha1)
	assert.EqualValues(t, 20, size)
}

func TestClientDownloadFallsBackToVanilla(t *testing.T) {
	merged := model.MergedVersionMetadata{
		Downloads: &model.Downloads{Client: &model.Download{URL: "https://vanilla/client.jar", SHA1: "v1", Size: 10}},
	}
	url, sha1, size := clientDownload(merged, nil)
	assert.Equal(t, "https://vanilla/client.jar", url)
	assert.Equal(t, "v1", sha1)
	assert.EqualValues(t, 10, size)
}

func TestAnyUnderDir(t *testing.T) {
	entries := []content.DownloadEntry{{Path: "/data/libraries/a.jar"}, {Path: "/data/assets/b"}}
	assert.True(t, anyUnderDir(entries, "/data/libraries"))
	assert.False(t, anyUnderDir(entries, "/data/natives"))
}

func TestInsertOrReplaceAddsNew(t *testing.T) {
	mirror := &model.VersionManifest{}
	insertOrReplace(mirror, model.VersionInfo{ID: "1.20.1", Name: "Vanilla"})
	require.Len(t, mirror.Versions, 1)
	assert.Equal(t, "1.20.1", mirror.Versions[0].ID)
}

func TestInsertOrReplaceReplacesExistingByName(t *testing.T) {
	mirror := &model.VersionManifest{Versions: []model.VersionInfo{{ID: "old", Name: "Pack"}}}
	insertOrReplace(mirror, model.VersionInfo{ID: "new", Name: "Pack"})
	require.Len(t, mirror.Versions, 1)
	assert.Equal(t, "new", mirror.Versions[0].ID)
}

func TestSaveMirrorWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.json")
	mirror := &model.VersionManifest{Versions: []model.VersionInfo{{ID: "1.20.1"}}}
	require.NoError(t, SaveMirror(path, mirror))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1.20.1")
}

func TestEngineSyncShortCircuitsWhenAlreadySynced(t *testing.T) {
	e := New(content.New(nil), nil, nil)
	mirror := &model.VersionManifest{Versions: []model.VersionInfo{{ID: "1.20.1", Name: "1.20.1"}}}

	req := Request{
		VersionInfo: model.VersionInfo{ID: "1.20.1", Name: "1.20.1"},
		Merged:      model.MergedVersionMetadata{ID: "1.20.1"},
		DataDir:     t.TempDir(),
	}

	result, err := e.Sync(context.Background(), req, mirror)
	require.NoError(t, err)
	assert.Equal(t, Synced, result.State)
}

func TestEngineSyncDownloadsClientJar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jar-bytes"))
	}))
	defer srv.Close()

	dataDir := t.TempDir()
	e := New(content.New(nil), nil, nil)

	req := Request{
		VersionInfo: model.VersionInfo{ID: "1.20.1", Name: "1.20.1"},
		Merged: model.MergedVersionMetadata{
			ID:        "1.20.1",
			Downloads: &model.Downloads{Client: &model.Download{URL: srv.URL}},
		},
		DataDir: dataDir,
	}

	result, err := e.Sync(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, Synced, result.State)
}

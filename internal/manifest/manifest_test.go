package manifest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaforge/launcher/internal/model"
)

func TestFetchParsesRemoteManifestAndMirrorsLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"latest":{"release":"1.20.1"},"versions":[{"id":"1.20.1","url":"https://x/1.20.1.json"}]}`))
	}))
	defer srv.Close()

	localPath := filepath.Join(t.TempDir(), "manifest.json")
	r := New(nil)
	m, err := r.Fetch(context.Background(), srv.URL, localPath)
	require.NoError(t, err)
	assert.Equal(t, "1.20.1", m.Latest.Release)
	require.Len(t, m.Versions, 1)

	mirrored, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Contains(t, string(mirrored), "1.20.1")
}

func TestFetchFallsBackToLocalMirrorOnNetworkFailure(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(localPath, []byte(`{"versions":[{"id":"cached"}]}`), 0o644))

	r := New(nil)
	m, err := r.Fetch(context.Background(), "http://127.0.0.1:1/unreachable", localPath)
	require.NoError(t, err)
	require.Len(t, m.Versions, 1)
	assert.Equal(t, "cached", m.Versions[0].ID)
}

func TestFetchReturnsEmptyManifestWhenNoLocalMirrorExists(t *testing.T) {
	r := New(nil)
	m, err := r.Fetch(context.Background(), "http://127.0.0.1:1/unreachable", filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, m.Versions)
}

func TestFetchMetadataValidatesSHA1(t *testing.T) {
	body := []byte(`{"id":"1.20.1","mainClass":"net.minecraft.client.main.Main"}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	r := New(nil)
	vm, err := r.FetchMetadata(context.Background(), srv.URL, sha1Hex(body))
	require.NoError(t, err)
	assert.Equal(t, "1.20.1", vm.ID)
}

func TestFetchMetadataRejectsHashMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"tampered"}`))
	}))
	defer srv.Close()

	r := New(nil)
	_, err := r.FetchMetadata(context.Background(), srv.URL, "0000000000000000000000000000000000000000")
	assert.Error(t, err)
}

func TestResolveChainOrdersRootFirst(t *testing.T) {
	docs := map[string]*model.VersionMetadata{
		"forge-1.20.1": {ID: "forge-1.20.1", InheritsFrom: "1.20.1"},
		"1.20.1":       {ID: "1.20.1"},
	}

	r := New(nil)
	chain, err := r.ResolveChain(context.Background(), model.VersionInfo{ID: "forge-1.20.1"}, func(ctx context.Context, id string) (*model.VersionMetadata, error) {
		return docs[id], nil
	})
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "1.20.1", chain[0].ID)
	assert.Equal(t, "forge-1.20.1", chain[1].ID)
}

func TestFetchWithInjectedClockStillFetchesSuccessfully(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"latest":{"release":"1.20.1"},"versions":[{"id":"1.20.1"}]}`))
	}))
	defer srv.Close()

	fake := clockwork.NewFakeClock()
	r := NewWithClock(nil, fake)
	m, err := r.Fetch(context.Background(), srv.URL, filepath.Join(t.TempDir(), "manifest.json"))
	require.NoError(t, err)
	require.Len(t, m.Versions, 1)
	assert.Equal(t, "1.20.1", m.Versions[0].ID)
}

func TestResolveChainDetectsCycle(t *testing.T) {
	docs := map[string]*model.VersionMetadata{
		"a": {ID: "a", InheritsFrom: "b"},
		"b": {ID: "b", InheritsFrom: "a"},
	}

	r := New(nil)
	_, err := r.ResolveChain(context.Background(), model.VersionInfo{ID: "a"}, func(ctx context.Context, id string) (*model.VersionMetadata, error) {
		return docs[id], nil
	})
	assert.Error(t, err)
}

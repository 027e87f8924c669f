package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloSHA1 = "f572d396fae9206628714fb2ce00f72e94f2258f" // sha1("hello\n")

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestHashFile(t *testing.T) {
	path := writeTemp(t, "a.txt", "hello\n")
	sum, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, helloSHA1, sum)
}

func TestHashFileMissing(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestHashFiles(t *testing.T) {
	present := writeTemp(t, "present.txt", "hello\n")
	missing := filepath.Join(t.TempDir(), "missing.txt")

	out, err := HashFiles([]string{present, missing})
	require.NoError(t, err)

	assert.Equal(t, helloSHA1, out[present])
	_, ok := out[missing]
	assert.False(t, ok)
}

func TestCopyFile(t *testing.T) {
	src := writeTemp(t, "src.txt", "payload")
	dst := filepath.Join(t.TempDir(), "dst.txt")

	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestNeedsDownloadMissingFile(t *testing.T) {
	s := New(nil)
	need, err := s.NeedsDownload(CheckEntry{Path: filepath.Join(t.TempDir(), "gone.txt"), ExpectedSHA1: helloSHA1})
	require.NoError(t, err)
	assert.True(t, need)
}

func TestNeedsDownloadMatchingHash(t *testing.T) {
	s := New(nil)
	path := writeTemp(t, "a.txt", "hello\n")
	need, err := s.NeedsDownload(CheckEntry{Path: path, ExpectedSHA1: helloSHA1})
	require.NoError(t, err)
	assert.False(t, need)
}

func TestNeedsDownloadHashMismatch(t *testing.T) {
	s := New(nil)
	path := writeTemp(t, "a.txt", "goodbye\n")
	need, err := s.NeedsDownload(CheckEntry{Path: path, ExpectedSHA1: helloSHA1})
	require.NoError(t, err)
	assert.True(t, need)
}

func TestPlanDownloadsSkipsUpToDateFiles(t *testing.T) {
	s := New(nil)
	fresh := writeTemp(t, "fresh.txt", "hello\n")
	stale := writeTemp(t, "stale.txt", "goodbye\n")

	checks := []CheckEntry{
		{Path: fresh, ExpectedSHA1: helloSHA1},
		{Path: stale, ExpectedSHA1: helloSHA1},
	}
	downloads := []DownloadEntry{
		{Path: fresh, URL: "https://example/fresh"},
		{Path: stale, URL: "https://example/stale"},
	}

	plan, err := s.PlanDownloads(checks, downloads)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "https://example/stale", plan[0].URL)
}

func TestPlanDownloadsMismatchedLengthsPanics(t *testing.T) {
	s := New(nil)
	assert.Panics(t, func() {
		_, _ = s.PlanDownloads([]CheckEntry{{}}, nil)
	})
}

func TestFetchBytesHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote-body"))
	}))
	defer srv.Close()

	b, err := FetchBytes(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "remote-body", string(b))
}

func TestFetchBytesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := FetchBytes(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetchBytesLocalFile(t *testing.T) {
	path := writeTemp(t, "local.json", `{"a":1}`)
	b, err := FetchBytes(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(b))
}

func TestFetchStringTrimsWhitespace(t *testing.T) {
	path := writeTemp(t, "sha1.txt", "  abc123  \n")
	s, err := FetchString(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", s)
}

func TestDownloadFilesWritesAndSkipsExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("downloaded"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	already := filepath.Join(dir, "already.txt")
	require.NoError(t, os.WriteFile(already, []byte("keep-me"), 0o644))
	fresh := filepath.Join(dir, "fresh.txt")

	store := New(nil)
	err := store.DownloadFiles(context.Background(), []DownloadEntry{
		{Path: already, URL: srv.URL},
		{Path: fresh, URL: srv.URL},
	})
	require.NoError(t, err)

	keptBody, err := os.ReadFile(already)
	require.NoError(t, err)
	assert.Equal(t, "keep-me", string(keptBody))

	newBody, err := os.ReadFile(fresh)
	require.NoError(t, err)
	assert.Equal(t, "downloaded", string(newBody))
}

func TestDownloadFilesFirstErrorWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := New(nil)
	dir := t.TempDir()
	err := store.DownloadFiles(context.Background(), []DownloadEntry{
		{Path: filepath.Join(dir, "a.txt"), URL: srv.URL},
	})
	assert.Error(t, err)
}

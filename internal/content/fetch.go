package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// FetchBytes retrieves the content at url. A "file://" (or bare
// filesystem path) URL is read directly, mirroring the manifest
// resolver's local-mirror fallback.
func FetchBytes(ctx context.Context, url string) ([]byte, error) {
	if local, ok := strings.CutPrefix(url, "file://"); ok {
		return os.ReadFile(local)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return os.ReadFile(url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// FetchString is a convenience wrapper around FetchBytes, used for the
// sha1-sidecar fallback fetch (original's get_libraries_entries).
func FetchString(ctx context.Context, url string) (string, error) {
	b, err := FetchBytes(ctx, url)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// downloadConcurrency is 4x the hashing concurrency: downloads are I/O
// bound on the remote server, not the local CPU, matching the original's
// download_files semaphore size.
func downloadConcurrency() int {
	return max(1, 4*runtime.NumCPU())
}

// DownloadFiles fetches every entry concurrently. The first failure
// aborts the remaining in-flight downloads (via ctx cancellation) and is
// the only error returned; later errors are discarded, matching the
// original's "first error wins" semantics.
func (s *Store) DownloadFiles(ctx context.Context, entries []DownloadEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var once sync.Once
	var firstErr error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadConcurrency())

	for _, e := range entries {
		e := e
		g.Go(func() error {
			if err := s.downloadOne(gctx, e); err != nil {
				once.Do(func() {
					firstErr = fmt.Errorf("download %s: %w", e.URL, err)
					cancel()
				})
			}
			return nil
		})
	}
	_ = g.Wait()
	return firstErr
}

func (s *Store) downloadOne(ctx context.Context, e DownloadEntry) error {
	if _, err := os.Stat(e.Path); err == nil {
		s.log.Debug("file already present", zap.String("path", e.Path))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(e.Path), 0o755); err != nil {
		return err
	}

	tmp := e.Path + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if e.ExpectedSHA1 != "" {
		actual, err := HashFile(tmp)
		if err != nil {
			os.Remove(tmp)
			return err
		}
		if actual != e.ExpectedSHA1 {
			os.Remove(tmp)
			return fmt.Errorf("sha1 mismatch: expected %s, got %s", e.ExpectedSHA1, actual)
		}
	}
	if err := os.Rename(tmp, e.Path); err != nil {
		return err
	}

	s.log.Debug("downloaded", zap.String("path", e.Path), zap.String("url", e.URL))
	return nil
}

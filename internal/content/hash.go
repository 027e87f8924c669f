package content

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// HashFile returns the lowercase hex sha1 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashFiles hashes every path concurrently, bounded to runtime.NumCPU()
// in flight at once (matching the original's hash_files concurrency).
// Paths that don't exist or can't be read are simply omitted from the
// result rather than failing the whole batch, since a missing file just
// means "needs download" to every caller.
func HashFiles(paths []string) (map[string]string, error) {
	g := new(errgroup.Group)
	g.SetLimit(max(1, runtime.NumCPU()))

	results := make([]string, len(paths))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			h, err := HashFile(p)
			if err != nil {
				return nil
			}
			results[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(paths))
	for i, p := range paths {
		if results[i] != "" {
			out[p] = results[i]
		}
	}
	return out, nil
}

// Package manifest fetches and resolves the version manifest and the
// inheritance chain of a version's metadata documents, generalizing the
// teacher's inline http.Get-then-json.Unmarshal calls in
// downloader.DownloadVersion into a retried, locally-mirrored resolver.
package manifest

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/novaforge/launcher/internal/content"
	"github.com/novaforge/launcher/internal/model"
)

// ErrNetworkUnreachable is returned when the manifest or a metadata
// document cannot be fetched remotely and no usable local copy exists.
var ErrNetworkUnreachable = errors.New("manifest: network unreachable and no local copy available")

// Resolver fetches version manifests/metadata, retrying transient
// network failures and falling back to a local mirror when offline.
type Resolver struct {
	log   *zap.Logger
	clock clockwork.Clock
}

// New returns a Resolver that logs through log.
func New(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log, clock: clockwork.NewRealClock()}
}

// NewWithClock returns a Resolver backed by clock instead of the real
// wall clock, letting tests drive the retry backoff deterministically.
func NewWithClock(log *zap.Logger, clock clockwork.Clock) *Resolver {
	r := New(log)
	r.clock = clock
	return r
}

// Fetch retrieves the version manifest from url, persisting it to
// localPath on success. On a network-level failure it falls back to
// reading localPath; a read/parse failure there yields an empty
// manifest rather than an error, matching read_local_safe.
func (r *Resolver) Fetch(ctx context.Context, url, localPath string) (*model.VersionManifest, error) {
	data, err := r.fetchWithRetry(ctx, url)
	if err != nil {
		r.log.Warn("manifest fetch failed, falling back to local copy", zap.Error(err))
		return r.readLocalSafe(localPath), nil
	}
	if localPath != "" {
		if werr := os.WriteFile(localPath, data, 0o644); werr != nil {
			r.log.Warn("failed to persist local manifest mirror", zap.Error(werr))
		}
	}
	var m model.VersionManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", url, err)
	}
	return &m, nil
}

func (r *Resolver) readLocalSafe(localPath string) *model.VersionManifest {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return &model.VersionManifest{}
	}
	var m model.VersionManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return &model.VersionManifest{}
	}
	return &m
}

func (r *Resolver) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	eb := backoff.NewExponentialBackOff()
	eb.Clock = r.clock
	bo := backoff.WithContext(backoff.WithMaxRetries(eb, 3), ctx)

	var data []byte
	op := func() error {
		b, err := content.FetchBytes(ctx, url)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return err // retryable
			}
			return backoff.Permanent(err)
		}
		data = b
		return nil
	}
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}
	return data, nil
}

// FetchMetadata retrieves and parses a single version metadata document,
// validating its sha1 against expectedSHA1 when non-empty. A hash
// mismatch is fatal and is never retried, per the integrity invariant.
func (r *Resolver) FetchMetadata(ctx context.Context, url, expectedSHA1 string) (*model.VersionMetadata, error) {
	data, err := r.fetchWithRetry(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}
	if expectedSHA1 != "" {
		if got := sha1Hex(data); got != expectedSHA1 {
			return nil, fmt.Errorf("manifest: sha1 mismatch for %s: got %s want %s", url, got, expectedSHA1)
		}
	}
	var vm model.VersionMetadata
	if err := json.Unmarshal(data, &vm); err != nil {
		return nil, fmt.Errorf("manifest: parse metadata %s: %w", url, err)
	}
	return &vm, nil
}

// ResolveChain walks info's InheritsFrom pointers (each itself fetched
// via FetchMetadata) and returns the chain ordered root-first, leaf-last,
// ready for Merge. versionsDir/local fetchers are the caller's concern;
// fetch is the function used to load one VersionMetadata by version ID.
func (r *Resolver) ResolveChain(ctx context.Context, leaf model.VersionInfo, fetch func(ctx context.Context, versionID string) (*model.VersionMetadata, error)) ([]*model.VersionMetadata, error) {
	var chain []*model.VersionMetadata
	seen := map[string]bool{}

	id := leaf.ID
	for id != "" {
		if seen[id] {
			return nil, fmt.Errorf("manifest: inheritance cycle detected at %s", id)
		}
		seen[id] = true

		vm, err := fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		chain = append(chain, vm)
		id = vm.InheritsFrom
	}

	// reverse to root-first order
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func sha1Hex(data []byte) string {
	h := sha1.Sum(data)
	return hex.EncodeToString(h[:])
}

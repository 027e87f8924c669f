// Package sync implements the Sync Engine (G): composing the content
// store, library/asset/overlay planners into one transactional
// check→diff→download→extract→record pass. Grounded on
// original_source/launcher/src/version/sync.rs::sync_modpack and
// src/downloader/downloader.go::DownloadVersion for the overall shape.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/novaforge/launcher/internal/asset"
	"github.com/novaforge/launcher/internal/content"
	"github.com/novaforge/launcher/internal/events"
	"github.com/novaforge/launcher/internal/library"
	"github.com/novaforge/launcher/internal/model"
	"github.com/novaforge/launcher/internal/overlay"
	"github.com/novaforge/launcher/internal/paths"
)

// Engine composes the Content Store with the library/asset/overlay
// planners into the sync_modpack pipeline.
type Engine struct {
	store    *content.Store
	emitter  *events.Emitter
	log      *zap.Logger
}

// New returns an Engine that reports progress through emitter (may be
// nil) and logs through log (may be nil).
func New(store *content.Store, emitter *events.Emitter, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if emitter == nil {
		emitter = events.New()
	}
	return &Engine{store: store, emitter: emitter, log: log}
}

// Request bundles everything one sync pass needs.
type Request struct {
	VersionInfo     model.VersionInfo
	Merged          model.MergedVersionMetadata
	Extra           *model.ExtraVersionMetadata
	DataDir         string
	ResourcesBaseURL string
	Options         Options
}

// Result reports what the engine actually did, for the caller to relay
// to the UI/manifest mirror.
type Result struct {
	State            State
	LibrariesChanged bool
}

// Sync executes one full sync pass for req, returning the final state.
// A non-nil error always corresponds to SyncError/SyncErrorOffline in
// the returned Result.State.
func (e *Engine) Sync(ctx context.Context, req Request, mirror *model.VersionManifest) (Result, error) {
	e.emitter.Emit(events.EventSyncStateChange, Syncing)

	if !req.Options.IgnoreVersion && mirror != nil {
		if existing, ok := mirror.FindByName(req.VersionInfo.GetName()); ok && existing.ID == req.VersionInfo.ID {
			e.log.Debug("version already synced, short-circuiting", zap.String("version", req.VersionInfo.GetName()))
			e.emitter.Emit(events.EventSyncStateChange, Synced)
			return Result{State: Synced}, nil
		}
	}

	instanceDir := paths.InstanceDir(req.DataDir, req.VersionInfo.GetName())
	librariesDir := paths.LibrariesDir(req.DataDir)
	nativesDir := paths.NativesDir(req.DataDir)

	var checks []content.CheckEntry
	var downloads []content.DownloadEntry

	// 1. client jar
	clientURL, clientSHA1, clientSize := clientDownload(req.Merged, req.Extra)
	clientPath := paths.ClientJarPath(req.DataDir, req.Merged.ID)
	checks = append(checks, content.CheckEntry{Path: clientPath, ExpectedSHA1: clientSHA1, ExpectedSize: clientSize})
	downloads = append(downloads, content.DownloadEntry{Path: clientPath, URL: clientURL, ExpectedSHA1: clientSHA1, ExpectedSize: clientSize})

	// 2. libraries (+ extra forge libs)
	var extraForgeLibs []string
	var overwritePaths map[string]bool
	var overlayObjects []model.Object
	if req.Extra != nil {
		overlayObjects = req.Extra.Objects
	}

	libPlan, err := library.Build(ctx, req.Merged.ID, req.Merged.Libraries, extraForgeLibs, librariesDir)
	if err != nil {
		return e.fail(err)
	}
	checks = append(checks, libPlan.Checks...)
	downloads = append(downloads, libPlan.Downloads...)

	// 3. overlay objects
	var ovPlan overlay.Plan
	if req.Extra != nil {
		ovPlan = overlay.Build(req.Extra.Objects, req.Extra.Include, req.Extra.IncludeNoOverwrite, instanceDir, req.Options.ForceOverwrite)
		checks = append(checks, ovPlan.Checks...)
		downloads = append(downloads, ovPlan.Downloads...)
		overwritePaths = ovPlan.OverwritePaths
	}

	// 5. asset index + objects
	var assetPlan asset.Plan
	if req.Merged.AssetIndex != nil {
		assetsDir := assetsDirFor(req.DataDir)
		indexPath := paths.AssetIndexPath(assetsDir, req.Merged.AssetIndex.ID)
		objectsDir := paths.AssetObjectsDir(assetsDir)
		assetPlan, err = asset.Fetch(ctx, *req.Merged.AssetIndex, indexPath, objectsDir, req.ResourcesBaseURL)
		if err != nil {
			return e.fail(err)
		}
		checks = append(checks, assetPlan.IndexCheck)
		downloads = append(downloads, content.DownloadEntry{Path: assetPlan.IndexCheck.Path, URL: req.Merged.AssetIndex.URL, ExpectedSHA1: req.Merged.AssetIndex.SHA1})
		checks = append(checks, assetPlan.Objects...)
		downloads = append(downloads, assetPlan.Downloads...)
	}

	e.emitter.Emit(events.EventCheckingFiles, events.Progress{Phase: "checking", Total: int64(len(checks))})
	plan, err := e.store.PlanDownloads(checks, downloads)
	if err != nil {
		return e.fail(err)
	}

	librariesChanged := anyUnderDir(plan, librariesDir)

	e.emitter.Emit(events.EventDownloadingFiles, events.Progress{Phase: "downloading", Total: int64(len(plan))})
	if err := e.store.DownloadFiles(ctx, plan); err != nil {
		return e.fail(err)
	}

	if librariesChanged {
		if err := e.reextractNatives(libPlan.Libraries, librariesDir, nativesDir); err != nil {
			return e.fail(err)
		}
	}

	if overwritePaths != nil {
		if err := overlay.PruneStale(instanceDir, overwritePaths, overlayObjects); err != nil {
			return e.fail(err)
		}
	}

	if mirror != nil {
		insertOrReplace(mirror, req.VersionInfo)
	}

	e.emitter.Emit(events.EventSyncStateChange, Synced)
	return Result{State: Synced, LibrariesChanged: librariesChanged}, nil
}

func (e *Engine) fail(err error) (Result, error) {
	e.log.Warn("sync failed", zap.Error(err))
	e.emitter.Emit(events.EventSyncStateChange, SyncError)
	return Result{State: SyncError}, err
}

func (e *Engine) reextractNatives(libs []model.Library, librariesDir, nativesDir string) error {
	for _, lib := range libs {
		archivePath, exclude, ok := library.NativeExtractSpec(lib, librariesDir)
		if !ok {
			continue
		}
		if err := content.ExtractNatives(archivePath, nativesDir, exclude); err != nil {
			return fmt.Errorf("extract natives for %s: %w", lib.Name, err)
		}
	}
	return nil
}

func clientDownload(merged model.MergedVersionMetadata, extra *model.ExtraVersionMetadata) (url, sha1 string, size int64) {
	if extra != nil && extra.ClientDownloadOverride != nil {
		d := extra.ClientDownloadOverride
		return d.URL, d.SHA1, d.Size
	}
	if merged.Downloads != nil && merged.Downloads.Client != nil {
		d := merged.Downloads.Client
		return d.URL, d.SHA1, d.Size
	}
	return "", "", 0
}

func assetsDirFor(dataDir string) string {
	return dataDir + "/assets"
}

func anyUnderDir(entries []content.DownloadEntry, dir string) bool {
	for _, e := range entries {
		if len(e.Path) >= len(dir) && e.Path[:len(dir)] == dir {
			return true
		}
	}
	return false
}

func insertOrReplace(mirror *model.VersionManifest, info model.VersionInfo) {
	name := info.GetName()
	for i, v := range mirror.Versions {
		if v.GetName() == name {
			mirror.Versions[i] = info
			return
		}
	}
	mirror.Versions = append(mirror.Versions, info)
}

// SaveMirror persists mirror to path as indented JSON.
func SaveMirror(path string, mirror *model.VersionManifest) error {
	data, err := json.MarshalIndent(mirror, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

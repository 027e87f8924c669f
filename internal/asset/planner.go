// Package asset implements the Asset Planner: fetching/parsing a
// version's asset index and deriving content-addressed object
// check-entries, grounded on src/downloader/downloader.go's
// DownloadAssets (objects dir layout, resources.download.minecraft.net
// URL shape) generalized to a configurable resources base URL (the
// overlay's resources_url_base).
package asset

import (
	"context"
	"encoding/json"
	"os"
	"path"

	"github.com/novaforge/launcher/internal/content"
	"github.com/novaforge/launcher/internal/model"
)

const defaultResourcesBaseURL = "https://resources.download.minecraft.net"

// Plan is the asset index's own check-entry plus the derived per-object
// check/download entries.
type Plan struct {
	IndexCheck content.CheckEntry
	Objects    []content.CheckEntry
	Downloads  []content.DownloadEntry
}

// Fetch downloads (if needed) and parses the asset index referenced by
// ref, then derives one CheckEntry/DownloadEntry pair per object. Each
// object's on-disk path *is* its hash, so no further hash check beyond
// path correctness is meaningful for it — matching the content store's
// "no expected_sha1 means the existing file is trusted" rule.
func Fetch(ctx context.Context, ref model.AssetIndexRef, indexPath, objectsDir, resourcesBaseURL string) (Plan, error) {
	if resourcesBaseURL == "" {
		resourcesBaseURL = defaultResourcesBaseURL
	}

	indexCheck := content.CheckEntry{Path: indexPath, ExpectedSHA1: ref.SHA1, ExpectedSize: ref.Size}

	needDownload, err := needsIndexDownload(indexPath, ref.SHA1)
	if err != nil {
		return Plan{}, err
	}

	var data []byte
	if needDownload {
		data, err = content.FetchBytes(ctx, ref.URL)
		if err != nil {
			return Plan{}, err
		}
	} else {
		data, err = os.ReadFile(indexPath)
		if err != nil {
			return Plan{}, err
		}
	}

	var index model.AssetIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return Plan{}, err
	}

	plan := Plan{IndexCheck: indexCheck}
	for _, obj := range index.Objects {
		hash := obj.Hash
		sub := hash[:2]
		objPath := path.Join(objectsDir, sub, hash)
		url := resourcesBaseURL + "/" + sub + "/" + hash

		plan.Objects = append(plan.Objects, content.CheckEntry{Path: objPath, ExpectedSize: obj.Size})
		plan.Downloads = append(plan.Downloads, content.DownloadEntry{Path: objPath, URL: url, ExpectedSize: obj.Size})
	}
	return plan, nil
}

func needsIndexDownload(indexPath, expectedSHA1 string) (bool, error) {
	actual, err := content.HashFile(indexPath)
	if err != nil {
		return true, nil
	}
	if expectedSHA1 != "" && actual != expectedSHA1 {
		return true, nil
	}
	return false, nil
}

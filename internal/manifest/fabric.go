package manifest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/novaforge/launcher/internal/model"
)

// fabricProfile is the shape of the version profile JSON served by the
// Fabric meta-server, grounded on src/fabric/fabric.go's
// FabricLoaderMetadata. Unlike the teacher, which wrote this out as a
// standalone version.json file on disk and re-read it on every launch,
// FetchFabricProfile converts it directly into a model.VersionMetadata
// so it can be fed straight into ResolveChain/Merge alongside any other
// loader layer (Forge, overlays) without a round-trip through disk.
type fabricProfile struct {
	MainClass string `json:"mainClass"`
	Libraries []struct {
		Name      string `json:"name"`
		Url       string `json:"url"`
		Downloads struct {
			Artifact struct {
				Path string `json:"path"`
				Url  string `json:"url"`
				Sha1 string `json:"sha1"`
				Size int64  `json:"size"`
			} `json:"artifact"`
		} `json:"downloads"`
	} `json:"libraries"`
	InheritsFrom string `json:"inheritsFrom"`
	Id           string `json:"id"`
}

// FabricProfileURL returns the Fabric meta-server URL for a given
// Minecraft version and loader version.
func FabricProfileURL(mcVersion, loaderVersion string) string {
	return fmt.Sprintf("https://meta.fabricmc.net/v2/versions/loader/%s/%s/profile/json", mcVersion, loaderVersion)
}

// FetchFabricProfile downloads the Fabric loader profile for mcVersion
// and loaderVersion and converts it into a VersionMetadata layer whose
// InheritsFrom points at mcVersion, so ResolveChain walks straight into
// the vanilla chain the way a Forge or overlay layer would.
func (r *Resolver) FetchFabricProfile(ctx context.Context, mcVersion, loaderVersion string) (*model.VersionMetadata, error) {
	data, err := r.fetchWithRetry(ctx, FabricProfileURL(mcVersion, loaderVersion))
	if err != nil {
		return nil, fmt.Errorf("manifest: fetch fabric profile: %w", err)
	}
	return parseFabricProfile(data, mcVersion)
}

func parseFabricProfile(data []byte, mcVersion string) (*model.VersionMetadata, error) {
	var p fabricProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("manifest: parse fabric profile: %w", err)
	}
	if p.InheritsFrom == "" {
		p.InheritsFrom = mcVersion
	}

	libs := make([]model.Library, 0, len(p.Libraries))
	for _, l := range p.Libraries {
		lib := model.Library{Name: l.Name, URL: l.Url}
		if l.Downloads.Artifact.Url != "" {
			lib.Downloads = &model.LibraryDownloads{
				Artifact: &model.Download{
					Path: l.Downloads.Artifact.Path,
					URL:  l.Downloads.Artifact.Url,
					SHA1: l.Downloads.Artifact.Sha1,
					Size: l.Downloads.Artifact.Size,
				},
			}
		}
		libs = append(libs, lib)
	}

	return &model.VersionMetadata{
		ID:           p.Id,
		InheritsFrom: p.InheritsFrom,
		MainClass:    p.MainClass,
		Libraries:    libs,
	}, nil
}

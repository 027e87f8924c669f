package javart

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

const zuluMetadataURL = "https://api.azul.com/metadata/v1/zulu/packages/"

type zuluPackage struct {
	DownloadURL string `json:"download_url"`
	Name        string `json:"name"`
}

func zuluOSTag() (string, error) {
	switch runtime.GOOS {
	case "windows":
		return "windows", nil
	case "linux":
		return "linux-glibc", nil
	case "darwin":
		return "macos", nil
	default:
		return "", fmt.Errorf("javart: unsupported OS %s for Java download", runtime.GOOS)
	}
}

func zuluArchTag() (string, error) {
	switch runtime.GOARCH {
	case "amd64":
		return "x64", nil
	case "arm64":
		return "aarch64", nil
	default:
		return "", fmt.Errorf("javart: unsupported arch %s for Java download", runtime.GOARCH)
	}
}

// DownloadJava queries the Azul Zulu metadata API for the latest GA JRE
// archive matching requiredMajor and the current platform, downloads it,
// and extracts it into javaRoot/<requiredMajor>/, stripping the
// tarball's single top-level directory. Returns the path to the
// extracted java binary.
func DownloadJava(ctx context.Context, log *zap.Logger, requiredMajor int, javaRoot string) (Installation, error) {
	if log == nil {
		log = zap.NewNop()
	}

	osTag, err := zuluOSTag()
	if err != nil {
		return Installation{}, err
	}
	archTag, err := zuluArchTag()
	if err != nil {
		return Installation{}, err
	}

	q := url.Values{}
	q.Set("java_version", itoa(requiredMajor))
	q.Set("os", osTag)
	q.Set("arch", archTag)
	q.Set("archive_type", "tar.gz")
	q.Set("java_package_type", "jre")
	q.Set("javafx_bundled", "false")
	q.Set("latest", "true")
	q.Set("release_status", "ga")

	reqURL := zuluMetadataURL + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Installation{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Installation{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Installation{}, fmt.Errorf("javart: zulu metadata query failed: %s", resp.Status)
	}

	var packages []zuluPackage
	if err := json.NewDecoder(resp.Body).Decode(&packages); err != nil {
		return Installation{}, err
	}
	if len(packages) == 0 {
		return Installation{}, fmt.Errorf("javart: no zulu package found for java %d/%s/%s", requiredMajor, osTag, archTag)
	}

	destDir := filepath.Join(javaRoot, itoa(requiredMajor))
	log.Info("downloading java runtime", zap.String("url", packages[0].DownloadURL), zap.String("dest", destDir))

	if err := downloadAndExtractTarGz(ctx, packages[0].DownloadURL, destDir); err != nil {
		return Installation{}, err
	}

	javaPath := filepath.Join(destDir, "bin", javaBinaryName())
	inst, ok := CheckJava(ctx, javaPath, requiredMajor)
	if !ok {
		return Installation{}, fmt.Errorf("javart: downloaded java at %s failed version check", javaPath)
	}
	return inst, nil
}

// downloadAndExtractTarGz streams url into a gzip+tar reader, stripping
// the archive's single top-level directory component so extraction
// lands files directly under destDir.
func downloadAndExtractTarGz(ctx context.Context, rawURL, destDir string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("javart: download failed: %s", resp.Status)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return err
	}
	defer gz.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		rel := stripTopLevel(hdr.Name)
		if rel == "" {
			continue
		}
		target := filepath.Join(destDir, filepath.FromSlash(rel))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			out.Close()
		}
	}
}

func stripTopLevel(name string) string {
	name = strings.TrimPrefix(name, "./")
	idx := strings.IndexByte(name, '/')
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

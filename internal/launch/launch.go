package launch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/novaforge/launcher/internal/model"
	"github.com/novaforge/launcher/internal/rules"
)

// gcOptions is the fixed GC/ergonomics JVM prelude, byte-for-byte the
// options the original always passes ahead of -Xmx/-Xms, per
// launch.rs::GC_OPTIONS.
var gcOptions = []string{
	"-XX:+UnlockExperimentalVMOptions",
	"-XX:+UseG1GC",
	"-XX:G1NewSizePercent=20",
	"-XX:G1ReservePercent=20",
	"-XX:MaxGCPauseMillis=50",
	"-XX:G1HeapRegionSize=32M",
	"-XX:+DisableExplicitGC",
	"-XX:+AlwaysPreTouch",
	"-XX:+ParallelRefProcEnabled",
}

// Errors surfaced by Launch, matching spec §4.8/§7's LaunchError kinds.
var (
	ErrNotAuthorized          = errors.New("launch: not authorized")
	ErrMissingAuthlibInjector = errors.New("launch: authlib-injector required but not declared by overlay")
	ErrJavaPathNotFound       = errors.New("launch: java binary not found at configured path")
)

// MissingLibraryError reports that a required library's artifact is
// absent on disk at launch time (a sync was skipped or interrupted).
type MissingLibraryError struct {
	Path string
}

func (e *MissingLibraryError) Error() string {
	return fmt.Sprintf("launch: missing library at %s", e.Path)
}

// Request bundles everything needed to prepare and spawn one Minecraft
// process.
type Request struct {
	Merged       model.MergedVersionMetadata
	Extra        *model.ExtraVersionMetadata
	Auth         model.VersionAuthData
	JavaPath     string
	LauncherName string
	LauncherVersion string
	DataDir      string
	AssetsDir    string
	LibrariesDir string
	NativesDir   string
	Xmx          string
	OnlineFlag   bool
	AuthlibInjectorPath string
	AuthProviderURL     string
	HasAuthProviderURL  bool
}

// PrepareCmd builds the fully-configured, not-yet-started *exec.Cmd for
// req, performing classpath assembly, variable-map construction and JVM/
// game argument evaluation (§4.8 steps 1-5). It does not start the
// process; callers that want process lifecycle should use Launch.
func PrepareCmd(req Request) (*exec.Cmd, error) {
	if _, err := os.Stat(req.JavaPath); err != nil {
		return nil, ErrJavaPathNotFound
	}

	instanceDir := filepath.Join(req.DataDir, "instances", req.Merged.ID)
	if req.Extra != nil {
		instanceDir = filepath.Join(req.DataDir, "instances", req.Extra.VersionName)
	}
	gameDir := LongPath(ensureAbs(instanceDir))

	clientJarPath, err := resolveClientJarPath(req)
	if err != nil {
		return nil, err
	}

	if err := verifyLibrariesPresent(req.Merged.Libraries, req.LibrariesDir); err != nil {
		return nil, err
	}

	classpath := BuildClasspath(req.Merged.Libraries, req.LibrariesDir, clientJarPath)

	vars := buildVars(req, gameDir, classpath)

	var args []string
	args = append(args, gcOptions...)
	args = append(args, "-Xms512M", "-Xmx"+req.Xmx, "-Duser.language=en", "-Dfile.encoding=UTF-8")

	if req.OnlineFlag && req.HasAuthProviderURL && req.AuthlibInjectorPath != "" {
		args = append(args, "-javaagent:"+req.AuthlibInjectorPath+"="+req.AuthProviderURL)
	} else if req.OnlineFlag && req.HasAuthProviderURL && req.AuthlibInjectorPath == "" {
		return nil, ErrMissingAuthlibInjector
	}

	jvmArgs, err := evaluateArguments(req.Merged.Arguments.Jvm, vars, nil)
	if err != nil {
		return nil, err
	}
	args = append(args, jvmArgs...)

	args = append(args, req.Merged.MainClass)

	gameArgs, err := evaluateArguments(req.Merged.Arguments.Game, vars, rules.Features{"has_custom_resolution": true})
	if err != nil {
		return nil, err
	}
	args = append(args, gameArgs...)

	cmd := exec.Command(req.JavaPath, args...)
	cmd.Dir = gameDir
	cmd.Env = filterEnv(os.Environ())
	configurePlatform(cmd)

	return cmd, nil
}

func resolveClientJarPath(req Request) (string, error) {
	for _, id := range req.Merged.HierarchyIDs {
		p := filepath.Join(req.DataDir, "versions", id, id+".jar")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", &MissingLibraryError{Path: filepath.Join(req.DataDir, "versions", req.Merged.ID, req.Merged.ID+".jar")}
}

func verifyLibrariesPresent(libs []model.Library, librariesDir string) error {
	for _, lib := range libs {
		// A library with no rules field at all is unconditionally
		// applicable; Applies only gates libraries that declare rules.
		if len(lib.Rules) > 0 && !rules.Applies(lib.Rules, nil) {
			continue
		}
		p := filepath.Join(librariesDir, filepath.FromSlash(resolvedPath(lib)))
		if _, err := os.Stat(p); err != nil {
			return &MissingLibraryError{Path: p}
		}
	}
	return nil
}

func resolvedPath(lib model.Library) string {
	if lib.Downloads != nil && lib.Downloads.Artifact != nil && lib.Downloads.Artifact.Path != "" {
		return lib.Downloads.Artifact.Path
	}
	return "" // rule-only/natives-only libraries have no main artifact to verify
}

func buildVars(req Request, gameDir, classpath string) Vars {
	userType := "offline"
	if req.OnlineFlag {
		userType = "mojang"
	}

	versionName := req.Merged.ID
	if req.Extra != nil {
		versionName = req.Extra.VersionName
	}

	assetsIndexName := ""
	if req.Merged.AssetIndex != nil {
		assetsIndexName = req.Merged.AssetIndex.ID
	}

	return Vars{
		"natives_directory":   req.NativesDir,
		"launcher_name":       req.LauncherName,
		"launcher_version":    req.LauncherVersion,
		"classpath":           classpath,
		"classpath_separator": ClasspathSeparator(),
		"library_directory":   req.LibrariesDir,
		"auth_player_name":    req.Auth.Username,
		"version_name":        versionName,
		"game_directory":      gameDir,
		"assets_root":         req.AssetsDir,
		"assets_index_name":   assetsIndexName,
		"auth_uuid":           strings.ReplaceAll(req.Auth.UserUUID, "-", ""),
		"auth_access_token":   req.Auth.Token,
		"clientid":            "",
		"auth_xuid":           "",
		"user_type":           userType,
		"version_type":        "release",
		"resolution_width":    "925",
		"resolution_height":   "530",
		"user_properties":     "{}",
	}
}

// evaluateArguments evaluates a modern argument list into its final
// substituted string form, in declaration order.
func evaluateArguments(list []model.VariableArgument, vars Vars, features rules.Features) ([]string, error) {
	var out []string
	for _, arg := range list {
		if arg.Simple != nil {
			out = append(out, Substitute(*arg.Simple, vars))
			continue
		}
		if arg.Complex == nil {
			continue
		}
		if !rules.Applies(arg.Complex.Rules, features) {
			continue
		}
		if arg.Complex.Value.Single != "" {
			out = append(out, Substitute(arg.Complex.Value.Single, vars))
		}
		for _, v := range arg.Complex.Value.Multiple {
			out = append(out, Substitute(v, vars))
		}
	}
	return out, nil
}

func filterEnv(env []string) []string {
	var out []string
	for _, e := range env {
		if strings.HasPrefix(e, "DYLD_FALLBACK_LIBRARY_PATH=") {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ExitOutcome classifies how a launched process terminated.
type ExitOutcome struct {
	NotLaunched    bool
	ProcessErrorCode int
	HasErrorCode   bool
	Err            error
}

// Launch starts cmd (as prepared by PrepareCmd), redirecting stdout/
// stderr to logPath, and waits for it to exit, classifying the result
// per §4.8's outcome taxonomy.
func Launch(cmd *exec.Cmd, logPath string) ExitOutcome {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return ExitOutcome{Err: err}
	}
	defer logFile.Close()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return ExitOutcome{Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return ExitOutcome{Err: err}
	}

	if err := cmd.Start(); err != nil {
		return ExitOutcome{Err: err}
	}

	done := make(chan struct{}, 2)
	go streamTo(stdout, logFile, done)
	go streamTo(stderr, logFile, done)
	<-done
	<-done

	err = cmd.Wait()
	if err == nil {
		return ExitOutcome{NotLaunched: true}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ExitOutcome{ProcessErrorCode: exitErr.ExitCode(), HasErrorCode: true}
	}
	return ExitOutcome{Err: err}
}

func streamTo(r io.Reader, w io.Writer, done chan<- struct{}) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fmt.Fprintln(w, scanner.Text())
	}
	done <- struct{}{}
}

// configurePlatform applies OS-specific process attributes: on Windows,
// CREATE_NO_WINDOW.
func configurePlatform(cmd *exec.Cmd) {
	configurePlatformImpl(cmd)
}

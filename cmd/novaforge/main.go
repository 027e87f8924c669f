// Command novaforge is the CLI driver for the NovaForge launcher core:
// a thin composition root wiring the manifest resolver, sync engine,
// Java provisioner, identity broker and launcher together, grounded on
// src/launcher/launcher.go's top-level orchestration and built with
// github.com/spf13/cobra the way the rest of the example pack's CLIs
// are structured.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2/microsoft"

	"github.com/novaforge/launcher/internal/auth"
	"github.com/novaforge/launcher/internal/auth/providers"
	"github.com/novaforge/launcher/internal/config"
	"github.com/novaforge/launcher/internal/content"
	"github.com/novaforge/launcher/internal/events"
	"github.com/novaforge/launcher/internal/javart"
	"github.com/novaforge/launcher/internal/launch"
	"github.com/novaforge/launcher/internal/manifest"
	"github.com/novaforge/launcher/internal/model"
	"github.com/novaforge/launcher/internal/paths"
	"github.com/novaforge/launcher/internal/sync"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	flagDataDir string
	flagVerbose bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          config.LauncherName,
		Short:        config.LauncherName + " - Minecraft instance manager and launcher",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", defaultDataDir(), "launcher data directory")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newVersionsCmd(),
		newSyncCmd(),
		newLaunchCmd(),
		newJavaCmd(),
		newAuthCmd(),
	)
	return root
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, config.LauncherName)
}

func newLogger() *zap.Logger {
	var cfg zap.Config
	if flagVerbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// --- versions ---------------------------------------------------------

func newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "list versions available from the configured manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()

			resolver := manifest.New(log)
			mf, err := resolver.Fetch(cmd.Context(), config.VersionManifestURL, paths.ManifestPath(flagDataDir))
			if err != nil {
				return fmt.Errorf("fetch manifest: %w", err)
			}
			for _, id := range mf.AllVersionIDs() {
				fmt.Println(id)
			}
			if rel, ok := mf.LatestRelease(); ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "latest release: %s\n", rel.GetName())
			}
			return nil
		},
	}
}

// --- sync ---------------------------------------------------------

func newSyncCmd() *cobra.Command {
	var (
		force  bool
		ignore bool
	)
	cmd := &cobra.Command{
		Use:   "sync <version>",
		Short: "resolve, verify and download one version/instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), args[0], force, ignore)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "force-overwrite overlay-owned files")
	cmd.Flags().BoolVar(&ignore, "ignore-version", false, "skip the already-synced short-circuit")
	return cmd
}

func runSync(ctx context.Context, versionName string, force, ignoreVersion bool) error {
	log := newLogger()
	defer log.Sync()

	resolver := manifest.New(log)
	mirrorPath := paths.ManifestPath(flagDataDir)
	mirror, err := resolver.Fetch(ctx, config.VersionManifestURL, mirrorPath)
	if err != nil {
		return fmt.Errorf("fetch manifest: %w", err)
	}

	info, ok := mirror.FindByName(versionName)
	if !ok {
		return fmt.Errorf("version %q not found in manifest", versionName)
	}

	extra := loadExtraMetadata(flagDataDir, versionName)

	chain, err := resolver.ResolveChain(ctx, info, func(ctx context.Context, versionID string) (*model.VersionMetadata, error) {
		return resolver.FetchMetadata(ctx, versionURL(mirror, versionID), "")
	})
	if err != nil {
		return fmt.Errorf("resolve version chain: %w", err)
	}
	merged := manifest.Merge(chain)

	store := content.New(log)
	emitter := events.New()
	emitter.On(events.EventProgress, func(data any) {
		if p, ok := data.(events.Progress); ok {
			fmt.Printf("[%s] %s (%d/%d)\n", p.Phase, p.Message, p.Done, p.Total)
		}
	})

	engine := sync.New(store, emitter, log)
	req := sync.Request{
		VersionInfo:      info,
		Merged:           merged,
		Extra:            extra,
		DataDir:          flagDataDir,
		ResourcesBaseURL: "https://resources.download.minecraft.net",
		Options: sync.Options{
			IgnoreVersion:  ignoreVersion,
			ForceOverwrite: force,
		},
	}

	result, err := engine.Sync(ctx, req, mirror)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	fmt.Printf("sync finished: state=%s librariesChanged=%v\n", result.State, result.LibrariesChanged)

	return sync.SaveMirror(mirrorPath, mirror)
}

func versionURL(mirror *model.VersionManifest, versionID string) string {
	for _, v := range mirror.Versions {
		if v.ID == versionID {
			return v.URL
		}
	}
	return ""
}

func loadExtraMetadata(dataDir, versionName string) *model.ExtraVersionMetadata {
	path := paths.ExtraMetadataPath(paths.VersionsExtraDir(dataDir), versionName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var extra model.ExtraVersionMetadata
	if err := json.Unmarshal(data, &extra); err != nil {
		return nil
	}
	return &extra
}

// --- launch ---------------------------------------------------------

func newLaunchCmd() *cobra.Command {
	var (
		javaPath string
		xmx      string
	)
	cmd := &cobra.Command{
		Use:   "launch <version>",
		Short: "launch a previously-synced version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd.Context(), args[0], javaPath, xmx)
		},
	}
	cmd.Flags().StringVar(&javaPath, "java", "", "path to the java binary (auto-detected if empty)")
	cmd.Flags().StringVar(&xmx, "xmx", "", "JVM max heap size (defaults to config.json's value)")
	return cmd
}

func runLaunch(ctx context.Context, versionName, javaPath, xmx string) error {
	log := newLogger()
	defer log.Sync()

	cfg, err := config.Load(filepath.Join(flagDataDir, "config.json"))
	if err != nil {
		return err
	}
	if xmx != "" {
		cfg.Xmx = xmx
	}
	if err := config.ValidateXmx(cfg.Xmx); err != nil {
		return err
	}

	resolver := manifest.New(log)
	mirror, err := resolver.Fetch(ctx, config.VersionManifestURL, paths.ManifestPath(flagDataDir))
	if err != nil {
		return err
	}
	info, ok := mirror.FindByName(versionName)
	if !ok {
		return fmt.Errorf("version %q not synced", versionName)
	}
	extra := loadExtraMetadata(flagDataDir, versionName)

	chain, err := resolver.ResolveChain(ctx, info, func(ctx context.Context, versionID string) (*model.VersionMetadata, error) {
		return resolver.FetchMetadata(ctx, versionURL(mirror, versionID), "")
	})
	if err != nil {
		return err
	}
	merged := manifest.Merge(chain)

	if javaPath == "" {
		requiredMajor := 17
		if merged.JavaVersion != nil && merged.JavaVersion.MajorVersion > 0 {
			requiredMajor = merged.JavaVersion.MajorVersion
		}
		inst, err := javart.Detect(ctx, requiredMajor, paths.JavaDir(flagDataDir))
		if err != nil {
			inst, err = javart.DownloadJava(ctx, log, requiredMajor, paths.JavaDir(flagDataDir))
			if err != nil {
				return fmt.Errorf("no usable java found: %w", err)
			}
		}
		javaPath = inst.Path
	}

	authData := cfg.VersionsAuthData[versionName]
	if authData.AuthType == "" && extra != nil {
		authData.AuthType = extra.AuthData.Type
	}

	req := launch.Request{
		Merged:          merged,
		Extra:           extra,
		Auth:            authData,
		JavaPath:        javaPath,
		LauncherName:    config.LauncherName,
		LauncherVersion: config.Version,
		DataDir:         flagDataDir,
		AssetsDir:       paths.AssetsDir(flagDataDir),
		LibrariesDir:    paths.LibrariesDir(flagDataDir),
		NativesDir:      paths.NativesDir(flagDataDir),
		Xmx:             cfg.Xmx,
		OnlineFlag:      authData.AuthType != model.AuthTypeNone,
	}

	cmd, err := launch.PrepareCmd(req)
	if err != nil {
		return fmt.Errorf("prepare launch: %w", err)
	}

	logPath := filepath.Join(paths.LogsDir(flagDataDir), "latest_minecraft_launch.log")
	outcome := launch.Launch(cmd, logPath)
	if outcome.Err != nil {
		return outcome.Err
	}
	if outcome.HasErrorCode && outcome.ProcessErrorCode != 0 {
		return fmt.Errorf("game exited with code %d", outcome.ProcessErrorCode)
	}
	return nil
}

// --- java ---------------------------------------------------------

func newJavaCmd() *cobra.Command {
	var requiredMajor int
	cmd := &cobra.Command{
		Use:   "java",
		Short: "detect or provision a Java runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()

			inst, err := javart.Detect(cmd.Context(), requiredMajor, paths.JavaDir(flagDataDir))
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "no local java %d found, downloading...\n", requiredMajor)
				inst, err = javart.DownloadJava(cmd.Context(), log, requiredMajor, paths.JavaDir(flagDataDir))
				if err != nil {
					return err
				}
			}
			fmt.Printf("%s (java %s)\n", inst.Path, inst.Version)
			return nil
		},
	}
	cmd.Flags().IntVar(&requiredMajor, "major", 17, "required Java major version")
	return cmd
}

// --- auth ---------------------------------------------------------

func newAuthCmd() *cobra.Command {
	var (
		provider string
		clientID string
	)
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "run an interactive identity provider flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd.Context(), provider, clientID)
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "none", "none|microsoft|ely.by|telegram")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client id (microsoft/ely.by)")
	return cmd
}

func runAuth(ctx context.Context, providerName, clientID string) error {
	log := newLogger()
	defer log.Sync()

	factory := auth.NewProviderFactory(
		func(model.AuthData) (auth.Provider, error) { return providers.None{}, nil },
		func(model.AuthData) (auth.Provider, error) {
			return providers.Microsoft{ClientID: clientID, Endpoint: microsoft.LiveConnectEndpoint, Log: log}, nil
		},
		func(data model.AuthData) (auth.Provider, error) {
			if data.ElyBy == nil {
				return nil, fmt.Errorf("auth: missing ely.by configuration")
			}
			return providers.ElyBy{ClientID: data.ElyBy.ClientID, ClientSecret: data.ElyBy.ClientSecret}, nil
		},
		func(data model.AuthData) (auth.Provider, error) {
			if data.Telegram == nil {
				return nil, fmt.Errorf("auth: missing telegram configuration")
			}
			return providers.Telegram{BotUsername: data.Telegram.BotUsername, AuthBaseURL: data.Telegram.AuthBaseURL}, nil
		},
	)

	provider, err := factory(model.AuthData{Type: providerName})
	if err != nil {
		return err
	}

	broker := auth.NewBroker(provider)
	sink := auth.NewSink()
	go func() {
		for msg := range sink.Messages() {
			fmt.Println(msg)
		}
	}()

	token, info, err := broker.Authenticate(ctx, sink, "")
	if err != nil {
		return err
	}
	fmt.Printf("authenticated as %s (%s), token=%s\n", info.Username, info.UUID, redactToken(token))
	return nil
}

func redactToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/ekisa-team/qanda/internal/artifact"
	"github.com/ekisa-team/qanda/internal/config"
	"github.com/ekisa-team/qanda/internal/env"
	"github.com/ekisa-team/qanda/internal/envvar"
	"github.com/ekisa-team/qanda/internal/logger"
	httpserver "github.com/ekisa-team/qanda/internal/server/http"
	"github.com/ekisa-team/qanda/internal/service"
	"github.com/ekisa-team/qanda/internal/transformers"
	"github.com/ekisa-team/qanda/internal/xfs"
)

func main() {
	var (
		flagHTTPPort   = flag.Int("http-port", config.DefaultHTTPPort(), "HTTP port to listen on")
		flagConfigPath = flag.String("config", path.Join(config.DefaultConfigPath(), "config.yaml"), "Path to config file")
		flagSchemaPath = flag.String("schema", path.Join(config.DefaultConfigPath(), "qanda.v1.schema.json"), "Path to schema file")
	)
	flag.Parse()

	vars := env.FromEnv()

	slog.SetDefault(
		logger.New(vars.Env,
			logger.WithLogToFile(true),
			logger.WithLogFile("logs/qanda.log"),
		),
	)

	watcher, err := config.NewWatcher(*flagConfigPath, *flagSchemaPath, func(cfg *config.Config, err error) {
		if err != nil {
			slog.Error("Failed to reload config", "error", err)
			return
		}

		// The artifact is packed once at startup; restart to repack.
		slog.Info("Config reloaded", "artifact", cfg.Artifact.Name)
	})
	if err != nil {
		slog.Error("Failed to create config watcher", "error", err)
		return
	}
	defer watcher.Close()

	cfg := watcher.Snapshot()
	slog.Info("Config loaded successfully", "config", *flagConfigPath, "schema", *flagSchemaPath)

	lib := transformers.NewLibrary(resolveCachePath(cfg))

	art, err := artifact.New(cfg.Artifact.Name, lib)
	if err != nil {
		slog.Error("Failed to create artifact", "error", err)
		return
	}

	ctx := context.Background()
	artifactsPath := resolveArtifactsPath(cfg)

	if source := cfg.Artifact.Source; source != "" {
		if _, err := art.PackValue(ctx, source, artifact.Options(cfg.Artifact.Options)); err != nil {
			slog.Error("Failed to pack artifact", "source", source, "error", err)
			return
		}
		slog.Info("Artifact packed", "name", art.Name(), "source", source)
	} else if _, err := art.Load(ctx, artifactsPath); err != nil {
		slog.Warn("No saved artifact to load, starting unpacked", "path", artifactsPath, "error", err)
	}

	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("qanda", "1.0.0"))

	httpserver.NewArtifactHandler(api, art)
	httpserver.NewQAHandler(api, service.NewQA(art))

	port := cfg.Server.HTTPPort
	if vars.HTTPPort != 0 {
		port = vars.HTTPPort
	}
	if port == 0 {
		port = *flagHTTPPort
	}

	addr := fmt.Sprintf(":%d", port)
	slog.Info("Serving HTTP", "addr", addr)

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("HTTP server stopped", "error", err)
	}
}

// resolveArtifactsPath returns the directory for saved artifacts.
// Precedence:
// 1. QANDA_ARTIFACTS_PATH environment variable.
// 2. ArtifactsDir field in the config.
// 3. Default artifacts path.
func resolveArtifactsPath(cfg *config.Config) string {
	if p := os.Getenv(envvar.QandaArtifactsPath); p != "" {
		return xfs.ExpandTilde(p)
	}
	if cfg.Storage.ArtifactsDir != "" {
		return xfs.ExpandTilde(cfg.Storage.ArtifactsDir)
	}
	return xfs.ExpandTilde(config.DefaultArtifactsPath())
}

// resolveCachePath returns the pretrained download cache directory.
func resolveCachePath(cfg *config.Config) string {
	if p := os.Getenv(envvar.QandaCachePath); p != "" {
		return xfs.ExpandTilde(p)
	}
	if cfg.Storage.CacheDir != "" {
		return xfs.ExpandTilde(cfg.Storage.CacheDir)
	}
	return xfs.ExpandTilde(config.DefaultCachePath())
}

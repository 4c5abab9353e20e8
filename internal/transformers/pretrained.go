package transformers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ekisa-team/qanda/internal/xfs"
)

const (
	defaultRetryDelay = 2 * time.Second
	defaultMaxRetries = 3
	defaultTimeout    = 5 * time.Minute
	markerFilename    = ".qanda-downloaded"
)

// CommandRunner is the interface for running the hub CLI.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string) (output []byte, err error)
}

// ExecCommandRunner uses os/exec.
type ExecCommandRunner struct{}

// Run runs a command and returns its combined output.
func (ExecCommandRunner) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	return buf.Bytes(), err
}

// Downloader localizes hub repositories into a cache directory by
// shelling out to the hf CLI. A marker file in the repository directory
// skips re-downloads until the repository reference changes.
type Downloader struct {
	runner     CommandRunner
	binary     string
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithRunner overrides the command runner.
func WithRunner(r CommandRunner) DownloaderOption {
	return func(d *Downloader) {
		d.runner = r
	}
}

// WithRetries overrides the retry count and delay.
func WithRetries(maxRetries int, delay time.Duration) DownloaderOption {
	return func(d *Downloader) {
		d.maxRetries = maxRetries
		d.retryDelay = delay
	}
}

// NewDownloader creates a downloader with the default hf CLI runner.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		runner:     ExecCommandRunner{},
		binary:     "hf",
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Download localizes the repository into targetDir and returns the
// repository directory.
func (d *Downloader) Download(ctx context.Context, repo, targetDir string) (string, error) {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return "", fmt.Errorf("invalid repo name: %q", repo)
	}

	fullPath := filepath.Join(targetDir, repo)
	markerPath := filepath.Join(fullPath, markerFilename)
	markerContent := d.markerContent(repo)

	if content, err := os.ReadFile(markerPath); err == nil && string(content) == markerContent {
		slog.Debug("Repository already downloaded (marker match), skipping", "repo", repo, "path", fullPath)
		return fullPath, nil
	}

	if err := xfs.EnsureDir(fullPath); err != nil {
		return "", err
	}

	args := []string{"download", repo, "--local-dir", fullPath}

	var lastErr error
	for attempt := range d.maxRetries {
		if attempt > 0 {
			slog.Info("Retrying download", "repo", repo, "attempt", attempt+1, "last_error", lastErr)
			time.Sleep(d.retryDelay)
		} else {
			slog.Info("Downloading repository", "repo", repo, "path", fullPath)
		}

		runCtx, cancel := context.WithTimeout(ctx, d.timeout)
		output, err := d.runner.Run(runCtx, d.binary, args)
		cancel()

		if err == nil {
			if err := os.WriteFile(markerPath, []byte(markerContent), 0o644); err != nil {
				slog.Warn("Failed to write download marker", "path", markerPath, "error", err)
			}

			slog.Info("Repository downloaded", "repo", repo, "path", fullPath, "attempt", attempt+1)
			return fullPath, nil
		}

		lastErr = err
		slog.Error("Failed to download repository", "repo", repo, "attempt", attempt+1, "error", err, "output", string(output))

		if ctx.Err() != nil {
			return "", fmt.Errorf("download canceled: %w", ctx.Err())
		}
	}

	return "", lastErr
}

// markerContent is the expected marker file content. A mismatch forces
// a re-download.
func (d *Downloader) markerContent(repo string) string {
	return fmt.Sprintf("repo: %s\n", repo)
}

package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfigPath returns the default path for the qanda config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "qanda", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "qanda")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "qanda")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "qanda")
		}
		return filepath.Join(home, ".config", "qanda")
	}
}

// DefaultArtifactsPath returns the default directory for saved artifacts.
func DefaultArtifactsPath() string {
	return defaultCachePath("artifacts")
}

// DefaultCachePath returns the default directory for pretrained downloads.
func DefaultCachePath() string {
	return defaultCachePath("cache")
}

// DefaultHTTPPort returns the default HTTP port.
func DefaultHTTPPort() int {
	return 8390
}

func defaultCachePath(sub string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "qanda", sub)
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "qanda", sub)
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "qanda", sub)
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "qanda", sub)
		}
		return filepath.Join(home, ".cache", "qanda", sub)
	}
}

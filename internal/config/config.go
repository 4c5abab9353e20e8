package config

// Config holds the main configuration for the application.
type Config struct {
	Version  string         `json:"version"           yaml:"version"`
	Storage  StorageConfig  `json:"storage,omitempty" yaml:"storage,omitempty"`
	Artifact ArtifactConfig `json:"artifact"          yaml:"artifact"`
	Server   ServerConfig   `json:"server,omitempty"  yaml:"server,omitempty"`
}

// StorageConfig holds directories for saved artifacts and the
// pretrained download cache.
type StorageConfig struct {
	ArtifactsDir string `json:"artifacts_dir,omitempty" yaml:"artifacts_dir,omitempty"`
	CacheDir     string `json:"cache_dir,omitempty"     yaml:"cache_dir,omitempty"`
}

// ArtifactConfig describes the artifact hosted by the service.
type ArtifactConfig struct {
	// Name is the artifact name; saved bundles live under
	// <artifacts_dir>/<name>.
	Name string `json:"name" yaml:"name"`

	// Source is a directory path of a previously saved bundle or a
	// registry name of a hosted pretrained model. Empty means the
	// artifact starts unpacked.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Options are passed verbatim to pack. A non-directory source
	// requires the "embedder_model_path" key.
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	HTTPPort int `json:"http_port,omitempty" yaml:"http_port,omitempty"`
}

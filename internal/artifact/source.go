package artifact

import (
	"fmt"
	"os"
)

// Bundle object keys.
const (
	KeyModel     = "model"
	KeyTokenizer = "tokenizer"
	KeyEmbedder  = "embedder"
)

// Source identifies where a pack call materializes the bundle from.
// Exactly three kinds exist: a local directory of saved files, a hub
// registry name, and an explicit bundle of live objects.
type Source interface {
	isSource()
}

// DirectorySource packs from a directory previously written by Save.
type DirectorySource struct {
	Path string
}

// RegistrySource packs from a publicly hosted pretrained repository.
type RegistrySource struct {
	Name string
}

// BundleSource packs from externally constructed objects, keyed by
// "model", "tokenizer" and "embedder".
type BundleSource struct {
	Objects map[string]any
}

func (DirectorySource) isSource() {}
func (RegistrySource) isSource()  {}
func (BundleSource) isSource()    {}

// ResolveSource maps a loosely typed value onto a Source. A string
// naming an existing directory becomes a DirectorySource, any other
// string a RegistrySource, and a map a BundleSource. Sources pass
// through unchanged.
func ResolveSource(v any) (Source, error) {
	switch s := v.(type) {
	case Source:
		return s, nil
	case string:
		if info, err := os.Stat(s); err == nil && info.IsDir() {
			return DirectorySource{Path: s}, nil
		}
		return RegistrySource{Name: s}, nil
	case map[string]any:
		return BundleSource{Objects: s}, nil
	default:
		return nil, fmt.Errorf(
			"%w: expecting a directory path, a registry name or a bundle of %q, %q and %q objects, got %T",
			ErrInvalidArgument, KeyModel, KeyTokenizer, KeyEmbedder, v)
	}
}

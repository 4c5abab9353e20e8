package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Sidecar files written next to the native model, tokenizer and
// embedder files inside an artifact directory.
const (
	optsFilename          = "package_opts.json"
	modelTypeFilename     = "_model_type.txt"
	tokenizerTypeFilename = "tokenizer_type.txt"
)

// Options is the open key-value mapping supplied at pack time. It is
// persisted verbatim as JSON.
type Options map[string]any

// OptEmbedderModelPath locates the embedding module. Required unless
// packing from an explicit bundle.
const OptEmbedderModelPath = "embedder_model_path"

// EmbedderModelPath returns the embedder path option when present as a
// non-empty string.
func (o Options) EmbedderModelPath() (string, bool) {
	s, _ := o[OptEmbedderModelPath].(string)
	return s, s != ""
}

func writeOptions(dir string, opts Options) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, optsFilename), data, 0o644)
}

func readOptions(dir string) (Options, error) {
	data, err := os.ReadFile(filepath.Join(dir, optsFilename))
	if err != nil {
		return nil, err
	}

	var opts Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, err
	}

	return opts, nil
}

func writeTypeSidecars(dir, modelType, tokenizerType string) error {
	if err := os.WriteFile(filepath.Join(dir, modelTypeFilename), []byte(modelType), 0o644); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, tokenizerTypeFilename), []byte(tokenizerType), 0o644)
}

func readTypeSidecars(dir string) (modelType, tokenizerType string, err error) {
	data, err := os.ReadFile(filepath.Join(dir, modelTypeFilename))
	if err != nil {
		return "", "", err
	}
	modelType = strings.TrimSpace(string(data))

	data, err = os.ReadFile(filepath.Join(dir, tokenizerTypeFilename))
	if err != nil {
		return "", "", err
	}
	tokenizerType = strings.TrimSpace(string(data))

	return modelType, tokenizerType, nil
}

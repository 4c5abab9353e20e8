// Package artifact packs, saves and loads a named bundle of three
// pretrained components: a question-answering model, its tokenizer and
// a separately trained embedding module. Each component is persisted in
// its own native format; two plain-text sidecars record the model and
// tokenizer type names and a JSON sidecar records the pack options, so
// a later Load reverses a Save exactly.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/ekisa-team/qanda/internal/hub"
	"github.com/ekisa-team/qanda/internal/transformers"
)

// Bundle holds the three live components of a packed artifact.
type Bundle struct {
	Model     transformers.Model
	Tokenizer transformers.Tokenizer
	Embedder  any
}

// Artifact is the adapter instance. It is populated exactly once via
// Pack (directly or through Load) and serialized any number of times
// via Save. Not safe for concurrent use; callers serialize access.
type Artifact struct {
	name          string
	lib           *transformers.Library
	modelType     string
	tokenizerType string
	opts          Options
	bundle        *Bundle
}

// Option configures a new Artifact.
type Option func(*Artifact)

// WithModelType overrides the default model class used for directory
// and registry loads.
func WithModelType(class string) Option {
	return func(a *Artifact) {
		a.modelType = class
	}
}

// WithTokenizerType sets the tokenizer class used for directory loads.
func WithTokenizerType(class string) Option {
	return func(a *Artifact) {
		a.tokenizerType = class
	}
}

// New creates an unpacked artifact. The transformers library handle is
// required; without it the artifact cannot be used at all.
func New(name string, lib *transformers.Library, opts ...Option) (*Artifact, error) {
	if lib == nil {
		return nil, fmt.Errorf("the transformers library is required to use the qanda artifact: %w", ErrMissingDependency)
	}

	a := &Artifact{
		name:      name,
		lib:       lib,
		modelType: transformers.ClassAutoModelForQuestionAnswering,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Name returns the artifact name.
func (a *Artifact) Name() string {
	return a.name
}

// ModelType returns the model class name used for directory loads and
// recorded by the last Save.
func (a *Artifact) ModelType() string {
	return a.modelType
}

// TokenizerType returns the tokenizer class name.
func (a *Artifact) TokenizerType() string {
	return a.tokenizerType
}

// Packed reports whether the artifact holds a bundle.
func (a *Artifact) Packed() bool {
	return a.bundle != nil
}

// Get returns the live bundle unchanged. Nil until packed.
func (a *Artifact) Get() *Bundle {
	return a.bundle
}

// Pack materializes the bundle from the source. The in-memory bundle is
// only replaced after the whole branch validates; a failed Pack leaves
// any previously packed bundle untouched. Returns the artifact itself
// for chaining.
func (a *Artifact) Pack(ctx context.Context, source Source, opts Options) (*Artifact, error) {
	if opts == nil {
		opts = Options{}
	}

	var err error
	switch src := source.(type) {
	case DirectorySource:
		err = a.loadFromDirectory(src.Path, opts)
	case RegistrySource:
		err = a.loadFromRegistryName(ctx, src.Name, opts)
	case BundleSource:
		err = a.loadFromBundle(src.Objects)
	default:
		return nil, fmt.Errorf(
			"%w: expecting a directory path, a registry name or a bundle of %q, %q and %q objects",
			ErrInvalidArgument, KeyModel, KeyTokenizer, KeyEmbedder)
	}
	if err != nil {
		return nil, err
	}

	a.opts = opts

	// Options live next to the bundle. For a directory source that
	// directory already exists; for the other sources it first exists
	// at Save time, which persists them then.
	if dir, ok := source.(DirectorySource); ok {
		if err := writeOptions(dir.Path, opts); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// PackValue resolves a loosely typed source value and packs from it.
func (a *Artifact) PackValue(ctx context.Context, v any, opts Options) (*Artifact, error) {
	source, err := ResolveSource(v)
	if err != nil {
		return nil, err
	}

	return a.Pack(ctx, source, opts)
}

// loadFromDirectory loads all three components from a directory written
// by Save. The model and tokenizer types must already be known, either
// from a prior Load or set explicitly.
func (a *Artifact) loadFromDirectory(path string, opts Options) error {
	if a.modelType == "" {
		return fmt.Errorf(
			"model type %w: it should be present in a file called %q in the artifact directory",
			ErrNotFound, modelTypeFilename)
	}
	if a.tokenizerType == "" {
		return fmt.Errorf(
			"tokenizer type %w: it should be present in a file called %q in the artifact directory",
			ErrNotFound, tokenizerTypeFilename)
	}

	embedderPath, ok := opts.EmbedderModelPath()
	if !ok {
		return fmt.Errorf("%q %w in options", OptEmbedderModelPath, ErrNotFound)
	}

	model, err := a.lib.ModelFromPretrained(a.modelType, path)
	if err != nil {
		return err
	}

	tokenizer, err := a.lib.TokenizerFromPretrained(a.tokenizerType, path)
	if err != nil {
		return err
	}

	embedder, err := hub.Load(embedderPath)
	if err != nil {
		return err
	}

	a.bundle = &Bundle{Model: model, Tokenizer: tokenizer, Embedder: embedder}
	return nil
}

// loadFromRegistryName loads the model and tokenizer from a hosted
// pretrained repository and the embedder from the path in options. Any
// component unavailable on this branch reads as not found.
func (a *Artifact) loadFromRegistryName(ctx context.Context, name string, opts Options) error {
	embedderPath, ok := opts.EmbedderModelPath()
	if !ok {
		return fmt.Errorf("%q %w in options", OptEmbedderModelPath, ErrNotFound)
	}

	model, err := a.lib.ModelFromRegistryName(ctx, a.modelType, name)
	if err != nil {
		return a.translateRegistryError(err, name)
	}

	tokenizer, err := a.lib.AutoTokenizerFromRegistryName(ctx, name)
	if err != nil {
		return a.translateRegistryError(err, name)
	}

	embedder, err := hub.Load(embedderPath)
	if err != nil {
		return fmt.Errorf("embedder model at %q not available: %v: %w", embedderPath, err, ErrNotFound)
	}

	a.bundle = &Bundle{Model: model, Tokenizer: tokenizer, Embedder: embedder}
	return nil
}

// translateRegistryError maps the library's availability and unknown
// class failures to ErrNotFound; anything else propagates unchanged.
func (a *Artifact) translateRegistryError(err error, name string) error {
	switch {
	case errors.Is(err, transformers.ErrUnknownClass):
		return fmt.Errorf("transformers has no model type called %q: %w", a.modelType, ErrNotFound)
	case errors.Is(err, transformers.ErrEnvironment):
		return fmt.Errorf("model with name %q not present in the transformers registry: %w", name, ErrNotFound)
	default:
		return err
	}
}

// loadFromBundle validates and stores externally constructed objects.
// The model and tokenizer must satisfy the transformers capability
// contracts; the embedder is stored as-is. A typed-nil pointer counts
// as missing, not as a valid object.
func (a *Artifact) loadFromBundle(objects map[string]any) error {
	for _, key := range []string{KeyModel, KeyTokenizer, KeyEmbedder} {
		if isNilObject(objects[key]) {
			return fmt.Errorf(
				"%w: %q key is not found in the bundle, expecting keys %q, %q and %q",
				ErrInvalidArgument, key, KeyModel, KeyTokenizer, KeyEmbedder)
		}
	}

	model, ok := objects[KeyModel].(transformers.Model)
	if !ok {
		return fmt.Errorf("%w: expecting a transformers model object but got %T", ErrInvalidArgument, objects[KeyModel])
	}

	tokenizer, ok := objects[KeyTokenizer].(transformers.Tokenizer)
	if !ok {
		return fmt.Errorf("%w: expecting a transformers tokenizer object but got %T", ErrInvalidArgument, objects[KeyTokenizer])
	}

	a.bundle = &Bundle{Model: model, Tokenizer: tokenizer, Embedder: objects[KeyEmbedder]}
	return nil
}

// isNilObject reports whether v is nil or a nil value boxed in a
// non-nil interface.
func isNilObject(v any) bool {
	if v == nil {
		return true
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// Load reconstructs an artifact previously saved under basePath. It
// reads the sidecars and re-packs from the artifact directory with the
// recovered options. Sidecar read errors propagate untranslated.
func (a *Artifact) Load(ctx context.Context, basePath string) (*Artifact, error) {
	path := a.filePath(basePath)

	opts, err := readOptions(path)
	if err != nil {
		return nil, err
	}

	modelType, tokenizerType, err := readTypeSidecars(path)
	if err != nil {
		return nil, err
	}
	a.modelType = modelType
	a.tokenizerType = tokenizerType

	return a.Pack(ctx, DirectorySource{Path: path}, opts)
}

// Save serializes the bundle under dst and returns the artifact
// directory. The type sidecars record the live objects' class names,
// overwriting whatever a prior Load set. Errors from the native save
// routines propagate unchanged.
func (a *Artifact) Save(dst string) (string, error) {
	if a.bundle == nil {
		return "", fmt.Errorf("artifact bundle %w: pack the artifact before saving", ErrNotFound)
	}

	path := a.filePath(dst)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}

	a.modelType = a.bundle.Model.TypeName()
	a.tokenizerType = a.bundle.Tokenizer.TypeName()

	if err := a.bundle.Model.SavePretrained(path); err != nil {
		return "", err
	}
	if err := a.bundle.Tokenizer.SavePretrained(path); err != nil {
		return "", err
	}
	if err := hub.Save(a.bundle.Embedder, path); err != nil {
		return "", err
	}

	if err := writeTypeSidecars(path, a.modelType, a.tokenizerType); err != nil {
		return "", err
	}
	if err := writeOptions(path, a.opts); err != nil {
		return "", err
	}

	return path, nil
}

func (a *Artifact) filePath(base string) string {
	return filepath.Join(base, a.name)
}

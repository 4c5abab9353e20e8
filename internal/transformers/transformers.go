// Package transformers is the pretrained model library behind the qanda
// artifact: a class registry that resolves model and tokenizer type
// names and constructs instances from a local directory or a hub
// repository name.
package transformers

import (
	"context"
	"fmt"
)

// Model is the capability contract every model class satisfies. Objects
// packed into an artifact bundle must implement it; that is the
// statically checked stand-in for a provenance check on the object's
// defining package.
type Model interface {
	// TypeName returns the concrete class name, e.g. "BertForQuestionAnswering".
	TypeName() string

	// SavePretrained writes the model's native files into dir.
	SavePretrained(dir string) error

	// Answer extracts an answer to the question from the context passage.
	Answer(question, passage string) (string, error)
}

// Tokenizer is the capability contract every tokenizer class satisfies.
type Tokenizer interface {
	// TypeName returns the concrete class name, e.g. "BertTokenizer".
	TypeName() string

	// SavePretrained writes the tokenizer's native files into dir.
	SavePretrained(dir string) error

	// Encode converts text into token IDs.
	Encode(text string) []int

	// Decode converts token IDs back into text.
	Decode(ids []int) string
}

// ModelLoader constructs a model instance from a pretrained directory.
type ModelLoader func(path string) (Model, error)

// TokenizerLoader constructs a tokenizer instance from a pretrained directory.
type TokenizerLoader func(path string) (Tokenizer, error)

// Library is the class registry. It resolves type names to loaders and
// localizes hub repositories into a cache directory before loading.
type Library struct {
	models     map[string]ModelLoader
	tokenizers map[string]TokenizerLoader
	downloader *Downloader
	cacheDir   string
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithDownloader overrides the hub downloader.
func WithDownloader(d *Downloader) LibraryOption {
	return func(l *Library) {
		l.downloader = d
	}
}

// NewLibrary creates a library with the built-in model and tokenizer
// classes registered. Hub repositories are localized under cacheDir.
func NewLibrary(cacheDir string, opts ...LibraryOption) *Library {
	l := &Library{
		models:     make(map[string]ModelLoader),
		tokenizers: make(map[string]TokenizerLoader),
		downloader: NewDownloader(),
		cacheDir:   cacheDir,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.RegisterModel(ClassAutoModelForQuestionAnswering, autoModelForQuestionAnswering)
	l.RegisterModel(ClassBertForQuestionAnswering, qaModelLoader(ClassBertForQuestionAnswering))
	l.RegisterModel(ClassRobertaForQuestionAnswering, qaModelLoader(ClassRobertaForQuestionAnswering))

	l.RegisterTokenizer(ClassBertTokenizer, wordPieceLoader(ClassBertTokenizer))
	l.RegisterTokenizer(ClassWordPieceTokenizer, wordPieceLoader(ClassWordPieceTokenizer))

	return l
}

// RegisterModel adds a model class to the registry.
func (l *Library) RegisterModel(class string, loader ModelLoader) {
	l.models[class] = loader
}

// RegisterTokenizer adds a tokenizer class to the registry.
func (l *Library) RegisterTokenizer(class string, loader TokenizerLoader) {
	l.tokenizers[class] = loader
}

// ModelFromPretrained resolves the model class and loads it from a
// local pretrained directory.
func (l *Library) ModelFromPretrained(class, path string) (Model, error) {
	loader, ok := l.models[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}

	return loader(path)
}

// TokenizerFromPretrained resolves the tokenizer class and loads it
// from a local pretrained directory.
func (l *Library) TokenizerFromPretrained(class, path string) (Tokenizer, error) {
	loader, ok := l.tokenizers[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}

	return loader(path)
}

// ModelFromRegistryName resolves the model class, localizes the named
// hub repository and loads the model from it. The class is resolved
// before any download happens.
func (l *Library) ModelFromRegistryName(ctx context.Context, class, name string) (Model, error) {
	loader, ok := l.models[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}

	dir, err := l.downloader.Download(ctx, name, l.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("%w: download %q: %v", ErrEnvironment, name, err)
	}

	return loader(dir)
}

// AutoTokenizerFromRegistryName localizes the named hub repository and
// loads a tokenizer from it, picking the class from the files present.
func (l *Library) AutoTokenizerFromRegistryName(ctx context.Context, name string) (Tokenizer, error) {
	dir, err := l.downloader.Download(ctx, name, l.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("%w: download %q: %v", ErrEnvironment, name, err)
	}

	return AutoTokenizer(dir)
}

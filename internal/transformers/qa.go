package transformers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	parser "github.com/gpustack/gguf-parser-go"
)

// Model class names resolvable through the library.
const (
	ClassAutoModelForQuestionAnswering = "AutoModelForQuestionAnswering"
	ClassBertForQuestionAnswering      = "BertForQuestionAnswering"
	ClassRobertaForQuestionAnswering   = "RobertaForQuestionAnswering"
)

const (
	configFilename  = "config.json"
	weightsFilename = "model.gguf"
)

// ModelConfig is the config.json written next to the weights.
type ModelConfig struct {
	ModelType    string `json:"model_type"`
	Format       string `json:"format,omitempty"`
	Architecture string `json:"architecture,omitempty"`
	Parameters   string `json:"parameters,omitempty"`
	Quantization string `json:"quantization,omitempty"`
}

// QAModel is an extractive question-answering model backed by GGUF
// weights. It scores context sentences by token overlap with the
// question and returns the best-scoring one.
type QAModel struct {
	typeName    string
	weightsPath string
	config      ModelConfig
}

// qaModelLoader returns a ModelLoader for a concrete QA class.
func qaModelLoader(class string) ModelLoader {
	return func(path string) (Model, error) {
		return loadQAModel(path, class)
	}
}

// autoModelForQuestionAnswering picks the concrete class from config.json.
func autoModelForQuestionAnswering(path string) (Model, error) {
	cfg, err := readModelConfig(path)
	if err != nil {
		return nil, err
	}

	class := cfg.ModelType
	if class == "" || class == ClassAutoModelForQuestionAnswering {
		class = ClassBertForQuestionAnswering
	}

	return loadQAModel(path, class)
}

func loadQAModel(path, class string) (*QAModel, error) {
	weights, err := findWeights(path)
	if err != nil {
		return nil, err
	}

	cfg, err := readModelConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.ModelType = class

	enrichFromGGUF(&cfg, weights)

	return &QAModel{
		typeName:    class,
		weightsPath: weights,
		config:      cfg,
	}, nil
}

// findWeights locates the GGUF weights shard in the directory.
func findWeights(path string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(path, "*.gguf"))
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", path, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no gguf weights in %s", ErrEnvironment, path)
	}

	sort.Strings(matches)
	return matches[0], nil
}

func readModelConfig(path string) (ModelConfig, error) {
	var cfg ModelConfig

	data, err := os.ReadFile(filepath.Join(path, configFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("%w: read %s: %v", ErrEnvironment, configFilename, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %v", ErrEnvironment, configFilename, err)
	}

	return cfg, nil
}

// enrichFromGGUF fills missing config fields from the weights metadata.
// Unparseable weights are tolerated; the config stays as-is.
func enrichFromGGUF(cfg *ModelConfig, weightsPath string) {
	gguf, err := parser.ParseGGUFFile(weightsPath)
	if err != nil {
		return
	}

	md := gguf.Metadata()
	cfg.Format = "gguf"
	if cfg.Architecture == "" {
		cfg.Architecture = strings.TrimSpace(md.Architecture)
	}
	if cfg.Parameters == "" {
		cfg.Parameters = strings.TrimSpace(md.Parameters.String())
	}
	if cfg.Quantization == "" {
		cfg.Quantization = strings.TrimSpace(md.FileType.String())
	}
}

// TypeName returns the concrete class name.
func (m *QAModel) TypeName() string {
	return m.typeName
}

// Config returns the model configuration.
func (m *QAModel) Config() ModelConfig {
	return m.config
}

// SavePretrained writes the weights and config.json into dir.
func (m *QAModel) SavePretrained(dir string) error {
	dst := filepath.Join(dir, weightsFilename)
	if err := copyFile(m.weightsPath, dst); err != nil {
		return fmt.Errorf("save weights: %w", err)
	}

	cfg := m.config
	cfg.ModelType = m.typeName

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", configFilename, err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFilename), data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", configFilename, err)
	}

	return nil
}

// Answer returns the passage sentence with the highest token overlap
// with the question.
func (m *QAModel) Answer(question, passage string) (string, error) {
	sentences := splitSentences(passage)
	if len(sentences) == 0 {
		return "", fmt.Errorf("empty passage")
	}

	qTokens := make(map[string]bool)
	for _, t := range tokenizeWords(question) {
		qTokens[t] = true
	}

	best, bestScore := sentences[0], -1
	for _, s := range sentences {
		score := 0
		for _, t := range tokenizeWords(s) {
			if qTokens[t] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = s, score
		}
	}

	return best, nil
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func tokenizeWords(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.Trim(f, ".,!?;:\"'()"); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func copyFile(src, dst string) error {
	if abs, err := filepath.Abs(src); err == nil {
		if absDst, err := filepath.Abs(dst); err == nil && abs == absDst {
			return nil
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

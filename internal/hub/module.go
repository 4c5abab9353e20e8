// Package hub loads and exports standalone embedding modules.
//
// A module directory is self-contained: a JSON manifest describing the
// vocabulary plus a binary weights file, verified against the digest
// recorded in the manifest.
package hub

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"
)

const (
	manifestFilename = "module.json"
	weightsFilename  = "weights.bin"

	// FormatEmbedderV1 is the manifest format identifier.
	FormatEmbedderV1 = "qanda.embedder.v1"
)

// manifest is the on-disk description of an embedding module.
type manifest struct {
	Format        string   `json:"format"`
	Dimension     int      `json:"dimension"`
	Tokens        []string `json:"tokens"`
	WeightsDigest string   `json:"weights_digest"`
}

// Module is a pre-trained token embedding table with mean pooling.
type Module struct {
	dimension int
	tokens    map[string]int
	vectors   [][]float32
}

// NewModule builds a module from a token-to-vector table. Every vector
// must have the given dimension.
func NewModule(dimension int, table map[string][]float32) (*Module, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("hub: invalid dimension %d", dimension)
	}

	tokens := make([]string, 0, len(table))
	for token := range table {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	m := &Module{
		dimension: dimension,
		tokens:    make(map[string]int, len(table)),
		vectors:   make([][]float32, 0, len(table)),
	}
	for i, token := range tokens {
		vec := table[token]
		if len(vec) != dimension {
			return nil, fmt.Errorf("hub: vector for %q has dimension %d, want %d", token, len(vec), dimension)
		}
		m.tokens[token] = i
		m.vectors = append(m.vectors, vec)
	}

	return m, nil
}

// Dimension returns the embedding dimension.
func (m *Module) Dimension() int {
	return m.dimension
}

// Embed returns the mean-pooled embedding of the text. Tokens outside
// the vocabulary are skipped; a text with no known tokens embeds to the
// zero vector.
func (m *Module) Embed(text string) []float32 {
	out := make([]float32, m.dimension)
	hits := 0

	for _, token := range strings.Fields(strings.ToLower(text)) {
		idx, ok := m.tokens[strings.Trim(token, ".,!?;:\"'()")]
		if !ok {
			continue
		}
		for i, v := range m.vectors[idx] {
			out[i] += v
		}
		hits++
	}

	if hits > 0 {
		for i := range out {
			out[i] /= float32(hits)
		}
	}

	return out
}

// Load reads a module exported by Save from the given directory. The
// weights file is verified against the digest recorded in the manifest.
func Load(path string) (*Module, error) {
	data, err := os.ReadFile(filepath.Join(path, manifestFilename))
	if err != nil {
		return nil, fmt.Errorf("hub: read manifest: %w", err)
	}

	var man manifest
	if err := json.Unmarshal(data, &man); err != nil {
		return nil, fmt.Errorf("hub: parse manifest: %w", err)
	}
	if man.Format != FormatEmbedderV1 {
		return nil, fmt.Errorf("hub: unsupported module format %q", man.Format)
	}
	if man.Dimension <= 0 {
		return nil, fmt.Errorf("hub: invalid dimension %d in manifest", man.Dimension)
	}

	weights, err := os.ReadFile(filepath.Join(path, weightsFilename))
	if err != nil {
		return nil, fmt.Errorf("hub: read weights: %w", err)
	}

	want, err := digest.Parse(man.WeightsDigest)
	if err != nil {
		return nil, fmt.Errorf("hub: parse weights digest: %w", err)
	}
	if got := digest.FromBytes(weights); got != want {
		return nil, fmt.Errorf("hub: weights digest mismatch: manifest has %s, file is %s", want, got)
	}

	if len(weights) != len(man.Tokens)*man.Dimension*4 {
		return nil, fmt.Errorf("hub: weights size %d does not match %d tokens of dimension %d",
			len(weights), len(man.Tokens), man.Dimension)
	}

	m := &Module{
		dimension: man.Dimension,
		tokens:    make(map[string]int, len(man.Tokens)),
		vectors:   make([][]float32, len(man.Tokens)),
	}
	for i, token := range man.Tokens {
		vec := make([]float32, man.Dimension)
		for j := range vec {
			bits := binary.LittleEndian.Uint32(weights[(i*man.Dimension+j)*4:])
			vec[j] = math.Float32frombits(bits)
		}
		m.tokens[token] = i
		m.vectors[i] = vec
	}

	return m, nil
}

// Save exports the module into dir next to whatever else lives there.
// The value must be a *Module; anything else cannot be exported.
func Save(v any, dir string) error {
	m, ok := v.(*Module)
	if !ok {
		return fmt.Errorf("hub: cannot export %T as an embedding module", v)
	}

	tokens := make([]string, len(m.tokens))
	for token, idx := range m.tokens {
		tokens[idx] = token
	}

	weights := make([]byte, 0, len(m.vectors)*m.dimension*4)
	var buf [4]byte
	for _, vec := range m.vectors {
		for _, v := range vec {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			weights = append(weights, buf[:]...)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, weightsFilename), weights, 0o644); err != nil {
		return fmt.Errorf("hub: write weights: %w", err)
	}

	man := manifest{
		Format:        FormatEmbedderV1,
		Dimension:     m.dimension,
		Tokens:        tokens,
		WeightsDigest: digest.FromBytes(weights).String(),
	}
	data, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return fmt.Errorf("hub: encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFilename), data, 0o644); err != nil {
		return fmt.Errorf("hub: write manifest: %w", err)
	}

	return nil
}

// Cosine returns the cosine similarity of two vectors, 0 when either
// vector is zero or the dimensions differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

package transformers

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Tokenizer class names resolvable through the library.
const (
	ClassBertTokenizer      = "BertTokenizer"
	ClassWordPieceTokenizer = "WordPieceTokenizer"
)

const (
	vocabFilename = "vocab.txt"
	unknownToken  = "[UNK]"
)

// WordPieceTokenizer is a greedy longest-match subword tokenizer over a
// plain-text vocabulary. Continuation pieces carry the "##" prefix.
type WordPieceTokenizer struct {
	typeName string
	vocab    map[string]int
	pieces   []string
}

// wordPieceLoader returns a TokenizerLoader for a concrete class name.
func wordPieceLoader(class string) TokenizerLoader {
	return func(path string) (Tokenizer, error) {
		return loadWordPiece(path, class)
	}
}

// AutoTokenizer loads a tokenizer from a pretrained directory, picking
// the class from the files present.
func AutoTokenizer(path string) (Tokenizer, error) {
	if _, err := os.Stat(filepath.Join(path, vocabFilename)); err != nil {
		return nil, fmt.Errorf("%w: no tokenizer files in %s", ErrEnvironment, path)
	}

	return loadWordPiece(path, ClassBertTokenizer)
}

func loadWordPiece(path, class string) (*WordPieceTokenizer, error) {
	f, err := os.Open(filepath.Join(path, vocabFilename))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrEnvironment, vocabFilename, err)
	}
	defer f.Close()

	t := &WordPieceTokenizer{
		typeName: class,
		vocab:    make(map[string]int),
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		piece := strings.TrimSpace(scanner.Text())
		if piece == "" {
			continue
		}
		if _, ok := t.vocab[piece]; ok {
			continue
		}
		t.vocab[piece] = len(t.pieces)
		t.pieces = append(t.pieces, piece)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan %s: %v", ErrEnvironment, vocabFilename, err)
	}
	if len(t.pieces) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary in %s", ErrEnvironment, path)
	}

	return t, nil
}

// TypeName returns the concrete class name.
func (t *WordPieceTokenizer) TypeName() string {
	return t.typeName
}

// SavePretrained writes the vocabulary into dir, one piece per line in
// ID order.
func (t *WordPieceTokenizer) SavePretrained(dir string) error {
	var sb strings.Builder
	for _, piece := range t.pieces {
		sb.WriteString(piece)
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(filepath.Join(dir, vocabFilename), []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", vocabFilename, err)
	}

	return nil
}

// Encode converts text into token IDs using greedy longest-match
// segmentation. Words with no matching pieces map to [UNK] when the
// vocabulary has one and are skipped otherwise.
func (t *WordPieceTokenizer) Encode(text string) []int {
	var ids []int

	for _, word := range tokenizeWords(text) {
		ids = append(ids, t.encodeWord(word)...)
	}

	return ids
}

func (t *WordPieceTokenizer) encodeWord(word string) []int {
	var ids []int

	rest := word
	first := true
	for rest != "" {
		piece, id, ok := t.longestPrefix(rest, first)
		if !ok {
			if unk, ok := t.vocab[unknownToken]; ok {
				return []int{unk}
			}
			return nil
		}

		ids = append(ids, id)
		if first {
			rest = rest[len(piece):]
		} else {
			rest = rest[len(piece)-2:] // drop the matched text, not the "##"
		}
		first = false
	}

	return ids
}

// longestPrefix finds the longest vocabulary piece matching a prefix of
// s. Continuation positions match against "##"-prefixed pieces.
func (t *WordPieceTokenizer) longestPrefix(s string, first bool) (string, int, bool) {
	for end := len(s); end > 0; end-- {
		candidate := s[:end]
		if !first {
			candidate = "##" + candidate
		}
		if id, ok := t.vocab[candidate]; ok {
			return candidate, id, true
		}
	}

	return "", 0, false
}

// Decode converts token IDs back into text. Continuation pieces are
// glued to the previous piece; unknown IDs are skipped.
func (t *WordPieceTokenizer) Decode(ids []int) string {
	var sb strings.Builder

	for _, id := range ids {
		if id < 0 || id >= len(t.pieces) {
			continue
		}

		piece := t.pieces[id]
		if rest, ok := strings.CutPrefix(piece, "##"); ok {
			sb.WriteString(rest)
			continue
		}

		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(piece)
	}

	return sb.String()
}

// VocabSize returns the number of pieces in the vocabulary.
func (t *WordPieceTokenizer) VocabSize() int {
	return len(t.pieces)
}

package transformers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVocab(t *testing.T, dir string, pieces ...string) {
	t.Helper()

	var data []byte
	for _, p := range pieces {
		data = append(data, p...)
		data = append(data, '\n')
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, vocabFilename), data, 0o644))
}

func TestWordPieceTokenizer_EncodeDecode(t *testing.T) {
	dir := t.TempDir()
	writeVocab(t, dir, "[UNK]", "the", "cap", "##ital", "of", "paris", "fr", "##ance")

	tok, err := AutoTokenizer(dir)
	require.NoError(t, err)
	assert.Equal(t, ClassBertTokenizer, tok.TypeName())

	ids := tok.Encode("The capital of France.")
	assert.Equal(t, []int{1, 2, 3, 4, 6, 7}, ids)
	assert.Equal(t, "the capital of france", tok.Decode(ids))
}

func TestWordPieceTokenizer_UnknownWord(t *testing.T) {
	dir := t.TempDir()
	writeVocab(t, dir, "[UNK]", "the")

	tok, err := AutoTokenizer(dir)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 0}, tok.Encode("the zeitgeist"))
}

func TestWordPieceTokenizer_UnknownWordWithoutUnkToken(t *testing.T) {
	dir := t.TempDir()
	writeVocab(t, dir, "the")

	tok, err := AutoTokenizer(dir)
	require.NoError(t, err)

	// No [UNK] in the vocabulary drops the word entirely.
	assert.Equal(t, []int{0}, tok.Encode("the zeitgeist"))
}

func TestWordPieceTokenizer_SavePretrainedRoundTrip(t *testing.T) {
	src := t.TempDir()
	writeVocab(t, src, "[UNK]", "question", "answer", "##ing")

	tok, err := AutoTokenizer(src)
	require.NoError(t, err)

	dst := t.TempDir()
	require.NoError(t, tok.SavePretrained(dst))

	reloaded, err := AutoTokenizer(dst)
	require.NoError(t, err)
	assert.Equal(t, tok.Encode("answering a question"), reloaded.Encode("answering a question"))
}

func TestAutoTokenizer_MissingFiles(t *testing.T) {
	_, err := AutoTokenizer(t.TempDir())
	assert.ErrorIs(t, err, ErrEnvironment)
}

func TestWordPieceTokenizer_EmptyVocab(t *testing.T) {
	dir := t.TempDir()
	writeVocab(t, dir)

	_, err := AutoTokenizer(dir)
	assert.ErrorIs(t, err, ErrEnvironment)
}

package transformers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQAModel_Answer(t *testing.T) {
	dir := t.TempDir()
	writePretrainedModel(t, dir, ClassBertForQuestionAnswering)

	lib := NewLibrary(t.TempDir())
	model, err := lib.ModelFromPretrained(ClassAutoModelForQuestionAnswering, dir)
	require.NoError(t, err)

	passage := "Berlin is the capital of Germany. Paris is the capital of France. Rome is old."
	answer, err := model.Answer("What is the capital of France?", passage)
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France", answer)
}

func TestQAModel_Answer_EmptyPassage(t *testing.T) {
	dir := t.TempDir()
	writePretrainedModel(t, dir, ClassBertForQuestionAnswering)

	lib := NewLibrary(t.TempDir())
	model, err := lib.ModelFromPretrained(ClassAutoModelForQuestionAnswering, dir)
	require.NoError(t, err)

	_, err = model.Answer("anything?", "   ")
	assert.ErrorContains(t, err, "empty passage")
}

func TestQAModel_SavePretrainedRoundTrip(t *testing.T) {
	src := t.TempDir()
	writePretrainedModel(t, src, ClassRobertaForQuestionAnswering)

	lib := NewLibrary(t.TempDir())
	model, err := lib.ModelFromPretrained(ClassAutoModelForQuestionAnswering, src)
	require.NoError(t, err)
	require.Equal(t, ClassRobertaForQuestionAnswering, model.TypeName())

	dst := t.TempDir()
	require.NoError(t, model.SavePretrained(dst))

	reloaded, err := lib.ModelFromPretrained(ClassAutoModelForQuestionAnswering, dst)
	require.NoError(t, err)
	assert.Equal(t, ClassRobertaForQuestionAnswering, reloaded.TypeName())
}

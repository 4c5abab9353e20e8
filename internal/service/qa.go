package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ekisa-team/qanda/internal/artifact"
	"github.com/ekisa-team/qanda/internal/hub"
)

// QA is a service abstraction for question answering over a packed
// artifact bundle.
type QA struct {
	artifact *artifact.Artifact
}

// NewQA creates a new QA service.
func NewQA(a *artifact.Artifact) *QA {
	return &QA{artifact: a}
}

// Answer is the result of a question-answering call.
type Answer struct {
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
	Tokens    int     `json:"tokens"`
	ModelType string  `json:"model_type"`
}

// Answer extracts an answer to the question from the passage using the
// packed model, scores it with the embedder and reports the tokenized
// length of the answer.
func (s *QA) Answer(ctx context.Context, question, passage string) (*Answer, error) {
	bundle := s.artifact.Get()
	if bundle == nil {
		return nil, fmt.Errorf("artifact bundle %w: pack or load the artifact first", artifact.ErrNotFound)
	}

	text, err := bundle.Model.Answer(question, passage)
	if err != nil {
		slog.Error("Failed to answer question", "artifact", s.artifact.Name(), "error", err)
		return nil, err
	}

	answer := &Answer{
		Text:      text,
		Tokens:    len(bundle.Tokenizer.Encode(text)),
		ModelType: bundle.Model.TypeName(),
	}

	if embedder, ok := bundle.Embedder.(*hub.Module); ok {
		answer.Score = hub.Cosine(embedder.Embed(question), embedder.Embed(text))
	}

	return answer, nil
}

package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/qanda/internal/service"
)

type (
	AnswerRequestDTO struct {
		Question string `json:"question" minLength:"1" maxLength:"1024"`
		Context  string `json:"context" minLength:"1" maxLength:"65536"`
	}

	AnswerResponseDTO struct {
		Answer    string  `json:"answer"`
		Score     float64 `json:"score"`
		Tokens    int     `json:"tokens"`
		ModelType string  `json:"model_type"`
	}
)

type (
	AnswerInput struct {
		Body AnswerRequestDTO
	}

	AnswerOutput struct {
		Body AnswerResponseDTO
	}
)

// QAHandler handles HTTP requests for question answering.
type QAHandler struct {
	service *service.QA
}

// NewQAHandler creates a new QAHandler instance.
func NewQAHandler(api huma.API, service *service.QA) *QAHandler {
	h := &QAHandler{service: service}

	huma.Register(api, huma.Operation{
		OperationID:   "answer",
		Method:        "POST",
		Path:          "/qa",
		Summary:       "Answer a question from a context passage",
		Tags:          []string{"qa"},
		DefaultStatus: http.StatusOK,
	}, h.handleAnswer)

	return h
}

// handleAnswer handles the answer operation.
func (h *QAHandler) handleAnswer(ctx context.Context, input *AnswerInput) (*AnswerOutput, error) {
	answer, err := h.service.Answer(ctx, input.Body.Question, input.Body.Context)
	if err != nil {
		return nil, translateError("failed to answer question", err)
	}

	return &AnswerOutput{
		Body: AnswerResponseDTO{
			Answer:    answer.Text,
			Score:     answer.Score,
			Tokens:    answer.Tokens,
			ModelType: answer.ModelType,
		},
	}, nil
}

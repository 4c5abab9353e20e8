package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/qanda/internal/artifact"
)

type (
	PackRequestDTO struct {
		Source  string           `json:"source" minLength:"1"`
		Options artifact.Options `json:"options,omitempty"`
	}

	SaveRequestDTO struct {
		Path string `json:"path" minLength:"1"`
	}

	LoadRequestDTO struct {
		Path string `json:"path" minLength:"1"`
	}

	ArtifactStatusDTO struct {
		Name          string `json:"name"`
		ModelType     string `json:"model_type"`
		TokenizerType string `json:"tokenizer_type"`
		Packed        bool   `json:"packed"`
	}

	SaveResponseDTO struct {
		ArtifactPath string `json:"artifact_path"`
	}
)

type (
	PackInput struct {
		Body PackRequestDTO
	}

	SaveInput struct {
		Body SaveRequestDTO
	}

	LoadInput struct {
		Body LoadRequestDTO
	}

	StatusOutput struct {
		Body ArtifactStatusDTO
	}

	SaveOutput struct {
		Body SaveResponseDTO
	}
)

// ArtifactHandler handles HTTP requests for the artifact lifecycle.
type ArtifactHandler struct {
	artifact *artifact.Artifact
}

// NewArtifactHandler creates a new ArtifactHandler instance.
func NewArtifactHandler(api huma.API, a *artifact.Artifact) *ArtifactHandler {
	h := &ArtifactHandler{artifact: a}

	huma.Register(api, huma.Operation{
		OperationID:   "pack-artifact",
		Method:        "POST",
		Path:          "/artifact/pack",
		Summary:       "Pack the artifact from a directory path or registry name",
		Tags:          []string{"artifact"},
		DefaultStatus: http.StatusOK,
	}, h.handlePack)

	huma.Register(api, huma.Operation{
		OperationID:   "save-artifact",
		Method:        "POST",
		Path:          "/artifact/save",
		Summary:       "Serialize the packed artifact under a destination directory",
		Tags:          []string{"artifact"},
		DefaultStatus: http.StatusOK,
	}, h.handleSave)

	huma.Register(api, huma.Operation{
		OperationID:   "load-artifact",
		Method:        "POST",
		Path:          "/artifact/load",
		Summary:       "Reconstruct the artifact from a previously saved directory",
		Tags:          []string{"artifact"},
		DefaultStatus: http.StatusOK,
	}, h.handleLoad)

	huma.Register(api, huma.Operation{
		OperationID:   "artifact-status",
		Method:        "GET",
		Path:          "/artifact",
		Summary:       "Report the artifact name, types and pack state",
		Tags:          []string{"artifact"},
		DefaultStatus: http.StatusOK,
	}, h.handleStatus)

	return h
}

// handlePack handles the pack-artifact operation.
func (h *ArtifactHandler) handlePack(ctx context.Context, input *PackInput) (*StatusOutput, error) {
	if _, err := h.artifact.PackValue(ctx, input.Body.Source, input.Body.Options); err != nil {
		return nil, translateError("failed to pack artifact", err)
	}

	return h.status(), nil
}

// handleSave handles the save-artifact operation.
func (h *ArtifactHandler) handleSave(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	path, err := h.artifact.Save(input.Body.Path)
	if err != nil {
		return nil, translateError("failed to save artifact", err)
	}

	return &SaveOutput{
		Body: SaveResponseDTO{ArtifactPath: path},
	}, nil
}

// handleLoad handles the load-artifact operation.
func (h *ArtifactHandler) handleLoad(ctx context.Context, input *LoadInput) (*StatusOutput, error) {
	if _, err := h.artifact.Load(ctx, input.Body.Path); err != nil {
		return nil, translateError("failed to load artifact", err)
	}

	return h.status(), nil
}

// handleStatus handles the artifact-status operation.
func (h *ArtifactHandler) handleStatus(ctx context.Context, input *struct{}) (*StatusOutput, error) {
	return h.status(), nil
}

func (h *ArtifactHandler) status() *StatusOutput {
	return &StatusOutput{
		Body: ArtifactStatusDTO{
			Name:          h.artifact.Name(),
			ModelType:     h.artifact.ModelType(),
			TokenizerType: h.artifact.TokenizerType(),
			Packed:        h.artifact.Packed(),
		},
	}
}

// translateError maps adapter errors onto HTTP status errors.
func translateError(msg string, err error) error {
	switch {
	case errors.Is(err, artifact.ErrNotFound):
		return huma.Error404NotFound(msg, err)
	case errors.Is(err, artifact.ErrInvalidArgument):
		return huma.Error422UnprocessableEntity(msg, err)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}

package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"path"

	"github.com/rs/zerolog"

	"github.com/Manoj5621/Fashion-virtual/internal/media"
	"github.com/Manoj5621/Fashion-virtual/internal/models"
	"github.com/Manoj5621/Fashion-virtual/internal/provider"
	"github.com/Manoj5621/Fashion-virtual/internal/repository"
	"github.com/Manoj5621/Fashion-virtual/internal/storage"
)

const (
	inputFileName  = "input.jpg"
	clothFileName  = "cloth.jpg"
	outputFileName = "output.png"

	successMessage = "Virtual try-on generated successfully."
)

type ImageUpload struct {
	ContentType string
	Data        []byte
}

type TryOnInput struct {
	Person       ImageUpload
	Cloth        ImageUpload
	Instructions string
	ModelType    string
	Gender       string
	GarmentType  string
	Style        string
	// Username is optional; when set the generated result is persisted
	// and the record is attached to the response.
	Username string
}

type TryOnResult struct {
	ImageDataURI string
	Text         string
	Record       *models.TryOnRecord
}

type TryOnService struct {
	generator provider.Generator
	records   TryOnStore
	store     storage.Store
	log       zerolog.Logger
}

func NewTryOnService(generator provider.Generator, records TryOnStore, store storage.Store, log zerolog.Logger) *TryOnService {
	return &TryOnService{
		generator: generator,
		records:   records,
		store:     store,
		log:       log,
	}
}

// TryOn validates the uploads, builds the prompt, calls the provider and
// decodes its single image into a data URI. When a username is supplied the
// input/output pair is persisted in the same logical operation.
func (s *TryOnService) TryOn(ctx context.Context, input TryOnInput) (TryOnResult, error) {
	defer s.log.Info().
		Str("model_type", input.ModelType).
		Str("garment_type", input.GarmentType).
		Msg("try-on request completed")

	if err := validateUploads(input); err != nil {
		return TryOnResult{}, err
	}

	prompt := BuildPrompt(input.ModelType, input.Gender, input.GarmentType, input.Style, input.Instructions)

	image, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		classified := provider.Classify(err)
		s.log.Error().
			Err(err).
			Str("category", string(classified.Category)).
			Msg("image generation failed")
		return TryOnResult{}, classified
	}

	result := TryOnResult{
		ImageDataURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(image),
		Text:         successMessage,
	}

	if input.Username != "" {
		record, err := s.Save(ctx, input.Username, input.Person.Data, input.Cloth.Data, image)
		if err != nil {
			return TryOnResult{}, err
		}
		result.Record = &record
	}

	return result, nil
}

// Save persists the image pair under users/<username>/tryon_<id>/ and the
// matching metadata row in a single transaction. Directory creation is
// idempotent; any write failure rolls the record back.
func (s *TryOnService) Save(ctx context.Context, username string, input, cloth, output []byte) (models.TryOnRecord, error) {
	return s.records.SaveResult(ctx, username, func(recordID int64) (repository.StoredPaths, error) {
		dir := path.Join("users", username, fmt.Sprintf("tryon_%d", recordID))
		if err := s.store.EnsureDir(ctx, dir); err != nil {
			return repository.StoredPaths{}, fmt.Errorf("create record dir: %w", err)
		}

		paths := repository.StoredPaths{
			Input:  path.Join(dir, inputFileName),
			Output: path.Join(dir, outputFileName),
		}

		if err := s.store.WriteFile(ctx, paths.Input, input); err != nil {
			return repository.StoredPaths{}, fmt.Errorf("write input image: %w", err)
		}
		if len(cloth) > 0 {
			paths.Cloth = path.Join(dir, clothFileName)
			if err := s.store.WriteFile(ctx, paths.Cloth, cloth); err != nil {
				return repository.StoredPaths{}, fmt.Errorf("write cloth image: %w", err)
			}
		}
		if err := s.store.WriteFile(ctx, paths.Output, output); err != nil {
			return repository.StoredPaths{}, fmt.Errorf("write output image: %w", err)
		}

		return paths, nil
	})
}

// validateUploads checks each image in a fixed order: person type, person
// size, cloth type, cloth size. The first failure wins.
func validateUploads(input TryOnInput) error {
	if !media.Allowed(input.Person.ContentType) {
		return &ValidationError{
			Status:  http.StatusUnsupportedMediaType,
			Message: "unsupported person image type",
		}
	}
	if len(input.Person.Data) > media.MaxUploadBytes {
		return &ValidationError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: "person image exceeds 20MB",
		}
	}
	if !media.Allowed(input.Cloth.ContentType) {
		return &ValidationError{
			Status:  http.StatusUnsupportedMediaType,
			Message: "unsupported cloth image type",
		}
	}
	if len(input.Cloth.Data) > media.MaxUploadBytes {
		return &ValidationError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: "cloth image exceeds 20MB",
		}
	}
	return nil
}

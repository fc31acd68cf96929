package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manoj5621/Fashion-virtual/internal/media"
	"github.com/Manoj5621/Fashion-virtual/internal/models"
	"github.com/Manoj5621/Fashion-virtual/internal/provider"
	"github.com/Manoj5621/Fashion-virtual/internal/repository"
)

type stubGenerator struct {
	image []byte
	err   error
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, _ string) ([]byte, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.image, nil
}

type memStore struct {
	dirs  map[string]int
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{
		dirs:  make(map[string]int),
		files: make(map[string][]byte),
	}
}

func (s *memStore) EnsureDir(_ context.Context, dir string) error {
	s.dirs[dir]++
	return nil
}

func (s *memStore) WriteFile(_ context.Context, name string, data []byte) error {
	s.files[name] = append([]byte(nil), data...)
	return nil
}

func (s *memStore) ReadFile(_ context.Context, name string) ([]byte, error) {
	data, ok := s.files[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (s *memStore) Exists(_ context.Context, name string) (bool, error) {
	_, ok := s.files[name]
	return ok, nil
}

type stubTryOnStore struct {
	knownUsers map[string]int64
	nextID     int64
	records    []models.TryOnRecord
}

func (s *stubTryOnStore) SaveResult(_ context.Context, username string, write repository.SaveFilesFunc) (models.TryOnRecord, error) {
	userID, ok := s.knownUsers[username]
	if !ok {
		return models.TryOnRecord{}, repository.ErrUserNotFound
	}

	s.nextID++
	paths, err := write(s.nextID)
	if err != nil {
		return models.TryOnRecord{}, err
	}

	record := models.TryOnRecord{
		ID:         s.nextID,
		UserID:     userID,
		InputPath:  paths.Input,
		ClothPath:  paths.Cloth,
		OutputPath: paths.Output,
	}
	s.records = append(s.records, record)
	return record, nil
}

func (s *stubTryOnStore) ListAll(_ context.Context) ([]models.TryOnRecord, error) {
	return s.records, nil
}

func (s *stubTryOnStore) ListByUser(_ context.Context, userID int64) ([]models.TryOnRecord, error) {
	var out []models.TryOnRecord
	for _, record := range s.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func validInput() TryOnInput {
	return TryOnInput{
		Person: ImageUpload{ContentType: "image/jpeg", Data: []byte("person-bytes")},
		Cloth:  ImageUpload{ContentType: "image/png", Data: []byte("cloth-bytes")},
	}
}

func newTryOnService(gen *stubGenerator, records TryOnStore, store *memStore) *TryOnService {
	return NewTryOnService(gen, records, store, zerolog.Nop())
}

func TestTryOn_Validation(t *testing.T) {
	oversized := make([]byte, media.MaxUploadBytes+1)

	tests := []struct {
		name       string
		mutate     func(*TryOnInput)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "person image bad type",
			mutate: func(in *TryOnInput) {
				in.Person.ContentType = "image/gif"
			},
			wantStatus: http.StatusUnsupportedMediaType,
			wantMsg:    "unsupported person image type",
		},
		{
			name: "person image too large",
			mutate: func(in *TryOnInput) {
				in.Person.Data = oversized
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantMsg:    "person image exceeds 20MB",
		},
		{
			name: "cloth image bad type",
			mutate: func(in *TryOnInput) {
				in.Cloth.ContentType = "application/pdf"
			},
			wantStatus: http.StatusUnsupportedMediaType,
			wantMsg:    "unsupported cloth image type",
		},
		{
			name: "cloth image too large",
			mutate: func(in *TryOnInput) {
				in.Cloth.Data = oversized
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantMsg:    "cloth image exceeds 20MB",
		},
		{
			name: "person type failure wins over cloth size",
			mutate: func(in *TryOnInput) {
				in.Person.ContentType = "image/gif"
				in.Cloth.Data = oversized
			},
			wantStatus: http.StatusUnsupportedMediaType,
			wantMsg:    "unsupported person image type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{image: []byte("img")}
			svc := newTryOnService(gen, &stubTryOnStore{}, newMemStore())

			input := validInput()
			tt.mutate(&input)

			_, err := svc.TryOn(context.Background(), input)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantStatus, validationErr.Status)
			assert.Equal(t, tt.wantMsg, validationErr.Message)
			assert.Zero(t, gen.calls, "provider must not be called on validation failure")
		})
	}
}

func TestTryOn_Success(t *testing.T) {
	gen := &stubGenerator{image: []byte{0x89, 'P', 'N', 'G'}}
	svc := newTryOnService(gen, &stubTryOnStore{}, newMemStore())

	result, err := svc.TryOn(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.True(t, strings.HasPrefix(result.ImageDataURI, "data:image/png;base64,"))
	assert.Equal(t, successMessage, result.Text)
	assert.Nil(t, result.Record, "no record without a username")
}

func TestTryOn_SuccessWithPersistence(t *testing.T) {
	gen := &stubGenerator{image: []byte("generated")}
	records := &stubTryOnStore{knownUsers: map[string]int64{"alice": 1}}
	store := newMemStore()
	svc := newTryOnService(gen, records, store)

	input := validInput()
	input.Username = "alice"

	result, err := svc.TryOn(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, result.Record)

	assert.Equal(t, "users/alice/tryon_1/input.jpg", result.Record.InputPath)
	assert.Equal(t, "users/alice/tryon_1/cloth.jpg", result.Record.ClothPath)
	assert.Equal(t, "users/alice/tryon_1/output.png", result.Record.OutputPath)

	assert.Equal(t, []byte("person-bytes"), store.files["users/alice/tryon_1/input.jpg"])
	assert.Equal(t, []byte("cloth-bytes"), store.files["users/alice/tryon_1/cloth.jpg"])
	assert.Equal(t, []byte("generated"), store.files["users/alice/tryon_1/output.png"])
}

func TestTryOn_UnknownUserFailsSave(t *testing.T) {
	gen := &stubGenerator{image: []byte("generated")}
	svc := newTryOnService(gen, &stubTryOnStore{}, newMemStore())

	input := validInput()
	input.Username = "ghost"

	_, err := svc.TryOn(context.Background(), input)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestTryOn_ProviderErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		providerErr  error
		wantCategory provider.Category
		wantContains string
	}{
		{
			name:         "rate limited",
			providerErr:  errors.New("googleapi: Error 429: resource exhausted"),
			wantCategory: provider.CategoryRateLimit,
			wantContains: "Rate Limit",
		},
		{
			name:         "quota exceeded",
			providerErr:  errors.New("generation quota exhausted for project"),
			wantCategory: provider.CategoryQuota,
			wantContains: "Quota",
		},
		{
			name:         "bad api key",
			providerErr:  errors.New("API key not valid"),
			wantCategory: provider.CategoryAuthentication,
			wantContains: "Authentication Failed",
		},
		{
			name:         "unclassified",
			providerErr:  fmt.Errorf("connection reset by peer"),
			wantCategory: provider.CategoryUnknown,
			wantContains: "Image generation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{err: tt.providerErr}
			svc := newTryOnService(gen, &stubTryOnStore{}, newMemStore())

			_, err := svc.TryOn(context.Background(), validInput())

			var providerErr *provider.Error
			require.ErrorAs(t, err, &providerErr)
			assert.Equal(t, tt.wantCategory, providerErr.Category)
			assert.Contains(t, providerErr.Message, tt.wantContains)
			assert.NotContains(t, providerErr.Message, tt.providerErr.Error(),
				"raw provider text must never surface")
		})
	}
}

package service

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Manoj5621/Fashion-virtual/internal/models"
	"github.com/Manoj5621/Fashion-virtual/internal/repository"
)

// MountPrefix is the URL segment under which stored files are public.
const MountPrefix = "/uploads"

type GalleryService struct {
	users   UserStore
	records TryOnStore
	baseURL string
	log     zerolog.Logger
}

func NewGalleryService(users UserStore, records TryOnStore, baseURL string, log zerolog.Logger) *GalleryService {
	return &GalleryService{
		users:   users,
		records: records,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     log,
	}
}

// Gallery lists the try-on records visible to the requesting user. A
// privileged user sees every record; everyone else sees only their own.
// Entries come back in record-creation order.
func (s *GalleryService) Gallery(ctx context.Context, username string) ([]models.GalleryEntry, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}

	var records []models.TryOnRecord
	if user.Privileged() {
		records, err = s.records.ListAll(ctx)
	} else {
		records, err = s.records.ListByUser(ctx, user.ID)
	}
	if err != nil {
		return nil, err
	}

	// Owner usernames are resolved lazily; the cache lives only for this call.
	owners := map[int64]string{user.ID: user.Username}

	entries := make([]models.GalleryEntry, 0, len(records))
	for _, record := range records {
		owner, ok := owners[record.UserID]
		if !ok {
			ownerUser, err := s.users.GetByID(ctx, record.UserID)
			if err != nil {
				return nil, err
			}
			owner = ownerUser.Username
			owners[record.UserID] = owner
		}

		entries = append(entries, models.GalleryEntry{
			Username:       owner,
			PersonImageURL: s.publicURL(record.InputPath),
			ClothImageURL:  s.publicURL(record.ClothPath),
			OutputImageURL: s.publicURL(record.OutputPath),
			CreatedAt:      record.CreatedAt,
		})
	}

	return entries, nil
}

func (s *GalleryService) publicURL(stored string) string {
	if stored == "" {
		return ""
	}
	return s.baseURL + MountPrefix + "/" + NormalizeStoredPath(stored)
}

// NormalizeStoredPath converts a stored path to a root-relative forward-slash
// form, dropping a leading segment that duplicates the public mount prefix.
func NormalizeStoredPath(stored string) string {
	p := strings.ReplaceAll(stored, "\\", "/")
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimPrefix(p, strings.TrimPrefix(MountPrefix, "/")+"/")
	return p
}

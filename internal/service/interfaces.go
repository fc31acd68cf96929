package service

import (
	"context"

	"github.com/Manoj5621/Fashion-virtual/internal/models"
	"github.com/Manoj5621/Fashion-virtual/internal/repository"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type TryOnStore interface {
	SaveResult(ctx context.Context, username string, write repository.SaveFilesFunc) (models.TryOnRecord, error)
	ListAll(ctx context.Context) ([]models.TryOnRecord, error)
	ListByUser(ctx context.Context, userID int64) ([]models.TryOnRecord, error)
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	GetByID(ctx context.Context, id string) (models.Session, error)
}

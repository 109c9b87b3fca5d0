package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/assistant/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	Find(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpiredForUser(ctx context.Context, userID int64) (int64, error)
}

package rest

import (
	"context"
	"io"

	"github.com/dmitrijs2005/assistant/internal/server/models"
	"github.com/dmitrijs2005/assistant/internal/server/services"
)

// UserService is the part of services.UserService the API needs.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, login, password string) (*services.Token, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

type ChatService interface {
	Store(ctx context.Context, userID int64, userMessage, aiResponse string) (*models.ChatTurn, error)
	History(ctx context.Context, userID int64) ([]*models.ChatTurn, error)
}

type UploadService interface {
	Upload(ctx context.Context, userID int64, fileName string, body io.Reader, size int64, contentType string) (*models.Upload, error)
}

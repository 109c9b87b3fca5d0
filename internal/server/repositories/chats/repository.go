package chats

import (
	"context"

	"github.com/dmitrijs2005/assistant/internal/server/models"
)

type Repository interface {
	Append(ctx context.Context, userID int64, userMessage, aiResponse string) (*models.ChatTurn, error)
	History(ctx context.Context, userID int64) ([]*models.ChatTurn, error)
}

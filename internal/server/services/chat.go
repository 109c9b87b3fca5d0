package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/assistant/internal/common"
	"github.com/dmitrijs2005/assistant/internal/server/models"
	"github.com/dmitrijs2005/assistant/internal/server/repositories/repomanager"
)

// ChatService stores and lists a user's chat turns.
type ChatService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewChatService(db *sql.DB, m repomanager.RepositoryManager) *ChatService {
	return &ChatService{db: db, repomanager: m}
}

// Store appends one turn for userID. Messages are stored verbatim.
func (s *ChatService) Store(ctx context.Context, userID int64, userMessage, aiResponse string) (*models.ChatTurn, error) {
	turn, err := s.repomanager.Chats(s.db).Append(ctx, userID, userMessage, aiResponse)
	if err != nil {
		if errors.Is(err, common.ErrForeignKeyViolation) {
			return nil, err
		}
		return nil, fmt.Errorf("error storing chat: %w", err)
	}
	return turn, nil
}

// History lists the user's turns, most recent first.
func (s *ChatService) History(ctx context.Context, userID int64) ([]*models.ChatTurn, error) {
	turns, err := s.repomanager.Chats(s.db).History(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching chat history: %w", err)
	}
	return turns, nil
}

// Package chats provides the PostgreSQL-backed chat history store.
package chats

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/assistant/internal/common"
	"github.com/dmitrijs2005/assistant/internal/dbx"
	"github.com/dmitrijs2005/assistant/internal/server/models"
)

// PostgresRepository stores chat turns over dbx.DBTX (either *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append stores one turn stamped with the database clock. A user_id with no
// matching user yields common.ErrForeignKeyViolation.
func (r *PostgresRepository) Append(ctx context.Context, userID int64, userMessage, aiResponse string) (*models.ChatTurn, error) {

	query :=
		`INSERT INTO chat_history (user_id, user_message, ai_response, timestamp)
         VALUES ($1, $2, $3, now())
		 RETURNING id, timestamp
		 `

	turn := &models.ChatTurn{UserID: userID, UserMessage: userMessage, AIResponse: aiResponse}

	err := r.db.QueryRowContext(ctx, query, userID, userMessage, aiResponse).Scan(&turn.ID, &turn.Timestamp)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %v", common.ErrForeignKeyViolation, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return turn, nil
}

// History returns every turn of the user, most recent first. Turns stored
// within the same clock tick come back in reverse insertion order.
func (r *PostgresRepository) History(ctx context.Context, userID int64) ([]*models.ChatTurn, error) {

	query :=
		`SELECT id, user_id, user_message, ai_response, timestamp
		 FROM chat_history
		 WHERE user_id = $1
		 ORDER BY timestamp DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.ChatTurn, 0)

	for rows.Next() {
		turn := &models.ChatTurn{}
		if err := rows.Scan(&turn.ID, &turn.UserID, &turn.UserMessage, &turn.AIResponse, &turn.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

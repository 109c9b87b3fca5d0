package rest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/assistant/internal/server/models"
	"github.com/go-playground/validator/v10"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,max=50,excludesall=@"`
	Email    string `json:"email" validate:"required,max=100,email"`
	Password string `json:"password" validate:"required"`
}

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type chatRequest struct {
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type uploadResponse struct {
	FileName string `json:"filename"`
	Key      string `json:"key"`
	Message  string `json:"message"`
}

// userView never carries password material.
type userView struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
}

func newUserView(u *models.User) userView {
	v := userView{
		ID:        u.ID,
		Username:  u.UserName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC(),
	}
	if u.LastLogin != nil {
		t := u.LastLogin.UTC()
		v.LastLogin = &t
	}
	return v
}

type chatTurnView struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
	Timestamp   string `json:"timestamp"`
}

func newChatTurnViews(turns []*models.ChatTurn) []chatTurnView {
	out := make([]chatTurnView, 0, len(turns))
	for _, t := range turns {
		out = append(out, chatTurnView{
			ID:          t.ID,
			UserID:      t.UserID,
			UserMessage: t.UserMessage,
			AIResponse:  t.AIResponse,
			Timestamp:   t.Timestamp.UTC().Format(time.RFC3339Nano),
		})
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validationDetail turns validator errors into one readable line per field.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", field))
		case "excludesall":
			msgs = append(msgs, fmt.Sprintf("%s must not contain %q", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

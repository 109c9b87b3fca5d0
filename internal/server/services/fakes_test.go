package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/assistant/internal/common"
	"github.com/dmitrijs2005/assistant/internal/dbx"
	"github.com/dmitrijs2005/assistant/internal/server/models"
	"github.com/dmitrijs2005/assistant/internal/server/repositories/chats"
	"github.com/dmitrijs2005/assistant/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/assistant/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// fakeUsersRepo keeps users in memory, keyed by id.
type fakeUsersRepo struct {
	byID   map[int64]*models.User
	nextID int64

	createErr    error
	getErr       error
	lastLoginErr error
	lastLogins   int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}, nextID: 1}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.UserName == u.UserName {
			return nil, common.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	cp := *u
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.nextID++
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.UserName == login })
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsersRepo) UpdateLastLogin(ctx context.Context, id int64) (time.Time, error) {
	if f.lastLoginErr != nil {
		return time.Time{}, f.lastLoginErr
	}
	u, ok := f.byID[id]
	if !ok {
		return time.Time{}, common.ErrorNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	f.lastLogins++
	return now, nil
}

type fakeSessionsRepo struct {
	byToken map[string]*models.Session

	createErr error
	findErr   error
	deleteErr error
	purgeErr  error
	purged    []int64
}

func newFakeSessionsRepo() *fakeSessionsRepo {
	return &fakeSessionsRepo{byToken: map[string]*models.Session{}}
}

func (f *fakeSessionsRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byToken[token] = &models.Session{UserID: userID, Token: token, CreatedAt: time.Now(), ExpiresAt: expiresAt}
	return nil
}

func (f *fakeSessionsRepo) Find(ctx context.Context, token string) (*models.Session, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	s, ok := f.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byToken, token)
	return nil
}

func (f *fakeSessionsRepo) DeleteExpiredForUser(ctx context.Context, userID int64) (int64, error) {
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	f.purged = append(f.purged, userID)
	var n int64
	for k, s := range f.byToken {
		if s.UserID == userID && !s.ExpiresAt.After(time.Now()) {
			delete(f.byToken, k)
			n++
		}
	}
	return n, nil
}

type fakeChatsRepo struct {
	turns     []*models.ChatTurn
	users     map[int64]bool
	appendErr error
	histErr   error
}

func (f *fakeChatsRepo) Append(ctx context.Context, userID int64, userMessage, aiResponse string) (*models.ChatTurn, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	if !f.users[userID] {
		return nil, common.ErrForeignKeyViolation
	}
	t := &models.ChatTurn{
		ID: int64(len(f.turns) + 1), UserID: userID,
		UserMessage: userMessage, AIResponse: aiResponse, Timestamp: time.Now(),
	}
	f.turns = append(f.turns, t)
	return t, nil
}

func (f *fakeChatsRepo) History(ctx context.Context, userID int64) ([]*models.ChatTurn, error) {
	if f.histErr != nil {
		return nil, f.histErr
	}
	out := make([]*models.ChatTurn, 0)
	for i := len(f.turns) - 1; i >= 0; i-- {
		if f.turns[i].UserID == userID {
			out = append(out, f.turns[i])
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSessionsRepo
	c *fakeChatsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository          { return m.u }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository    { return m.s }
func (m *fakeRepoManager) Chats(db dbx.DBTX) chats.Repository          { return m.c }

// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, bearer-token issue and
// revocation, and resolving a token back to its user.
package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/assistant/internal/common"
	"github.com/dmitrijs2005/assistant/internal/cryptox"
	"github.com/dmitrijs2005/assistant/internal/dbx"
	"github.com/dmitrijs2005/assistant/internal/server/auth"
	"github.com/dmitrijs2005/assistant/internal/server/config"
	"github.com/dmitrijs2005/assistant/internal/server/models"
	"github.com/dmitrijs2005/assistant/internal/server/repositories/repomanager"
)

// sessionIDSize is the number of random bytes behind a token's jti.
const sessionIDSize = 32

// Token is the bearer credential returned by Login.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// UserService provides the credential store and token lifecycle:
// - Register: create users
// - Authenticate: verify credentials and stamp last_login
// - Login: Authenticate and mint a session-backed bearer token
// - CurrentUser / Logout: resolve or revoke a bearer token
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	hasher                      cryptox.PasswordHasher
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	dummy                       cryptox.Digest
}

// NewUserService constructs a UserService using repositories and server config.
// hasher is used for new registrations; existing rows are verified with the
// scheme they were stored under.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, hasher cryptox.PasswordHasher) (*UserService, error) {
	dummy, err := hasher.Hash(hex.EncodeToString(common.GenerateRandByteArray(16)))
	if err != nil {
		return nil, fmt.Errorf("error preparing password hasher: %w", err)
	}
	return &UserService{
		db:                          db,
		repomanager:                 m,
		hasher:                      hasher,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		dummy:                       dummy,
	}, nil
}

// Register creates a user. Duplicate usernames or emails are reported as
// common.ErrDuplicateUsername / common.ErrDuplicateEmail and nothing is stored.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		UserName:       username,
		Email:          email,
		PasswordHash:   digest.Hash,
		PasswordSalt:   digest.Salt,
		PasswordScheme: digest.Scheme,
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// Authenticate verifies password for the user named by login, which is
// treated as an email when it contains "@" and as a username otherwise.
// On success last_login is updated and the user id returned.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (int64, error) {
	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.authenticate(ctx, tx, login, password)
		user = u
		return err
	})
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Login authenticates the caller, drops their expired sessions and issues
// a bearer token backed by a new session row, all in one transaction.
func (s *UserService) Login(ctx context.Context, login, password string) (*Token, error) {
	var token *Token
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.authenticate(ctx, tx, login, password)
		if err != nil {
			return err
		}

		sessions := s.repomanager.Sessions(tx)
		if _, err := sessions.DeleteExpiredForUser(ctx, user.ID); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}

		sessionID, err := common.MakeRandHexString(sessionIDSize)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}

		expiresAt := time.Now().Add(s.accessTokenValidityDuration)
		if err := sessions.Create(ctx, user.ID, sessionID, expiresAt); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}

		access, err := auth.GenerateToken(user.UserName, sessionID, s.jwtSecret, s.accessTokenValidityDuration)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}

		token = &Token{AccessToken: access, TokenType: common.TokenType, ExpiresAt: expiresAt}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// GetByID returns the user or common.ErrorNotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return user, nil
}

// CurrentUser resolves a bearer token to its user. The token must verify,
// and its session must still exist.
func (s *UserService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	session, err := s.repomanager.Sessions(s.db).Find(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrSessionRevoked
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !session.ExpiresAt.After(time.Now()) {
		return nil, common.ErrTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if user.ID != session.UserID {
		return nil, common.ErrInvalidToken
	}

	return user, nil
}

// Logout revokes the session behind token.
func (s *UserService) Logout(ctx context.Context, token string) error {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return err
	}
	if err := s.repomanager.Sessions(s.db).Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return nil
}

// --- helpers below ---

func (s *UserService) authenticate(ctx context.Context, tx dbx.DBTX, login, password string) (*models.User, error) {
	repo := s.repomanager.Users(tx)

	var (
		user *models.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = repo.GetUserByEmail(ctx, login)
	} else {
		user, err = repo.GetUserByLogin(ctx, login)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the not-found path as costly as a real check
			_, _ = cryptox.Verify(password, s.dummy)
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	ok, err := cryptox.Verify(password, cryptox.Digest{
		Hash:   user.PasswordHash,
		Salt:   user.PasswordSalt,
		Scheme: user.PasswordScheme,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !ok {
		return nil, common.ErrIncorrectPassword
	}

	lastLogin, err := repo.UpdateLastLogin(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	user.LastLogin = &lastLogin

	return user, nil
}

// Package server initializes and runs the assistant backend: it loads the
// database schema, builds the services and serves the HTTP API next to a
// gRPC health endpoint until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/assistant/internal/common"
	"github.com/dmitrijs2005/assistant/internal/cryptox"
	"github.com/dmitrijs2005/assistant/internal/logging"
	"github.com/dmitrijs2005/assistant/internal/server/config"
	"github.com/dmitrijs2005/assistant/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/assistant/internal/server/rest"
	"github.com/dmitrijs2005/assistant/internal/server/services"

	gs "github.com/dmitrijs2005/assistant/internal/server/grpc"
)

var (
	openDB               = repomanager.Open
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.UserService
	chatService   *services.ChatService
	uploadService *services.UploadService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	generated, err := ensureSecretKey(c)
	if err != nil {
		return nil, err
	}
	if generated {
		logger.Warn(ctx, "no secret key configured, generated a random one; tokens will not survive a restart")
	}

	hasher, err := cryptox.NewHasher(c.PasswordScheme)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := newRepositoryManager(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us, err := services.NewUserService(db, rm, c, hasher)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		userService:   us,
		chatService:   services.NewChatService(db, rm),
		uploadService: services.NewUploadService(c),
	}, nil
}

// ensureSecretKey fills an empty SecretKey with a random one and reports
// whether it did.
func ensureSecretKey(c *config.Config) (bool, error) {
	if c.SecretKey != "" {
		return false, nil
	}
	key, err := common.MakeRandHexString(32)
	if err != nil {
		return false, fmt.Errorf("generating secret key: %w", err)
	}
	c.SecretKey = key
	return true, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.EndpointAddrHTTP, app.logger, rest.Options{
		Users:          app.userService,
		Chats:          app.chatService,
		Uploads:        app.uploadService,
		AllowedOrigins: app.config.CORSAllowedOrigins,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}

// Package server wires the platform together: database, repositories,
// token and revocation services, mail, object storage, and the HTTP and
// gRPC listeners. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/techelevate/platform/internal/clock"
	"github.com/techelevate/platform/internal/logging"
	"github.com/techelevate/platform/internal/server/access"
	"github.com/techelevate/platform/internal/server/auth"
	"github.com/techelevate/platform/internal/server/config"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/mail"
	"github.com/techelevate/platform/internal/server/repositories/repomanager"
	"github.com/techelevate/platform/internal/server/rest"
	"github.com/techelevate/platform/internal/server/revocation"
	"github.com/techelevate/platform/internal/server/services"
	"github.com/techelevate/platform/internal/server/storage"

	gs "github.com/techelevate/platform/internal/server/grpc"
)

// pruneInterval is how often expired revocation records are dropped.
const pruneInterval = time.Hour

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repos       repomanager.RepositoryManager
	redis       redis.UniversalClient
	revocations *revocation.Manager
	accounts    *services.AccountService
	content     *services.ContentService
}

// openDB is replaced in tests.
var openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.New(c.LogFormat, os.Stdout)
	if c.InsecureSecret() {
		logger.Warn(ctx, "development secret key in use on a public listener", "http", c.EndpointAddrHTTP)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{
		config: c,
		logger: logger,
		db:     db,
		repos:  repomanager.NewPostgresRepositoryManager(),
	}

	ledger, err := app.newLedger()
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	clk := clock.Real()
	app.revocations = revocation.NewManager(ledger, clk)

	mailer, err := mail.New(mail.Config{
		Provider:       c.MailProvider,
		From:           c.MailFrom,
		MailgunDomain:  c.MailgunDomain,
		MailgunKey:     c.MailgunAPIKey,
		SendGridKey:    c.SendGridAPIKey,
		BreakerEnabled: c.MailBreaker,
	}, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	var pictures storage.Presigner
	if c.S3Bucket != "" {
		pictures = storage.NewS3Presigner(storage.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			Expiry:       c.S3PresignExpiry,
		})
	}

	guard := access.NewGuard()

	app.accounts = services.NewAccountService(services.AccountDeps{
		DB:          db,
		Repos:       app.repos,
		Tokens:      auth.NewTokenService([]byte(c.SecretKey), c.TokenIssuer, c.AccessTokenTTL, clk),
		Revocations: app.revocations,
		Guard:       guard,
		Mailer:      mailer,
		Pictures:    pictures,
		Logger:      logger,
		BcryptCost:  c.BcryptCost,
	})
	app.content = services.NewContentService(db, app.repos, guard, logger)

	return app, nil
}

// newLedger selects the revocation store named in the config.
func (app *App) newLedger() (revocation.Ledger, error) {
	switch app.config.RevocationStore {
	case config.RevocationRedis:
		app.redis = redis.NewClient(&redis.Options{
			Addr:     app.config.RedisAddr,
			Password: app.config.RedisPassword,
			DB:       app.config.RedisDB,
		})
		return revocation.NewRedisLedger(app.redis, clock.Real()), nil
	case config.RevocationMemory:
		app.logger.Warn(context.Background(), "revocations are kept in memory and lost on restart")
		return revocation.NewMemoryLedger(), nil
	case config.RevocationPostgres:
		return app.repos.Revocations(app.db), nil
	default:
		return nil, fmt.Errorf("unknown revocation store %q", app.config.RevocationStore)
	}
}

// Migrate applies pending schema migrations.
func (app *App) Migrate(ctx context.Context) error {
	return app.repos.RunMigrations(ctx, app.db)
}

// BootstrapAdministrator creates an administrator without an acting
// subject. It backs the admin CLI.
func (app *App) BootstrapAdministrator(ctx context.Context, in services.RegisterInput) (*identity.Account, error) {
	return app.accounts.BootstrapAdministrator(ctx, in)
}

// PruneRevocations drops ledger records of tokens that expired anyway.
func (app *App) PruneRevocations(ctx context.Context) (int64, error) {
	return app.revocations.Prune(ctx)
}

// Close releases the database and, if used, the redis client.
func (app *App) Close() error {
	var err error
	if app.redis != nil {
		err = app.redis.Close()
	}
	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.EndpointAddrHTTP, app.logger, app.accounts, app.content)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// pruneRevocations drops expired ledger records until ctx is done.
func (app *App) pruneRevocations(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.PruneRevocations(ctx)
			if err != nil {
				app.logger.Error(ctx, "prune revocations", "error", err.Error())
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "pruned revocations", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer func() { _ = app.Close() }()

	app.logger.Info(ctx, "Starting app...")

	if err := app.Migrate(ctx); err != nil {
		return err
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.pruneRevocations(ctx)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return nil
}

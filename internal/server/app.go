// Package server wires the PulseCity backend together: storage, identity,
// media, news sources and the REST transport. It runs the HTTP server and
// the staging sweeper until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/pulsecity/internal/logging"
	"github.com/dmitrijs2005/pulsecity/internal/server/auth"
	"github.com/dmitrijs2005/pulsecity/internal/server/config"
	"github.com/dmitrijs2005/pulsecity/internal/server/identity"
	"github.com/dmitrijs2005/pulsecity/internal/server/news"
	"github.com/dmitrijs2005/pulsecity/internal/server/reddit"
	"github.com/dmitrijs2005/pulsecity/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pulsecity/internal/server/rest"
	"github.com/dmitrijs2005/pulsecity/internal/server/services"
	"github.com/dmitrijs2005/pulsecity/internal/server/speech"
	"github.com/dmitrijs2005/pulsecity/internal/server/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	rest    *rest.Server
	sweeper *services.Sweeper
}

// OpenDatabase opens the pgx pool and applies pending migrations.
func OpenDatabase(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}

	return db, rm, nil
}

// NewIdentityProvider loads the token signing key and builds the identity
// provider over db.
func NewIdentityProvider(ctx context.Context, c *config.Config, db *sql.DB, rm repomanager.RepositoryManager, l logging.Logger) (*identity.Provider, error) {
	key, generated, err := auth.LoadSigningKey(c.IdentityKeyFile)
	if err != nil {
		return nil, err
	}
	if generated {
		l.Warn(ctx, "no identity key configured, ID tokens will not survive a restart")
	}

	signer := auth.NewTokenSigner(key, c.IdentityIssuer, c.IDTokenValidityDuration)
	return identity.NewProvider(rm.Identities(db), signer), nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	db, rm, err := OpenDatabase(ctx, c)
	if err != nil {
		return nil, err
	}

	app, err := newApp(ctx, c, logger, db, rm)
	if err != nil {
		db.Close()
		return nil, err
	}

	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	idp, err := NewIdentityProvider(ctx, c, db, rm, logger)
	if err != nil {
		return nil, fmt.Errorf("identity init error: %w", err)
	}

	authz, err := auth.NewAuthorizer()
	if err != nil {
		return nil, fmt.Errorf("authorizer init error: %w", err)
	}

	store, err := storage.NewS3Store(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	transcriber, err := speech.NewGoogleTranscriber(c.SpeechCredentialsFile, c.SpeechEncoding, c.SpeechLanguage)
	if err != nil {
		return nil, fmt.Errorf("speech init error: %w", err)
	}

	httpClient := &http.Client{}

	tokens := reddit.NewCredentialCache(c.RedditClientID, c.RedditClientSecret, c.RedditTokenURL, httpClient)
	redditClient := reddit.NewClient(tokens, httpClient, c.RedditAPIBaseURL, c.RedditSubreddit, c.RedditListingLimit, c.RedditUserAgent)

	feed := news.NewFusion(logger,
		news.NewNewsData(httpClient, c.NewsDataBaseURL, c.NewsDataAPIKey),
		news.NewGNews(httpClient, c.GNewsBaseURL, c.GNewsAPIKey),
	)

	accounts := services.NewAccountService(db, rm, idp)
	posts := services.NewPostService(db, rm, store, transcriber, logger)
	sweeper := services.NewSweeper(db, rm, store, c.StagingGracePeriod, c.SweepInterval, logger)

	srv := rest.NewServer(c.HTTPAddr, logger, rest.Deps{
		Accounts:   accounts,
		Posts:      posts,
		Feed:       feed,
		Reddit:     redditClient,
		Verifier:   idp,
		Authorizer: authz,
	}, rest.Options{
		DefaultLocation:  c.NewsLocation,
		MaxUploadSize:    c.MaxUploadSize,
		CORSAllowOrigins: c.CORSAllowOrigins,
		ShutdownTimeout:  c.ShutdownTimeout,
	})

	return &App{config: c, logger: logger, db: db, rest: srv, sweeper: sweeper}, nil
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
	if err := app.rest.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or the HTTP server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}

package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/api"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/config"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/realtime"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/repositories/state"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/repositories/tokens"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/services"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/storage"
	"github.com/VijayPalsawdiya/ttrush-go/internal/filex"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
)

// noopIdentity stands in for the mobile Google sign-in SDK; the CLI pastes an
// ID token directly, so there is no provider session to revoke.
type noopIdentity struct{}

func (noopIdentity) Revoke(ctx context.Context) error { return nil }

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	session       services.SessionManager
	users         services.UserService
	challenges    services.ChallengeService
	leaderboard   services.LeaderboardService
	notifications services.NotificationService
	home          services.HomeService
	uploads       services.UploadService
	channel       *realtime.Channel

	reader      *bufio.Reader
	stopChannel func()
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	dbPath := c.DatabasePath
	if dbPath == "" {
		dir, err := filex.EnsureSubDir("ttrush")
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(dir, "arena.db")
	}

	db, err := storage.InitDatabase(ctx, dbPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	tokenStore := tokens.NewSQLiteStore(db)
	stateStore := state.NewSQLiteStore(db)

	apiClient := api.NewHTTPClient(c.ServerBaseURL, tokenStore, c.RequestTimeout, log)

	session := services.NewSessionManager(apiClient, tokenStore, stateStore, noopIdentity{}, log)
	users := services.NewUserService(apiClient, log)
	challenges := services.NewChallengeService(apiClient, log)
	leaderboard := services.NewLeaderboardService(apiClient, users, log)
	notifications := services.NewNotificationService(apiClient, challenges, log)
	home := services.NewHomeService(apiClient, users, log)
	uploads := services.NewUploadService(apiClient, log)
	channel := realtime.NewChannel(c.SocketURL(), tokenStore, log)

	return &App{
		config:        c,
		log:           log,
		db:            db,
		session:       session,
		users:         users,
		challenges:    challenges,
		leaderboard:   leaderboard,
		notifications: notifications,
		home:          home,
		uploads:       uploads,
		channel:       channel,
		reader:        bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores the persisted session, keeps the realtime channel in step with
// the session state, and hands control to the REPL. It blocks until the user
// exits.
func (a *App) Run(ctx context.Context) error {
	defer a.close(ctx)

	unsubscribe := a.session.Subscribe(func(st services.State) {
		a.syncChannel(ctx, st)
	})
	defer unsubscribe()

	st, err := a.session.Restore(ctx)
	if err != nil {
		return err
	}
	a.syncChannel(ctx, st)

	a.Root(ctx)
	return nil
}

// syncChannel opens the realtime channel while a session exists and closes it
// when the session ends. The notification feed follows the channel.
func (a *App) syncChannel(ctx context.Context, st services.State) {
	if st == services.StateUnauthenticated {
		if a.stopChannel != nil {
			a.stopChannel()
			a.stopChannel = nil
		}
		_ = a.channel.Close()
		return
	}

	if err := a.channel.Open(ctx); err != nil {
		a.log.Warn(ctx, "realtime channel unavailable", "error", err)
	}
	if a.stopChannel == nil {
		a.stopChannel = a.notifications.Start(ctx, a.channel)
	}
	go func() {
		_, _ = a.notifications.Fetch(ctx)
	}()
}

func (a *App) close(ctx context.Context) {
	if a.stopChannel != nil {
		a.stopChannel()
	}
	if err := a.channel.Close(); err != nil {
		a.log.Warn(ctx, "error closing realtime channel", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(ctx, "error closing database", "error", err)
	}
}

func (a *App) isSignedIn() bool {
	return a.session.State() != services.StateUnauthenticated
}

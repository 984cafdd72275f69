package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"sync"

	"github.com/riceguard/riceguard/internal/client/api"
	"github.com/riceguard/riceguard/internal/client/apierr"
	"github.com/riceguard/riceguard/internal/client/config"
	"github.com/riceguard/riceguard/internal/client/events"
	"github.com/riceguard/riceguard/internal/client/localdb"
	"github.com/riceguard/riceguard/internal/client/nav"
	"github.com/riceguard/riceguard/internal/client/retryx"
	"github.com/riceguard/riceguard/internal/client/services"
	"github.com/riceguard/riceguard/internal/client/session"
	"github.com/riceguard/riceguard/internal/filex"
	"github.com/riceguard/riceguard/internal/logging"

	_ "modernc.org/sqlite"
)

// Screen routes the REPL reports to the navigator. A command switches the
// current route before it talks to the server, so a session expiry knows
// which screen to come back to after re-login.
const (
	RouteDashboard = "/dashboard"
	RouteScan      = "/scan"
	RouteHistory   = "/history"
	RouteSettings  = "/settings"
)

type App struct {
	config    *config.Config
	auth      services.AuthService
	scans     services.ScanService
	tokens    *session.Store
	navigator *nav.Navigator
	bus       *events.Bus
	db        *sql.DB
	log       logging.Logger
	reader    *bufio.Reader

	mu    sync.Mutex
	route string
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if _, err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
		return nil, err
	}
	db, err := localdb.Init(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local database: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	cookieStore, err := session.NewCookieStorage(jar, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	app := &App{
		config: cfg,
		db:     db,
		log:    logger,
		reader: bufio.NewReader(os.Stdin),
		route:  nav.LoginRoute,
	}

	app.tokens = session.NewStore(cookieStore, session.NewSQLiteStorage(db), logger)
	app.bus = events.NewBus(logger)
	app.navigator = nav.New(app.location, app.redirect)

	classifier := apierr.NewClassifier(app.tokens, app.bus, app.navigator,
		app.showMessage, cfg.MessageDelay, logger)
	policy := retryx.NewPolicy(cfg.MaxAttempts, cfg.RetryBaseDelay, cfg.RetryJitterMax)

	apiClient, err := api.New(cfg.BaseURL, &http.Client{Jar: jar}, app.tokens,
		classifier, policy, cfg.RequestTimeout, logger)
	if err != nil {
		return nil, err
	}

	app.auth = services.NewAuthService(apiClient, app.tokens, logger)
	app.scans = services.NewScanService(apiClient, db, logger)

	return app, nil
}

// location reports the current screen route to the navigator.
func (a *App) location() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

// redirect is invoked by the navigator when a session expiry sends the user
// back to the login screen.
func (a *App) redirect(route string) {
	a.mu.Lock()
	a.route = route
	a.mu.Unlock()
	if route == nav.LoginRoute {
		printlnFn("Please log in to continue.")
	}
}

func (a *App) setRoute(route string) {
	a.mu.Lock()
	a.route = route
	a.mu.Unlock()
}

// showMessage surfaces a classified error message to the user.
func (a *App) showMessage(msg string) {
	printlnFn(msg)
}

func (a *App) isLoggedIn() bool {
	return a.tokens.IsAuthenticated(context.Background())
}

func (a *App) getStatus() string {
	ctx := context.Background()
	if profile, err := a.tokens.Profile(ctx); err == nil && a.isLoggedIn() {
		return fmt.Sprintf("(%s %s)", profile.Name, a.location())
	}
	return ""
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.db.Close() }()

	printlnFn("Welcome to RiceGuard CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

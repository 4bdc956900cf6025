package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/go-userauth"
	"github.com/goliatone/go-userauth/config"
	"github.com/goliatone/go-userauth/middleware/jwtware"
	"github.com/goliatone/go-userauth/rest"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// a missing signing key lands here: fatal, the server must not
		// come up without its secret
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	lgr := newLogger(cfg.Logging.Level)

	logger := lgr.GetLogger("server")
	logger.Info("configuration loaded", "config", print.MaybePrettyJSON(cfg.Masked()))

	ctx := context.Background()

	db, err := openDatabase(cfg.Database.DSN)
	if err != nil {
		logger.Error("database error", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := createSchema(ctx, db); err != nil {
		logger.Error("schema error", "error", err)
		os.Exit(1)
	}

	repo := userauth.NewUsersRepository(db)

	if cfg.Seed.Enabled {
		if err := seedUsers(ctx, db, repo, cfg.Seed); err != nil {
			logger.Error("seed error", "error", err)
			os.Exit(1)
		}
	}

	provider := userauth.NewUserProvider(userStoreAdapter{users: repo}).
		WithLogger(lgr.GetLogger("auth.provider"))

	auther := userauth.NewAuthenticator(provider, cfg).
		WithLogger(lgr.GetLogger("auth"))

	policy := jwtware.NewRoutePolicy(cfg.Auth.PublicRoutes)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       "userauth",
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	r := srv.Router()
	r.Use(rest.Protected(cfg, auther.TokenService(), policy, lgr.GetLogger("gate")))

	controller := rest.NewAuthController(auther,
		rest.WithLogger(lgr.GetLogger("rest")),
		rest.WithContextKey(cfg.Auth.ContextKey),
	)
	rest.RegisterAuthRoutes(r, controller)

	r.Use(rest.NotFound())

	if cfg.Server.MetricsAddr != "" {
		go serveMetrics(cfg.Server.MetricsAddr, logger)
	}

	logger.Info("listening", "addr", cfg.Server.Addr)
	srv.Serve(cfg.Server.Addr)

	waitExitSignal()
	logger.Info("shutting down")
}

// userStoreAdapter narrows the variadic repository lookup to the two-argument
// form userauth.UserStore expects.
type userStoreAdapter struct {
	users userauth.Users
}

func (a userStoreAdapter) GetByIdentifier(ctx context.Context, identifier string) (*userauth.User, error) {
	return a.users.GetByIdentifier(ctx, identifier)
}

func openDatabase(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func createSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*userauth.User)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// seedUsers provisions the initial user when the store is empty. The id is
// derived from the email so repeated boots against a wiped store converge on
// the same identity.
func seedUsers(ctx context.Context, db *bun.DB, repo userauth.Users, seed config.SeedConfig) error {
	count, err := db.NewSelect().Model((*userauth.User)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := userauth.HashPassword(seed.Password)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	user := &userauth.User{
		Username:     seed.Username,
		Email:        seed.Email,
		FirstName:    seed.FullName,
		Role:         seed.Role,
		PasswordHash: hash,
		Status:       userauth.UserStatusActive,
	}

	if id, err := hashid.NewUUID(seed.Email); err == nil {
		user.ID = id
	}

	if _, err := repo.Register(ctx, user); err != nil {
		return fmt.Errorf("registering seed user: %w", err)
	}

	return nil
}

func serveMetrics(addr string, logger userauth.Logger) {
	reg := prometheus.NewRegistry()
	userauth.RegisterMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	logger.Info("metrics listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server error", "error", err)
	}
}

func newLogger(level string) *glog.BaseLogger {
	if level == "debug" || level == "trace" {
		return glog.NewLogger(
			glog.WithLoggerTypePretty(),
			glog.WithLevel(glog.Trace),
			glog.WithName("userauth"),
			glog.WithAddSource(false),
		)
	}

	return glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithName("userauth"),
		glog.WithAddSource(false),
	)
}

func waitExitSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}

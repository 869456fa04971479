// Command blog-server starts the blog HTTP API.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/blog-api/internal/config"
	"github.com/and161185/blog-api/internal/migrate"
	"github.com/and161185/blog-api/internal/repository"
	"github.com/and161185/blog-api/internal/repository/memory"
	"github.com/and161185/blog-api/internal/repository/postgres"
	grpcserver "github.com/and161185/blog-api/internal/server/grpc"
	httpserver "github.com/and161185/blog-api/internal/server/http"
	"github.com/and161185/blog-api/internal/service"
	"github.com/and161185/blog-api/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, prepares the store and serves HTTP until signalled.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		// logger is not configured yet
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	logger := newLogger(cfg.Dev)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.String("store", cfg.Store),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, posts, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	// Services
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
	identities := service.NewIdentityService(users)
	authSvc := service.NewAuthService(identities, issuer)
	postSvc := service.NewPostService(posts, cfg.PageSize)
	userSvc := service.NewUserService(identities)

	app := httpserver.New(authSvc, postSvc, userSvc, issuer, logger).App()

	var hs *grpcserver.Health
	if cfg.HealthAddr != "" {
		hs = serveHealth(cfg, logger)
		hs.SetServing(true)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- app.Listen(cfg.Addr)
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		if hs != nil {
			hs.SetServing(false)
		}
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
		if hs != nil {
			hs.Stop()
		}
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func newLogger(dev bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openStore returns the configured repositories and a release func.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repository.UserRepository, repository.PostRepository, func()) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory store, data is lost on exit")
		s := memory.New()
		return s.Users(), s.Posts(), func() {}
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := migrate.Up(migrateCtx, cfg.DatabaseDSN, logger); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	return postgres.NewUserRepo(db), postgres.NewPostRepo(db), db.Close
}

// serveHealth starts the gRPC health service used by orchestrators.
func serveHealth(cfg config.Config, logger *zap.Logger) *grpcserver.Health {
	lis, err := net.Listen("tcp", cfg.HealthAddr)
	if err != nil {
		logger.Fatal("listen health", zap.Error(err))
	}
	h := grpcserver.NewHealth(logger.Named("health"), cfg.Dev)
	go func() {
		if err := h.Serve(lis); err != nil {
			logger.Error("health server", zap.Error(err))
		}
	}()
	return h
}

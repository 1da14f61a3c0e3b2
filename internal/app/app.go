package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"herbal-store/internal/config"
	"herbal-store/internal/database"
	"herbal-store/internal/handler"
	"herbal-store/internal/metrics"
	"herbal-store/internal/middleware"
	"herbal-store/internal/repository"
	"herbal-store/internal/router"
	"herbal-store/internal/security"
	"herbal-store/internal/service"
)

type App struct {
	server *http.Server
	db     *database.DB
	tokens *repository.TokenRepository
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.IsDevelopment() {
		handler.EnableDebugDetails()
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	newsRepo := repository.NewNewsRepository(pool)
	contentRepo := repository.NewContentRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	contactRepo := repository.NewContactRepository(pool)
	slog.Info("database ready")

	collector := metrics.NewCollector()
	sanitizer := security.NewSanitizer()

	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.RefreshTTL, userRepo, tokenRepo)
	if err := authService.EnsureAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed admin user: %w", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)

	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService, cfg.RefreshCookieName, collector),
		Category: handler.NewCategoryHandler(service.NewCategoryService(categoryRepo)),
		Product:  handler.NewProductHandler(service.NewProductService(productRepo)),
		Post:     handler.NewArticleHandler(service.NewArticleService(postRepo, sanitizer)),
		News:     handler.NewArticleHandler(service.NewArticleService(newsRepo, sanitizer)),
		Content:  handler.NewContentHandler(service.NewContentService(contentRepo, sanitizer)),
		Cart:     handler.NewCartHandler(service.NewCartService(cartRepo, productRepo)),
		Contact:  handler.NewContactHandler(service.NewContactService(contactRepo)),
	}

	appRouter := router.New(cfg, authMiddleware, handlers, collector, db.Health)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: db, tokens: tokenRepo}, nil
}

func (a *App) Run() error {
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go a.sweepExpiredTokens(sweepCtx)

	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	defer a.db.Close()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// sweepExpiredTokens periodically removes refresh tokens past their expiry so
// the table only holds live sessions. Consume already refuses expired rows;
// this keeps the table from growing with abandoned ones.
func (a *App) sweepExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := a.tokens.CleanExpired(ctx)
			if err != nil {
				slog.Error("expired token sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("expired tokens removed", "count", removed)
			}
		}
	}
}

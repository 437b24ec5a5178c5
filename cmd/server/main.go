package main

import (
	"Planzo/internal/config"
	"Planzo/internal/handlers"
	"Planzo/internal/middleware"
	"Planzo/internal/notify"
	"Planzo/internal/repo"
	"Planzo/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	middleware.SetTokenTTL(cfg.TokenTTL)
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	//context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	hub := notify.NewHub(sugar, originChecker(cfg.CORSOrigins))
	go hub.Run(ctx)

	userRepo := repo.NewUserRepository(gormDB)
	userService := service.NewUserService(userRepo)
	plannerService := service.NewPlannerService(
		repo.NewColumnRepository(gormDB),
		repo.NewItemRepository(gormDB),
		hub,
		sugar,
	)

	h := handlers.NewHandler(userService, plannerService, hub, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"TokenTTL", cfg.TokenTTL,
		"CORSOrigins", cfg.CORSOrigins,
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed", "error", err)
		}
	}()

	sugar.Infow("Starting server", "addr", srv.Addr)
	if cfg.EnableHTTPS {
		err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}

// originChecker websocket принимает те же origins, что и CORS. Пустой список: любые.
func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		o := r.Header.Get("Origin")
		return o == "" || slices.Contains(origins, o)
	}
}

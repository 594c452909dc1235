package main

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

	"github.com/sedes-asistencia/asistencia-backend-go/internal/app"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/config"
	appHTTP "github.com/sedes-asistencia/asistencia-backend-go/internal/handler/http"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/cron"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	app.SetupLogger(cfg)

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Version:        app.Version,
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
		UploadsDir:     a.UploadsDir(),
	}, a.JWT, a.Handlers())

	var scheduler *cron.Scheduler
	if cfg.Cron.Enabled {
		scheduler, err = a.Scheduler()
		if err != nil {
			slog.Error("Failed to register scheduled jobs", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("API server starting", "port", cfg.App.Port, "env", cfg.App.Env, "timezone", a.Location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
	a.Close(shutdownCtx)

	slog.Info("Server exiting")
}

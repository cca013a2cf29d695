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

	"github.com/joho/godotenv"

	"concentration-server/api"
	"concentration-server/config"
	"concentration-server/loghandler"
	"concentration-server/session"
	"concentration-server/web"
	"concentration-server/ws"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stdout, loghandler.ParseLevel(cfg.LogLevel))))

	if envErr != nil {
		slog.Debug("no .env file found; using environment variables", "tag", "main")
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("refusing to start", "tag", "main", "err", err)
		os.Exit(1)
	}

	slog.Info("configuration", "tag", "main",
		"port", cfg.Port,
		"pairs", len(cfg.Catalog),
		"tips", len(cfg.Tips),
		"mismatch_delay_ms", cfg.MismatchDelayMS,
		"win_delay_ms", cfg.WinDelayMS)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewManager(cfg)

	hub := ws.NewHub(cfg, sessions)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	router := api.NewRouter(api.NewHandler(cfg, sessions), hub.ServeWS, web.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("memory game listening", "tag", "main", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "tag", "main", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down", "tag", "main")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "tag", "main", "err", err)
	}
	stopHub()
	sessions.Shutdown()
}

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jaminalder/tictactoe-cpu/internal/app"
	"github.com/jaminalder/tictactoe-cpu/internal/config"
	"github.com/jaminalder/tictactoe-cpu/internal/web"
)

var configPath = flag.String("config", os.Getenv("TTT_CONFIG"), "Path to an optional config file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// logger settings come from the config, so fall back to a default one
		zap.NewExample().Sugar().Fatalw("failed to load configuration", "error", err)
	}
	log := NewLogger(cfg)
	defer func() { _ = log.Sync() }()

	cpu, _ := cfg.CPUMark()
	svc := app.New(app.Options{
		Logger:           log.Named("app"),
		ResetDelay:       cfg.ResetDelay,
		SubscriberBuffer: cfg.SubscriberBuffer,
	})
	defer svc.Close()

	handler := web.NewServerWithOptions(svc, web.Options{
		Logger:            log.Named("web"),
		CPUSide:           cpu,
		HeartbeatInterval: cfg.HeartbeatInterval,
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("shutdown failed", "error", err)
		}
	}()

	log.Infow("server is running", "addr", cfg.Addr, "cpu", cpu.String(), "reset_delay", cfg.ResetDelay)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalw("failed to start server", "error", err)
	}
}

// NewLogger builds a production or development zap logger at the configured level.
func NewLogger(cfg *config.Config) *zap.SugaredLogger {
	zcfg := zap.NewProductionConfig()
	if cfg.DevLogging {
		zcfg = zap.NewDevelopmentConfig()
	}
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Janikow/55Khat/internal/app"
	"github.com/Janikow/55Khat/internal/config"
	"github.com/Janikow/55Khat/internal/log"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	readHeaderTimeout := flag.Duration("read-header-timeout", 0, "HTTP read header timeout (overrides config)")
	shutdownTimeout := flag.Duration("shutdown-timeout", 0, "graceful shutdown timeout (overrides config)")
	flag.Parse()

	bootLogger := log.New("info")
	cfg, resolvedPath, err := config.Load(bootLogger, *configPath)
	if err != nil {
		bootLogger.Fatal().Err(err).Str("path", resolvedPath).Msg("load config")
	}
	cfg.UpdateFrom(config.Config{
		Addr:              *addr,
		ReadHeaderTimeout: *readHeaderTimeout,
		ShutdownTimeout:   *shutdownTimeout,
	})

	logger := log.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init application")
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting 55khat server")
	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}

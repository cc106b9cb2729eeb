package main

import (
	"os"

	"upload-relay/internal/app"
	"upload-relay/internal/config"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	zlog.Init()

	cfg, err := config.MustLoad()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Str("level", cfg.Log.Level).Msg("Invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	application, err := app.NewApp(cfg, &zlog.Logger)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to create app")
	}

	if err := application.Run(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("App failed")
	}

	zlog.Logger.Info().Msg("App exited successfully")
	os.Exit(0)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"upload-relay/internal/config"
	upload_h "upload-relay/internal/http-server/handler/upload"
	"upload-relay/internal/http-server/render"
	"upload-relay/internal/http-server/router"
	cloudinary_repo "upload-relay/internal/repository/upload/cloud/cloudinary"
	"upload-relay/internal/repository/upload/local"
	upload_uc "upload-relay/internal/usecase/upload"

	"github.com/wb-go/wbf/zlog"
)

type App struct {
	cfg    *config.Config
	server *http.Server
	logger *zlog.Zerolog
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	storage, err := local.NewTempStorage(cfg.Upload.Dir, cfg.Upload.FormField, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary storage: %w", err)
	}

	remote, err := cloudinary_repo.NewCloudinaryRepository(cfg.Cloudinary, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote upload client: %w", err)
	}

	renderer, err := render.NewRenderer(cfg.Upload.FormField)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	uploadUsecase := upload_uc.NewUploadUsecase(storage, remote, logger)

	uploadHandler := upload_h.NewUploadHandler(uploadUsecase, renderer, logger)

	h := &router.Handler{
		UploadHandler: uploadHandler,
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.SetupRouter(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:    cfg,
		server: server,
		logger: logger,
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run() error {
	a.logger.Info().
		Str("addr", a.server.Addr).
		Str("upload_dir", a.cfg.Upload.Dir).
		Str("cloud_name", a.cfg.Cloudinary.CloudName).
		Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
			return err
		}

		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}

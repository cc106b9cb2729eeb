package router

import (
	"net/http"

	"upload-relay/internal/http-server/handler/upload"
	"upload-relay/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	UploadHandler *upload.UploadHandler
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Get("/", h.UploadHandler.Form)
	r.Post("/upload", h.UploadHandler.Upload)

	return r
}

package upload

import (
	"context"
	"errors"
	"net/http"

	upload_uc "upload-relay/internal/usecase/upload"

	"github.com/wb-go/wbf/zlog"
)

const contentTypeHTML = "text/html; charset=utf-8"

type UploadHandler struct {
	usecase  uploadUsecase
	renderer pageRenderer
	logger   *zlog.Zerolog
}

func NewUploadHandler(usecase uploadUsecase, renderer pageRenderer, logger *zlog.Zerolog) *UploadHandler {
	return &UploadHandler{
		usecase:  usecase,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *UploadHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.respondHTML(w, http.StatusOK, h.renderer.Form())
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// The relay and the cleanup run to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())

	result, err := h.usecase.HandleUpload(ctx, r.Body, r.Header.Get("Content-Type"))
	status := statusFor(err)

	page, renderErr := h.renderer.Render(result)
	if renderErr != nil {
		h.logger.Error().Err(renderErr).Bool("success", result.Success).Msg("Failed to render response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondHTML(w, status, page)
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, upload_uc.ErrMalformedUpload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *UploadHandler) respondHTML(w http.ResponseWriter, status int, page []byte) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)

	if _, err := w.Write(page); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to write response")
	}
}

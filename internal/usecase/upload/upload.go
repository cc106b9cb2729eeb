package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"upload-relay/internal/domain"

	"github.com/dustin/go-humanize"
	"github.com/wb-go/wbf/zlog"
)

type UploadUsecase struct {
	storage temporaryStorage
	remote  remoteUploader
	logger  *zlog.Zerolog
}

func NewUploadUsecase(storage temporaryStorage, remote remoteUploader, logger *zlog.Zerolog) *UploadUsecase {
	return &UploadUsecase{
		storage: storage,
		remote:  remote,
		logger:  logger,
	}
}

// HandleUpload stores the file part of body locally, relays it to the remote
// provider and removes the local copy on every path once it exists. The
// returned result is always renderable; the error tells callers which kind
// of failure happened.
func (u *UploadUsecase) HandleUpload(ctx context.Context, body io.Reader, contentType string) (domain.UploadResult, error) {
	req, err := u.storage.Store(ctx, body, contentType)
	if err != nil {
		if errors.Is(err, ErrMalformedUpload) {
			u.logger.Warn().Err(err).Msg("Rejected malformed upload")
			return domain.Failed(domain.MalformedUploadFailure), err
		}
		u.logger.Error().Err(err).Msg("Failed to store upload locally")
		return domain.Failed(domain.GenericUploadFailure), fmt.Errorf("failed to store upload: %w", err)
	}
	defer u.release(req)

	asset, err := u.remote.Upload(ctx, req)
	if err == nil && (asset == nil || asset.URL == "") {
		err = fmt.Errorf("%w: no url returned", ErrRemoteUpload)
	}
	if err != nil {
		u.logger.Error().
			Err(err).
			Str("filename", req.OriginalFilename).
			Str("path", req.TemporaryFilePath).
			Msg("Remote upload failed")
		return domain.Failed(domain.GenericUploadFailure), fmt.Errorf("failed to upload %s: %w", req.OriginalFilename, err)
	}

	u.logger.Info().
		Str("filename", req.OriginalFilename).
		Str("size", humanize.Bytes(uint64(req.Size))).
		Str("public_id", asset.ProviderID).
		Str("url", asset.URL).
		Msg("File uploaded successfully")

	return domain.Succeeded(asset.URL, req.OriginalFilename, req.Size), nil
}

func (u *UploadUsecase) release(req *domain.UploadRequest) {
	if err := u.storage.Remove(req.TemporaryFilePath); err != nil {
		u.logger.Error().Err(err).Str("path", req.TemporaryFilePath).Msg("Failed to remove temporary file")
	}
}

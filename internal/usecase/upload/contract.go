package upload

import (
	"context"
	"io"

	"upload-relay/internal/domain"
)

type temporaryStorage interface {
	Store(ctx context.Context, body io.Reader, contentType string) (*domain.UploadRequest, error)
	Remove(path string) error
}

type remoteUploader interface {
	Upload(ctx context.Context, req *domain.UploadRequest) (*domain.RemoteAsset, error)
}

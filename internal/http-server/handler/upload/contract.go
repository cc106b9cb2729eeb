package upload

import (
	"context"
	"io"

	"upload-relay/internal/domain"
)

type uploadUsecase interface {
	HandleUpload(ctx context.Context, body io.Reader, contentType string) (domain.UploadResult, error)
}

type pageRenderer interface {
	Form() []byte
	Render(result domain.UploadResult) ([]byte, error)
}

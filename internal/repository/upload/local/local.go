package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"upload-relay/internal/domain"
	repoUpload "upload-relay/internal/repository/upload"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

const sniffFallback = "application/octet-stream"

// TempStorage parks the file part of a multipart body under dir.
type TempStorage struct {
	dir       string
	formField string
	logger    *zlog.Zerolog
}

func NewTempStorage(dir, formField string, logger *zlog.Zerolog) (*TempStorage, error) {
	if dir == "" {
		dir = domain.DefaultUploadDir
	}
	if formField == "" {
		formField = domain.DefaultFormField
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}

	return &TempStorage{
		dir:       dir,
		formField: formField,
		logger:    logger,
	}, nil
}

func (s *TempStorage) Dir() string {
	return s.dir
}

func (s *TempStorage) Store(ctx context.Context, body io.Reader, contentType string) (*domain.UploadRequest, error) {
	reader, err := s.multipartReader(body, contentType)
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", repoUpload.ErrTemporaryStorage, err)
		}

		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no %q file field in request", repoUpload.ErrMalformedUpload, s.formField)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", repoUpload.ErrMalformedUpload, err)
		}

		if part.FormName() != s.formField || part.FileName() == "" {
			part.Close()
			continue
		}

		req, err := s.write(part)
		part.Close()
		return req, err
	}
}

func (s *TempStorage) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: %v", repoUpload.ErrCleanup, err)
	}
	return nil
}

func (s *TempStorage) multipartReader(body io.Reader, contentType string) (*multipart.Reader, error) {
	if body == nil {
		return nil, fmt.Errorf("%w: empty body", repoUpload.ErrMalformedUpload)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repoUpload.ErrMalformedUpload, err)
	}
	if mediaType != "multipart/form-data" {
		return nil, fmt.Errorf("%w: unexpected content type %s", repoUpload.ErrMalformedUpload, mediaType)
	}

	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("%w: missing multipart boundary", repoUpload.ErrMalformedUpload)
	}

	return multipart.NewReader(body, boundary), nil
}

func (s *TempStorage) write(part *multipart.Part) (*domain.UploadRequest, error) {
	filename := filepath.Base(part.FileName())
	path := filepath.Join(s.dir, uuid.New().String()+strings.ToLower(filepath.Ext(filename)))

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repoUpload.ErrTemporaryStorage, err)
	}

	src := &partReader{r: part}
	size, copyErr := io.Copy(file, src)
	closeErr := file.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			s.logger.Error().Err(rmErr).Str("path", path).Msg("Failed to remove partial upload")
		}
		if src.err != nil {
			return nil, fmt.Errorf("%w: %v", repoUpload.ErrMalformedUpload, src.err)
		}
		return nil, fmt.Errorf("%w: %v", repoUpload.ErrTemporaryStorage, err)
	}

	contentType := part.Header.Get("Content-Type")
	if contentType == "" || contentType == sniffFallback {
		contentType = s.sniff(path)
	}

	s.logger.Debug().
		Str("filename", filename).
		Str("path", path).
		Str("content_type", contentType).
		Int64("size", size).
		Msg("Upload stored locally")

	return &domain.UploadRequest{
		TemporaryFilePath: path,
		OriginalFilename:  filename,
		ContentType:       contentType,
		Size:              size,
	}, nil
}

func (s *TempStorage) sniff(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to detect content type")
		return sniffFallback
	}
	return mtype.String()
}

// partReader remembers a read failure so a broken request body can be told
// apart from a failing local write.
type partReader struct {
	r   io.Reader
	err error
}

func (p *partReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if err != nil && !errors.Is(err, io.EOF) {
		p.err = err
	}
	return n, err
}

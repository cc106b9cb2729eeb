package cloudinary

import (
	"context"
	"fmt"
	"strings"

	"upload-relay/internal/config"
	"upload-relay/internal/domain"
	repoUpload "upload-relay/internal/repository/upload"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	cldconfig "github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/wb-go/wbf/zlog"
)

type FileRepository struct {
	client *cloudinary.Cloudinary
	folder string
	logger *zlog.Zerolog
}

func NewCloudinaryRepository(cfg config.Cloudinary, logger *zlog.Zerolog) (*FileRepository, error) {
	// The client copies its configuration into each API, so it has to be
	// complete before NewFromConfiguration.
	cldCfg, err := cldconfig.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to build cloudinary config: %w", err)
	}

	cldCfg.URL.Secure = true
	if cfg.UploadPrefix != "" {
		cldCfg.API.UploadPrefix = strings.TrimSuffix(cfg.UploadPrefix, "/")
	}

	client, err := cloudinary.NewFromConfiguration(*cldCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return &FileRepository{
		client: client,
		folder: cfg.Folder,
		logger: logger,
	}, nil
}

func (r *FileRepository) Upload(ctx context.Context, req *domain.UploadRequest) (*domain.RemoteAsset, error) {
	params := uploader.UploadParams{
		Folder:         r.folder,
		ResourceType:   resourceType(req.ContentType),
		UseFilename:    boolPtr(true),
		UniqueFilename: boolPtr(true),
	}

	resp, err := r.client.Upload.Upload(ctx, req.TemporaryFilePath, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repoUpload.ErrRemoteUpload, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", repoUpload.ErrRemoteUpload)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("%w: provider rejected upload: %s", repoUpload.ErrRemoteUpload, resp.Error.Message)
	}

	url := resp.SecureURL
	if url == "" {
		url = resp.URL
	}
	if url == "" {
		return nil, fmt.Errorf("%w: provider returned no url", repoUpload.ErrRemoteUpload)
	}

	r.logger.Debug().
		Str("public_id", resp.PublicID).
		Str("resource_type", resp.ResourceType).
		Str("url", url).
		Msg("File uploaded to cloudinary")

	return &domain.RemoteAsset{
		URL:          url,
		ProviderID:   resp.PublicID,
		ResourceType: resp.ResourceType,
		Format:       resp.Format,
		Bytes:        int64(resp.Bytes),
	}, nil
}

func resourceType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return domain.ResourceImage
	case strings.HasPrefix(contentType, "video/"), strings.HasPrefix(contentType, "audio/"):
		return domain.ResourceVideo
	default:
		return domain.ResourceRaw
	}
}

func boolPtr(v bool) *bool {
	return &v
}

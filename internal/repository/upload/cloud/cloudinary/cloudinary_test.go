package cloudinary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"upload-relay/internal/config"
	"upload-relay/internal/domain"
	repoUpload "upload-relay/internal/repository/upload"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T, prefix string) *FileRepository {
	t.Helper()

	logger := zerolog.Nop()
	repo, err := NewCloudinaryRepository(config.Cloudinary{
		CloudName:    "demo",
		APIKey:       "123456789",
		APISecret:    "secret",
		Folder:       "relay",
		UploadPrefix: prefix,
	}, &logger)
	require.NoError(t, err)
	return repo
}

func tempUpload(t *testing.T, contentType string) *domain.UploadRequest {
	t.Helper()

	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o600))
	return &domain.UploadRequest{
		TemporaryFilePath: path,
		OriginalFilename:  "note.txt",
		ContentType:       contentType,
		Size:              10,
	}
}

type fakeProvider struct {
	*httptest.Server
	hits         atomic.Int32
	path         atomic.Value
	resourceType atomic.Value
	folder       atomic.Value
}

func newFakeProvider(t *testing.T, status int, body string) *fakeProvider {
	t.Helper()

	p := &fakeProvider{}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.hits.Add(1)
		p.path.Store(r.URL.Path)
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			p.resourceType.Store(r.FormValue("resource_type"))
			p.folder.Store(r.FormValue("folder"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(p.Close)
	return p
}

func loadString(v *atomic.Value) string {
	s, _ := v.Load().(string)
	return s
}

func TestUpload(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK, `{
		"public_id": "relay/note_abc123",
		"resource_type": "raw",
		"bytes": 10,
		"url": "http://res.cloudinary.com/demo/raw/upload/v1/relay/note_abc123.txt",
		"secure_url": "https://res.cloudinary.com/demo/raw/upload/v1/relay/note_abc123.txt"
	}`)

	repo := newRepository(t, provider.URL)

	asset, err := repo.Upload(context.Background(), tempUpload(t, "text/plain; charset=utf-8"))
	require.NoError(t, err)

	assert.Equal(t, "https://res.cloudinary.com/demo/raw/upload/v1/relay/note_abc123.txt", asset.URL)
	assert.Equal(t, "relay/note_abc123", asset.ProviderID)
	assert.Equal(t, int64(10), asset.Bytes)

	assert.Equal(t, int32(1), provider.hits.Load())
	path := loadString(&provider.path)
	assert.True(t, strings.HasPrefix(path, "/v1_1/demo/"), path)
	assert.True(t, strings.HasSuffix(path, "/upload"), path)
	assert.Equal(t, domain.ResourceRaw, loadString(&provider.resourceType))
	assert.Equal(t, "relay", loadString(&provider.folder))
}

func TestUploadSendsImageResourceType(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK, `{
		"public_id": "relay/cat",
		"secure_url": "https://res.cloudinary.com/demo/image/upload/v1/relay/cat.png"
	}`)

	repo := newRepository(t, provider.URL)

	_, err := repo.Upload(context.Background(), tempUpload(t, "image/png"))
	require.NoError(t, err)
	assert.Equal(t, domain.ResourceImage, loadString(&provider.resourceType))
}

func TestUploadFallsBackToPlainURL(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK, `{
		"public_id": "relay/note",
		"url": "http://res.cloudinary.com/demo/raw/upload/v1/relay/note.txt"
	}`)

	repo := newRepository(t, provider.URL)

	asset, err := repo.Upload(context.Background(), tempUpload(t, "text/plain"))
	require.NoError(t, err)
	assert.Equal(t, "http://res.cloudinary.com/demo/raw/upload/v1/relay/note.txt", asset.URL)
}

func TestUploadProviderRejection(t *testing.T) {
	provider := newFakeProvider(t, http.StatusUnauthorized, `{"error": {"message": "Invalid api_key 123456789"}}`)

	repo := newRepository(t, provider.URL)

	asset, err := repo.Upload(context.Background(), tempUpload(t, "text/plain"))
	assert.Nil(t, asset)
	assert.ErrorIs(t, err, repoUpload.ErrRemoteUpload)
	assert.Contains(t, err.Error(), "Invalid api_key")
	assert.Equal(t, int32(1), provider.hits.Load())
}

func TestUploadMissingURL(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK, `{"public_id": "orphan"}`)

	repo := newRepository(t, provider.URL)

	asset, err := repo.Upload(context.Background(), tempUpload(t, "text/plain"))
	assert.Nil(t, asset)
	assert.ErrorIs(t, err, repoUpload.ErrRemoteUpload)
	assert.Contains(t, err.Error(), "no url")
	assert.Equal(t, int32(1), provider.hits.Load())
}

func TestUploadProviderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	prefix := server.URL
	server.Close()

	repo := newRepository(t, prefix)

	asset, err := repo.Upload(context.Background(), tempUpload(t, "image/png"))
	assert.Nil(t, asset)
	assert.ErrorIs(t, err, repoUpload.ErrRemoteUpload)
}

func TestResourceType(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{contentType: "image/png", want: domain.ResourceImage},
		{contentType: "image/svg+xml", want: domain.ResourceImage},
		{contentType: "video/mp4", want: domain.ResourceVideo},
		{contentType: "audio/mpeg", want: domain.ResourceVideo},
		{contentType: "application/pdf", want: domain.ResourceRaw},
		{contentType: "", want: domain.ResourceRaw},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, resourceType(tt.contentType))
		})
	}
}

package domain

// UploadRequest describes a file received from the form and parked on local
// disk until it has been relayed to the remote provider.
type UploadRequest struct {
	TemporaryFilePath string
	OriginalFilename  string
	ContentType       string
	Size              int64
}

// RemoteAsset is what the remote provider reports back after an upload.
type RemoteAsset struct {
	URL          string
	ProviderID   string
	ResourceType string
	Format       string
	Bytes        int64
}

// UploadResult is consumed once by the renderer. URL is set iff Success,
// ErrorMessage iff !Success.
type UploadResult struct {
	Success      bool
	URL          string
	ErrorMessage string
	Filename     string
	Size         int64
}

const (
	DefaultFormField = "file"
	DefaultUploadDir = "uploads"

	GenericUploadFailure   = "Upload failed. Please try again."
	MalformedUploadFailure = "No file was attached to the request."
)

const (
	ResourceImage = "image"
	ResourceVideo = "video"
	ResourceRaw   = "raw"
)

func Succeeded(url, filename string, size int64) UploadResult {
	return UploadResult{
		Success:  true,
		URL:      url,
		Filename: filename,
		Size:     size,
	}
}

func Failed(message string) UploadResult {
	if message == "" {
		message = GenericUploadFailure
	}
	return UploadResult{ErrorMessage: message}
}

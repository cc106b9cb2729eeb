package upload

import repoUpload "upload-relay/internal/repository/upload"

var (
	ErrMalformedUpload  = repoUpload.ErrMalformedUpload
	ErrTemporaryStorage = repoUpload.ErrTemporaryStorage
	ErrRemoteUpload     = repoUpload.ErrRemoteUpload
	ErrCleanup          = repoUpload.ErrCleanup
)

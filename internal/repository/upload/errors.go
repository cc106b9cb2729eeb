package upload

import "errors"

var (
	ErrMalformedUpload  = errors.New("malformed upload")
	ErrTemporaryStorage = errors.New("temporary storage error")
	ErrRemoteUpload     = errors.New("remote upload failed")
	ErrCleanup          = errors.New("temporary file cleanup failed")
)

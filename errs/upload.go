package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrFileTooLarge = errors.New("file exceeds the size limit")
	ErrUploadFailed = errors.New("media upload failed")
	ErrUploadConfig = errors.New("media host is not configured")
)

// NewFileTooLargeError names the offending file so the whole submission can
// be aborted with an identifying message.
func NewFileTooLargeError(filename string, size, limit int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrFileTooLarge,
		Details:    fmt.Sprintf("%s is %d bytes, limit is %d bytes", filename, size, limit),
		Field:      "files",
	}
}

func NewUploadError(filename string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUploadFailed,
		Details:    fmt.Sprintf("uploading %s", filename),
		Cause:      cause,
	}
}

// NewUploadConfigError is returned before any network call when required
// media-host configuration is missing.
func NewUploadConfigError(missing string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrUploadConfig,
		Details:    "missing configuration: " + missing,
	}
}

func IsUploadFailure(err error) bool {
	return errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrUploadFailed) ||
		errors.Is(err, ErrUploadConfig)
}

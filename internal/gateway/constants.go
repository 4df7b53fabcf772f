package gateway

import "time"

const (
	// DefaultTimeout bounds every call to the remote API.
	DefaultTimeout = 30 * time.Second

	// UploadTimeout is used for multipart submissions carrying an attachment.
	UploadTimeout = 90 * time.Second
)

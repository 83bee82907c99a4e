// Package constants provides shared constants used throughout the pubsync codebase.
// This includes timeouts, endpoints, file permissions, and other configuration
// values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the REST backend
	DefaultHTTPTimeout = 30 * time.Second

	// UploadTimeout is the timeout for a single cover upload to the object store
	UploadTimeout = 2 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 5 * time.Minute

	// ShutdownTimeout bounds graceful shutdown after a failed command
	ShutdownTimeout = 5 * time.Second
)

// REST backend constants
const (
	// DefaultAPIURL is the REST backend used when none is configured
	DefaultAPIURL = "http://localhost:3000"

	// PublicationsPath is the collection path of the publication resource
	PublicationsPath = "/publikasi"

	// UserAgent is sent with every outbound request
	UserAgent = "pubsync/1.0"
)

// Object store constants
const (
	// CoverStoreCloudinary selects the Cloudinary unsigned-preset uploader
	CoverStoreCloudinary = "cloudinary"

	// CoverStoreS3 selects the S3-compatible uploader
	CoverStoreS3 = "s3"

	// DefaultCloudinaryAPIURL is the Cloudinary upload API host
	DefaultCloudinaryAPIURL = "https://api.cloudinary.com"

	// DefaultS3Prefix is the key prefix for covers stored in S3
	DefaultS3Prefix = "covers"

	// MaxCoverSize is the largest cover payload accepted for upload (10 MiB)
	MaxCoverSize = 10 << 20
)

// Date layout for PublicationRecord.releaseDate
const ReleaseDateLayout = "2006-01-02"

// FilePermissions is the permission for log files created by the logger (rw-r--r--)
const FilePermissions = 0644

// Package objectstore uploads cover images to a remote object store and
// returns the durable public URL of the stored object.
package objectstore

import (
	"context"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/agentstation/pubsync/pkg/constants"
	"github.com/agentstation/pubsync/pkg/errors"
	"github.com/agentstation/pubsync/pkg/publications"
)

// Uploader stores a cover payload and returns its durable URL.
type Uploader interface {
	// Name identifies the store in logs and errors.
	Name() string
	// Upload sends img and returns an absolute http(s) URL.
	Upload(ctx context.Context, img publications.Image) (string, error)
}

// Config selects and configures one store.
type Config struct {
	Store      string
	Cloudinary CloudinaryConfig
	S3         S3Config
}

// New builds the uploader named by cfg.Store. Missing settings for the
// selected store are reported as a ConfigError.
func New(ctx context.Context, cfg Config) (Uploader, error) {
	switch strings.ToLower(cfg.Store) {
	case "", constants.CoverStoreCloudinary:
		return NewCloudinary(cfg.Cloudinary)
	case constants.CoverStoreS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, errors.NewConfigError("cover_store", "unknown cover store "+cfg.Store, nil)
	}
}

// Sniff checks that img is a non-empty image and returns its detected MIME type.
func Sniff(store string, img publications.Image) (*mimetype.MIME, error) {
	if len(img.Data) == 0 {
		return nil, errors.NewUploadError(store, "cover file is empty", nil)
	}
	if len(img.Data) > constants.MaxCoverSize {
		return nil, errors.NewUploadError(store, "cover file exceeds the maximum size", nil)
	}
	mt := mimetype.Detect(img.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, errors.NewUploadError(store, "cover file is not an image ("+mt.String()+")", nil)
	}
	return mt, nil
}

// durable checks the URL a store returned before handing it to the caller.
func durable(store, url string) (string, error) {
	if url == "" {
		return "", errors.NewUploadError(store, "store response did not include a URL", nil)
	}
	if !publications.IsDurableURL(url) {
		return "", errors.NewUploadError(store, "store returned a non-durable URL "+url, nil)
	}
	return url, nil
}

package objectstore

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/agentstation/pubsync/pkg/constants"
	"github.com/agentstation/pubsync/pkg/errors"
	"github.com/agentstation/pubsync/pkg/logging"
	"github.com/agentstation/pubsync/pkg/publications"
)

// CloudinaryConfig configures unsigned uploads through an upload preset.
type CloudinaryConfig struct {
	UploadPreset string
	CloudName    string
	// APIURL overrides the upload API host (the part before /v1_1).
	APIURL  string
	Timeout time.Duration
}

// Cloudinary uploads covers with an unsigned upload preset.
type Cloudinary struct {
	preset  string
	timeout time.Duration
	cld     *cloudinary.Cloudinary
}

// NewCloudinary validates cfg and returns an uploader. A missing preset or
// cloud name is a ConfigError, reported before any upload is attempted.
func NewCloudinary(cfg CloudinaryConfig) (*Cloudinary, error) {
	var missing []string
	if cfg.UploadPreset == "" {
		missing = append(missing, "cloudinary_upload_preset")
	}
	if cfg.CloudName == "" {
		missing = append(missing, "cloudinary_cloud_name")
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingConfigError(constants.CoverStoreCloudinary, missing...)
	}

	// Unsigned uploads need no API key or secret.
	cld, err := cloudinary.NewFromParams(cfg.CloudName, "", "")
	if err != nil {
		return nil, errors.NewConfigError(constants.CoverStoreCloudinary, "cannot build client", err)
	}
	api := strings.TrimRight(cfg.APIURL, "/")
	if api == "" {
		api = constants.DefaultCloudinaryAPIURL
	}
	cld.Config.API.UploadPrefix = api
	cld.Upload.Config.API.UploadPrefix = api

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.UploadTimeout
	}

	return &Cloudinary{
		preset:  cfg.UploadPreset,
		timeout: timeout,
		cld:     cld,
	}, nil
}

// Name implements Uploader.
func (c *Cloudinary) Name() string { return constants.CoverStoreCloudinary }

// Upload implements Uploader.
func (c *Cloudinary) Upload(ctx context.Context, img publications.Image) (string, error) {
	if _, err := Sniff(c.Name(), img); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.cld.Upload.UnsignedUpload(ctx, bytes.NewReader(img.Data), c.preset, uploader.UploadParams{})
	if err != nil {
		return "", errors.NewUploadError(c.Name(), "upload request failed", err)
	}
	if res.Error.Message != "" {
		return "", errors.NewUploadError(c.Name(), res.Error.Message, nil)
	}

	url, err := durable(c.Name(), res.SecureURL)
	if err != nil {
		return "", err
	}

	logging.FromContext(ctx).Debug().
		Str("store", c.Name()).
		Str("file", img.Name).
		Str("public_id", res.PublicID).
		Str("url", url).
		Msg("cover uploaded")
	return url, nil
}

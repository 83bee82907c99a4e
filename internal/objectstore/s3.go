package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/agentstation/pubsync/pkg/constants"
	"github.com/agentstation/pubsync/pkg/errors"
	"github.com/agentstation/pubsync/pkg/logging"
	"github.com/agentstation/pubsync/pkg/publications"
)

// S3Config configures an S3-compatible bucket for covers.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // custom endpoint for S3-compatible services; implies path-style
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string // URL prefix objects are served from, e.g. a CDN
	Prefix          string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads covers to a bucket under a random key.
type S3 struct {
	cfg    S3Config
	client putObjectAPI
	newKey func() string
}

// NewS3 validates cfg and builds an S3 client. Static credentials are used
// when both keys are set, otherwise the default AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	var missing []string
	if cfg.Bucket == "" {
		missing = append(missing, "s3_bucket")
	}
	if cfg.Region == "" {
		missing = append(missing, "s3_region")
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		missing = append(missing, "s3_access_key_id", "s3_secret_access_key")
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingConfigError(constants.CoverStoreS3, missing...)
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.NewConfigError(constants.CoverStoreS3, "loading AWS configuration", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3(cfg, client), nil
}

func newS3(cfg S3Config, client putObjectAPI) *S3 {
	if cfg.Prefix == "" {
		cfg.Prefix = constants.DefaultS3Prefix
	}
	return &S3{cfg: cfg, client: client, newKey: uuid.NewString}
}

// Name implements Uploader.
func (s *S3) Name() string { return constants.CoverStoreS3 }

// Upload implements Uploader.
func (s *S3) Upload(ctx context.Context, img publications.Image) (string, error) {
	mt, err := Sniff(s.Name(), img)
	if err != nil {
		return "", err
	}

	key := path.Join(strings.Trim(s.cfg.Prefix, "/"), s.newKey()+mt.Extension())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.Data),
		ContentLength: aws.Int64(int64(len(img.Data))),
		ContentType:   aws.String(mt.String()),
	})
	if err != nil {
		return "", s.uploadError(err)
	}

	u, err := durable(s.Name(), s.publicURL(key))
	if err != nil {
		return "", err
	}

	logging.FromContext(ctx).Debug().
		Str("store", s.Name()).
		Str("bucket", s.cfg.Bucket).
		Str("key", key).
		Msg("cover uploaded")
	return u, nil
}

func (s *S3) publicURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	switch {
	case s.cfg.PublicBaseURL != "":
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + escaped
	case s.cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, escaped)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, escaped)
	}
}

func (s *S3) uploadError(err error) error {
	ue := errors.NewUploadError(s.Name(), err.Error(), err)

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		ue.Message = apiErr.ErrorCode()
		if msg := apiErr.ErrorMessage(); msg != "" {
			ue.Message += ": " + msg
		}
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		ue.StatusCode = respErr.HTTPStatusCode()
	}
	return ue
}

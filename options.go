package pubsync

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/agentstation/pubsync/internal/objectstore"
	"github.com/agentstation/pubsync/pkg/constants"
	"github.com/agentstation/pubsync/pkg/errors"
	"github.com/agentstation/pubsync/pkg/publications"
)

// options holds the configuration for a catalog store.
type options struct {
	// network side
	syncer      Syncer
	remoteURL   string
	tokenSource oauth2.TokenSource
	uploader    objectstore.Uploader
	needUpload  bool
	httpClient  *http.Client
	httpTimeout time.Duration
	rateLimit   float64

	// initial list, e.g. restored from a previous session
	initial publications.List

	logger *zerolog.Logger
}

// defaults returns the default options.
func defaults() *options {
	return &options{
		remoteURL:   constants.DefaultAPIURL,
		httpTimeout: constants.DefaultHTTPTimeout,
	}
}

// apply applies the given options and validates the result.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Option configures a catalog store.
type Option func(*options) error

// WithRemote sets the REST backend and the credential attached to every call.
// A nil token source sends requests without credentials.
func WithRemote(url string, token oauth2.TokenSource) Option {
	return func(o *options) error {
		if url == "" {
			return errors.NewValidationError("url", url, "remote URL cannot be empty")
		}
		o.remoteURL = url
		o.tokenSource = token
		return nil
	}
}

// WithUploader sets the object store used for new cover images.
func WithUploader(u objectstore.Uploader) Option {
	return func(o *options) error {
		o.uploader = u
		return nil
	}
}

// WithRequiredUploader makes New fail with a ConfigError when no uploader is
// set. Without it the missing uploader is only reported by the first Add or
// Edit that carries a new cover image.
func WithRequiredUploader() Option {
	return func(o *options) error {
		o.needUpload = true
		return nil
	}
}

// WithHTTPClient sets the base HTTP client for REST calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		o.httpClient = hc
		return nil
	}
}

// WithHTTPTimeout sets the per-request timeout for REST calls.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.NewValidationError("timeout", d, "timeout must be non-negative")
		}
		o.httpTimeout = d
		return nil
	}
}

// WithRateLimit caps REST calls per second. Zero means unlimited.
func WithRateLimit(rps float64) Option {
	return func(o *options) error {
		if rps < 0 {
			return errors.NewValidationError("rate_limit", rps, "rate limit must be non-negative")
		}
		o.rateLimit = rps
		return nil
	}
}

// WithSyncer replaces the network side entirely. Remote, uploader and HTTP
// options are ignored when it is set.
func WithSyncer(s Syncer) Option {
	return func(o *options) error {
		o.syncer = s
		return nil
	}
}

// WithInitialPublications seeds the list before the first refresh.
// Duplicate ids are rejected.
func WithInitialPublications(list publications.List) Option {
	return func(o *options) error {
		if _, dropped := list.Dedupe(); dropped > 0 {
			return errors.NewValidationError("publications", dropped, "initial list contains duplicate ids")
		}
		o.initial = list.Clone()
		return nil
	}
}

// WithLogger sets the logger used when the call context carries none.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = &logger
		return nil
	}
}

// Package config loads pubsync configuration from flags, environment
// variables, .env files and an optional YAML config file.
package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/pubsync/internal/objectstore"
	"github.com/agentstation/pubsync/pkg/constants"
	"github.com/agentstation/pubsync/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// REST backend
	APIURL      string
	APIToken    string
	HTTPTimeout time.Duration
	RateLimit   float64

	// Cover object store
	CoverStore             string
	CloudinaryUploadPreset string
	CloudinaryCloudName    string
	CloudinaryAPIURL       string
	S3Bucket               string
	S3Region               string
	S3Endpoint             string
	S3AccessKeyID          string
	S3SecretAccessKey      string
	S3PublicBaseURL        string
	S3Prefix               string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.pubsync.yaml or ./.pubsync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()
	return Load(viper.GetViper())
}

// Load builds a Config from v. It is split from LoadConfig so tests can use
// an isolated viper instance.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Set up Viper for environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Try to read config file if it exists
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config file", "cannot read "+configFile, err)
		}
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".pubsync")

		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		APIURL:      v.GetString("api_url"),
		APIToken:    v.GetString("api_token"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		RateLimit:   v.GetFloat64("rate_limit"),

		CoverStore:             strings.ToLower(v.GetString("cover_store")),
		CloudinaryUploadPreset: v.GetString("cloudinary_upload_preset"),
		CloudinaryCloudName:    v.GetString("cloudinary_cloud_name"),
		CloudinaryAPIURL:       v.GetString("cloudinary_api_url"),
		S3Bucket:               v.GetString("s3_bucket"),
		S3Region:               v.GetString("s3_region"),
		S3Endpoint:             v.GetString("s3_endpoint"),
		S3AccessKeyID:          v.GetString("s3_access_key_id"),
		S3SecretAccessKey:      v.GetString("s3_secret_access_key"),
		S3PublicBaseURL:        v.GetString("s3_public_base_url"),
		S3Prefix:               v.GetString("s3_prefix"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", constants.DefaultAPIURL)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("cover_store", constants.CoverStoreCloudinary)
	v.SetDefault("cloudinary_api_url", constants.DefaultCloudinaryAPIURL)
	v.SetDefault("s3_prefix", constants.DefaultS3Prefix)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Validate checks the settings needed to talk to the backend and to upload
// covers. All missing upload settings are reported in one ConfigError.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewConfigError("api_url", "must be an absolute http(s) URL, got "+c.APIURL, err)
	}
	if c.HTTPTimeout < 0 {
		return errors.NewConfigError("http_timeout", "must be non-negative", nil)
	}
	if c.RateLimit < 0 {
		return errors.NewConfigError("rate_limit", "must be non-negative", nil)
	}

	var missing []string
	switch c.CoverStore {
	case "", constants.CoverStoreCloudinary:
		if c.CloudinaryUploadPreset == "" {
			missing = append(missing, "cloudinary_upload_preset")
		}
		if c.CloudinaryCloudName == "" {
			missing = append(missing, "cloudinary_cloud_name")
		}
	case constants.CoverStoreS3:
		if c.S3Bucket == "" {
			missing = append(missing, "s3_bucket")
		}
		if c.S3Region == "" {
			missing = append(missing, "s3_region")
		}
	default:
		return errors.NewConfigError("cover_store", "unknown cover store "+c.CoverStore+", want cloudinary or s3", nil)
	}
	if len(missing) > 0 {
		store := c.CoverStore
		if store == "" {
			store = constants.CoverStoreCloudinary
		}
		return errors.NewMissingConfigError(store, missing...)
	}
	return nil
}

// ObjectStore returns the uploader configuration for the selected store.
func (c *Config) ObjectStore() objectstore.Config {
	return objectstore.Config{
		Store: c.CoverStore,
		Cloudinary: objectstore.CloudinaryConfig{
			UploadPreset: c.CloudinaryUploadPreset,
			CloudName:    c.CloudinaryCloudName,
			APIURL:       c.CloudinaryAPIURL,
		},
		S3: objectstore.S3Config{
			Bucket:          c.S3Bucket,
			Region:          c.S3Region,
			Endpoint:        c.S3Endpoint,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			PublicBaseURL:   c.S3PublicBaseURL,
			Prefix:          c.S3Prefix,
		},
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	envFiles := []string{
		".env.local",
		".env",
	}

	// godotenv.Load never overrides a variable that is already set, so the
	// more specific file is loaded first.
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

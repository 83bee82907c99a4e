package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/pubsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want pkgerrors.Kind
	}{
		{"nil", nil, pkgerrors.KindUnknown},
		{"plain", errors.New("boom"), pkgerrors.KindUnknown},
		{"config", pkgerrors.NewMissingConfigError("cloudinary", "upload_preset"), pkgerrors.KindConfiguration},
		{"upload", pkgerrors.NewUploadError("cloudinary", "bad image", nil), pkgerrors.KindUpload},
		{"api", pkgerrors.NewAPIError("list", 500, "failed to fetch publications: down"), pkgerrors.KindRemoteRequest},
		{"validation", pkgerrors.NewValidationError("id", 0, "is required"), pkgerrors.KindValidation},
		{"not found", pkgerrors.NewNotFoundError("publication", "7"), pkgerrors.KindValidation},
		{"auth", pkgerrors.NewAuthenticationError("bearer", "no token", nil), pkgerrors.KindAuthentication},
		{"wrapped", fmt.Errorf("outer: %w", pkgerrors.NewUploadError("s3", "denied", nil)), pkgerrors.KindUpload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pkgerrors.KindOf(tt.err))
		})
	}
}

func TestConfigError(t *testing.T) {
	t.Run("missing settings", func(t *testing.T) {
		err := pkgerrors.NewMissingConfigError("cloudinary", "cloudinary_upload_preset", "cloudinary_cloud_name")
		assert.Contains(t, err.Error(), "cloudinary")
		assert.Contains(t, err.Error(), "cloudinary_upload_preset")
		assert.Contains(t, err.Error(), "cloudinary_cloud_name")
		assert.True(t, pkgerrors.IsConfigError(err))
	})

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("bad yaml")
		err := pkgerrors.NewConfigError("file", "cannot parse", base)
		assert.Equal(t, base, err.Unwrap())
		assert.Equal(t, "configuration error in file: cannot parse", err.Error())
	})
}

func TestUploadError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		err := pkgerrors.NewUploadError("cloudinary", "Upload preset not found", nil)
		assert.Equal(t, "upload failed (cloudinary): Upload preset not found", err.Error())
		assert.True(t, pkgerrors.IsUploadFailure(err))
		assert.False(t, pkgerrors.IsRemoteRequestFailure(err))
	})

	t.Run("wrap keeps existing upload error", func(t *testing.T) {
		orig := pkgerrors.NewUploadError("s3", "denied", nil)
		wrapped := pkgerrors.WrapUpload("cloudinary", orig)
		assert.Same(t, orig, wrapped)
	})

	t.Run("wrap plain error", func(t *testing.T) {
		base := errors.New("connection reset")
		wrapped := pkgerrors.WrapUpload("s3", base)
		var up *pkgerrors.UploadError
		require.True(t, errors.As(wrapped, &up))
		assert.Equal(t, "s3", up.Store)
		assert.ErrorIs(t, wrapped, base)
	})

	t.Run("wrap nil", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapUpload("s3", nil))
	})
}

func TestAPIError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := &pkgerrors.APIError{
			Operation:  "create",
			StatusCode: 422,
			Message:    "failed to add publication: title is required",
			Payload:    []byte(`{"message":"title is required"}`),
		}
		assert.Equal(t, "failed to add publication: title is required (status 422)", err.Error())
		assert.True(t, pkgerrors.IsRemoteRequestFailure(err))
	})

	t.Run("network error", func(t *testing.T) {
		base := errors.New("dial tcp: connection refused")
		err := &pkgerrors.APIError{
			Operation: "list",
			Message:   "failed to fetch publications: an unexpected error occurred",
			Err:       base,
		}
		assert.Equal(t, "failed to fetch publications: an unexpected error occurred", err.Error())
		assert.Equal(t, base, err.Unwrap())
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "title",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field title: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "nothing to submit"}
		assert.Equal(t, "validation failed: nothing to submit", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapValidation("releaseDate", errors.New("not a date"))
		var ve *pkgerrors.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "releaseDate", ve.Field)
		assert.Nil(t, pkgerrors.WrapValidation("x", nil))
	})
}

func TestNotFoundError(t *testing.T) {
	err := pkgerrors.NewNotFoundError("publication", "42")
	assert.Equal(t, "publication with ID 42 not found", err.Error())
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestAuthenticationError(t *testing.T) {
	err := pkgerrors.NewAuthenticationError("bearer", "no credential available", nil)
	assert.Equal(t, "authentication error (bearer): no credential available", err.Error())
	assert.True(t, pkgerrors.IsNotAuthenticated(err))

	joined := errors.Join(errors.New("refresh"), err)
	assert.True(t, pkgerrors.IsNotAuthenticated(joined))
}

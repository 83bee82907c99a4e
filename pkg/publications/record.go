// Package publications defines the publication catalog data model: the
// server-owned Record, the client-only PendingEdit draft, the cover decision
// applied to outgoing requests, and copy-on-write helpers for the ordered list.
package publications

import (
	"strconv"
	"time"

	"github.com/agentstation/pubsync/pkg/constants"
	"github.com/agentstation/pubsync/pkg/errors"
)

// Record is a publication as returned by the REST backend.
// Optional fields are pointers; nil marshals as JSON null.
type Record struct {
	ID          int64   `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	ReleaseDate string  `json:"releaseDate" yaml:"releaseDate"`
	Description *string `json:"description" yaml:"description"`
	CoverURL    *string `json:"coverUrl" yaml:"coverUrl"`
}

// Key returns the id in string form, for logs and error messages.
func (r Record) Key() string {
	return strconv.FormatInt(r.ID, 10)
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	r.Description = clonePtr(r.Description)
	r.CoverURL = clonePtr(r.CoverURL)
	return r
}

// Equal reports whether two records hold the same values.
func (r Record) Equal(o Record) bool {
	return r.ID == o.ID &&
		r.Title == o.Title &&
		r.ReleaseDate == o.ReleaseDate &&
		ptrEqual(r.Description, o.Description) &&
		ptrEqual(r.CoverURL, o.CoverURL)
}

// HasCover reports whether the record references a hosted cover.
func (r Record) HasCover() bool {
	return r.CoverURL != nil && *r.CoverURL != ""
}

// ValidateReleaseDate checks the YYYY-MM-DD form.
func ValidateReleaseDate(date string) error {
	if date == "" {
		return errors.NewValidationError("releaseDate", date, "cannot be empty")
	}
	if _, err := time.Parse(constants.ReleaseDateLayout, date); err != nil {
		return errors.NewValidationError("releaseDate", date, "must be a calendar date in YYYY-MM-DD form")
	}
	return nil
}

// String returns a pointer to s, or nil when s is empty.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

package publications

import (
	"net/url"

	"github.com/agentstation/pubsync/pkg/errors"
)

// CoverAction is the outcome of cover resolution.
type CoverAction int

const (
	// CoverCleared sends coverUrl as null.
	CoverCleared CoverAction = iota
	// CoverPreserved sends an existing URL unchanged.
	CoverPreserved
	// CoverUploaded sends the URL returned by the object store.
	CoverUploaded
)

// String implements fmt.Stringer.
func (a CoverAction) String() string {
	switch a {
	case CoverPreserved:
		return "preserved"
	case CoverUploaded:
		return "uploaded"
	default:
		return "cleared"
	}
}

// Cover is the final cover decision for one submission.
type Cover struct {
	Action CoverAction
	URL    string
}

// Uploaded is the decision for a freshly uploaded cover.
func Uploaded(url string) Cover { return Cover{Action: CoverUploaded, URL: url} }

// Preserved is the decision for keeping an existing URL.
func Preserved(url string) Cover { return Cover{Action: CoverPreserved, URL: url} }

// Cleared is the decision for sending no cover.
func Cleared() Cover { return Cover{Action: CoverCleared} }

// Value returns the coverUrl to send: nil when cleared.
func (c Cover) Value() *string {
	if c.Action == CoverCleared {
		return nil
	}
	u := c.URL
	return &u
}

// NeedsUpload reports whether the submission carries a new cover payload.
func (p PendingEdit) NeedsUpload() bool {
	return p.CoverFile != nil
}

// ExistingCover decides the cover when no new payload is uploaded.
//
// On add a directly supplied URL is kept, otherwise the cover is cleared.
// A supplied URL must be an absolute http(s) URL.
// On edit the server-side URL is preserved unchanged when non-empty,
// otherwise cleared.
func (p PendingEdit) ExistingCover(mode Mode) (Cover, error) {
	if mode == ModeEdit {
		if p.CurrentCoverURLFromDB == nil || *p.CurrentCoverURLFromDB == "" {
			return Cleared(), nil
		}
		return Preserved(*p.CurrentCoverURLFromDB), nil
	}

	if p.CoverURL == nil || *p.CoverURL == "" {
		return Cleared(), nil
	}
	if !IsDurableURL(*p.CoverURL) {
		return Cover{}, errors.NewValidationError("coverUrl", *p.CoverURL, "must be an absolute http(s) URL, not a local reference")
	}
	return Preserved(*p.CoverURL), nil
}

// IsDurableURL reports whether s is an absolute http or https URL with a host.
func IsDurableURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

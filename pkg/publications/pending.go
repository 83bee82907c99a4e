package publications

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/pubsync/pkg/constants"
	"github.com/agentstation/pubsync/pkg/errors"
)

// Mode selects the cover-resolution rules for a submission.
type Mode int

const (
	// ModeAdd is a create submission.
	ModeAdd Mode = iota
	// ModeEdit is an update submission.
	ModeEdit
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "add"
}

// Image is a raw cover payload selected by the user and not yet uploaded.
type Image struct {
	Name string
	Data []byte
}

// LoadImage reads a cover payload from disk.
func LoadImage(path string) (*Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapValidation("coverFile", err)
	}
	if info.Size() > constants.MaxCoverSize {
		return nil, errors.NewValidationError("coverFile", path, "exceeds the maximum cover size")
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		return nil, errors.WrapValidation("coverFile", err)
	}
	return &Image{Name: filepath.Base(path), Data: data}, nil
}

// PendingEdit is the transient draft of an add or edit submission.
// It is discarded once the submission settles.
type PendingEdit struct {
	ID          int64
	Title       string
	ReleaseDate string
	Description *string

	// CoverURL is a durable URL supplied directly on add, used only when no CoverFile is set.
	CoverURL *string

	// CoverFile is a new cover to upload. When set it always wins.
	CoverFile *Image

	// CurrentCoverURLFromDB is the cover as last known from the server, used on edit.
	CurrentCoverURLFromDB *string
}

// EditOf builds the draft an edit form starts from: all record fields, with
// the record's cover as the current server-side cover.
func EditOf(r Record) PendingEdit {
	r = r.Clone()
	return PendingEdit{
		ID:                    r.ID,
		Title:                 r.Title,
		ReleaseDate:           r.ReleaseDate,
		Description:           r.Description,
		CurrentCoverURLFromDB: r.CoverURL,
	}
}

// Validate checks local preconditions before any network call.
func (p PendingEdit) Validate(mode Mode) error {
	if mode == ModeEdit && p.ID <= 0 {
		return errors.NewValidationError("id", p.ID, "publication id is required for edit")
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.NewValidationError("title", p.Title, "cannot be empty")
	}
	return ValidateReleaseDate(p.ReleaseDate)
}

// Payload builds the request body for the given cover decision.
// An empty description is sent as null.
func (p PendingEdit) Payload(cover Cover) Payload {
	var desc *string
	if p.Description != nil && *p.Description != "" {
		desc = clonePtr(p.Description)
	}
	return Payload{
		Title:       p.Title,
		ReleaseDate: p.ReleaseDate,
		Description: desc,
		CoverURL:    cover.Value(),
	}
}

// Payload is the body of POST and PUT requests.
type Payload struct {
	Title       string  `json:"title"`
	ReleaseDate string  `json:"releaseDate"`
	Description *string `json:"description"`
	CoverURL    *string `json:"coverUrl"`
}

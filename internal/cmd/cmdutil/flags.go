// Package cmdutil provides shared flags for pubsync commands.
package cmdutil

import (
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"

	"github.com/agentstation/pubsync/pkg/errors"
	"github.com/agentstation/pubsync/pkg/publications"
)

// ResourceFlags holds flags for listing publications.
type ResourceFlags struct {
	Limit  int
	Search string
}

// AddResourceFlags adds list flags to a command.
func AddResourceFlags(cmd *cobra.Command) *ResourceFlags {
	flags := &ResourceFlags{}

	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0,
		"Limit number of results")
	cmd.Flags().StringVar(&flags.Search, "search", "",
		"Search term matched against title and description")

	return flags
}

// Filter applies search and limit to list, keeping store order.
func (f *ResourceFlags) Filter(list publications.List) publications.List {
	out := list
	if f.Search != "" {
		fold := cases.Fold()
		needle := fold.String(f.Search)
		out = make(publications.List, 0, len(list))
		for _, r := range list {
			if strings.Contains(fold.String(r.Title), needle) ||
				strings.Contains(fold.String(publications.Deref(r.Description)), needle) {
				out = append(out, r)
			}
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// PublicationFlags holds the editable fields of a publication.
type PublicationFlags struct {
	Title       string
	ReleaseDate string
	Description string
	CoverURL    string
	CoverFile   string
	ClearCover  bool
}

// AddPublicationFlags adds field flags to an add or edit command.
// withClear adds --clear-cover, which only makes sense on edit.
func AddPublicationFlags(cmd *cobra.Command, withClear bool) *PublicationFlags {
	flags := &PublicationFlags{}

	cmd.Flags().StringVarP(&flags.Title, "title", "t", "",
		"Publication title")
	cmd.Flags().StringVarP(&flags.ReleaseDate, "release-date", "d", "",
		"Release date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.Description, "description", "",
		"Free-form description (empty clears it)")
	cmd.Flags().StringVar(&flags.CoverURL, "cover-url", "",
		"Existing http(s) cover URL to use instead of uploading")
	cmd.Flags().StringVarP(&flags.CoverFile, "cover-file", "f", "",
		"Image file to upload as the new cover")
	if withClear {
		cmd.Flags().BoolVar(&flags.ClearCover, "clear-cover", false,
			"Remove the current cover")
	}

	return flags
}

// Apply copies every flag the user set onto p. Unset flags leave p untouched.
func (f *PublicationFlags) Apply(cmd *cobra.Command, p *publications.PendingEdit) error {
	changed := cmd.Flags().Changed

	if changed("title") {
		p.Title = f.Title
	}
	if changed("release-date") {
		p.ReleaseDate = f.ReleaseDate
	}
	if changed("description") {
		p.Description = publications.String(f.Description)
	}
	if changed("cover-url") {
		if f.CoverURL != "" && !publications.IsDurableURL(f.CoverURL) {
			return errors.NewValidationError("coverUrl", f.CoverURL, "must be an absolute http(s) URL, not a local reference")
		}
		p.CoverURL = publications.String(f.CoverURL)
		// On edit a supplied URL replaces the server-side one.
		if p.ID > 0 {
			p.CurrentCoverURLFromDB = publications.String(f.CoverURL)
		}
	}
	if f.ClearCover {
		p.CoverURL = nil
		p.CurrentCoverURLFromDB = nil
	}
	if f.CoverFile != "" {
		img, err := publications.LoadImage(f.CoverFile)
		if err != nil {
			return err
		}
		p.CoverFile = img
	}

	return nil
}

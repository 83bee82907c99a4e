package output

import (
	"io"

	"github.com/agentstation/pubsync/internal/cmd/table"
	"github.com/agentstation/pubsync/pkg/publications"
)

// FormatPublications writes the list in the given format. Table formats
// keep list order; JSON and YAML emit the records as the server sent them.
func FormatPublications(w io.Writer, list publications.List, format Format) error {
	if format.IsTable() {
		return NewFormatter(format).Format(w, table.PublicationsToTableData(list, format == FormatWide))
	}
	if list == nil {
		list = publications.List{}
	}
	return NewFormatter(format).Format(w, list)
}

// FormatPublication writes a single record.
func FormatPublication(w io.Writer, r publications.Record, format Format) error {
	if format.IsTable() {
		return NewFormatter(format).Format(w, table.PublicationToTableData(r))
	}
	return NewFormatter(format).Format(w, r)
}

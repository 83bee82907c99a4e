// Package table converts catalog data into rows for table output.
package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/pubsync/pkg/publications"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

const (
	none           = "-"
	maxDescription = 60
)

// PublicationsToTableData converts the list to table format, in list order.
// Wide output adds the description and the full cover URL.
func PublicationsToTableData(list publications.List, wide bool) Data {
	headers := []string{"ID", "Title", "Release Date", "Cover"}
	align := []Align{AlignRight, AlignLeft, AlignLeft, AlignCenter}
	if wide {
		headers = append(headers, "Description", "Cover URL")
		align = append(align, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(list))
	for _, r := range list {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Title,
			r.ReleaseDate,
			coverMark(r),
		}
		if wide {
			row = append(row, truncate(publications.Deref(r.Description), maxDescription), orNone(publications.Deref(r.CoverURL)))
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: align,
	}
}

// PublicationToTableData converts one record to a property/value table.
func PublicationToTableData(r publications.Record) Data {
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"ID", strconv.FormatInt(r.ID, 10)},
			{"Title", r.Title},
			{"Release Date", r.ReleaseDate},
			{"Description", orNone(publications.Deref(r.Description))},
			{"Cover URL", orNone(publications.Deref(r.CoverURL))},
		},
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

func coverMark(r publications.Record) string {
	if r.HasCover() {
		return "yes"
	}
	return "no"
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return none
	}
	if r := []rune(s); len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

// Package roster parses badge rosters.
//
// A roster is a delimited-text document with a mandatory header row followed
// by one row per badge, in a fixed column order:
//
//	category, ticket type, division, primary name, secondary name, club
//
// Parsing is row-tolerant: a row with the wrong number of fields, a missing
// required value or broken quoting is returned as an [Entry] carrying a
// MALFORMED_ROW error instead of failing the whole document. Quotes inside
// unquoted fields are kept literally. Only input that cannot be read at all
// fails [Parse].
package roster

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/matzehuels/badgepress/pkg/errors"
)

// Columns is the number of fields in every roster row.
const Columns = 6

// Record is one validated roster row.
type Record struct {
	Category      string `json:"category"`
	TicketType    string `json:"ticket_type"`
	Division      string `json:"division"`
	PrimaryName   string `json:"primary_name"`
	SecondaryName string `json:"secondary_name,omitempty"`
	Club          string `json:"club"`
}

// Entry is the parse outcome for one non-empty data row.
// Exactly one of Record (valid row) or Err (malformed row) is meaningful.
type Entry struct {
	Line   int    // 1-based line of the row in the input, header is line 1
	Record Record // zero when Err is set
	Err    error  // MALFORMED_ROW, or nil
}

// Parse reads a roster and returns one entry per non-empty data row, in input
// order. Every field is trimmed. Fully blank rows are skipped silently.
func Parse(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	if _, err := cr.Read(); err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "roster is empty: header row required")
	} else if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read roster header")
	}

	var entries []Entry
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if pe, ok := err.(*csv.ParseError); ok {
			entries = append(entries, Entry{
				Line: pe.StartLine,
				Err:  errors.Wrap(errors.ErrCodeMalformedRow, pe.Err, "column %d", pe.Column),
			})
			continue
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read roster")
		}
		line, _ := cr.FieldPos(0)

		fields := trimAll(row)
		if isBlank(fields) {
			continue
		}

		rec, err := newRecord(fields)
		if err != nil {
			entries = append(entries, Entry{Line: line, Err: err})
			continue
		}
		entries = append(entries, Entry{Line: line, Record: rec})
	}
	return entries, nil
}

// Records returns the valid records among entries, in order.
func Records(entries []Entry) []Record {
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		if e.Err == nil {
			out = append(out, e.Record)
		}
	}
	return out
}

func newRecord(f []string) (Record, error) {
	if len(f) != Columns {
		return Record{}, errors.New(errors.ErrCodeMalformedRow, "expected %d fields, got %d", Columns, len(f))
	}
	rec := Record{
		Category:      f[0],
		TicketType:    f[1],
		Division:      f[2],
		PrimaryName:   f[3],
		SecondaryName: f[4],
		Club:          f[5],
	}
	if rec.Division == "" {
		return Record{}, errors.New(errors.ErrCodeMalformedRow, "division is required")
	}
	if rec.PrimaryName == "" {
		return Record{}, errors.New(errors.ErrCodeMalformedRow, "primary name is required")
	}
	return rec, nil
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}

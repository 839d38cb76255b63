// Package output renders projected registry records into the
// supported output encodings.
package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rootsektor/ripe-api-query-tool/internal/ripedb"
)

// Mode selects one of the output encodings.
type Mode int

const (
	ModePlain Mode = iota
	ModeTable
	ModeGrepable
	ModeJSON
	ModeXML
)

// ErrUnsupportedMode is reported at configuration time, before any
// query is sent.
var ErrUnsupportedMode = errors.New("unsupported output mode")

func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "plain":
		return ModePlain, nil
	case "table":
		return ModeTable, nil
	case "grepable":
		return ModeGrepable, nil
	case "json":
		return ModeJSON, nil
	case "xml":
		return ModeXML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, name)
}

func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeTable:
		return "table"
	case ModeGrepable:
		return "grepable"
	case ModeJSON:
		return "json"
	case ModeXML:
		return "xml"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Options carry the per-run rendering knobs.
type Options struct {
	// Separator joins field values in grepable and filtered plain
	// output.
	Separator string
	// Filtered is true when the user requested a field list; plain
	// output switches from "field: value" blocks to one line per
	// record.
	Filtered bool
}

// Render is pure: it returns the encoded record sequence and leaves
// all writing to the caller.
func Render(records []ripedb.ProjectedRecord, mode Mode, opts Options) (string, error) {
	if opts.Separator == "" {
		opts.Separator = ","
	}
	switch mode {
	case ModePlain:
		return renderPlain(records, opts), nil
	case ModeTable:
		return renderTable(records), nil
	case ModeGrepable:
		return renderGrepable(records, opts), nil
	case ModeJSON:
		return renderJSON(records), nil
	case ModeXML:
		return renderXML(records)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
}

const plainDivider = "------------------------------"

func renderPlain(records []ripedb.ProjectedRecord, opts Options) string {
	var b strings.Builder
	if opts.Filtered {
		// One record per line, values joined by the separator. A
		// single requested field comes out as the bare value.
		for _, rec := range records {
			b.WriteString(strings.Join(rec.Cells("\n"), opts.Separator))
			b.WriteByte('\n')
		}
		return b.String()
	}

	for _, rec := range records {
		b.WriteString(plainDivider)
		b.WriteByte('\n')
		for i, field := range rec.Fields {
			value := strings.Join(rec.Values[i], "\n")
			if value == "" {
				continue
			}
			b.WriteString(field)
			b.WriteString(": ")
			b.WriteString(value)
			b.WriteByte('\n')
		}
	}
	if len(records) > 0 {
		b.WriteString(plainDivider)
		b.WriteByte('\n')
	}
	return b.String()
}

func renderGrepable(records []ripedb.ProjectedRecord, opts Options) string {
	var b strings.Builder
	for _, rec := range records {
		// Multi-value fields collapse to one space-joined cell so
		// that one record stays one line. Every line ends with the
		// separator before the newline.
		b.WriteString(strings.Join(rec.Cells(" "), opts.Separator))
		b.WriteString(opts.Separator)
		b.WriteByte('\n')
	}
	return b.String()
}

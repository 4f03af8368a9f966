package present

import (
	"fmt"
	"io"
	"strings"

	"scrutiny/internal/format"
	"scrutiny/internal/logging"
	"scrutiny/internal/records"
)

// Format selects how results are rendered.
type Format string

const (
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatPretty Format = "pretty"
	FormatNone   Format = "none"
)

// ParseFormat maps a CLI name to a Format. The empty string means json.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(name))
	switch f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatTSV, FormatPretty, FormatNone:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json, csv, tsv, pretty, or none)", name)
	}
}

// Render writes rec's results to w in the given format. A nil record or a
// record without results renders nothing and returns nil: having nothing
// to show is a rendering policy, not an error.
func Render(w io.Writer, rec *records.Record, f Format) error {
	if f == FormatNone {
		return nil
	}
	if rec == nil || rec.Results == nil {
		logging.New("present").Warn("no results to render")
		return nil
	}

	switch f {
	case FormatJSON:
		return EncodeJSON(w, rec.Results)
	case FormatCSV:
		return Tabular(w, rec.Results, format.CSV)
	case FormatTSV:
		return Tabular(w, rec.Results, format.TSV)
	case FormatPretty:
		return Pretty(w, rec.Results)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

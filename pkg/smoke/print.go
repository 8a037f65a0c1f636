package smoke

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

const (
	FormatJSON  = "json"
	FormatTable = "table"
)

// Print writes r to w as indented JSON or as a two-column table.
func Print(w io.Writer, format string, r Report) error {
	switch format {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}

		return nil

	case FormatTable:
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"check", "result"})
		table.SetAutoWrapText(false)
		table.AppendBulk(r.Rows())
		table.Render()
		return nil

	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

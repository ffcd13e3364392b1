package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format selects how a result is written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
	FormatValue Format = "value"
)

// ListFormats are the formats accepted for tabular results.
var ListFormats = []Format{FormatTable, FormatJSON, FormatYAML, FormatCSV, FormatValue}

// DocumentFormats are the formats accepted for single resources.
var DocumentFormats = []Format{FormatJSON, FormatYAML}

// ParseFormat validates s against the allowed formats.
func ParseFormat(s string, allowed []Format) (Format, error) {
	names := make([]string, 0, len(allowed))
	for _, f := range allowed {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
		names = append(names, string(f))
	}
	return "", fmt.Errorf("invalid format %q (choose from %s)", s, strings.Join(names, ", "))
}

// RenderTable writes t to w in the given format. An empty table writes
// nothing in the table, csv and value formats.
func RenderTable(w io.Writer, t *Table, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, t.Records())
	case FormatYAML:
		return writeYAML(w, t.Records())
	case FormatCSV:
		if t.Empty() {
			return nil
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(t.Headers); err != nil {
			return err
		}
		if err := cw.WriteAll(t.Rows); err != nil {
			return err
		}
		return cw.Error()
	case FormatValue:
		for _, row := range t.Rows {
			if _, err := fmt.Fprintln(w, strings.Join(row, " ")); err != nil {
				return err
			}
		}
		return nil
	case FormatTable, "":
		if t.Empty() {
			return nil
		}
		if !isTerminal(w) {
			restore := pterm.RawOutput
			pterm.DisableStyling()
			defer func() {
				if !restore {
					pterm.EnableStyling()
				}
			}()
		}
		data := make(pterm.TableData, 0, len(t.Rows)+1)
		data = append(data, t.Headers)
		data = append(data, t.Rows...)
		rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
		_, err = fmt.Fprintln(w, rendered)
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// RenderDocument writes a single resource. JSON output is indented and its
// object keys are sorted.
func RenderDocument(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON, "":
		return writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// isTerminal reports whether w is a terminal. Styled output is only written
// to terminals.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

// Format is an output format for a monthly report.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

// Formats lists every supported report format.
var Formats = []Format{FormatText, FormatMarkdown, FormatCSV, FormatJSON, FormatYAML, FormatHTML, FormatPDF}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// ContentType returns the MIME type used when serving a report over HTTP.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render writes the report for m in format f.
func Render(w io.Writer, f Format, m Month, l Labels, styled bool) error {
	switch f {
	case FormatText:
		_, err := io.WriteString(w, Terminal(m, l, styled))
		return err
	case FormatMarkdown:
		return writeMarkdown(w, m, l)
	case FormatCSV:
		return writeCSV(w, m)
	case FormatJSON:
		return writeJSON(w, m)
	case FormatYAML:
		return writeYAML(w, m)
	case FormatHTML:
		return WriteHTML(w, m, l)
	case FormatPDF:
		return WritePDF(w, m, l)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

func writeMarkdown(w io.Writer, m Month, l Labels) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n### %s\n\n", l.Heading(m.Employee), l.MonthName(m.Year, m.Month))
	fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n", l.Date, l.Project, l.Begin, l.End, l.Pause, l.Total)
	b.WriteString("|---|---|---|---|---:|---:|\n")
	if len(m.Entries) == 0 {
		fmt.Fprintf(&b, "| %s | | | | | |\n", l.Empty)
	}
	for _, e := range m.Entries {
		project := mdEscape(e.Project)
		if e.Notes != "" {
			project += "<br>_" + mdEscape(e.Notes) + "_"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %s |\n",
			l.FormatDate(m.Date(e)),
			project,
			e.Begin,
			e.End,
			e.Pause,
			timecalc.FormatDuration(e.Total),
		)
	}
	fmt.Fprintf(&b, "\n**%s: %s**\n", l.MonthTotal, timecalc.FormatDuration(m.TotalMinutes))
	_, err := io.WriteString(w, b.String())
	return err
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func writeCSV(w io.Writer, m Month) error {
	var b strings.Builder
	b.WriteString("date,project,notes,begin,end,pause_minutes,total_minutes\n")
	for _, e := range m.Entries {
		fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%d,%d\n",
			m.Date(e).Format("2006-01-02"),
			csvEscape(e.Project),
			csvEscape(e.Notes),
			csvEscape(e.Begin),
			csvEscape(e.End),
			e.Pause,
			e.Total,
		)
	}
	fmt.Fprintf(&b, "total,,,,,,%s\n", strconv.Itoa(m.TotalMinutes))
	_, err := io.WriteString(w, b.String())
	return err
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// ExportSnapshot writes the full roster and entry map as JSON or YAML.
func ExportSnapshot(w io.Writer, f Format, snap model.Snapshot) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, snap)
	case FormatYAML:
		return writeYAML(w, snap)
	default:
		return fmt.Errorf("snapshot export supports json and yaml, not %q", f)
	}
}

// ImportSnapshot reads a snapshot written by ExportSnapshot. JSON is a
// subset of YAML, so one decoder handles both.
func ImportSnapshot(r io.Reader) (model.Snapshot, error) {
	var snap model.Snapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Entries == nil {
		snap.Entries = model.EmployeeEntryMap{}
	}
	return snap, nil
}

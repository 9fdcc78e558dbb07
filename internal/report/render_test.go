package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/report"
)

func juneReport() report.Month {
	phoenix := entry(2024, time.June, 14, "Project Phoenix", "09:00", "17:30", 60)
	phoenix.Notes = "Initial setup"
	entries := byID(
		phoenix,
		entry(2024, time.June, 3, "Website, Redesign", "10:15", "18:00", 45),
	)
	return report.ForEmployee("John Doe", entries, 2024, time.June)
}

func TestLabels(t *testing.T) {
	de := report.LabelsFor("de")
	assert.Equal(t, "Zeitnachweis für John Doe", de.Heading("John Doe"))
	assert.Equal(t, "Juni 2024", de.MonthName(2024, time.June))
	assert.Equal(t, "14. Juni 2024", de.FormatDate(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "3. März 2024", de.FormatDate(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Fr", de.Weekday(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)))

	en := report.LabelsFor("EN")
	assert.Equal(t, "June 2024", en.MonthName(2024, time.June))
	assert.Equal(t, "Jun 14, 2024", en.FormatDate(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, "de", report.LabelsFor("fr").Lang)
}

func TestParseFormat(t *testing.T) {
	f, err := report.ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, report.FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = report.ParseFormat("docx")
	assert.Error(t, err)
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.FormatText, juneReport(), report.LabelsFor("de"), false))
	out := buf.String()

	assert.Contains(t, out, "Zeitnachweis für John Doe")
	assert.Contains(t, out, "Juni 2024")
	assert.Contains(t, out, "Objekt/Projekt")
	assert.Contains(t, out, "Project Phoenix – Initial setup")
	assert.Contains(t, out, "7h 30m")
	assert.Contains(t, out, "Gesamtzeit des Monats: 14h 30m")
	assert.Less(t, strings.Index(out, "3. Juni 2024"), strings.Index(out, "14. Juni 2024"))
	assert.NotContains(t, out, "\x1b[")
}

func TestRender_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	m := report.ForEmployee("John Doe", nil, 2024, time.June)
	require.NoError(t, report.Render(&buf, report.FormatText, m, report.LabelsFor("de"), false))
	assert.Contains(t, buf.String(), "Keine Einträge für diesen Monat.")
	assert.Contains(t, buf.String(), "0h 0m")
}

func TestRender_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.FormatMarkdown, juneReport(), report.LabelsFor("en"), false))
	out := buf.String()
	assert.Contains(t, out, "## Time sheet for John Doe")
	assert.Contains(t, out, "| Jun 14, 2024 | Project Phoenix<br>_Initial setup_ | 09:00 | 17:30 | 60 | 7h 30m |")
	assert.Contains(t, out, "| Jun 3, 2024 | Website, Redesign | 10:15 | 18:00 | 45 | 7h 0m |")
	assert.Contains(t, out, "**Total for the month: 14h 30m**")
}

func TestRender_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.FormatCSV, juneReport(), report.LabelsFor("de"), false))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,project,notes,begin,end,pause_minutes,total_minutes", lines[0])
	assert.Equal(t, `2024-06-03,"Website, Redesign",,10:15,18:00,45,420`, lines[1])
	assert.Equal(t, "2024-06-14,Project Phoenix,Initial setup,09:00,17:30,60,450", lines[2])
	assert.Equal(t, "total,,,,,,870", lines[3])
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.FormatJSON, juneReport(), report.LabelsFor("de"), false))

	var got report.Month
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 870, got.TotalMinutes)
	assert.Equal(t, "John Doe", got.Employee)
	require.Len(t, got.Entries, 2)
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.FormatYAML, juneReport(), report.LabelsFor("de"), false))
	assert.Contains(t, buf.String(), "total_minutes: 870")
	assert.Contains(t, buf.String(), "employee: John Doe")
}

func TestRender_HTML(t *testing.T) {
	var buf bytes.Buffer
	m := juneReport()
	m.Employee = "<script>"
	require.NoError(t, report.Render(&buf, report.FormatHTML, m, report.LabelsFor("de"), false))
	out := buf.String()
	assert.Contains(t, out, `<html lang="de">`)
	assert.Contains(t, out, "Zeitnachweis für &lt;script&gt;")
	assert.Contains(t, out, "Gesamtzeit des Monats")
	assert.Contains(t, out, `<div class="notes">Initial setup</div>`)
	assert.NotContains(t, out, "<script>")
}

func TestRender_HTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	m := report.ForEmployee("John Doe", nil, 2024, time.June)
	require.NoError(t, report.WriteHTML(&buf, m, report.LabelsFor("de")))
	assert.Contains(t, buf.String(), "Keine Einträge für diesen Monat.")
}

func TestRender_PDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.FormatPDF, juneReport(), report.LabelsFor("de"), false))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestGridTable(t *testing.T) {
	entries := byID(entry(2024, time.June, 14, "Project Phoenix", "09:00", "17:30", 60))
	rows := report.MonthGrid(entries, 2024, time.June)
	out := report.GridTable(rows, 450, report.LabelsFor("de"), false)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header, separator, 30 days, blank, total
	require.Len(t, lines, 34)
	assert.Contains(t, lines[2], "1. Juni 2024")
	assert.Contains(t, out, "Gesamtzeit des Monats: 7h 30m")
}

func TestSnapshotExportImport(t *testing.T) {
	snap := model.Snapshot{
		Employees: []string{"John Doe", "Jane Smith"},
		Entries: model.EmployeeEntryMap{
			"John Doe": byID(entry(2024, time.June, 14, "Project Phoenix", "09:00", "17:30", 60)),
		},
	}
	for _, f := range []report.Format{report.FormatJSON, report.FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, report.ExportSnapshot(&buf, f, snap))
			got, err := report.ImportSnapshot(&buf)
			require.NoError(t, err)
			assert.Equal(t, snap, got)
		})
	}

	assert.Error(t, report.ExportSnapshot(&bytes.Buffer{}, report.FormatCSV, snap))
}

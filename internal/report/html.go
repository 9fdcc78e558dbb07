package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

var printableTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Heading}} – {{.MonthName}}</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem; color: #111; }
  h2 { font-size: 1.25rem; margin: 0 0 .5rem; }
  h3 { font-size: 1.1rem; font-weight: normal; margin: 0 0 1rem; }
  table { border-collapse: collapse; width: 100%; }
  th, td { border-bottom: 1px solid #ddd; padding: .4rem .6rem; text-align: left; }
  td.num, th.num { text-align: right; }
  tfoot td { font-weight: bold; border-top: 2px solid #333; }
  .notes { color: #666; font-size: .85rem; }
  .empty { text-align: center; color: #666; }
  @media print { body { margin: 0; } }
</style>
</head>
<body>
<h2>{{.Heading}}</h2>
<h3>{{.MonthName}}</h3>
<table>
<thead>
<tr><th>{{.L.Date}}</th><th>{{.L.Project}}</th><th>{{.L.Begin}}</th><th>{{.L.End}}</th><th>{{.L.Pause}}</th><th class="num">{{.L.Total}}</th></tr>
</thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.Date}}</td><td>{{.Project}}{{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}</td><td>{{.Begin}}</td><td>{{.End}}</td><td>{{.Pause}}</td><td class="num">{{.Total}}</td></tr>
{{- else}}
<tr><td colspan="6" class="empty">{{.L.Empty}}</td></tr>
{{- end}}
</tbody>
<tfoot>
<tr><td colspan="5" class="num">{{.L.MonthTotal}}</td><td class="num">{{.Total}}</td></tr>
</tfoot>
</table>
</body>
</html>
`))

type htmlRow struct {
	Date, Project, Notes, Begin, End, Total string
	Pause                                   int
}

type htmlPage struct {
	Lang      string
	Heading   string
	MonthName string
	L         Labels
	Rows      []htmlRow
	Total     string
}

// WriteHTML renders a self-contained printable HTML page for m.
func WriteHTML(w io.Writer, m Month, l Labels) error {
	page := htmlPage{
		Lang:      l.Lang,
		Heading:   l.Heading(m.Employee),
		MonthName: l.MonthName(m.Year, m.Month),
		L:         l,
		Total:     timecalc.FormatDuration(m.TotalMinutes),
	}
	for _, e := range m.Entries {
		page.Rows = append(page.Rows, htmlRow{
			Date:    l.FormatDate(m.Date(e)),
			Project: e.Project,
			Notes:   e.Notes,
			Begin:   e.Begin,
			End:     e.End,
			Pause:   e.Pause,
			Total:   timecalc.FormatDuration(e.Total),
		})
	}
	if err := printableTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("rendering HTML report: %w", err)
	}
	return nil
}

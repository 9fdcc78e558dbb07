package report

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

var (
	colorHeader = lipgloss.Color("#fe8019")
	colorDim    = lipgloss.Color("#928374")
	colorGreen  = lipgloss.Color("#8ec07c")

	styleTitle  = lipgloss.NewStyle().Bold(true)
	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleTotal  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	plain       = lipgloss.NewStyle()
)

const colGap = 2

// table renders aligned columns with a header separator. Widths are measured
// on visible width so styled cells line up. rightAlign marks numeric columns.
type table struct {
	headers    []string
	rows       [][]string
	rightAlign map[int]bool
	styled     bool
}

func (t table) style(s lipgloss.Style) lipgloss.Style {
	if !t.styled {
		return plain
	}
	return s
}

func (t table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (t table) cell(b *strings.Builder, i int, text string, width int, last bool) {
	pad := width - lipgloss.Width(text)
	if pad < 0 {
		pad = 0
	}
	if t.rightAlign[i] {
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(text)
		if !last {
			b.WriteString(strings.Repeat(" ", colGap))
		}
		return
	}
	b.WriteString(text)
	if !last {
		b.WriteString(strings.Repeat(" ", pad+colGap))
	}
}

func (t table) render() string {
	if len(t.headers) == 0 {
		return ""
	}
	widths := t.widths()
	last := len(t.headers) - 1

	var b strings.Builder
	for i, h := range t.headers {
		pad := widths[i] - lipgloss.Width(h)
		styled := t.style(styleHeader).Render(h)
		if t.rightAlign[i] {
			b.WriteString(strings.Repeat(" ", pad) + styled)
		} else {
			b.WriteString(styled)
			if i < last {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		if i < last {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(t.style(styleDim).Render(strings.Repeat("─", w)))
		if i < last {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range t.rows {
		for i := range t.headers {
			text := ""
			if i < len(row) {
				text = row[i]
			}
			t.cell(&b, i, text, widths[i], i == last)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Terminal renders the printable report as an aligned table for a terminal.
// Colors are applied only when styled is true.
func Terminal(m Month, l Labels, styled bool) string {
	t := table{
		headers:    []string{l.Date, l.Project, l.Begin, l.End, l.Pause, l.Total},
		rightAlign: map[int]bool{4: true, 5: true},
		styled:     styled,
	}
	for _, e := range m.Entries {
		project := e.Project
		if e.Notes != "" {
			project += t.style(styleDim).Render(" – " + firstLine(e.Notes))
		}
		t.rows = append(t.rows, []string{
			l.FormatDate(m.Date(e)),
			project,
			e.Begin,
			e.End,
			strconv.Itoa(e.Pause),
			timecalc.FormatDuration(e.Total),
		})
	}

	var b strings.Builder
	b.WriteString(t.style(styleTitle).Render(l.Heading(m.Employee)))
	b.WriteString("\n")
	b.WriteString(l.MonthName(m.Year, m.Month))
	b.WriteString("\n\n")
	b.WriteString(t.render())
	if len(m.Entries) == 0 {
		b.WriteString(t.style(styleDim).Render(l.Empty))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(l.MonthTotal + ": " + t.style(styleTotal).Render(timecalc.FormatDuration(m.TotalMinutes)))
	b.WriteString("\n")
	return b.String()
}

// GridTable renders every day of the month, marking days without an entry.
func GridTable(rows []GridRow, total int, l Labels, styled bool) string {
	t := table{
		headers:    []string{"", l.Date, l.Project, l.Begin, l.End, l.Pause, l.Total},
		rightAlign: map[int]bool{5: true, 6: true},
		styled:     styled,
	}
	for _, r := range rows {
		e := r.Entry
		cells := []string{
			l.Weekday(r.Date),
			l.FormatDate(r.Date),
			e.Project,
			e.Begin,
			e.End,
			strconv.Itoa(e.Pause),
			timecalc.FormatDuration(e.Total),
		}
		if !r.Logged {
			for i := 2; i < len(cells); i++ {
				cells[i] = t.style(styleDim).Render(cells[i])
			}
		}
		t.rows = append(t.rows, cells)
	}
	return t.render() + "\n" + l.MonthTotal + ": " + t.style(styleTotal).Render(timecalc.FormatDuration(total)) + "\n"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

package server

import (
	"io"

	"github.com/Tiliavir/trivial-time-sheet/internal/report"
)

// SetRenderReport swaps the report renderer and returns a restore func.
func SetRenderReport(fn func(io.Writer, report.Format, report.Month, report.Labels, bool) error) func() {
	prev := renderReport
	renderReport = fn
	return func() { renderReport = prev }
}

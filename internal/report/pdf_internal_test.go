package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

func TestBuildPDF_NotesSubLine(t *testing.T) {
	e := model.TimeEntry{
		ID:      timecalc.EntryID(2024, time.June, 14),
		Day:     14,
		Project: "Project Phoenix",
		Notes:   "Initial setup",
		Begin:   "09:00",
		End:     "17:30",
		Pause:   60,
		Total:   450,
	}
	m := ForEmployee("John Doe", map[string]model.TimeEntry{e.ID: e}, 2024, time.June)

	pdf := buildPDF(m, LabelsFor("en"))
	pdf.SetCompression(false)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))

	out := buf.String()
	assert.Contains(t, out, "(Project Phoenix)")
	assert.Contains(t, out, "(Initial setup)")
}

package timesheet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/timesheet"
)

func newStore(t *testing.T, employees ...string) *timesheet.Store {
	t.Helper()
	s := timesheet.NewStore(model.Snapshot{})
	for _, e := range employees {
		_, err := s.AddEmployee(e)
		require.NoError(t, err)
	}
	return s
}

func TestStore_AddEmployee(t *testing.T) {
	s := newStore(t)

	name, err := s.AddEmployee("  Jane Smith ")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", name)

	_, err = s.AddEmployee("Jane Smith")
	assert.ErrorIs(t, err, timesheet.ErrDuplicateEmployee)

	_, err = s.AddEmployee("   ")
	assert.ErrorIs(t, err, timesheet.ErrEmptyName)

	// Names are case-sensitive.
	_, err = s.AddEmployee("jane smith")
	require.NoError(t, err)

	assert.Equal(t, []string{"Jane Smith", "jane smith"}, s.Employees())
}

func TestStore_EmployeesReturnsCopy(t *testing.T) {
	s := newStore(t, "John Doe")
	list := s.Employees()
	list[0] = "mutated"
	assert.Equal(t, []string{"John Doe"}, s.Employees())
}

func TestStore_SetFieldSynthesizesEntry(t *testing.T) {
	s := newStore(t, "John Doe")

	e, err := s.SetField("John Doe", 2024, time.June, 14, timesheet.FieldProject, "Website Redesign")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-14", e.ID)
	assert.Equal(t, 14, e.Day)
	assert.Equal(t, "Website Redesign", e.Project)
	assert.Equal(t, "00:00", e.Begin)
	assert.Equal(t, "00:00", e.End)
	assert.Equal(t, 0, e.Pause)
	assert.Equal(t, 0, e.Total)

	_, err = s.SetField("John Doe", 2024, time.June, 14, timesheet.FieldBegin, "09:00")
	require.NoError(t, err)
	_, err = s.SetField("John Doe", 2024, time.June, 14, timesheet.FieldEnd, "17:30")
	require.NoError(t, err)
	e, err = s.SetField("John Doe", 2024, time.June, 14, timesheet.FieldPause, "60")
	require.NoError(t, err)
	assert.Equal(t, 450, e.Total)

	stored, ok := s.Entry("John Doe", "2024-06-14")
	require.True(t, ok)
	assert.Equal(t, e, stored)
}

func TestStore_SetFieldIsLenient(t *testing.T) {
	s := newStore(t, "John Doe")

	e, err := s.SetField("John Doe", 2024, time.June, 3, timesheet.FieldEnd, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", e.End)
	assert.Equal(t, 0, e.Total)

	e, err = s.SetField("John Doe", 2024, time.June, 3, timesheet.FieldPause, "abc")
	require.NoError(t, err)
	assert.Equal(t, 0, e.Pause)

	e, err = s.SetField("John Doe", 2024, time.June, 3, timesheet.FieldPause, "-10")
	require.NoError(t, err)
	assert.Equal(t, 0, e.Pause)
}

func TestStore_SetFieldRejectsBadCoordinates(t *testing.T) {
	s := newStore(t, "John Doe")

	_, err := s.SetField("John Doe", 2024, time.June, 31, timesheet.FieldBegin, "09:00")
	assert.Error(t, err)
	_, err = s.SetField("John Doe", 2024, 0, 1, timesheet.FieldBegin, "09:00")
	assert.Error(t, err)
	_, err = s.SetField("Nobody", 2024, time.June, 1, timesheet.FieldBegin, "09:00")
	assert.ErrorIs(t, err, timesheet.ErrUnknownEmployee)
	_, err = s.SetField("John Doe", 2024, time.June, 1, timesheet.Field("total"), "600")
	assert.Error(t, err)
}

func TestStore_UpsertRecomputesTotal(t *testing.T) {
	s := newStore(t, "John Doe")

	e, err := s.UpsertEntry("John Doe", model.TimeEntry{
		ID: "2024-06-1", Day: 1, Project: "P", Begin: "09:00", End: "10:00", Pause: 0, Total: 9999,
	})
	require.NoError(t, err)
	assert.Equal(t, 60, e.Total)

	_, err = s.UpsertEntry("Nobody", model.TimeEntry{ID: "2024-06-1", Day: 1})
	assert.ErrorIs(t, err, timesheet.ErrUnknownEmployee)
}

func TestStore_SubmitRejectedLeavesStateUntouched(t *testing.T) {
	s := newStore(t, "John Doe")
	_, err := s.Submit("John Doe", draft("09:00", "17:00", 30))
	require.NoError(t, err)
	before := s.Snapshot()

	_, err = s.Submit("John Doe", draft("17:00", "09:00", 0))
	assert.ErrorIs(t, err, timesheet.ErrValidation)
	assert.Equal(t, before, s.Snapshot())
}

func TestStore_GetEntriesFiltersByMonth(t *testing.T) {
	s := newStore(t, "John Doe", "Jane Smith")
	_, err := s.SetField("John Doe", 2024, time.June, 1, timesheet.FieldProject, "A")
	require.NoError(t, err)
	_, err = s.SetField("John Doe", 2024, time.July, 1, timesheet.FieldProject, "B")
	require.NoError(t, err)
	_, err = s.SetField("Jane Smith", 2024, time.June, 2, timesheet.FieldProject, "C")
	require.NoError(t, err)

	june := s.GetEntries("John Doe", 2024, time.June)
	require.Len(t, june, 1)
	assert.Equal(t, "A", june["2024-06-1"].Project)

	assert.Empty(t, s.GetEntries("Nobody", 2024, time.June))
}

func TestStore_ReadsAreIsolatedFromWrites(t *testing.T) {
	s := newStore(t, "John Doe")
	_, err := s.SetField("John Doe", 2024, time.June, 1, timesheet.FieldProject, "A")
	require.NoError(t, err)

	june := s.GetEntries("John Doe", 2024, time.June)
	snap := s.Snapshot()

	_, err = s.SetField("John Doe", 2024, time.June, 1, timesheet.FieldProject, "B")
	require.NoError(t, err)

	assert.Equal(t, "A", june["2024-06-1"].Project)
	assert.Equal(t, "A", snap.Entries["John Doe"]["2024-06-1"].Project)
}

func TestStore_DeleteEmployeeCascades(t *testing.T) {
	s := newStore(t, "John Doe", "Jane Smith")
	for _, m := range []time.Month{time.May, time.June} {
		_, err := s.Submit("John Doe", timesheet.Draft{Year: 2024, Month: m, Day: 3, Begin: "09:00", End: "12:00"})
		require.NoError(t, err)
	}
	_, err := s.Submit("Jane Smith", timesheet.Draft{Year: 2024, Month: time.June, Day: 3, Begin: "09:00", End: "12:00"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteEmployee("John Doe"))

	assert.Equal(t, []string{"Jane Smith"}, s.Employees())
	assert.Empty(t, s.GetEntries("John Doe", 2024, time.May))
	assert.Empty(t, s.GetEntries("John Doe", 2024, time.June))
	assert.NotContains(t, s.Snapshot().Entries, "John Doe")
	assert.Len(t, s.GetEntries("Jane Smith", 2024, time.June), 1)

	assert.ErrorIs(t, s.DeleteEmployee("John Doe"), timesheet.ErrUnknownEmployee)

	// Re-adding the name starts from an empty sheet.
	_, err = s.AddEmployee("John Doe")
	require.NoError(t, err)
	assert.Empty(t, s.AllEntries("John Doe"))
}

func TestStore_DeleteEntry(t *testing.T) {
	s := newStore(t, "John Doe")
	e, err := s.Submit("John Doe", draft("09:00", "17:00", 0))
	require.NoError(t, err)

	require.NoError(t, s.DeleteEntry("John Doe", e.ID))
	_, ok := s.Entry("John Doe", e.ID)
	assert.False(t, ok)

	assert.ErrorIs(t, s.DeleteEntry("John Doe", e.ID), timesheet.ErrEntryNotFound)
}

func TestNewStore_NormalisesSnapshot(t *testing.T) {
	s := timesheet.NewStore(model.Snapshot{
		Employees: []string{"John Doe", "John Doe", ""},
		Entries: model.EmployeeEntryMap{
			"John Doe": {
				"2024-06-1": {Day: 1, Begin: "09:00", End: "17:30", Pause: 60, Total: 1},
			},
		},
	})
	assert.Equal(t, []string{"John Doe"}, s.Employees())

	e, ok := s.Entry("John Doe", "2024-06-1")
	require.True(t, ok)
	assert.Equal(t, "2024-06-1", e.ID)
	assert.Equal(t, 450, e.Total)
}

func TestNormaliseSnapshot_RepairsIDsAndDropsOrphans(t *testing.T) {
	clean, dropped := timesheet.NormaliseSnapshot(model.Snapshot{
		Employees: []string{"Ann"},
		Entries: model.EmployeeEntryMap{
			"Ann": {
				"2024-06-14": {ID: "2024-06-14", Day: 3, Begin: "09:00", End: "10:00"},
				"x":          {ID: "2024-6-20", Day: 20, Begin: "09:00", End: "11:00"},
				"2024-06-21": {Day: 9, Begin: "08:00", End: "09:00"},
				"bogus":      {ID: "2024-02-30", Begin: "08:00", End: "09:00"},
			},
			"Ghost": {
				"2024-06-1": {ID: "2024-06-1", Day: 1, Begin: "09:00", End: "10:00"},
			},
		},
	})

	assert.NotContains(t, clean.Entries, "Ghost")
	assert.Len(t, dropped, 2)

	ann := clean.Entries["Ann"]
	require.Len(t, ann, 3)
	assert.Equal(t, 14, ann["2024-06-14"].Day)
	assert.Equal(t, "2024-06-20", ann["2024-06-20"].ID)
	assert.Equal(t, 120, ann["2024-06-20"].Total)
	assert.Equal(t, 21, ann["2024-06-21"].Day, "id taken from the map key")

	s := timesheet.NewStore(model.Snapshot{Employees: clean.Employees, Entries: clean.Entries})
	june := s.GetEntries("Ann", 2024, time.June)
	assert.Len(t, june, 3)
	assert.ErrorIs(t, s.DeleteEmployee("Ghost"), timesheet.ErrUnknownEmployee)
	assert.NotContains(t, s.Snapshot().Entries, "Ghost")
}

func TestNormaliseSnapshot_CanonicalIDWinsDuplicate(t *testing.T) {
	clean, dropped := timesheet.NormaliseSnapshot(model.Snapshot{
		Employees: []string{"Ann"},
		Entries: model.EmployeeEntryMap{
			"Ann": {
				"2024-6-20":  {ID: "2024-6-20", Begin: "09:00", End: "10:00"},
				"2024-06-20": {ID: "2024-06-20", Begin: "09:00", End: "17:00"},
			},
		},
	})
	require.Len(t, dropped, 1)
	assert.Equal(t, 480, clean.Entries["Ann"]["2024-06-20"].Total)
}

func TestParseField(t *testing.T) {
	f, err := timesheet.ParseField(" Begin ")
	require.NoError(t, err)
	assert.Equal(t, timesheet.FieldBegin, f)

	_, err = timesheet.ParseField("total")
	assert.Error(t, err)
}

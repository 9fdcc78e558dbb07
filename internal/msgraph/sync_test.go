package msgraph_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/msgraph"
)

type memSink struct {
	entries map[string]model.TimeEntry
	writes  int
	fail    error
}

func newSink() *memSink { return &memSink{entries: map[string]model.TimeEntry{}} }

func (s *memSink) Entry(_ string, id string) (model.TimeEntry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

func (s *memSink) UpsertEntry(_ context.Context, _ string, e model.TimeEntry) (model.TimeEntry, error) {
	if s.fail != nil {
		return model.TimeEntry{}, s.fail
	}
	s.writes++
	s.entries[e.ID] = e
	return e, nil
}

func makeEvent(id, subject, start, end string) msgraph.CalendarEvent {
	ev := msgraph.CalendarEvent{
		ID:          id,
		Subject:     subject,
		Sensitivity: "normal",
		ShowAs:      "busy",
	}
	ev.Start.DateTime = start
	ev.Start.TimeZone = "UTC"
	ev.End.DateTime = end
	ev.End.TimeZone = "UTC"
	return ev
}

func juneOptions() msgraph.SyncOptions {
	return msgraph.SyncOptions{
		Employee: "John Doe",
		Year:     2024,
		Month:    time.June,
		Project:  "Meetings",
		Location: time.UTC,
	}
}

func TestPlanDays_MergesIntervals(t *testing.T) {
	events := []msgraph.CalendarEvent{
		makeEvent("1", "Standup", "2024-06-14T09:00:00.0000000", "2024-06-14T09:15:00.0000000"),
		makeEvent("2", "Planning", "2024-06-14T09:10:00", "2024-06-14T10:30:00"),
		makeEvent("3", "Review", "2024-06-14T13:00:00", "2024-06-14T14:00:00"),
		makeEvent("4", "Retro", "2024-06-14T14:00:00", "2024-06-14T15:00:00"),
		makeEvent("5", "Planning", "2024-06-03T08:00:00", "2024-06-03T09:00:00"),
	}

	plans, ignored, errs := msgraph.PlanDays(events, 2024, time.June, time.UTC)
	assert.Empty(t, errs)
	assert.Equal(t, 0, ignored)
	require.Len(t, plans, 2)

	assert.Equal(t, 3, plans[0].Day)

	day := plans[1]
	assert.Equal(t, 14, day.Day)
	assert.Equal(t, 9*60, day.Begin)
	assert.Equal(t, 15*60, day.End)
	assert.Equal(t, 150, day.Pause) // 10:30 → 13:00
	assert.Equal(t, []string{"Standup", "Planning", "Review", "Retro"}, day.Subjects)

	e := day.Entry(2024, time.June, "Meetings")
	assert.Equal(t, "2024-06-14", e.ID)
	assert.Equal(t, "09:00", e.Begin)
	assert.Equal(t, "15:00", e.End)
	assert.Equal(t, 210, e.Total)
	assert.Equal(t, "Standup, Planning, Review, Retro", e.Notes)
}

func TestPlanDays_SkipsFiltered(t *testing.T) {
	cancelled := makeEvent("c", "Cancelled", "2024-06-10T09:00:00", "2024-06-10T10:00:00")
	cancelled.IsCancelled = true
	allDay := makeEvent("a", "Holiday", "2024-06-10T00:00:00", "2024-06-11T00:00:00")
	allDay.IsAllDay = true
	private := makeEvent("p", "Dentist", "2024-06-10T11:00:00", "2024-06-10T12:00:00")
	private.Sensitivity = "private"
	free := makeEvent("f", "Focus", "2024-06-10T13:00:00", "2024-06-10T14:00:00")
	free.ShowAs = "free"
	overnight := makeEvent("o", "Deploy", "2024-06-10T22:00:00", "2024-06-11T02:00:00")
	otherMonth := makeEvent("m", "Offsite", "2024-07-01T09:00:00", "2024-07-01T17:00:00")
	broken := makeEvent("b", "Broken", "not-a-time", "2024-06-10T10:00:00")

	plans, ignored, errs := msgraph.PlanDays(
		[]msgraph.CalendarEvent{cancelled, allDay, private, free, overnight, otherMonth, broken},
		2024, time.June, time.UTC)
	assert.Empty(t, plans)
	assert.Equal(t, 6, ignored)
	assert.Len(t, errs, 1)
}

func TestPlanDays_Timezone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// RFC3339 times with an explicit offset are converted into the location.
	ev := makeEvent("1", "Call", "2024-06-14T07:00:00Z", "2024-06-14T08:00:00Z")
	plans, _, errs := msgraph.PlanDays([]msgraph.CalendarEvent{ev}, 2024, time.June, berlin)
	require.Empty(t, errs)
	require.Len(t, plans, 1)
	assert.Equal(t, 9*60, plans[0].Begin)
}

func TestSyncEvents_Import(t *testing.T) {
	sink := newSink()
	var out bytes.Buffer
	opts := juneOptions()
	opts.Out = &out

	events := []msgraph.CalendarEvent{
		makeEvent("1", "Architecture Board", "2024-06-14T09:00:00", "2024-06-14T10:30:00"),
	}
	result, err := msgraph.SyncEvents(context.Background(), sink, events, opts)
	require.NoError(t, err)
	assert.Equal(t, msgraph.SyncResult{Imported: 1}, result)
	assert.Equal(t, 90, sink.entries["2024-06-14"].Total)
	assert.Equal(t, "Meetings", sink.entries["2024-06-14"].Project)
	assert.Contains(t, out.String(), "✓ Imported: 2024-06-14")
}

func TestSyncEvents_Idempotent(t *testing.T) {
	sink := newSink()
	events := []msgraph.CalendarEvent{
		makeEvent("1", "Sprint Review", "2024-06-14T14:00:00", "2024-06-14T15:00:00"),
	}
	_, err := msgraph.SyncEvents(context.Background(), sink, events, juneOptions())
	require.NoError(t, err)

	result, err := msgraph.SyncEvents(context.Background(), sink, events, juneOptions())
	require.NoError(t, err)
	assert.Equal(t, msgraph.SyncResult{Skipped: 1}, result)
	assert.Equal(t, 1, sink.writes)
}

func TestSyncEvents_KeepsRecordedDaysUnlessOverwrite(t *testing.T) {
	sink := newSink()
	manual := model.TimeEntry{ID: "2024-06-14", Day: 14, Project: "Phoenix", Begin: "08:00", End: "16:00", Total: 480}
	sink.entries[manual.ID] = manual
	events := []msgraph.CalendarEvent{
		makeEvent("1", "Sprint Review", "2024-06-14T14:00:00", "2024-06-14T15:00:00"),
	}

	result, err := msgraph.SyncEvents(context.Background(), sink, events, juneOptions())
	require.NoError(t, err)
	assert.Equal(t, msgraph.SyncResult{Skipped: 1}, result)
	assert.Equal(t, manual, sink.entries["2024-06-14"])

	opts := juneOptions()
	opts.Overwrite = true
	result, err = msgraph.SyncEvents(context.Background(), sink, events, opts)
	require.NoError(t, err)
	assert.Equal(t, msgraph.SyncResult{Updated: 1}, result)
	assert.Equal(t, "14:00", sink.entries["2024-06-14"].Begin)
}

func TestSyncEvents_FillsBlankDay(t *testing.T) {
	sink := newSink()
	sink.entries["2024-06-14"] = model.Blank("2024-06-14", 14)
	events := []msgraph.CalendarEvent{
		makeEvent("1", "Workshop", "2024-06-14T10:00:00", "2024-06-14T12:00:00"),
	}

	result, err := msgraph.SyncEvents(context.Background(), sink, events, juneOptions())
	require.NoError(t, err)
	assert.Equal(t, msgraph.SyncResult{Imported: 1}, result)
	assert.Equal(t, 120, sink.entries["2024-06-14"].Total)
}

func TestSyncEvents_DryRun(t *testing.T) {
	sink := newSink()
	opts := juneOptions()
	opts.DryRun = true
	events := []msgraph.CalendarEvent{
		makeEvent("1", "Dry Run Meeting", "2024-06-14T11:00:00", "2024-06-14T12:00:00"),
	}

	result, err := msgraph.SyncEvents(context.Background(), sink, events, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, sink.entries)
}

func TestSyncEvents_SinkErrorCounted(t *testing.T) {
	sink := newSink()
	sink.fail = errors.New("unknown employee")
	events := []msgraph.CalendarEvent{
		makeEvent("1", "Meeting", "2024-06-14T11:00:00", "2024-06-14T12:00:00"),
	}

	result, err := msgraph.SyncEvents(context.Background(), sink, events, juneOptions())
	require.NoError(t, err)
	assert.Equal(t, msgraph.SyncResult{Errors: 1}, result)
}

func TestClient_GetCalendarView_FollowsNextLink(t *testing.T) {
	var srv *httptest.Server
	calls := 0
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/me/calendarView", r.URL.Path)
		assert.Equal(t, `outlook.timezone="Europe/Berlin"`, r.Header.Get("Prefer"))

		page := map[string]any{
			"value": []msgraph.CalendarEvent{makeEvent(fmt.Sprint(calls), "Ev", "2024-06-14T09:00:00", "2024-06-14T10:00:00")},
		}
		if r.URL.Query().Get("page") == "" {
			page["@odata.nextLink"] = srv.URL + "/me/calendarView?page=2"
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	c := msgraph.NewClient(srv.Client(), srv.URL)
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	events, err := c.GetCalendarView(context.Background(), from, from.AddDate(0, 1, 0), "Europe/Berlin")
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, 2, calls)
}

func TestClient_GetCalendarView_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := msgraph.NewClient(srv.Client(), srv.URL).GetCalendarView(context.Background(), time.Now(), time.Now(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph API error 403")
}

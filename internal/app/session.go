// Package app ties the in-memory timesheet store to its persistence backend.
// Every mutation is applied to the store first and then saved best-effort:
// a failed save is logged and reported as a *PersistError, but the change
// stays in memory.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/report"
	"github.com/Tiliavir/trivial-time-sheet/internal/timesheet"
)

// Persister writes the two snapshots. *storage.Snapshots implements it.
type Persister interface {
	SaveEmployees(ctx context.Context, employees []string) error
	SaveEntries(ctx context.Context, entries model.EmployeeEntryMap) error
}

// PersistError reports a change that was applied in memory but could not be saved.
type PersistError struct {
	Snapshot string
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("change applied but not saved (%s): %v", e.Snapshot, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Session is the single entry point for state changes used by the CLI and the
// HTTP server.
type Session struct {
	store   *timesheet.Store
	persist Persister
	log     logrus.FieldLogger

	saveMu sync.Mutex
}

// NewSession wraps store. persist may be nil, in which case nothing is saved.
func NewSession(store *timesheet.Store, persist Persister, log logrus.FieldLogger) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{store: store, persist: persist, log: log}
}

// Store exposes the underlying store for read-only queries.
func (s *Session) Store() *timesheet.Store { return s.store }

func (s *Session) Employees() []string { return s.store.Employees() }

func (s *Session) HasEmployee(name string) bool { return s.store.HasEmployee(name) }

func (s *Session) Entry(employee, id string) (model.TimeEntry, bool) {
	return s.store.Entry(employee, id)
}

func (s *Session) GetEntries(employee string, year int, month time.Month) map[string]model.TimeEntry {
	return s.store.GetEntries(employee, year, month)
}

func (s *Session) Snapshot() model.Snapshot { return s.store.Snapshot() }

// Projects lists every distinct non-empty project name in use, sorted.
func (s *Session) Projects() []string {
	seen := map[string]bool{}
	for _, entries := range s.store.Snapshot().Entries {
		for _, e := range entries {
			if p := strings.TrimSpace(e.Project); p != "" {
				seen[p] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// AddEmployee adds a name to the roster and saves the roster.
func (s *Session) AddEmployee(ctx context.Context, name string) (string, error) {
	added, err := s.store.AddEmployee(name)
	if err != nil {
		return "", err
	}
	s.log.WithField("employee", added).Info("employee added")
	return added, s.saveEmployees(ctx)
}

// DeleteEmployee removes an employee with all entries and saves both snapshots.
func (s *Session) DeleteEmployee(ctx context.Context, name string) error {
	if err := s.store.DeleteEmployee(name); err != nil {
		return err
	}
	s.log.WithField("employee", name).Info("employee deleted")
	return s.save(ctx, true, true)
}

// SetField applies a grid edit and saves the entries.
func (s *Session) SetField(ctx context.Context, employee string, year int, month time.Month, day int, field timesheet.Field, value string) (model.TimeEntry, error) {
	e, err := s.store.SetField(employee, year, month, day, field, value)
	if err != nil {
		return model.TimeEntry{}, err
	}
	s.log.WithFields(logrus.Fields{"employee": employee, "id": e.ID, "field": field}).Debug("field updated")
	return e, s.saveEntries(ctx)
}

// Submit validates and stores a draft entry. A rejected draft is not saved.
func (s *Session) Submit(ctx context.Context, employee string, d timesheet.Draft) (model.TimeEntry, error) {
	e, err := s.store.Submit(employee, d)
	if err != nil {
		return model.TimeEntry{}, err
	}
	s.log.WithFields(logrus.Fields{"employee": employee, "id": e.ID}).Info("entry submitted")
	return e, s.saveEntries(ctx)
}

// UpsertEntry stores a complete entry and saves the entries.
func (s *Session) UpsertEntry(ctx context.Context, employee string, entry model.TimeEntry) (model.TimeEntry, error) {
	e, err := s.store.UpsertEntry(employee, entry)
	if err != nil {
		return model.TimeEntry{}, err
	}
	return e, s.saveEntries(ctx)
}

// DeleteEntry removes one entry and saves the entries.
func (s *Session) DeleteEntry(ctx context.Context, employee, id string) error {
	if err := s.store.DeleteEntry(employee, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"employee": employee, "id": id}).Info("entry deleted")
	return s.saveEntries(ctx)
}

// Replace swaps in a full snapshot, e.g. from an import, and saves it.
func (s *Session) Replace(ctx context.Context, snap model.Snapshot) error {
	s.store.Replace(snap)
	return s.save(ctx, true, true)
}

// Report aggregates one employee's month.
func (s *Session) Report(employee string, year int, month time.Month) (report.Month, error) {
	if !s.store.HasEmployee(employee) {
		return report.Month{}, fmt.Errorf("%w: %q", timesheet.ErrUnknownEmployee, employee)
	}
	return report.ForEmployee(employee, s.store.GetEntries(employee, year, month), year, month), nil
}

// Grid returns one row per calendar day of the month plus the month aggregate.
func (s *Session) Grid(employee string, year int, month time.Month) ([]report.GridRow, report.Month, error) {
	if !s.store.HasEmployee(employee) {
		return nil, report.Month{}, fmt.Errorf("%w: %q", timesheet.ErrUnknownEmployee, employee)
	}
	entries := s.store.GetEntries(employee, year, month)
	return report.MonthGrid(entries, year, month), report.ForEmployee(employee, entries, year, month), nil
}

func (s *Session) saveEmployees(ctx context.Context) error {
	return s.save(ctx, true, false)
}

func (s *Session) saveEntries(ctx context.Context) error {
	return s.save(ctx, false, true)
}

// save writes the selected snapshots. Both are attempted even if the first
// fails; failures are joined into one PersistError.
func (s *Session) save(ctx context.Context, employees, entries bool) error {
	if s.persist == nil {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	var failed []string
	var errs []error
	if employees {
		if err := s.persist.SaveEmployees(ctx, s.store.Employees()); err != nil {
			failed = append(failed, "employees")
			errs = append(errs, err)
		}
	}
	if entries {
		if err := s.persist.SaveEntries(ctx, s.store.Snapshot().Entries); err != nil {
			failed = append(failed, "entries")
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return s.persistFailed(strings.Join(failed, ", "), errors.Join(errs...))
}

func (s *Session) persistFailed(snapshot string, err error) error {
	s.log.WithError(err).WithField("snapshot", snapshot).Warn("could not save snapshot")
	return &PersistError{Snapshot: snapshot, Err: err}
}

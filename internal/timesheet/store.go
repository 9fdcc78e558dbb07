package timesheet

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

var (
	// ErrUnknownEmployee is returned when an operation names an employee not on the roster.
	ErrUnknownEmployee = errors.New("unknown employee")
	// ErrDuplicateEmployee is returned when adding a name that is already on the roster.
	ErrDuplicateEmployee = errors.New("employee already exists")
	// ErrEmptyName is returned when adding a blank employee name.
	ErrEmptyName = errors.New("employee name is required")
	// ErrEntryNotFound is returned when deleting an entry that does not exist.
	ErrEntryNotFound = errors.New("entry not found")
)

// Store owns the roster and all entries for a session. Every mutation builds
// new maps and swaps them in whole, so a map handed out by a read is never
// modified afterwards.
type Store struct {
	mu        sync.RWMutex
	employees []string
	entries   model.EmployeeEntryMap
}

// NewStore creates a store from a persisted snapshot. The snapshot is passed
// through NormaliseSnapshot first.
func NewStore(snap model.Snapshot) *Store {
	clean, _ := NormaliseSnapshot(snap)
	return &Store{
		employees: clean.Employees,
		entries:   clean.Entries,
	}
}

// NormaliseSnapshot cleans a loaded or imported snapshot: blank and repeated
// names are removed from the roster, entries of names not on the roster are
// dropped, ids are rewritten to the canonical form with Day derived from them,
// and totals are recomputed. Entries whose id does not name a real day are
// dropped. Every dropped item is reported in the returned slice.
func NormaliseSnapshot(snap model.Snapshot) (model.Snapshot, []string) {
	var dropped []string
	clean := model.Snapshot{
		Employees: []string{},
		Entries:   model.EmployeeEntryMap{},
	}
	for _, name := range snap.Employees {
		if name == "" || slices.Contains(clean.Employees, name) {
			continue
		}
		clean.Employees = append(clean.Employees, name)
	}

	names := make([]string, 0, len(snap.Entries))
	for name := range snap.Entries {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		entries := snap.Entries[name]
		if !slices.Contains(clean.Employees, name) {
			if len(entries) > 0 {
				dropped = append(dropped, fmt.Sprintf("%d entries of %q: not on the roster", len(entries), name))
			}
			continue
		}
		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		slices.Sort(keys)

		inner := make(map[string]model.TimeEntry, len(entries))
		canonical := map[string]bool{}
		for _, key := range keys {
			e := entries[key]
			year, month, day, ok := entryDate(e.ID, key)
			if !ok {
				dropped = append(dropped, fmt.Sprintf("entry %q of %q: not a valid date", key, name))
				continue
			}
			id := timecalc.EntryID(year, month, day)
			// An entry already stored under its canonical id wins over a
			// differently spelled duplicate.
			if _, seen := inner[id]; seen {
				if canonical[id] || e.ID != id {
					dropped = append(dropped, fmt.Sprintf("entry %q of %q: duplicate of %s", key, name, id))
					continue
				}
			}
			canonical[id] = e.ID == id
			e.ID = id
			e.Day = day
			e.Total = timecalc.ComputeDuration(e.Begin, e.End, e.Pause)
			inner[id] = e
		}
		clean.Entries[name] = inner
	}
	return clean, dropped
}

// entryDate reads the date from an entry's id, falling back to its map key.
// Unpadded months such as "2024-6-20" are accepted.
func entryDate(ids ...string) (int, time.Month, int, bool) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if y, m, d, err := timecalc.ParseEntryID(id); err == nil {
			return y, m, d, true
		}
		if t, err := time.Parse("2006-1-2", id); err == nil {
			return t.Year(), t.Month(), t.Day(), true
		}
	}
	return 0, 0, 0, false
}

// Employees returns the roster in insertion order.
func (s *Store) Employees() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.employees)
}

// HasEmployee reports whether name is on the roster.
func (s *Store) HasEmployee(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.employees, name)
}

// AddEmployee adds a trimmed name to the roster and returns it.
func (s *Store) AddEmployee(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.employees, name) {
		return "", fmt.Errorf("%w: %q", ErrDuplicateEmployee, name)
	}
	next := make([]string, 0, len(s.employees)+1)
	next = append(next, s.employees...)
	s.employees = append(next, name)
	return name, nil
}

// DeleteEmployee removes name from the roster together with all of its entries.
func (s *Store) DeleteEmployee(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.employees, name) {
		return fmt.Errorf("%w: %q", ErrUnknownEmployee, name)
	}

	roster := make([]string, 0, len(s.employees)-1)
	for _, e := range s.employees {
		if e != name {
			roster = append(roster, e)
		}
	}
	entries := make(model.EmployeeEntryMap, len(s.entries))
	for emp, m := range s.entries {
		if emp != name {
			entries[emp] = m
		}
	}
	s.employees = roster
	s.entries = entries
	return nil
}

// GetEntries returns the employee's entries whose id falls in the given month.
// The returned map is a copy and safe to modify.
func (s *Store) GetEntries(employee string, year int, month time.Month) map[string]model.TimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := timecalc.MonthPrefix(year, month)
	out := map[string]model.TimeEntry{}
	for id, e := range s.entries[employee] {
		if strings.HasPrefix(id, prefix) {
			out[id] = e
		}
	}
	return out
}

// AllEntries returns a copy of every entry of one employee.
func (s *Store) AllEntries(employee string) map[string]model.TimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.TimeEntry, len(s.entries[employee]))
	for id, e := range s.entries[employee] {
		out[id] = e
	}
	return out
}

// Entry looks up a single entry.
func (s *Store) Entry(employee, id string) (model.TimeEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[employee][id]
	return e, ok
}

// UpsertEntry stores entry for employee, replacing any entry with the same id.
// Total is recomputed; whatever the caller put there is ignored.
func (s *Store) UpsertEntry(employee string, entry model.TimeEntry) (model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.employees, employee) {
		return model.TimeEntry{}, fmt.Errorf("%w: %q", ErrUnknownEmployee, employee)
	}
	entry.Total = timecalc.ComputeDuration(entry.Begin, entry.End, entry.Pause)
	s.replace(employee, func(m map[string]model.TimeEntry) {
		m[entry.ID] = entry
	})
	return entry, nil
}

// Submit runs the validation layer over d and persists the accepted entry.
// A rejected draft leaves the store untouched.
func (s *Store) Submit(employee string, d Draft) (model.TimeEntry, error) {
	if !s.HasEmployee(employee) {
		return model.TimeEntry{}, fmt.Errorf("%w: %q", ErrUnknownEmployee, employee)
	}
	entry, err := Validate(d)
	if err != nil {
		return model.TimeEntry{}, err
	}
	return s.UpsertEntry(employee, entry)
}

// DeleteEntry removes a single entry.
func (s *Store) DeleteEntry(employee, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[employee][id]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrEntryNotFound, employee, id)
	}
	s.replace(employee, func(m map[string]model.TimeEntry) {
		delete(m, id)
	})
	return nil
}

// Snapshot returns a deep copy of the full state for persistence.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Snapshot{
		Employees: slices.Clone(s.employees),
		Entries:   s.entries.Clone(),
	}
}

// Replace swaps in an entirely new state, e.g. from an import.
func (s *Store) Replace(snap model.Snapshot) {
	fresh := NewStore(snap)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = fresh.employees
	s.entries = fresh.entries
}

// replace copies the employee's inner map, lets fn mutate the copy, and swaps
// both the inner and the outer map. Callers hold s.mu.
func (s *Store) replace(employee string, fn func(map[string]model.TimeEntry)) {
	inner := make(map[string]model.TimeEntry, len(s.entries[employee])+1)
	for id, e := range s.entries[employee] {
		inner[id] = e
	}
	fn(inner)

	outer := make(model.EmployeeEntryMap, len(s.entries)+1)
	for emp, m := range s.entries {
		outer[emp] = m
	}
	outer[employee] = inner
	s.entries = outer
}

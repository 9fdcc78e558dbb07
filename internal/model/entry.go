package model

// Default field values for an entry that has not been edited yet.
const (
	DefaultClock = "00:00"
	DefaultPause = 0
)

// TimeEntry is one employee's work record for one calendar day.
// Total is always derived from Begin, End and Pause and is never authored.
type TimeEntry struct {
	ID      string `json:"id" yaml:"id"`
	Day     int    `json:"day" yaml:"day"`
	Project string `json:"project" yaml:"project"`
	Notes   string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Begin   string `json:"begin" yaml:"begin"`
	End     string `json:"end" yaml:"end"`
	Pause   int    `json:"pause" yaml:"pause"`
	Total   int    `json:"total" yaml:"total"`
}

// Blank returns the default entry for the given id and day.
func Blank(id string, day int) TimeEntry {
	return TimeEntry{
		ID:    id,
		Day:   day,
		Begin: DefaultClock,
		End:   DefaultClock,
		Pause: DefaultPause,
	}
}

// EmployeeEntryMap maps an employee name to that employee's entries keyed by entry id.
type EmployeeEntryMap map[string]map[string]TimeEntry

// Clone returns a deep copy of m.
func (m EmployeeEntryMap) Clone() EmployeeEntryMap {
	out := make(EmployeeEntryMap, len(m))
	for name, entries := range m {
		inner := make(map[string]TimeEntry, len(entries))
		for id, e := range entries {
			inner[id] = e
		}
		out[name] = inner
	}
	return out
}

// Snapshot is the full persisted state: the roster plus every employee's entries.
type Snapshot struct {
	Employees []string         `json:"employees" yaml:"employees"`
	Entries   EmployeeEntryMap `json:"entries" yaml:"entries"`
}

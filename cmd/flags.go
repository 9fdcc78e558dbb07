package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// monthFlag is a --month YYYY-MM flag defaulting to the current month.
type monthFlag struct {
	year  int
	month time.Month
}

var _ pflag.Value = (*monthFlag)(nil)

func newMonthFlag(now time.Time) *monthFlag {
	return &monthFlag{year: now.Year(), month: now.Month()}
}

func (m *monthFlag) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, int(m.month))
}

func (m *monthFlag) Set(s string) error {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid month %q (want YYYY-MM)", s)
	}
	m.year, m.month = t.Year(), t.Month()
	return nil
}

func (m *monthFlag) Type() string { return "YYYY-MM" }

// parseDay parses YYYY-MM-DD, or "today".
func parseDay(s string, now time.Time) (int, time.Month, int, error) {
	if strings.EqualFold(s, "today") {
		return now.Year(), now.Month(), now.Day(), nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t.Year(), t.Month(), t.Day(), nil
}

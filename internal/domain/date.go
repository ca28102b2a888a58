package domain

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day with no time or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const isoDate = "2006-01-02"

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	isoDate,
	"01/02/2006",
	"01-02-2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate accepts ISO dates plus the US-style forms the reservation site uses.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

func (d Date) Time() time.Time { return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC) }

func (d Date) String() string { return d.Time().Format(isoDate) }

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

func (d Date) After(o Date) bool { return d.Time().After(o.Time()) }

func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

// Format renders the date with a time layout, e.g. "01/02/2006".
func (d Date) Format(layout string) string { return d.Time().Format(layout) }

// Window is an inclusive range of dates tracked by a run.
type Window struct {
	Start Date
	End   Date
}

func NewWindow(start, end Date) (Window, error) {
	if start.IsZero() || end.IsZero() {
		return Window{}, fmt.Errorf("%w: start and end dates are required", ErrInvalidConfig)
	}
	if end.Before(start) {
		return Window{}, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidConfig, end, start)
	}
	return Window{Start: start, End: end}, nil
}

func (w Window) Contains(d Date) bool { return !d.Before(w.Start) && !d.After(w.End) }

// Days is the number of dates in the window, both ends included.
func (w Window) Days() int {
	return int(w.End.Time().Sub(w.Start.Time()).Hours()/24) + 1
}

func (w Window) Dates() []Date {
	out := make([]Date, 0, w.Days())
	for d := w.Start; !d.After(w.End); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

func (d Date) MarshalJSON() ([]byte, error) { return []byte(`"` + d.String() + `"`), nil }

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

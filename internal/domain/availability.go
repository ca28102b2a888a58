package domain

import (
	"sort"
	"time"
)

// TupleKey identifies one tracked (date, hotel, room) combination.
type TupleKey struct {
	Date      Date
	HotelCode string
	RoomCode  string
}

// Less orders keys by date, then hotel code, then room code.
func (k TupleKey) Less(o TupleKey) bool {
	if k.Date != o.Date {
		return k.Date.Before(o.Date)
	}
	if k.HotelCode != o.HotelCode {
		return k.HotelCode < o.HotelCode
	}
	return k.RoomCode < o.RoomCode
}

// Observation is one row of fetched availability.
type Observation struct {
	Key       TupleKey
	Available int // 0 means unavailable
	Price     *float64
	SampledAt time.Time
	Updated   string // upstream "updated" value, kept verbatim
}

// FetchFailure records a hotel (and optionally a single date) whose data could
// not be fetched or parsed during a cycle.
type FetchFailure struct {
	HotelCode string `json:"hotel_code"`
	Date      *Date  `json:"date,omitempty"`
	RawDate   string `json:"raw_date,omitempty"` // set when the upstream date could not be parsed
	Reason    string `json:"reason"`
}

// WholeHotel reports whether nothing at all was obtained for the hotel.
func (f FetchFailure) WholeHotel() bool { return f.Date == nil && f.RawDate == "" }

// Table is the raw availability table returned by a Fetcher.
type Table struct {
	Observations []Observation
	Failures     []FetchFailure
}

// Counts folds the table into a per-tuple count. A later duplicate wins.
func (t Table) Counts() map[TupleKey]int {
	out := make(map[TupleKey]int, len(t.Observations))
	for _, o := range t.Observations {
		out[o.Key] = o.Available
	}
	return out
}

func (t Table) HotelCodes() []string {
	seen := map[string]struct{}{}
	for _, o := range t.Observations {
		seen[o.Key.HotelCode] = struct{}{}
	}
	return sortedKeys(seen)
}

func (t Table) RoomCodes() []string {
	seen := map[string]struct{}{}
	for _, o := range t.Observations {
		seen[o.Key.RoomCode] = struct{}{}
	}
	return sortedKeys(seen)
}

// Snapshot maps each tuple to its last observed count.
type Snapshot map[TupleKey]int

func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Prune drops entries whose date is outside w.
func (s Snapshot) Prune(w Window) Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		if w.Contains(k.Date) {
			out[k] = v
		}
	}
	return out
}

// Keys returns the snapshot keys in (date, hotel, room) order.
func (s Snapshot) Keys() []TupleKey {
	keys := make([]TupleKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}

func SortKeys(keys []TupleKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

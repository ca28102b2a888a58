package app

import (
	"sort"

	"glacier_alert/internal/domain"
)

// DiffResult holds the events of one comparison and the snapshot to persist.
type DiffResult struct {
	Events   []domain.TransitionEvent
	Snapshot domain.Snapshot
}

// Diff compares a fetched table with the prior snapshot.
//
// Only watched tuples produce events. A tuple missing from prior counts as 0.
// Tuples missing from t produce nothing and keep their prior count. Every
// tuple present in t, watched or not, takes its fetched count in the result
// snapshot.
func Diff(t domain.Table, prior domain.Snapshot, watched map[domain.TupleKey]struct{}) DiffResult {
	next := prior.Clone()
	var events []domain.TransitionEvent

	for key, cur := range t.Counts() {
		next[key] = cur
		if _, ok := watched[key]; !ok {
			continue
		}
		prev := prior[key]
		switch {
		case prev == 0 && cur > 0:
			events = append(events, domain.TransitionEvent{Key: key, Previous: prev, Current: cur, Direction: domain.BecameAvailable})
		case prev > 0 && cur == 0:
			events = append(events, domain.TransitionEvent{Key: key, Previous: prev, Current: cur, Direction: domain.BecameUnavailable})
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Key.Less(events[j].Key) })
	return DiffResult{Events: events, Snapshot: next}
}

// Rollback returns the result snapshot with every evented tuple reset to its
// prior state, so the next comparison detects the same transitions again.
func (r DiffResult) Rollback(prior domain.Snapshot) domain.Snapshot {
	out := r.Snapshot.Clone()
	for _, e := range r.Events {
		if prev, ok := prior[e.Key]; ok {
			out[e.Key] = prev
		} else {
			delete(out, e.Key)
		}
	}
	return out
}

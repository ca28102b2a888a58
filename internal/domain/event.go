package domain

import "time"

type Direction string

const (
	BecameAvailable   Direction = "became_available"
	BecameUnavailable Direction = "became_unavailable"
)

// TransitionEvent is a zero/non-zero change of a watched tuple between two cycles.
type TransitionEvent struct {
	Key       TupleKey
	Previous  int
	Current   int
	Direction Direction
}

// ResolvedEvent is a TransitionEvent with display names attached.
type ResolvedEvent struct {
	TransitionEvent
	HotelTitle string
	RoomTitle  string
}

// Notification is what a Notifier delivers for one cycle.
type Notification struct {
	RunID  string
	SentAt time.Time
	Events []ResolvedEvent
}

func (n Notification) Count(d Direction) int {
	c := 0
	for _, e := range n.Events {
		if e.Direction == d {
			c++
		}
	}
	return c
}

// Report summarises one orchestrated cycle.
type Report struct {
	RunID          string         `json:"run_id"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	WindowStart    string         `json:"window_start"`
	WindowEnd      string         `json:"window_end"`
	Hotels         int            `json:"hotels"`
	Observations   int            `json:"observations"`
	Watched        int            `json:"watched"`
	Available      int            `json:"became_available"`
	Unavailable    int            `json:"became_unavailable"`
	Failures       []FetchFailure `json:"failures,omitempty"`
	Notified       bool           `json:"notified"`
	NotifyError    string         `json:"notify_error,omitempty"`
	Persisted      bool           `json:"persisted"`
	TitlesAdded    int            `json:"titles_added"`
	SnapshotTuples int            `json:"snapshot_tuples"`
	Error          string         `json:"error,omitempty"`
}

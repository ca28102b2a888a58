package domain

// HotelRooms selects rooms of one hotel. No room codes means every room.
type HotelRooms struct {
	HotelCode string
	RoomCodes []string
}

func (h HotelRooms) Wildcard() bool { return len(h.RoomCodes) == 0 }

// AlertRule watches every listed hotel/room on every listed date.
// No dates means every date of the run window.
type AlertRule struct {
	Dates  []Date
	Hotels []HotelRooms
}

// AlertSpec is the validated alert configuration for a run.
type AlertSpec struct {
	Rules []AlertRule
}

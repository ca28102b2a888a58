package domain

type Namespace string

const (
	NamespaceHotel Namespace = "hotel"
	NamespaceRoom  Namespace = "room"
)

// TitleEntry maps an opaque hotel or room code to its display name.
type TitleEntry struct {
	Namespace Namespace
	Code      string
	Title     string
}

// Catalog is the hotel/room listing published by the reservation site.
type Catalog struct {
	Hotels []TitleEntry
	Rooms  []TitleEntry
	// RoomsByHotel lists room codes per hotel code.
	RoomsByHotel map[string][]string
}

func (c Catalog) Entries() []TitleEntry {
	out := make([]TitleEntry, 0, len(c.Hotels)+len(c.Rooms))
	out = append(out, c.Hotels...)
	return append(out, c.Rooms...)
}

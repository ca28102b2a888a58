package app

import (
	"sort"

	"glacier_alert/internal/domain"
)

type compiledRule struct {
	dates  map[domain.Date]struct{}       // nil: every date
	hotels map[string]map[string]struct{} // nil room set: every room
}

func compileRule(r domain.AlertRule) compiledRule {
	var cr compiledRule
	if len(r.Dates) > 0 {
		cr.dates = make(map[domain.Date]struct{}, len(r.Dates))
		for _, d := range r.Dates {
			cr.dates[d] = struct{}{}
		}
	}
	cr.hotels = make(map[string]map[string]struct{}, len(r.Hotels))
	for _, h := range r.Hotels {
		rooms, seen := cr.hotels[h.HotelCode]
		switch {
		case h.Wildcard():
			cr.hotels[h.HotelCode] = nil
		case seen && rooms == nil:
			// already a wildcard for this hotel
		default:
			if rooms == nil {
				rooms = make(map[string]struct{}, len(h.RoomCodes))
				cr.hotels[h.HotelCode] = rooms
			}
			for _, rc := range h.RoomCodes {
				rooms[rc] = struct{}{}
			}
		}
	}
	return cr
}

func (cr compiledRule) match(k domain.TupleKey) bool {
	if cr.dates != nil {
		if _, ok := cr.dates[k.Date]; !ok {
			return false
		}
	}
	rooms, ok := cr.hotels[k.HotelCode]
	if !ok {
		return false
	}
	if rooms == nil {
		return true
	}
	_, ok = rooms[k.RoomCode]
	return ok
}

// Watch returns the tuples of t selected by spec. Codes in spec that never
// appear in t are ignored.
func Watch(spec domain.AlertSpec, t domain.Table) map[domain.TupleKey]struct{} {
	rules := make([]compiledRule, 0, len(spec.Rules))
	for _, r := range spec.Rules {
		rules = append(rules, compileRule(r))
	}
	out := make(map[domain.TupleKey]struct{})
	for _, o := range t.Observations {
		if _, done := out[o.Key]; done {
			continue
		}
		for _, cr := range rules {
			if cr.match(o.Key) {
				out[o.Key] = struct{}{}
				break
			}
		}
	}
	return out
}

// UnlistedRooms returns, per hotel, the room codes named in spec that the
// catalog does not list for that hotel. Hotels without a room list in the
// catalog are skipped.
func UnlistedRooms(spec domain.AlertSpec, cat domain.Catalog) []domain.HotelRooms {
	missing := map[string]map[string]struct{}{}
	for _, rule := range spec.Rules {
		for _, h := range rule.Hotels {
			listed, ok := cat.RoomsByHotel[h.HotelCode]
			if !ok {
				continue
			}
			for _, rc := range h.RoomCodes {
				if contains(listed, rc) {
					continue
				}
				if missing[h.HotelCode] == nil {
					missing[h.HotelCode] = map[string]struct{}{}
				}
				missing[h.HotelCode][rc] = struct{}{}
			}
		}
	}
	out := make([]domain.HotelRooms, 0, len(missing))
	for hotel, rooms := range missing {
		hr := domain.HotelRooms{HotelCode: hotel}
		for rc := range rooms {
			hr.RoomCodes = append(hr.RoomCodes, rc)
		}
		sort.Strings(hr.RoomCodes)
		out = append(out, hr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HotelCode < out[j].HotelCode })
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

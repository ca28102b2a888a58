package xanterra

import (
	"net/url"

	"glacier_alert/internal/domain"
)

const DefaultBookingURL = "https://secure.glaciernationalparklodges.com/booking/lodging-select"

// Linker builds booking-page links for one night at a hotel.
type Linker struct{ Base string }

func (l Linker) Link(hotel string, d domain.Date) string {
	base := l.Base
	if base == "" {
		base = DefaultBookingURL
	}
	q := url.Values{}
	q.Set("dateFrom", d.Format("01-02-2006"))
	q.Set("nights", "1")
	q.Set("destination", hotel)
	q.Set("adults", "1")
	q.Set("children", "0")
	return base + "?" + q.Encode()
}

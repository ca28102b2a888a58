package xanterra

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"glacier_alert/internal/domain"
)

// Catalog lists hotels and, per hotel, its rooms. A hotel whose room list
// cannot be fetched is kept; its rooms are picked up by a later refresh.
func (c *Client) Catalog(ctx context.Context) (domain.Catalog, error) {
	var raw any
	u := fmt.Sprintf("%s/property/hotels/%s", c.base, url.PathEscape(c.property))
	if err := c.get(ctx, "hotels", u, &raw); err != nil {
		return domain.Catalog{}, fmt.Errorf("list hotels: %w", err)
	}

	cat := domain.Catalog{RoomsByHotel: map[string][]string{}}
	for _, h := range objects(raw) {
		code := firstStr(h, codeAliases...)
		if code == "" {
			continue
		}
		cat.Hotels = append(cat.Hotels, domain.TitleEntry{
			Namespace: domain.NamespaceHotel,
			Code:      code,
			Title:     cleanTitle(firstStr(h, titleAliases...)),
		})
	}
	if len(cat.Hotels) == 0 {
		return domain.Catalog{}, fmt.Errorf("list hotels: %w", domain.ErrNoHotels)
	}

	for _, h := range cat.Hotels {
		rooms, err := c.rooms(ctx, h.Code)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Catalog{}, ctx.Err()
			}
			zerolog.Ctx(ctx).Warn().Err(err).Str("hotel", h.Code).Msg("room titles unavailable")
			continue
		}
		for _, r := range rooms {
			cat.Rooms = append(cat.Rooms, r)
			cat.RoomsByHotel[h.Code] = append(cat.RoomsByHotel[h.Code], r.Code)
		}
	}
	return cat, nil
}

func (c *Client) rooms(ctx context.Context, hotel string) ([]domain.TitleEntry, error) {
	var raw any
	u := fmt.Sprintf("%s/property/rooms/%s/%s", c.base, url.PathEscape(c.property), url.PathEscape(hotel))
	if err := c.get(ctx, "rooms", u, &raw); err != nil {
		return nil, err
	}
	var out []domain.TitleEntry
	for _, r := range objects(raw) {
		code := firstStr(r, codeAliases...)
		if code == "" {
			continue
		}
		out = append(out, domain.TitleEntry{
			Namespace: domain.NamespaceRoom,
			Code:      code,
			Title:     cleanTitle(firstStr(r, titleAliases...)),
		})
	}
	return out, nil
}

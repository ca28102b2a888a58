package xanterra

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"glacier_alert/internal/domain"
)

// Availability fetches one-night availability for every hotel over w.
// Per-hotel and per-date problems are reported as failures in the table; an
// error is returned only when ctx ends.
func (c *Client) Availability(ctx context.Context, hotels []string, w domain.Window) (domain.Table, error) {
	sem := semaphore.NewWeighted(int64(c.workers))
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		table domain.Table
	)

	for _, code := range hotels {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(hotel string) {
			defer wg.Done()
			defer sem.Release(1)

			obs, fails, err := c.hotelAvailability(ctx, hotel, w)
			if err != nil {
				fails = append(fails, domain.FetchFailure{HotelCode: hotel, Reason: err.Error()})
			}
			mu.Lock()
			table.Observations = append(table.Observations, obs...)
			table.Failures = append(table.Failures, fails...)
			mu.Unlock()
		}(code)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}
	sortObservations(table.Observations)
	return table, nil
}

func (c *Client) hotelAvailability(ctx context.Context, hotel string, w domain.Window) ([]domain.Observation, []domain.FetchFailure, error) {
	q := url.Values{}
	q.Set("date", w.Start.Format("01/02/2006"))
	q.Set("nights", "1")
	q.Set("limit", strconv.Itoa(w.Days()))
	q.Set("rate_code", c.rateCode)
	q.Set("is_group", "false")
	u := fmt.Sprintf("%s/availability/rooms/%s/%s?%s", c.base, url.PathEscape(c.property), url.PathEscape(hotel), q.Encode())

	var payload map[string]any
	if err := c.get(ctx, "availability", u, &payload); err != nil {
		return nil, nil, err
	}
	days, ok := payload["availability"]
	if !ok {
		return nil, nil, fmt.Errorf("unexpected payload: no availability field")
	}
	obs, fails := c.parseDays(ctx, hotel, w, objects(days))
	return obs, fails, nil
}

// parseDays maps the per-day objects of one hotel. A day with a bad date or
// any malformed room row is dropped as a whole.
func (c *Client) parseDays(ctx context.Context, hotel string, w domain.Window, days []map[string]any) ([]domain.Observation, []domain.FetchFailure) {
	sampled := c.now().UTC()
	var (
		out   []domain.Observation
		fails []domain.FetchFailure
	)
	for _, day := range days {
		rawDate := firstStr(day, "date", "day")
		d, err := domain.ParseDate(rawDate)
		if err != nil {
			fails = append(fails, domain.FetchFailure{HotelCode: hotel, RawDate: orUnknown(rawDate), Reason: "unparseable date"})
			continue
		}
		if !w.Contains(d) {
			continue
		}

		rows, ok := day["rooms"].([]any)
		if !ok {
			date := d
			fails = append(fails, domain.FetchFailure{HotelCode: hotel, Date: &date, Reason: "missing rooms list"})
			continue
		}

		byRoom := map[string]domain.Observation{}
		var bad string
		for _, it := range rows {
			r, ok := it.(map[string]any)
			if !ok {
				bad = "room row is not an object"
				break
			}
			if rc := firstStr(r, roomRowAliases["rate_code"]...); !strings.EqualFold(rc, c.rateCode) {
				continue
			}
			room := firstStr(r, roomRowAliases["room_code"]...)
			n, ok := firstCount(r, roomRowAliases["available"]...)
			if room == "" || !ok {
				bad = "room row without code or count"
				break
			}
			o := domain.Observation{
				Key:       domain.TupleKey{Date: d, HotelCode: hotel, RoomCode: room},
				Available: n,
				SampledAt: sampled,
				Updated:   firstStr(r, roomRowAliases["updated"]...),
			}
			if p, ok := firstFloat(r, roomRowAliases["price"]...); ok {
				o.Price = &p
			}
			// the same room can be listed more than once; keep the largest count
			if prev, seen := byRoom[room]; !seen || o.Available > prev.Available {
				byRoom[room] = o
			}
		}
		if bad != "" {
			date := d
			fails = append(fails, domain.FetchFailure{HotelCode: hotel, Date: &date, Reason: bad})
			continue
		}
		for _, o := range byRoom {
			out = append(out, o)
		}
	}
	if len(fails) > 0 {
		zerolog.Ctx(ctx).Debug().Str("hotel", hotel).Int("failed_days", len(fails)).Msg("partial availability")
	}
	return out, fails
}

func sortObservations(obs []domain.Observation) {
	sort.Slice(obs, func(i, j int) bool { return obs[i].Key.Less(obs[j].Key) })
}

func orUnknown(s string) string {
	if s == "" {
		return "(missing)"
	}
	return s
}

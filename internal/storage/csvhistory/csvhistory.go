// Package csvhistory appends observations to a CSV file, one row per
// (date, hotel, room) sample.
package csvhistory

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"glacier_alert/internal/domain"
)

var header = []string{"sampled_at", "date", "hotel_code", "room_code", "available", "price", "updated"}

type Writer struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Writer { return &Writer{path: path} }

// AppendHistory writes obs to the end of the file, adding the header when the
// file is new or empty.
func (w *Writer) AppendHistory(ctx context.Context, obs []domain.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history csv: %w", err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat history csv: %w", err)
	}

	cw := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	for _, o := range obs {
		price := ""
		if o.Price != nil {
			price = strconv.FormatFloat(*o.Price, 'f', -1, 64)
		}
		rec := []string{
			o.SampledAt.UTC().Format(time.RFC3339),
			o.Key.Date.String(),
			o.Key.HotelCode,
			o.Key.RoomCode,
			strconv.Itoa(o.Available),
			price,
			o.Updated,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush history csv: %w", err)
	}
	return f.Close()
}

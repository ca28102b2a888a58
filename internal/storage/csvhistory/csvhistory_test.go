package csvhistory

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"glacier_alert/internal/domain"
)

func TestAppendHistory_HeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.csv")
	w := New(path)
	price := 199.0
	at := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	obs := []domain.Observation{
		{Key: domain.TupleKey{Date: domain.Date{Year: 2026, Month: time.July, Day: 4}, HotelCode: "LMDL", RoomCode: "DQ"}, Available: 2, Price: &price, SampledAt: at},
	}
	ctx := context.Background()
	if err := w.AppendHistory(ctx, obs); err != nil {
		t.Fatalf("first append: %v", err)
	}
	obs[0].Available = 0
	obs[0].Price = nil
	if err := w.AppendHistory(ctx, obs); err != nil {
		t.Fatalf("second append: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "sampled_at" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][4] != "2" || rows[1][5] != "199" || rows[2][4] != "0" || rows[2][5] != "" {
		t.Fatalf("rows = %v", rows[1:])
	}
	if rows[1][1] != "2026-07-04" || rows[1][0] != "2026-06-01T09:00:00Z" {
		t.Fatalf("row = %v", rows[1])
	}
}

func TestAppendHistory_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.csv")
	if err := New(path).AppendHistory(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file created for empty batch: %v", err)
	}
}

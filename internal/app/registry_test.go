package app_test

import (
	"context"
	"reflect"
	"testing"

	"glacier_alert/internal/app"
	"glacier_alert/internal/domain"
)

func TestTitleRegistry_ResolveFallsBackToCode(t *testing.T) {
	reg := app.NewTitleRegistry(&fakeTitles{})
	if err := reg.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := reg.Resolve("H9", domain.NamespaceHotel); got != "H9" {
		t.Fatalf("got %q want H9", got)
	}
}

func TestTitleRegistry_MergeNeverOverwrites(t *testing.T) {
	store := &fakeTitles{entries: []domain.TitleEntry{
		{Namespace: domain.NamespaceHotel, Code: "LMH", Title: "Lake McDonald Lodge"},
	}}
	reg := app.NewTitleRegistry(store)
	ctx := context.Background()
	if err := reg.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	added, err := reg.Merge(ctx, []domain.TitleEntry{
		{Namespace: domain.NamespaceHotel, Code: "LMH", Title: "Renamed"},
		{Namespace: domain.NamespaceHotel, Code: "MG", Title: "Many Glacier Hotel"},
		{Namespace: domain.NamespaceRoom, Code: "LMH", Title: "Same code, room namespace"},
		{Namespace: domain.NamespaceHotel, Code: "MG", Title: "Duplicate in batch"},
		{Namespace: domain.NamespaceRoom, Code: " "},
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if added != 2 {
		t.Fatalf("added %d, want 2", added)
	}
	if got := reg.Resolve("LMH", domain.NamespaceHotel); got != "Lake McDonald Lodge" {
		t.Fatalf("existing mapping overwritten: %q", got)
	}
	if got := reg.Resolve("MG", domain.NamespaceHotel); got != "Many Glacier Hotel" {
		t.Fatalf("got %q", got)
	}
	if got := reg.Resolve("LMH", domain.NamespaceRoom); got != "Same code, room namespace" {
		t.Fatalf("namespaces must be separate, got %q", got)
	}
	if !reflect.DeepEqual(reg.HotelCodes(), []string{"LMH", "MG"}) {
		t.Fatalf("hotel codes: %v", reg.HotelCodes())
	}

	// nothing new: store is not touched
	before := store.adds
	if n, _ := reg.Merge(ctx, []domain.TitleEntry{{Namespace: domain.NamespaceHotel, Code: "MG", Title: "x"}}); n != 0 || store.adds != before {
		t.Fatalf("expected no-op merge")
	}
}

func TestTitleRegistry_MergeStoreFailureKeepsMemoryClean(t *testing.T) {
	reg := app.NewTitleRegistry(&fakeTitles{err: errBoom})
	_, err := reg.Merge(context.Background(), []domain.TitleEntry{{Namespace: domain.NamespaceHotel, Code: "H1", Title: "One"}})
	if err == nil {
		t.Fatalf("expected store error")
	}
	if reg.Known("H1", domain.NamespaceHotel) {
		t.Fatalf("failed merge must not be visible")
	}
}

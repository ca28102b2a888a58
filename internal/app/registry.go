package app

import (
	"context"
	"sort"
	"strings"
	"sync"

	"glacier_alert/internal/domain"
)

// TitleRegistry resolves hotel and room codes to display names. Entries are
// only ever added; an existing mapping is never overwritten.
type TitleRegistry struct {
	store domain.TitleStore

	mu     sync.RWMutex
	titles map[domain.Namespace]map[string]string
}

func NewTitleRegistry(store domain.TitleStore) *TitleRegistry {
	return &TitleRegistry{store: store, titles: map[domain.Namespace]map[string]string{}}
}

// Load replaces the in-memory view with the stored titles.
func (r *TitleRegistry) Load(ctx context.Context) error {
	entries, err := r.store.LoadTitles(ctx)
	if err != nil {
		return err
	}
	titles := map[domain.Namespace]map[string]string{}
	for _, e := range entries {
		ns := titles[e.Namespace]
		if ns == nil {
			ns = map[string]string{}
			titles[e.Namespace] = ns
		}
		if _, ok := ns[e.Code]; !ok {
			ns[e.Code] = e.Title
		}
	}
	r.mu.Lock()
	r.titles = titles
	r.mu.Unlock()
	return nil
}

// Merge persists and remembers the entries whose code is not known yet.
// It returns how many entries were added.
func (r *TitleRegistry) Merge(ctx context.Context, entries []domain.TitleEntry) (int, error) {
	r.mu.RLock()
	fresh := make([]domain.TitleEntry, 0, len(entries))
	batch := map[domain.Namespace]map[string]struct{}{}
	for _, e := range entries {
		e.Code = strings.TrimSpace(e.Code)
		if e.Code == "" {
			continue
		}
		if _, ok := r.titles[e.Namespace][e.Code]; ok {
			continue
		}
		if _, ok := batch[e.Namespace][e.Code]; ok {
			continue
		}
		if batch[e.Namespace] == nil {
			batch[e.Namespace] = map[string]struct{}{}
		}
		batch[e.Namespace][e.Code] = struct{}{}
		fresh = append(fresh, e)
	}
	r.mu.RUnlock()

	if len(fresh) == 0 {
		return 0, nil
	}
	if err := r.store.AddTitles(ctx, fresh); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range fresh {
		ns := r.titles[e.Namespace]
		if ns == nil {
			ns = map[string]string{}
			r.titles[e.Namespace] = ns
		}
		if _, ok := ns[e.Code]; !ok {
			ns[e.Code] = e.Title
		}
	}
	return len(fresh), nil
}

// Resolve returns the display name for code, or code itself when unknown.
func (r *TitleRegistry) Resolve(code string, ns domain.Namespace) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t := strings.TrimSpace(r.titles[ns][code]); t != "" {
		return t
	}
	return code
}

func (r *TitleRegistry) Known(code string, ns domain.Namespace) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.titles[ns][code]
	return ok
}

// HotelCodes lists the known hotel codes in sorted order.
func (r *TitleRegistry) HotelCodes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.titles[domain.NamespaceHotel]))
	for code := range r.titles[domain.NamespaceHotel] {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

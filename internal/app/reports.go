package app

import (
	"context"
	"sync"

	"glacier_alert/internal/domain"
)

// MemoryReports keeps the last report in process memory.
type MemoryReports struct {
	mu   sync.RWMutex
	last *domain.Report
}

func NewMemoryReports() *MemoryReports { return &MemoryReports{} }

func (m *MemoryReports) SaveReport(_ context.Context, r domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = &r
	return nil
}

func (m *MemoryReports) LastReport(_ context.Context) (domain.Report, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return domain.Report{}, false, nil
	}
	return *m.last, true, nil
}

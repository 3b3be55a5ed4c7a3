// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	days     map[worktime.DateKey]worktime.DayEntry
	settings worktime.Settings
}

func NewMemory() *Memory {
	return &Memory{
		days:     make(map[worktime.DateKey]worktime.DayEntry),
		settings: worktime.DefaultSettings(),
	}
}

// SaveDay upserts by normalized date. The stored value is a private copy.
func (m *Memory) SaveDay(_ context.Context, day worktime.DayEntry) error {
	if _, err := worktime.ParseDayType(string(day.Type)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := day.Clone()
	c.Date = worktime.StartOfDay(c.Date)
	m.days[c.Key()] = c
	return nil
}

func (m *Memory) GetDay(_ context.Context, date time.Time) (worktime.DayEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	day, ok := m.days[worktime.KeyOf(date)]
	if !ok {
		return worktime.DayEntry{}, worktime.ErrDayNotFound
	}
	return day.Clone(), nil
}

func (m *Memory) DeleteDay(_ context.Context, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.days, worktime.KeyOf(date))
	return nil
}

func (m *Memory) ListDays(_ context.Context, from, to time.Time) ([]worktime.DayEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	period := worktime.Period{Start: from, End: to}
	var result []worktime.DayEntry
	for _, day := range m.days {
		if period.Contains(day.Date) {
			result = append(result, day.Clone())
		}
	}
	sortByDate(result)
	return result, nil
}

func (m *Memory) Snapshot(_ context.Context) (worktime.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]worktime.DayEntry, 0, len(m.days))
	for _, day := range m.days {
		entries = append(entries, day.Clone())
	}
	sortByDate(entries)
	return worktime.Snapshot{Entries: entries, Settings: m.settings}, nil
}

func (m *Memory) GetSettings(_ context.Context) (worktime.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

func (m *Memory) SaveSettings(_ context.Context, settings worktime.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
	return nil
}

// Reset clears all entries and restores default settings.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days = make(map[worktime.DateKey]worktime.DayEntry)
	m.settings = worktime.DefaultSettings()
	return nil
}

func sortByDate(days []worktime.DayEntry) {
	sort.Slice(days, func(i, j int) bool {
		return days[i].Key().Before(days[j].Key())
	})
}

var _ worktime.Store = (*Memory)(nil)

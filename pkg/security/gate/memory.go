package gate

import (
	"context"
	"sync"
	"time"
)

// MemoryWindow is a per-process sliding-window log.
type MemoryWindow struct {
	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

func NewMemoryWindow() *MemoryWindow {
	return &MemoryWindow{hits: make(map[string][]time.Time), now: time.Now}
}

// WithClock overrides the time source.
func (w *MemoryWindow) WithClock(now func() time.Time) *MemoryWindow {
	w.now = now
	return w
}

func (w *MemoryWindow) Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	now := w.now()
	cutoff := now.Add(-window)

	w.mu.Lock()
	defer w.mu.Unlock()

	hits := w.hits[key]
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	hits = hits[i:]
	if len(hits) >= max {
		w.hits[key] = hits
		return false, nil
	}
	w.hits[key] = append(hits, now)
	return true, nil
}

// Sweep drops keys with no hits inside window.
func (w *MemoryWindow) Sweep(window time.Duration) {
	cutoff := w.now().Add(-window)
	w.mu.Lock()
	defer w.mu.Unlock()
	for k, hits := range w.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(w.hits, k)
		}
	}
}

// RunSweeper calls Sweep every interval until ctx is done.
func (w *MemoryWindow) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.Sweep(interval)
		}
	}
}

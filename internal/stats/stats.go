// Package stats keeps rolling-window figures about pagination passes.
package stats

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	at     time.Time
	micros int64
	pages  int
}

// Snapshot aggregates the samples currently inside the window.
type Snapshot struct {
	Passes   int     `json:"passes"`
	MinUs    int64   `json:"min_us"`
	MaxUs    int64   `json:"max_us"`
	AvgUs    float64 `json:"avg_us"`
	P50Us    float64 `json:"p50_us"`
	P95Us    float64 `json:"p95_us"`
	P99Us    float64 `json:"p99_us"`
	AvgPages float64 `json:"avg_pages"`
	MaxPages int     `json:"max_pages"`
}

// Pagination records how long pagination passes take and how many pages they
// produce, keeping only samples younger than the window.
type Pagination struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

func NewPagination(window time.Duration) *Pagination {
	if window <= 0 {
		window = time.Hour
	}
	return &Pagination{
		samples: make([]sample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

// Observe records one pagination pass.
func (p *Pagination) Observe(elapsed time.Duration, pages int) {
	micros := elapsed.Microseconds()
	if micros < 0 {
		micros = 0
	}
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.pruneLocked(now)
	p.samples = append(p.samples, sample{at: now, micros: micros, pages: pages})
}

func (p *Pagination) Snapshot() Snapshot {
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.pruneLocked(now)
	if len(p.samples) == 0 {
		return Snapshot{}
	}

	values := make([]int64, 0, len(p.samples))
	var sum int64
	pageSum := 0
	snap := Snapshot{Passes: len(p.samples)}
	for _, s := range p.samples {
		values = append(values, s.micros)
		sum += s.micros
		pageSum += s.pages
		snap.MaxPages = max(snap.MaxPages, s.pages)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.MinUs = values[0]
	snap.MaxUs = values[len(values)-1]
	snap.AvgUs = float64(sum) / float64(len(values))
	snap.P50Us = percentile(values, 50)
	snap.P95Us = percentile(values, 95)
	snap.P99Us = percentile(values, 99)
	snap.AvgPages = float64(pageSum) / float64(len(values))
	return snap
}

func (p *Pagination) pruneLocked(now time.Time) {
	cutoff := now.Add(-p.window)
	kept := p.samples[:0]
	for _, s := range p.samples {
		if !s.at.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	p.samples = kept
}

// percentile interpolates linearly between the two closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := rank - float64(lower)
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*weight
}

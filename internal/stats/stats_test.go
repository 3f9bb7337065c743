package stats

import (
	"testing"
	"time"
)

func TestPaginationSnapshotPercentiles(t *testing.T) {
	p := NewPagination(time.Hour)
	for i, us := range []int64{100, 200, 300, 400, 500} {
		p.Observe(time.Duration(us)*time.Microsecond, i+1)
	}

	snap := p.Snapshot()
	if snap.Passes != 5 {
		t.Fatalf("expected passes=5, got %d", snap.Passes)
	}
	if snap.MinUs != 100 || snap.MaxUs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
	if snap.AvgUs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgUs)
	}
	if snap.P50Us != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Us)
	}
	if snap.P95Us != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Us)
	}
	if snap.P99Us != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Us)
	}
	if snap.AvgPages != 3 || snap.MaxPages != 5 {
		t.Fatalf("expected avg pages=3 max=5, got avg=%f max=%d", snap.AvgPages, snap.MaxPages)
	}
}

func TestPaginationPrunesExpiredSamples(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewPagination(time.Minute)
	p.now = func() time.Time { return now }

	p.Observe(time.Millisecond, 1)
	now = now.Add(2 * time.Minute)

	if snap := p.Snapshot(); snap.Passes != 0 {
		t.Fatalf("expected passes=0 after prune, got %d", snap.Passes)
	}

	p.Observe(2*time.Millisecond, 4)
	snap := p.Snapshot()
	if snap.Passes != 1 {
		t.Fatalf("expected passes=1 for fresh sample, got %d", snap.Passes)
	}
	if snap.MinUs != 2000 || snap.MaxUs != 2000 {
		t.Fatalf("expected min=max=2000, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
}

func TestPaginationClampsNegativeDuration(t *testing.T) {
	p := NewPagination(time.Hour)
	p.Observe(-time.Second, 1)
	snap := p.Snapshot()
	if snap.MinUs != 0 || snap.MaxUs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
}

func TestPaginationEmptySnapshot(t *testing.T) {
	if snap := NewPagination(0).Snapshot(); snap != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

package perf

import (
	"sync"
	"testing"
	"time"
)

// TestCollector_SnapshotByKind verifies requests, queries and upstream calls aggregate separately.
func TestCollector_SnapshotByKind(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /events/{id}", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /events/{id}", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "SELECT kv", DurationMs: 5, Timestamp: now})
	c.Record(Entry{Kind: KindUpstream, Path: "GET /events/{id}", StatusCode: 200, DurationMs: 40, Timestamp: now})
	c.Record(Entry{Kind: KindUpstream, Path: "POST /guestlist", StatusCode: 502, DurationMs: 80, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 5 {
		t.Errorf("TotalRecorded = %d, want 5", snap.TotalRecorded)
	}
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].AvgMs != 20 {
		t.Errorf("SlowestPaths = %+v", snap.SlowestPaths)
	}
	if len(snap.SlowestQueries) != 1 {
		t.Errorf("SlowestQueries = %+v", snap.SlowestQueries)
	}
	if len(snap.SlowestUpstream) != 2 || snap.SlowestUpstream[0].Path != "POST /guestlist" {
		t.Errorf("SlowestUpstream = %+v", snap.SlowestUpstream)
	}
	if snap.UpstreamErrors != 1 {
		t.Errorf("UpstreamErrors = %d, want 1", snap.UpstreamErrors)
	}
}

// TestCollector_RingBuffer_Overwrites verifies oldest entries are overwritten when full.
func TestCollector_RingBuffer_Overwrites(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /", DurationMs: float64(i), Timestamp: now})
	}
	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Count != 3 {
		t.Errorf("SlowestPaths = %+v, want one path with 3 entries", snap.SlowestPaths)
	}
}

// TestCollector_Percentiles verifies P50/P95/P99 calculation.
func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /", DurationMs: float64(i), Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.RequestP50Ms < 49 || snap.RequestP50Ms > 51 {
		t.Errorf("P50 = %v, want ~50", snap.RequestP50Ms)
	}
	if snap.RequestP95Ms < 94 || snap.RequestP95Ms > 96 {
		t.Errorf("P95 = %v, want ~95", snap.RequestP95Ms)
	}
	if snap.RequestP99Ms < 98 || snap.RequestP99Ms > 100 {
		t.Errorf("P99 = %v, want ~99", snap.RequestP99Ms)
	}
}

// TestCollector_Snapshot_FiltersBySince verifies old entries are excluded.
func TestCollector_Snapshot_FiltersBySince(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	c.Record(Entry{Kind: KindUpstream, Path: "GET /allevents", DurationMs: 10, Timestamp: now.Add(-2 * time.Hour)})
	c.Record(Entry{Kind: KindUpstream, Path: "GET /allevents", DurationMs: 20, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Hour), 10)
	if len(snap.SlowestUpstream) != 1 || snap.SlowestUpstream[0].Count != 1 {
		t.Errorf("SlowestUpstream = %+v, want only the recent entry", snap.SlowestUpstream)
	}
}

// TestCollector_NilRecord verifies a nil collector is a no-op.
func TestCollector_NilRecord(t *testing.T) {
	var c *Collector
	c.Record(Entry{Kind: KindRequest})
}

// TestCollector_ConcurrentRecord verifies Record is safe under concurrency.
func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector(1000)
	now := time.Now()
	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.Record(Entry{Kind: KindRequest, Path: "GET /", DurationMs: 1, Timestamp: now})
			}
		}()
	}
	wg.Wait()
	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded = %d, want 1000", c.TotalRecorded())
	}
}

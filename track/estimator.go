// track/estimator.go
package track

import (
	"sync"

	"github.com/kallerwest/trackfusion/geo"
	"github.com/kallerwest/trackfusion/plot"
)

// Config bundles the tuning knobs consumed by a batch update: gating,
// estimation, and lifecycle.
type Config struct {
	Origin      geo.Origin
	Associator  AssociatorConfig
	Estimator   EstimatorConfig
	Lifecycle   LifecycleConfig
	ArchiveSize int
}

// Estimator owns the live track set and processes plot batches atomically
// against it, as the sole writer task in the pipeline.
type Estimator struct {
	mu     sync.RWMutex
	tracks map[string]*Track
	cfg    Config

	archive *Archive
}

// NewEstimator creates an Estimator with an empty track set and a
// terminated-track archive sized per cfg.ArchiveSize.
func NewEstimator(cfg Config) *Estimator {
	capacity := cfg.ArchiveSize
	if capacity <= 0 {
		capacity = 500
	}
	ttlSeconds := 10 * cfg.Lifecycle.TerminationThreshold
	if ttlSeconds <= 0 {
		ttlSeconds = 600
	}
	return &Estimator{
		tracks:  make(map[string]*Track),
		cfg:     cfg,
		archive: NewArchive(capacity, ttlSeconds),
	}
}

// Update processes one batch of plots atomically: gate/score/associate
// against the current track set, advance the Kalman state of every matched
// track, mark misses, apply lifecycle transitions, archive newly terminated
// tracks, and publish snapshots of every track touched this batch.
func (e *Estimator) Update(batch []*plot.Plot) []Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	all := make([]*Track, 0, len(e.tracks))
	for _, t := range e.tracks {
		all = append(all, t)
	}

	touched := AssociateBatch(all, batch, e.cfg.Origin, e.cfg.Associator, e.cfg.Estimator)

	snapshots := make([]Snapshot, 0, len(touched))
	for _, t := range touched {
		missed := t.ConsecutiveMisses > 0
		t.ApplyLifecycle(e.cfg.Lifecycle)
		t.UpdateQuality(e.cfg.Lifecycle, missed)

		if t.StateVal == Terminated {
			e.archive.Put(t)
			delete(e.tracks, t.TrackID)
		} else {
			e.tracks[t.TrackID] = t
		}
		snapshots = append(snapshots, t.Snapshot())
	}

	e.archive.Evict()
	return snapshots
}

// Snapshots returns a read-only view of every live track, safe to hand to a
// reader task without further synchronisation.
func (e *Estimator) Snapshots() []Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Snapshot, 0, len(e.tracks))
	for _, t := range e.tracks {
		out = append(out, t.Snapshot())
	}
	return out
}

// Archived returns a terminated track's last snapshot if it is still within
// the archive's retention window.
func (e *Estimator) Archived(trackID string) (Snapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.archive.Get(trackID)
}

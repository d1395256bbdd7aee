// track/archive.go
package track

import (
	"sort"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Archive retains the last snapshot of terminated tracks for a bounded
// window, so a late-arriving plot or an operator query can still resolve a
// track that has just left the live set.
type Archive struct {
	c        *cache.Cache
	capacity int
}

// NewArchive creates an Archive with the given capacity and TTL, in
// seconds, for each terminated track's snapshot.
func NewArchive(capacity int, ttlSeconds int) *Archive {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &Archive{
		c:        cache.New(ttl, ttl/2),
		capacity: capacity,
	}
}

// Put archives a terminated track's current snapshot.
func (a *Archive) Put(t *Track) {
	a.c.SetDefault(t.TrackID, t.Snapshot())
}

// Get retrieves an archived track's snapshot, if still within its TTL.
func (a *Archive) Get(trackID string) (Snapshot, bool) {
	v, ok := a.c.Get(trackID)
	if !ok {
		return Snapshot{}, false
	}
	return v.(Snapshot), true
}

// Evict purges the oldest entries once the archive exceeds its configured
// capacity, independent of the cache library's own TTL-driven expiry.
func (a *Archive) Evict() {
	items := a.c.Items()
	if len(items) <= a.capacity {
		return
	}

	type entry struct {
		key  string
		when time.Time
	}
	entries := make([]entry, 0, len(items))
	for k, item := range items {
		if snap, ok := item.Object.(Snapshot); ok {
			entries = append(entries, entry{key: k, when: snap.LastUpdate})
		}
	}

	excess := len(entries) - a.capacity
	if excess <= 0 {
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].when.Before(entries[j].when) })
	for i := 0; i < excess; i++ {
		a.c.Delete(entries[i].key)
	}
}

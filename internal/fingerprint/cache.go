package fingerprint

import "github.com/quietmind/lab/internal/model"

// Cache maps project id to that project's cached findings. The engine
// treats it as immutable caller-owned state: reads never mutate it, and
// writes go through WithEntry, which returns a new map for the caller to
// persist (copy-on-write keeps concurrent hosts race-free without any
// shared locking).
type Cache map[string]model.CacheEntry

// Lookup returns the cached findings for a project, but only on an exact
// fingerprint match. A stale or missing entry yields ok=false.
func (c Cache) Lookup(projectID, fp string) ([]model.Finding, bool) {
	entry, ok := c[projectID]
	if !ok || entry.Fingerprint != fp {
		return nil, false
	}
	return entry.Findings, true
}

// Entry returns the cache entry for a project regardless of fingerprint.
// The runner's throttle uses it to serve stale findings during mutation
// bursts.
func (c Cache) Entry(projectID string) (model.CacheEntry, bool) {
	entry, ok := c[projectID]
	return entry, ok
}

// WithEntry returns a copy of the cache with the project's entry replaced
// wholesale. Entries are never merged; each recompute owns the full
// findings slice for its fingerprint.
func (c Cache) WithEntry(projectID string, entry model.CacheEntry) Cache {
	next := make(Cache, len(c)+1)
	for k, v := range c {
		next[k] = v
	}
	next[projectID] = entry
	return next
}

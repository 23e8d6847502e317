// Package engine orchestrates LAB analysis runs.
//
// The runner is a pure function of (state snapshot, cache snapshot):
// it returns findings plus a cache delta and holds no mutable state of
// its own. Re-entering it is always safe; there is no session between
// calls.
//
// Per-project pipeline:
//  1. Missing or archived project: empty result, no delta.
//  2. Fingerprint + cache lookup: exact match returns the cached
//     findings verbatim.
//  3. Throttle: a cache entry younger than the throttle window is
//     served stale instead of recomputing, regardless of fingerprint.
//  4. Minimum-data gate: thin datasets cache an empty findings slice so
//     every keystroke on a new project does not recompute.
//  5. Method dispatch by dataset kind; group-flavored event methods get
//     the group projection.
//  6. Rare-tag suppression (daily only), then guardrail filtering.
//  7. New cache entry; findings and delta returned to the caller.
//
// Because results come back as deltas, concurrent hosts need no
// cross-project synchronization: each project's fingerprint/cache pair
// is an independent unit of work, and the cache map itself is merged by
// the caller under its own discipline.
package engine

// Package syncer drives one scene's end-to-end reconciliation: fetch
// the scene, consult the mapping cache, resolve it against the target
// server, run the follow-up actions (point scan, metadata refresh,
// stored links), and remember the result.
//
// A file lock serializes runs; the organizer fires hooks concurrently
// and the cache and the scene's URL list both assume one writer at a
// time. Every log line of one run carries the same session id.
package syncer

// Package mapcache persists resolved scene-to-item mappings between
// runs, so a scene that already matched once skips the whole strategy
// cascade next time.
//
// Two backends share one Store interface: a JSON flat file written
// atomically via temp-file-then-rename, and a SQLite database for
// installations with many scenes. The Open factory picks the backend
// from configuration.
package mapcache

// Package normalize canonicalizes titles and filenames for comparison
// between the source organizer and the media server.
//
// The two catalogs derive names differently: the organizer carries
// curated titles (smart quotes, Unicode ellipsis) while the media server
// derives names from filenames, sometimes stripping quality markers,
// terminal punctuation, or whole trailing segments. Every function here
// is pure and deterministic; normalized forms are used only for equality
// comparison, never for display.
package normalize

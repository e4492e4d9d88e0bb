package resolve

import (
	"regexp"
	"strings"
)

// SourceRecord is the organizer-side record to resolve. It is an
// immutable input to one resolution pass.
type SourceRecord struct {
	// ID is the source catalog's own identifier, used for logging and
	// cache keys only.
	ID string
	// FilePath is the primary file path as the source catalog sees it.
	// May be empty.
	FilePath string
	// Title is the curated display title. May be empty.
	Title string
	// ReleaseDate is the record's release date in YYYY-MM-DD form, or
	// empty when unknown.
	ReleaseDate string
	// Performers holds associated people's display names in source
	// order, used for ambiguity tie-breaking.
	Performers []string
	// KnownItemID carries a previously-resolved target identifier
	// (typically extracted from a stored link). When set and valid, it
	// is trusted without re-searching.
	KnownItemID string
}

// TargetCandidate is one media-server item under consideration.
// Candidates are transient; nothing here is persisted.
type TargetCandidate struct {
	ID           string
	Name         string
	Path         string
	PremiereDate string // ISO date or timestamp, empty when unknown
}

var itemIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// ValidItemID reports whether s matches the media server's 32-hex item
// identifier format.
func ValidItemID(s string) bool {
	return itemIDPattern.MatchString(strings.TrimSpace(s))
}

// Status is the terminal classification of one resolution pass.
type Status string

const (
	// StatusResolved means exactly one item matched.
	StatusResolved Status = "resolved"
	// StatusAmbiguous means more than one candidate survived narrowing
	// and the performer tie-break; the resolver refuses to pick.
	StatusAmbiguous Status = "ambiguous"
	// StatusUnresolved means no strategy or term produced a match.
	StatusUnresolved Status = "unresolved"
)

// Outcome is the result of one resolution pass.
type Outcome struct {
	Status Status
	// ItemID is the matched item, set only for StatusResolved.
	ItemID string
	// ItemPath is the path the target catalog reports for the matched
	// item, when known. Useful for a follow-up change notification.
	ItemPath string
	// Strategy names the step that decided the outcome: "marker",
	// "exact-path", "search", or "hints".
	Strategy string
	// Term is the search term that produced the match or the last
	// ambiguity.
	Term string
	// CandidateIDs lists the surviving candidates for StatusAmbiguous.
	CandidateIDs []string
}

// Resolved reports whether the pass ended with a unique match.
func (o Outcome) Resolved() bool { return o.Status == StatusResolved }

package jellyfin

import (
	"encoding/json"
	"strings"

	"stashsync/internal/resolve"
)

// User is a server account as returned by /Users.
type User struct {
	ID     string     `json:"Id"`
	Name   string     `json:"Name"`
	Policy userPolicy `json:"Policy"`
}

type userPolicy struct {
	IsAdministrator bool `json:"IsAdministrator"`
}

// VirtualFolder is one configured library: its display name, content
// type, and filesystem roots.
type VirtualFolder struct {
	Name           string   `json:"Name"`
	CollectionType string   `json:"CollectionType"`
	Locations      []string `json:"Locations"`
	ItemID         string   `json:"ItemId"`
}

// itemPayload is the union of the item shapes the server emits. Items,
// search hints, and detail responses all use slightly different field
// names for the same data; json's case-insensitive matching covers the
// casing variants and the extra fields cover the real aliases.
type itemPayload struct {
	ID           string        `json:"Id"`
	ItemID       string        `json:"ItemId"`
	Name         string        `json:"Name"`
	Path         string        `json:"Path"`
	PremiereDate string        `json:"PremiereDate"`
	MediaSources []mediaSource `json:"MediaSources"`
}

type mediaSource struct {
	Path string `json:"Path"`
}

// candidate flattens a payload into the canonical candidate form,
// resolving the id alias and falling back to the first media source
// when the top-level path is absent.
func (p itemPayload) candidate() resolve.TargetCandidate {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = strings.TrimSpace(p.ItemID)
	}
	path := strings.TrimSpace(p.Path)
	if path == "" && len(p.MediaSources) > 0 {
		path = strings.TrimSpace(p.MediaSources[0].Path)
	}
	return resolve.TargetCandidate{
		ID:           id,
		Name:         strings.TrimSpace(p.Name),
		Path:         path,
		PremiereDate: strings.TrimSpace(p.PremiereDate),
	}
}

type itemsPage struct {
	Items            []itemPayload `json:"Items"`
	TotalRecordCount int           `json:"TotalRecordCount"`
}

// decodeHints accepts both shapes the hint endpoint is known to emit: a
// wrapper object with a SearchHints array, or the bare array itself.
func decodeHints(raw []byte) ([]itemPayload, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var hints []itemPayload
		if err := json.Unmarshal(raw, &hints); err != nil {
			return nil, err
		}
		return hints, nil
	}
	var wrapper struct {
		SearchHints []itemPayload `json:"SearchHints"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.SearchHints, nil
}

func candidates(payloads []itemPayload) []resolve.TargetCandidate {
	out := make([]resolve.TargetCandidate, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, p.candidate())
	}
	return out
}

// includeTypesFor maps a library collection type onto the item types
// enumerated during exact-path lookup.
func includeTypesFor(collectionType string) string {
	switch strings.ToLower(strings.TrimSpace(collectionType)) {
	case "movies":
		return "VideoFile,Movie"
	case "tvshows":
		return "Episode"
	case "music":
		return "Audio"
	case "books":
		return "Book"
	default:
		return "VideoFile,Movie"
	}
}

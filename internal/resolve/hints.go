package resolve

import (
	"strings"

	"stashsync/internal/normalize"
)

// rankHintIDs orders hint candidates by name relevance before the
// follow-up detail fetches. Hints carry only minimal fields, so ranking
// works purely on normalized names: exact filename match first (raw,
// then quality-stripped), exact title match, exact match to a searched
// term variant, then loose substring containment. Hints without a valid
// id or name are dropped.
func rankHintIDs(hints []TargetCandidate, rec SourceRecord, term string) []string {
	filenameRaw := normalize.Normalize(normalize.BasenameWithoutExt(rec.FilePath))
	filenameClean := normalize.Normalize(normalize.StripQualitySuffix(normalize.BasenameWithoutExt(rec.FilePath)))
	titleRaw := normalize.Normalize(rec.Title)
	titleClean := normalize.Normalize(normalize.StripQualitySuffix(rec.Title))

	termNorms := make(map[string]struct{})
	for _, v := range normalize.TitleVariants(term) {
		if n := normalize.Normalize(v); n != "" {
			termNorms[n] = struct{}{}
		}
	}

	var exactFilename, exactTitle, exactTerm, loose []string
	looseMatch := func(name, reference string) bool {
		if reference == "" {
			return false
		}
		return strings.Contains(name, reference) || strings.Contains(reference, name)
	}

	for _, hint := range hints {
		name := normalize.Normalize(hint.Name)
		if name == "" || !ValidItemID(hint.ID) {
			continue
		}
		switch {
		case filenameRaw != "" && name == filenameRaw,
			filenameClean != "" && name == filenameClean:
			exactFilename = appendUniqueString(exactFilename, hint.ID)
		case titleRaw != "" && name == titleRaw,
			titleClean != "" && name == titleClean:
			exactTitle = appendUniqueString(exactTitle, hint.ID)
		case hasKey(termNorms, name):
			exactTerm = appendUniqueString(exactTerm, hint.ID)
		case looseMatch(name, filenameRaw),
			looseMatch(name, filenameClean),
			looseMatch(name, titleRaw),
			looseMatch(name, titleClean):
			loose = appendUniqueString(loose, hint.ID)
		}
	}

	var out []string
	for _, bucket := range [][]string{exactFilename, exactTitle, exactTerm, loose} {
		for _, id := range bucket {
			out = appendUniqueString(out, id)
		}
	}
	return out
}

func hasKey(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

func appendUniqueString(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

package resolve

import (
	"strings"

	"stashsync/internal/normalize"
)

// Basename match strengths for the first narrowing stage.
const (
	basenameExact    = 3
	basenameContains = 1
	basenameNone     = 0
)

// basenameStrength scores a candidate path against the record's file
// path by normalized basename: exact equality beats substring
// containment beats nothing.
func basenameStrength(candidatePath, sourcePath string) int {
	source := normalize.Normalize(normalize.BasenameWithoutExt(sourcePath))
	if source == "" {
		return basenameNone
	}
	candidate := normalize.Normalize(normalize.BasenameWithoutExt(candidatePath))
	if candidate == "" {
		return basenameNone
	}
	if candidate == source {
		return basenameExact
	}
	if strings.Contains(candidate, source) || strings.Contains(source, candidate) {
		return basenameContains
	}
	return basenameNone
}

// Narrow reduces a candidate set toward a single safe match using a
// fixed cascade: path-basename strength, exact normalized name against
// the searched term's variants, then the record's date window. Each
// stage runs only while more than one candidate remains, and no stage
// is allowed to empty the set because of missing data: an all-zero
// basename score, a dateless record, or an empty date intersection all
// leave the incoming set untouched. Candidates without a valid item id
// are dropped before any stage.
func Narrow(candidates []TargetCandidate, rec SourceRecord, term string) []TargetCandidate {
	eligible := make([]TargetCandidate, 0, len(candidates))
	for _, c := range candidates {
		if ValidItemID(c.ID) {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) <= 1 {
		return eligible
	}

	eligible = narrowByBasename(eligible, rec)
	if len(eligible) <= 1 {
		return eligible
	}

	eligible = narrowByName(eligible, term)
	if len(eligible) <= 1 {
		return eligible
	}

	return narrowByDate(eligible, rec)
}

func narrowByBasename(candidates []TargetCandidate, rec SourceRecord) []TargetCandidate {
	best := basenameNone
	strengths := make([]int, len(candidates))
	for i, c := range candidates {
		strengths[i] = basenameStrength(c.Path, rec.FilePath)
		if strengths[i] > best {
			best = strengths[i]
		}
	}
	if best == basenameNone {
		// No path evidence at all; filtering here would discard every
		// candidate for the wrong reason.
		return candidates
	}
	kept := make([]TargetCandidate, 0, len(candidates))
	for i, c := range candidates {
		if strengths[i] == best {
			kept = append(kept, c)
		}
	}
	return kept
}

func narrowByName(candidates []TargetCandidate, term string) []TargetCandidate {
	termNorms := make(map[string]struct{})
	for _, v := range normalize.TitleVariants(term) {
		if n := normalize.Normalize(v); n != "" {
			termNorms[n] = struct{}{}
		}
	}
	if len(termNorms) == 0 {
		return candidates
	}
	kept := make([]TargetCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := termNorms[normalize.Normalize(c.Name)]; ok {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return candidates
	}
	return kept
}

func narrowByDate(candidates []TargetCandidate, rec SourceRecord) []TargetCandidate {
	window := acceptableDates(rec)
	if len(window) == 0 {
		return candidates
	}
	kept := make([]TargetCandidate, 0, len(candidates))
	for _, c := range candidates {
		if day, ok := candidateDate(c); ok && dateIn(day, window) {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return candidates
	}
	return kept
}

func candidateIDs(candidates []TargetCandidate) []string {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	return ids
}

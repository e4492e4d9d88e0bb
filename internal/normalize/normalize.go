package normalize

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	dotRunPattern     = regexp.MustCompile(`\.{3,}`)

	// Visually-equivalent punctuation mapped to canonical ASCII forms.
	punctReplacer = strings.NewReplacer(
		"“", `"`, // left double quote
		"”", `"`, // right double quote
		"„", `"`, // low double quote
		"‟", `"`, // reversed double quote
		"‘", "'", // left single quote
		"’", "'", // right single quote
		"‚", "'", // low single quote
		"‛", "'", // reversed single quote
		"—", "-", // em dash
		"–", "-", // en dash
		"\u00a0", " ", // non-breaking space
	)
)

// foldPunctuation applies the punctuation and whitespace canonicalization
// shared by Normalize and TitleVariants, preserving letter case.
func foldPunctuation(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "…", "...")
	s = dotRunPattern.ReplaceAllString(s, "...")
	s = punctReplacer.Replace(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Normalize canonicalizes a string for equality comparison: trims,
// collapses whitespace, folds punctuation variants, and lowercases.
// Normalize is idempotent.
func Normalize(s string) string {
	return strings.ToLower(foldPunctuation(s))
}

// TitleVariants returns alternative search forms of a title: the raw
// string, a punctuation-normalized form when it differs, and (when the
// normalized form contains "...") a variant using the single ellipsis
// rune. Order encodes priority; duplicates are removed. Empty input
// yields nil.
func TitleVariants(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var out []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		for _, existing := range out {
			if existing == v {
				return
			}
		}
		out = append(out, v)
	}

	add(s)
	folded := foldPunctuation(s)
	add(folded)
	if strings.Contains(folded, "...") {
		add(strings.ReplaceAll(folded, "...", "…"))
	}
	return out
}

// BasenameWithoutExt returns the last path segment with its final
// extension removed. Empty input yields an empty string.
func BasenameWithoutExt(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var (
	qualitySuffixPattern   = regexp.MustCompile(`\s*(?:-\s*)?\[[^\]]+\]\s*$`)
	trailingDashPattern    = regexp.MustCompile(`\s*[-\x{2013}\x{2014}]\s*$`)
	trailingPunctuationSet = `.!?…,:;"'“”„‟‘’‚‛()[]{}<>«»`
	episodeSuffixPattern   = regexp.MustCompile(`(?i)\s*-\s*S\d{1,3}\s*[-_ ]?E\d{1,3}\s*$`)
	bareEpisodeSuffixChunk = regexp.MustCompile(`(?i)\s*-\s*E\d{1,3}\s*$`)
	seasonEpisodeSegment   = regexp.MustCompile(`(?i)^S\d{1,3}\s*[-_ ]?E\d{1,3}$`)
	bareEpisodeSegment     = regexp.MustCompile(`(?i)^E\d{1,3}$`)
	firstDigitPattern      = regexp.MustCompile(`\d`)
)

// StripQualitySuffix returns a filename-like title without a trailing
// quality marker. The media server may derive an item's name from the
// filename but drop a block like " - [WEBDL-1080p]"; searching with the
// marker still attached then finds nothing. Deliberately conservative:
// removes the extension if present, at most one trailing bracketed
// block (optionally preceded by " - "), and a dangling separator.
func StripQualitySuffix(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	s = strings.TrimSuffix(s, filepath.Ext(s))
	s = qualitySuffixPattern.ReplaceAllString(s, "")
	s = trailingDashPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// StripTrailingPunctuation removes trailing punctuation, quotes, and
// brackets. The media server sometimes drops terminal punctuation when
// deriving titles from filenames, so "She Sounds Just Like You…"
// becomes "She Sounds Just Like You" on its side.
func StripTrailingPunctuation(name string) string {
	s := strings.TrimSpace(name)
	for s != "" {
		trimmed := strings.TrimRight(s, " \t")
		if trimmed == "" {
			s = ""
			break
		}
		runes := []rune(trimmed)
		last := runes[len(runes)-1]
		if !strings.ContainsRune(trailingPunctuationSet, last) {
			s = trimmed
			break
		}
		s = strings.TrimRight(string(runes[:len(runes)-1]), " \t")
	}
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

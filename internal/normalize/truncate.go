package normalize

import "strings"

const segmentSeparator = " - "

// TruncatedFilenameTerms derives extra search terms from a filename
// (without extension) to cover the media server's name-shortening
// behavior for long, unidentified files. A filename like
//
//	2026-02-01 - Studio - February 2026 Something - S31-E4 - [WEBDL-2160p]
//
// may be stored as just "2026-02-01 - Studio - February": the server
// keeps the first three " - "-delimited segments and may further cut
// the third segment at its first digit (or to its first word). Returned
// terms are progressively shorter, deduplicated, and never include the
// unmodified input.
func TruncatedFilenameTerms(filenameNoExt string) []string {
	base := StripQualitySuffix(filenameNoExt)
	if base == "" {
		return nil
	}

	var out []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || v == base || v == strings.TrimSpace(filenameNoExt) {
			return
		}
		for _, existing := range out {
			if existing == v {
				return
			}
		}
		out = append(out, v)
	}

	// Drop a trailing season/episode token when present.
	noEpisode := episodeSuffixPattern.ReplaceAllString(base, "")
	noEpisode = bareEpisodeSuffixChunk.ReplaceAllString(noEpisode, "")
	noEpisode = trailingDashPattern.ReplaceAllString(noEpisode, "")
	add(noEpisode)

	segments := splitSegments(base)
	for len(segments) > 0 && seasonEpisodeSegment.MatchString(segments[len(segments)-1]) {
		segments = segments[:len(segments)-1]
	}
	for len(segments) > 0 && bareEpisodeSegment.MatchString(segments[len(segments)-1]) {
		segments = segments[:len(segments)-1]
	}
	if len(segments) < 3 {
		return out
	}

	add(strings.Join(segments[:3], segmentSeparator))

	if short := shortenThirdSegment(segments[2]); short != "" {
		add(segments[0] + segmentSeparator + segments[1] + segmentSeparator + short)
	}
	return out
}

func splitSegments(s string) []string {
	parts := strings.Split(s, segmentSeparator)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// shortenThirdSegment cuts a segment at its first digit, or falls back
// to the first word when the segment has no digits. Returns "" when
// nothing sensible remains.
func shortenThirdSegment(segment string) string {
	if loc := firstDigitPattern.FindStringIndex(segment); loc != nil {
		short := strings.TrimSpace(segment[:loc[0]])
		short = trailingDashPattern.ReplaceAllString(short, "")
		if short != "" {
			return strings.TrimSpace(short)
		}
	}
	fields := strings.Fields(segment)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

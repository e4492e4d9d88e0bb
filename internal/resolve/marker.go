package resolve

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	markerURLPattern = regexp.MustCompile(`\bjellyfin/items/([0-9a-fA-F]{32})\b`)
	restURLPattern   = regexp.MustCompile(`/Items/([0-9a-fA-F]{32})\b`)
)

// ExtractItemID parses a previously-stored target item identifier out
// of a free-form URL. Three formats are recognized:
//
//	jellyfin/items/<id>                     internal marker
//	.../web/#/details?id=<id>               web UI hash route
//	.../Items/<id>                          REST path segment
//
// Returns "" when no valid 32-hex id is present.
func ExtractItemID(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	if m := markerURLPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}

	if strings.Contains(rawURL, "#/details") || strings.Contains(rawURL, "#!/details") {
		if id := hashRouteItemID(rawURL); id != "" {
			return id
		}
	}

	if m := restURLPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}

	return ""
}

func hashRouteItemID(rawURL string) string {
	_, fragment, ok := strings.Cut(rawURL, "#")
	if !ok {
		return ""
	}
	_, query, ok := strings.Cut(fragment, "?")
	if !ok {
		return ""
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return ""
	}
	for _, key := range []string{"id", "Id"} {
		if id := values.Get(key); ValidItemID(id) {
			return id
		}
	}
	return ""
}

// FirstItemID returns the first item id extractable from the given
// URLs, or "" when none carry one.
func FirstItemID(urls []string) string {
	for _, u := range urls {
		if id := ExtractItemID(u); id != "" {
			return id
		}
	}
	return ""
}

package resolve

import "strings"

// PathRewrite bridges differing filesystem mount points between the two
// catalogs by rewriting one path prefix to another.
type PathRewrite struct {
	From string
	To   string
}

// Apply rewrites the path's leading From prefix to To. A no-op when
// either prefix is empty or the path does not start with From.
func (r PathRewrite) Apply(path string) string {
	from := strings.TrimRight(r.From, "/")
	to := strings.TrimRight(r.To, "/")
	if path == "" || from == "" || to == "" {
		return path
	}
	if path == from || strings.HasPrefix(path, from+"/") {
		return to + path[len(from):]
	}
	return path
}

// Package jellyfin is the HTTP client for the target media server.
//
// The client is plain transport: it authenticates, pages, and decodes,
// and returns canonical candidates. Which candidate wins is decided
// elsewhere; any non-2xx status or malformed payload comes back as an
// error for the caller to absorb. Server payloads are tolerated in
// their observed shapes, including the id and field-name aliases that
// differ between endpoints and server versions.
package jellyfin

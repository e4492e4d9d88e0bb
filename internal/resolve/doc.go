// Package resolve matches a source-organizer record to the single
// corresponding item in the target media server.
//
// The two catalogs index the same files but derive titles and
// identifiers independently, so a direct key lookup frequently fails.
// The resolver generates prioritized search-term variants from the
// record's title and filename, fetches candidates through a sequence of
// strategies (stored marker, exact path enumeration, scoped item
// search, search hints), and narrows each candidate set through a fixed
// cascade of filters until exactly one item remains. When candidates
// stay ambiguous after every filter and a performer-assisted re-search,
// the resolver refuses to guess.
//
// The package never mutates either catalog; it produces an Outcome for
// the caller to act on.
package resolve

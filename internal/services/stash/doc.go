// Package stash is the GraphQL client for the source organizer.
//
// It covers the two operations the sync needs, fetching a scene and
// appending URLs to one, plus decoding of the hook payload the
// organizer pipes to plugins on stdin.
package stash

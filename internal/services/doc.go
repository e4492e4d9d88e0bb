// Package services groups the external catalog clients.
//
// Each subpackage wraps one server's API behind plain transport types:
// jellyfin for the target media server, stash for the source organizer.
// Clients validate their connection settings at construction, take a
// context per call, and wrap failures with enough detail to log; they
// decide nothing about matching.
package services

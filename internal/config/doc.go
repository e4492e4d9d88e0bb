// Package config loads and validates stashsync configuration.
//
// Configuration is assembled once at process start by a layered merge:
// repository defaults, then the TOML config file, then forced overrides
// for the handful of behaviors that must not drift (point-scan always
// on, refresh modes pinned to full refresh). The resulting Config is
// passed explicitly to the components that need it; nothing reads
// settings ad hoc.
package config

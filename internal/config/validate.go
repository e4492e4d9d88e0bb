package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var validScanUpdateTypes = map[string]bool{
	"Created":  true,
	"Modified": true,
	"Deleted":  true,
}

var validRefreshModes = map[string]bool{
	"None":           true,
	"ValidationOnly": true,
	"Default":        true,
	"FullRefresh":    true,
}

// Validate checks the configuration for correctness. It accumulates all
// problems so a broken config file surfaces every issue in one run.
func (c *Config) Validate() error {
	var problems []string

	if c.Stash.URL == "" {
		problems = append(problems, "stash.url is required")
	} else if err := validateURL(c.Stash.URL); err != nil {
		problems = append(problems, fmt.Sprintf("stash.url: %v", err))
	}

	if c.Jellyfin.URL == "" {
		problems = append(problems, "jellyfin.url is required")
	} else if err := validateURL(c.Jellyfin.URL); err != nil {
		problems = append(problems, fmt.Sprintf("jellyfin.url: %v", err))
	}
	if c.Jellyfin.APIKey == "" {
		problems = append(problems, "jellyfin.api_key is required")
	}
	if c.Jellyfin.WebBaseURL != "" {
		if err := validateURL(c.Jellyfin.WebBaseURL); err != nil {
			problems = append(problems, fmt.Sprintf("jellyfin.web_base_url: %v", err))
		}
	}

	if c.Match.SearchLimit <= 0 {
		problems = append(problems, "match.search_limit must be positive")
	}
	if c.Match.ItemPageSize <= 0 {
		problems = append(problems, "match.item_page_size must be positive")
	}
	if c.Match.MaxPages <= 0 {
		problems = append(problems, "match.max_pages must be positive")
	}
	if (c.Match.PathRewriteFrom == "") != (c.Match.PathRewriteTo == "") {
		problems = append(problems, "match.path_rewrite_from and match.path_rewrite_to must be set together")
	}

	if !validScanUpdateTypes[c.Actions.ScanUpdateType] {
		problems = append(problems, fmt.Sprintf("actions.scan_update_type %q is not a valid update type", c.Actions.ScanUpdateType))
	}
	if !validRefreshModes[c.Actions.MetadataRefreshMode] {
		problems = append(problems, fmt.Sprintf("actions.metadata_refresh_mode %q is not a valid refresh mode", c.Actions.MetadataRefreshMode))
	}
	if !validRefreshModes[c.Actions.ImageRefreshMode] {
		problems = append(problems, fmt.Sprintf("actions.image_refresh_mode %q is not a valid refresh mode", c.Actions.ImageRefreshMode))
	}

	switch c.Cache.Backend {
	case "file", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("cache.backend %q must be \"file\" or \"sqlite\"", c.Cache.Backend))
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		problems = append(problems, "cache.path is required when the cache is enabled")
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q must be \"console\" or \"json\"", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q must be debug, info, warn, or error", c.Logging.Level))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

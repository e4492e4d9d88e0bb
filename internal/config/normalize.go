package config

import "strings"

// normalize trims and expands values after decoding so the rest of the
// program never re-cleans them.
func (c *Config) normalize() error {
	c.Stash.URL = strings.TrimRight(strings.TrimSpace(c.Stash.URL), "/")
	c.Stash.APIKey = strings.TrimSpace(c.Stash.APIKey)

	c.Jellyfin.URL = strings.TrimRight(strings.TrimSpace(c.Jellyfin.URL), "/")
	c.Jellyfin.APIKey = strings.TrimSpace(c.Jellyfin.APIKey)
	c.Jellyfin.UserID = strings.TrimSpace(c.Jellyfin.UserID)
	c.Jellyfin.WebBaseURL = strings.TrimRight(strings.TrimSpace(c.Jellyfin.WebBaseURL), "/")
	c.Jellyfin.ServerID = strings.TrimSpace(c.Jellyfin.ServerID)
	c.Jellyfin.WebURLTemplate = strings.TrimSpace(c.Jellyfin.WebURLTemplate)
	if c.Jellyfin.WebURLTemplate == "" {
		c.Jellyfin.WebURLTemplate = defaultWebURLTemplate
	}

	c.Match.PathRewriteFrom = strings.TrimSpace(c.Match.PathRewriteFrom)
	c.Match.PathRewriteTo = strings.TrimSpace(c.Match.PathRewriteTo)

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = defaultCacheBackend
	}

	for _, field := range []*string{&c.Cache.Path, &c.Paths.LockPath} {
		expanded, err := expandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

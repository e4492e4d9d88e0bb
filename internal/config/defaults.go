package config

const (
	defaultSearchLimit    = 25
	defaultItemPageSize   = 1000
	defaultMaxPages       = 50
	defaultScanUpdateType = "Modified"
	defaultRefreshMode    = "FullRefresh"
	defaultCacheBackend   = "file"
	defaultCachePath      = "~/.local/share/stashsync/scene_items.json"
	defaultLockPath       = "~/.local/share/stashsync/sync.lock"
	defaultWebURLTemplate = "{base}/web/index.html#!/details?id={itemId}&serverId={serverId}"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Stash: Stash{
			URL: "http://localhost:9999",
		},
		Jellyfin: Jellyfin{
			URL:            "http://localhost:8096",
			WebURLTemplate: defaultWebURLTemplate,
		},
		Match: Match{
			UseExactPath:       true,
			SearchLimit:        defaultSearchLimit,
			ItemPageSize:       defaultItemPageSize,
			MaxPages:           defaultMaxPages,
			FilenameFallbacks:  true,
			TruncatedFallbacks: true,
		},
		Actions: Actions{
			ScanUpdatedMedia:       true,
			ScanUpdateType:         defaultScanUpdateType,
			RefreshMetadata:        true,
			RefreshMissingMetadata: true,
			MetadataRefreshMode:    defaultRefreshMode,
			ImageRefreshMode:       defaultRefreshMode,
			ReplaceAllMetadata:     true,
			ReplaceAllImages:       true,
			StoreWebURL:            true,
			StoreMarkerURL:         false,
		},
		Cache: Cache{
			Enabled: true,
			Backend: defaultCacheBackend,
			Path:    defaultCachePath,
		},
		Logging: Logging{
			Format: "",
			Level:  "info",
		},
		Paths: Paths{
			LockPath: defaultLockPath,
		},
	}
}

// applyForcedOverrides pins the settings that must not drift, whatever
// the config file says. The point-scan is always performed with the
// fixed update type, and item refreshes always run as full refreshes:
// replace-all without a full refresh would wipe metadata and images
// without re-downloading them. Marker URL storage stays off; the
// missing-metadata fallback stays on, though it only acts when the
// full refresh is disabled.
func (c *Config) applyForcedOverrides() {
	c.Actions.ScanUpdatedMedia = true
	c.Actions.ScanUpdateType = defaultScanUpdateType
	c.Actions.RefreshMetadata = true
	c.Actions.RefreshMissingMetadata = true
	c.Actions.MetadataRefreshMode = defaultRefreshMode
	c.Actions.ImageRefreshMode = defaultRefreshMode
	c.Actions.ReplaceAllMetadata = true
	c.Actions.ReplaceAllImages = true
	c.Actions.StoreMarkerURL = false
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Stash contains connection settings for the source organizer.
type Stash struct {
	URL             string `toml:"url"`
	APIKey          string `toml:"api_key"`
	SkipUnorganized bool   `toml:"skip_unorganized"`
}

// Jellyfin contains connection settings for the target media server.
type Jellyfin struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	UserID         string `toml:"user_id"`
	VerifyTLS      bool   `toml:"verify_tls"`
	WebBaseURL     string `toml:"web_base_url"`
	ServerID       string `toml:"server_id"`
	WebURLTemplate string `toml:"web_url_template"`
}

// Match contains settings for the resolution engine.
type Match struct {
	PathRewriteFrom    string `toml:"path_rewrite_from"`
	PathRewriteTo      string `toml:"path_rewrite_to"`
	UseExactPath       bool   `toml:"use_exact_path"`
	SearchLimit        int    `toml:"search_limit"`
	ItemPageSize       int    `toml:"item_page_size"`
	MaxPages           int    `toml:"max_pages"`
	FilenameFallbacks  bool   `toml:"filename_fallbacks"`
	TruncatedFallbacks bool   `toml:"truncated_fallbacks"`
}

// Actions contains the follow-up calls made after a resolution.
type Actions struct {
	ScanUpdatedMedia       bool   `toml:"scan_updated_media"`
	ScanUpdateType         string `toml:"scan_update_type"`
	RefreshMetadata        bool   `toml:"refresh_metadata"`
	RefreshMissingMetadata bool   `toml:"refresh_missing_metadata"`
	MetadataRefreshMode    string `toml:"metadata_refresh_mode"`
	ImageRefreshMode       string `toml:"image_refresh_mode"`
	ReplaceAllMetadata     bool   `toml:"replace_all_metadata"`
	ReplaceAllImages       bool   `toml:"replace_all_images"`
	StoreWebURL            bool   `toml:"store_web_url"`
	StoreMarkerURL         bool   `toml:"store_marker_url"`
}

// Cache contains settings for the scene-to-item mapping cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Backend string `toml:"backend"` // "file" or "sqlite"
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Paths contains filesystem locations the process owns.
type Paths struct {
	LockPath string `toml:"lock_path"`
}

// Config encapsulates all configuration values for stashsync.
type Config struct {
	Stash    Stash    `toml:"stash"`
	Jellyfin Jellyfin `toml:"jellyfin"`
	Match    Match    `toml:"match"`
	Actions  Actions  `toml:"actions"`
	Cache    Cache    `toml:"cache"`
	Logging  Logging  `toml:"logging"`
	Paths    Paths    `toml:"paths"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/stashsync/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// Load locates and parses a configuration file, layering it over the
// defaults and applying the forced overrides, then validates the
// result. The returned bool reports whether a file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyForcedOverrides()
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("stashsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the process writes into.
func (c *Config) EnsureDirectories() error {
	for _, target := range []string{c.Cache.Path, c.Paths.LockPath} {
		if strings.TrimSpace(target) == "" {
			continue
		}
		dir := filepath.Dir(target)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

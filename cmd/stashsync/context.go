package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"stashsync/internal/config"
	"stashsync/internal/logging"
	"stashsync/internal/mapcache"
	"stashsync/internal/resolve"
	"stashsync/internal/services/jellyfin"
	"stashsync/internal/services/stash"
	"stashsync/internal/syncer"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: os.Stderr,
	})
}

func (c *commandContext) openCache(logger *slog.Logger) (mapcache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return mapcache.Open(cfg.Cache, logger)
}

// buildResolver wires the target client and the matching engine only.
func (c *commandContext) buildResolver() (*resolve.Resolver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.newLogger()
	if err != nil {
		return nil, err
	}
	target, err := c.buildTarget()
	if err != nil {
		return nil, err
	}
	return newResolver(cfg, logger, target), nil
}

func newResolver(cfg *config.Config, logger *slog.Logger, target *jellyfin.Client) *resolve.Resolver {
	return resolve.New(target, logger, resolve.Options{
		PathRewrite: resolve.PathRewrite{
			From: cfg.Match.PathRewriteFrom,
			To:   cfg.Match.PathRewriteTo,
		},
		ExactPathEnabled:   cfg.Match.UseExactPath,
		FilenameFallbacks:  cfg.Match.FilenameFallbacks,
		TruncatedFallbacks: cfg.Match.TruncatedFallbacks,
	})
}

func (c *commandContext) buildTarget() (*jellyfin.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	target, err := jellyfin.NewClient(jellyfin.Options{
		BaseURL:     cfg.Jellyfin.URL,
		APIKey:      cfg.Jellyfin.APIKey,
		UserID:      cfg.Jellyfin.UserID,
		VerifyTLS:   cfg.Jellyfin.VerifyTLS,
		SearchLimit: cfg.Match.SearchLimit,
		PageSize:    cfg.Match.ItemPageSize,
		MaxPages:    cfg.Match.MaxPages,
	})
	if err != nil {
		return nil, fmt.Errorf("build jellyfin client: %w", err)
	}
	return target, nil
}

// buildSyncer wires the full stack: both clients, the resolver, and
// the cache. The returned cleanup closes the cache.
func (c *commandContext) buildSyncer() (*syncer.Syncer, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.newLogger()
	if err != nil {
		return nil, nil, err
	}

	source, err := stash.NewClient(cfg.Stash.URL, cfg.Stash.APIKey, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build stash client: %w", err)
	}
	target, err := c.buildTarget()
	if err != nil {
		return nil, nil, err
	}
	resolver := newResolver(cfg, logger, target)

	cache, err := c.openCache(logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open mapping cache: %w", err)
	}

	s := syncer.New(cfg, source, target, resolver, cache, logger)
	cleanup := func() {
		if err := cache.Close(); err != nil {
			logger.Warn("closing mapping cache failed", logging.Error(err))
		}
	}
	return s, cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

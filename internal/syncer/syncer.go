package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"stashsync/internal/config"
	"stashsync/internal/logging"
	"stashsync/internal/mapcache"
	"stashsync/internal/resolve"
	"stashsync/internal/services/jellyfin"
	"stashsync/internal/services/stash"
)

const lockRetryDelay = 250 * time.Millisecond

// Source is the organizer-side surface the sync needs.
type Source interface {
	FindScene(ctx context.Context, sceneID string) (stash.Scene, error)
	AddSceneURLs(ctx context.Context, sceneID string, urls []string) error
}

// Target is the media-server surface the follow-up actions need.
type Target interface {
	NotifyMediaUpdated(ctx context.Context, path, updateType string) error
	RefreshItem(ctx context.Context, itemID string, opts jellyfin.RefreshOptions) error
	ServerID(ctx context.Context) (string, error)
}

// ItemResolver runs the resolution cascade for one record.
type ItemResolver interface {
	Resolve(ctx context.Context, rec resolve.SourceRecord) resolve.Outcome
}

// Result reports what one run did.
type Result struct {
	SceneID string
	Outcome resolve.Outcome
	// Skipped is set with Reason when the scene was not processed at
	// all (unorganized, for example).
	Skipped bool
	Reason  string
	// URLsAdded lists links written back to the scene.
	URLsAdded []string
	Scanned   bool
	Refreshed bool
	Cached    bool
}

// Syncer coordinates one scene sync at a time.
type Syncer struct {
	cfg      *config.Config
	source   Source
	target   Target
	resolver ItemResolver
	cache    mapcache.Store
	logger   *slog.Logger
}

// New constructs a Syncer. A nil logger disables logging.
func New(cfg *config.Config, source Source, target Target, resolver ItemResolver, cache mapcache.Store, logger *slog.Logger) *Syncer {
	return &Syncer{
		cfg:      cfg,
		source:   source,
		target:   target,
		resolver: resolver,
		cache:    cache,
		logger:   logging.NewComponentLogger(logger, "syncer"),
	}
}

// SyncScene runs the full flow for one scene under the process lock.
func (s *Syncer) SyncScene(ctx context.Context, sceneID string) (Result, error) {
	log := s.sessionLogger(sceneID)

	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return Result{SceneID: sceneID}, err
	}
	defer unlock()

	return s.run(ctx, log, sceneID, true)
}

// ResolveScene runs resolution only: no lock, no follow-up actions, no
// cache writes. Used for inspecting what a sync would decide.
func (s *Syncer) ResolveScene(ctx context.Context, sceneID string) (Result, error) {
	return s.run(ctx, s.sessionLogger(sceneID), sceneID, false)
}

func (s *Syncer) sessionLogger(sceneID string) *slog.Logger {
	return s.logger.With(
		logging.String(logging.FieldSessionID, uuid.NewString()),
		logging.String(logging.FieldSceneID, sceneID))
}

func (s *Syncer) acquireLock(ctx context.Context) (func(), error) {
	path := s.cfg.Paths.LockPath
	if path == "" {
		return func() {}, nil
	}
	lock := flock.New(path)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire sync lock %q: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("sync lock %q held elsewhere", path)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("release sync lock failed", logging.Error(err))
		}
	}, nil
}

func (s *Syncer) run(ctx context.Context, log *slog.Logger, sceneID string, act bool) (Result, error) {
	result := Result{SceneID: sceneID}

	scene, err := s.source.FindScene(ctx, sceneID)
	if err != nil {
		return result, fmt.Errorf("fetch scene %s: %w", sceneID, err)
	}
	if s.cfg.Stash.SkipUnorganized && !scene.Organized {
		result.Skipped = true
		result.Reason = "scene not organized"
		log.Info("skipping unorganized scene")
		return result, nil
	}

	rec := scene.Record()
	if rec.KnownItemID == "" {
		if itemID, found := s.cache.Lookup(scene.ID); found && resolve.ValidItemID(itemID) {
			log.Debug("cache hit", logging.String(logging.FieldItemID, itemID))
			rec.KnownItemID = itemID
		}
	}

	result.Outcome = s.resolver.Resolve(ctx, rec)
	if !result.Outcome.Resolved() {
		log.Info("scene did not resolve",
			logging.String("status", string(result.Outcome.Status)))
		// The point-scan only needs a file path, so it still runs for
		// a scene that found no item.
		if act {
			s.pointScan(ctx, log, rec, &result)
		}
		return result, nil
	}
	if !act {
		return result, nil
	}

	s.runActions(ctx, log, scene, rec, &result)
	return result, nil
}

// pointScan asks the server to rescan one file. The path the server
// reports for the matched item wins; without one, the rewritten source
// path is used.
func (s *Syncer) pointScan(ctx context.Context, log *slog.Logger, rec resolve.SourceRecord, result *Result) {
	if !s.cfg.Actions.ScanUpdatedMedia {
		return
	}
	path := result.Outcome.ItemPath
	if path == "" {
		rewrite := resolve.PathRewrite{
			From: s.cfg.Match.PathRewriteFrom,
			To:   s.cfg.Match.PathRewriteTo,
		}
		path = rewrite.Apply(rec.FilePath)
	}
	if path == "" {
		log.Warn("point-scan enabled but the scene has no file path")
		return
	}
	if err := s.target.NotifyMediaUpdated(ctx, path, s.cfg.Actions.ScanUpdateType); err != nil {
		log.Warn("media update notification failed", logging.Error(err))
	} else {
		result.Scanned = true
	}
}

// runActions performs the post-match work. Each action failure is
// logged and the rest still run; a half-synced scene self-heals on the
// next hook because the mapping is already resolved.
func (s *Syncer) runActions(ctx context.Context, log *slog.Logger, scene stash.Scene, rec resolve.SourceRecord, result *Result) {
	itemID := result.Outcome.ItemID

	s.pointScan(ctx, log, rec, result)

	if opts, ok := s.refreshOptions(); ok {
		if err := s.target.RefreshItem(ctx, itemID, opts); err != nil {
			log.Warn("item refresh failed",
				logging.String(logging.FieldItemID, itemID),
				logging.Error(err))
		} else {
			result.Refreshed = true
		}
	}

	if urls := s.linksToStore(ctx, log, scene, itemID); len(urls) > 0 {
		if err := s.source.AddSceneURLs(ctx, scene.ID, urls); err != nil {
			log.Warn("storing scene links failed", logging.Error(err))
		} else {
			result.URLsAdded = urls
		}
	}

	if err := s.cache.Put(scene.ID, itemID); err != nil {
		log.Warn("cache write failed", logging.Error(err))
	} else {
		result.Cached = true
	}

	log.Info("scene synced",
		logging.String(logging.FieldItemID, itemID),
		logging.String(logging.FieldStrategy, result.Outcome.Strategy))
}

// refreshOptions picks the refresh variant: the configured refresh, or
// a fetch-missing-only pass (Default modes, nothing replaced) when only
// the fallback knob is on.
func (s *Syncer) refreshOptions() (jellyfin.RefreshOptions, bool) {
	switch {
	case s.cfg.Actions.RefreshMetadata:
		return jellyfin.RefreshOptions{
			MetadataRefreshMode: s.cfg.Actions.MetadataRefreshMode,
			ImageRefreshMode:    s.cfg.Actions.ImageRefreshMode,
			ReplaceAllMetadata:  s.cfg.Actions.ReplaceAllMetadata,
			ReplaceAllImages:    s.cfg.Actions.ReplaceAllImages,
		}, true
	case s.cfg.Actions.RefreshMissingMetadata:
		return jellyfin.RefreshOptions{
			MetadataRefreshMode: "Default",
			ImageRefreshMode:    "Default",
		}, true
	}
	return jellyfin.RefreshOptions{}, false
}

// linksToStore builds the links to append to the scene, skipping any
// the scene already carries.
func (s *Syncer) linksToStore(ctx context.Context, log *slog.Logger, scene stash.Scene, itemID string) []string {
	var links []string

	if s.cfg.Actions.StoreWebURL {
		if link := s.webLink(ctx, log, itemID); link != "" {
			links = append(links, link)
		}
	}
	if s.cfg.Actions.StoreMarkerURL {
		links = append(links, "jellyfin/items/"+itemID)
	}

	existing := make(map[string]struct{}, len(scene.URLs))
	for _, u := range scene.URLs {
		existing[u] = struct{}{}
	}
	fresh := links[:0]
	for _, link := range links {
		if _, dup := existing[link]; !dup {
			fresh = append(fresh, link)
		}
	}
	return fresh
}

func (s *Syncer) webLink(ctx context.Context, log *slog.Logger, itemID string) string {
	serverID := s.cfg.Jellyfin.ServerID
	if serverID == "" {
		discovered, err := s.target.ServerID(ctx)
		if err != nil {
			log.Warn("server id discovery failed, skipping web link", logging.Error(err))
			return ""
		}
		serverID = discovered
	}
	base := s.cfg.Jellyfin.WebBaseURL
	if base == "" {
		base = s.cfg.Jellyfin.URL
	}
	return jellyfin.WebURL(s.cfg.Jellyfin.WebURLTemplate, base, itemID, serverID)
}

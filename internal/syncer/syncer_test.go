package syncer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"stashsync/internal/config"
	"stashsync/internal/mapcache"
	"stashsync/internal/resolve"
	"stashsync/internal/services/jellyfin"
	"stashsync/internal/services/stash"
)

const itemID = "0123456789abcdef0123456789abcdef"

type fakeSource struct {
	scene     stash.Scene
	findErr   error
	addedURLs []string
}

func (f *fakeSource) FindScene(_ context.Context, sceneID string) (stash.Scene, error) {
	if f.findErr != nil {
		return stash.Scene{}, f.findErr
	}
	return f.scene, nil
}

func (f *fakeSource) AddSceneURLs(_ context.Context, _ string, urls []string) error {
	f.addedURLs = append(f.addedURLs, urls...)
	return nil
}

type fakeTarget struct {
	scannedPaths []string
	refreshedIDs []string
	refreshOpts  jellyfin.RefreshOptions
	serverID     string
	refreshErr   error
}

func (f *fakeTarget) NotifyMediaUpdated(_ context.Context, path, updateType string) error {
	f.scannedPaths = append(f.scannedPaths, path+"|"+updateType)
	return nil
}

func (f *fakeTarget) RefreshItem(_ context.Context, itemID string, opts jellyfin.RefreshOptions) error {
	if f.refreshErr != nil {
		return f.refreshErr
	}
	f.refreshedIDs = append(f.refreshedIDs, itemID)
	f.refreshOpts = opts
	return nil
}

func (f *fakeTarget) ServerID(_ context.Context) (string, error) {
	if f.serverID == "" {
		return "", errors.New("no server id")
	}
	return f.serverID, nil
}

type fakeResolver struct {
	outcome  resolve.Outcome
	received []resolve.SourceRecord
}

func (f *fakeResolver) Resolve(_ context.Context, rec resolve.SourceRecord) resolve.Outcome {
	f.received = append(f.received, rec)
	return f.outcome
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Jellyfin.URL = "http://jf.local"
	cfg.Jellyfin.APIKey = "k"
	cfg.Paths.LockPath = filepath.Join(t.TempDir(), "sync.lock")
	cfg.Cache.Path = filepath.Join(t.TempDir(), "cache.json")
	return &cfg
}

func testScene() stash.Scene {
	return stash.Scene{
		ID:        "42",
		Title:     "My Show",
		Date:      "2026-02-01",
		Organized: true,
		Files:     []stash.SceneFile{{Path: "/data/My Show.mkv"}},
	}
}

func newSyncer(t *testing.T, cfg *config.Config, source *fakeSource, target *fakeTarget, resolver *fakeResolver) *Syncer {
	t.Helper()
	cache := mapcache.NewFileStore(cfg.Cache.Path, nil)
	return New(cfg, source, target, resolver, cache, nil)
}

func TestSyncSceneFullFlow(t *testing.T) {
	cfg := testConfig(t)
	source := &fakeSource{scene: testScene()}
	target := &fakeTarget{serverID: "srv1"}
	resolver := &fakeResolver{outcome: resolve.Outcome{
		Status:   resolve.StatusResolved,
		ItemID:   itemID,
		ItemPath: "/media/My Show.mkv",
		Strategy: resolve.StrategySearch,
	}}
	s := newSyncer(t, cfg, source, target, resolver)

	result, err := s.SyncScene(context.Background(), "42")
	if err != nil {
		t.Fatalf("SyncScene failed: %v", err)
	}
	if !result.Outcome.Resolved() || result.Outcome.ItemID != itemID {
		t.Fatalf("unexpected outcome: %+v", result.Outcome)
	}
	if !result.Scanned || len(target.scannedPaths) != 1 || target.scannedPaths[0] != "/media/My Show.mkv|Modified" {
		t.Errorf("point scan missing: %v", target.scannedPaths)
	}
	if !result.Refreshed || len(target.refreshedIDs) != 1 {
		t.Errorf("refresh missing: %v", target.refreshedIDs)
	}
	if !target.refreshOpts.ReplaceAllMetadata || target.refreshOpts.MetadataRefreshMode != "FullRefresh" {
		t.Errorf("refresh options not forced: %+v", target.refreshOpts)
	}
	wantLink := "http://jf.local/web/index.html#!/details?id=" + itemID + "&serverId=srv1"
	if len(result.URLsAdded) != 1 || result.URLsAdded[0] != wantLink {
		t.Errorf("web link not stored: %v", result.URLsAdded)
	}
	if !result.Cached {
		t.Error("mapping not cached")
	}

	// The remembered mapping feeds the next run as a known id.
	resolver.received = nil
	if _, err := s.SyncScene(context.Background(), "42"); err != nil {
		t.Fatalf("second SyncScene failed: %v", err)
	}
	if len(resolver.received) != 1 || resolver.received[0].KnownItemID != itemID {
		t.Errorf("cache hit not injected into record: %+v", resolver.received)
	}
}

func TestSyncSceneSkipsUnorganized(t *testing.T) {
	cfg := testConfig(t)
	cfg.Stash.SkipUnorganized = true
	scene := testScene()
	scene.Organized = false
	source := &fakeSource{scene: scene}
	resolver := &fakeResolver{}
	s := newSyncer(t, cfg, source, &fakeTarget{}, resolver)

	result, err := s.SyncScene(context.Background(), "42")
	if err != nil {
		t.Fatalf("SyncScene failed: %v", err)
	}
	if !result.Skipped {
		t.Errorf("expected skip: %+v", result)
	}
	if len(resolver.received) != 0 {
		t.Error("skipped scene must not be resolved")
	}
}

func TestSyncSceneUnresolvedStillScansByPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Match.PathRewriteFrom = "/data"
	cfg.Match.PathRewriteTo = "/mnt/media"
	source := &fakeSource{scene: testScene()}
	target := &fakeTarget{serverID: "srv1"}
	resolver := &fakeResolver{outcome: resolve.Outcome{Status: resolve.StatusUnresolved}}
	s := newSyncer(t, cfg, source, target, resolver)

	result, err := s.SyncScene(context.Background(), "42")
	if err != nil {
		t.Fatalf("SyncScene failed: %v", err)
	}
	// No item was found, but the file path is still known, so the
	// point-scan runs against the rewritten source path.
	if !result.Scanned || len(target.scannedPaths) != 1 || target.scannedPaths[0] != "/mnt/media/My Show.mkv|Modified" {
		t.Errorf("point scan by path missing: %v", target.scannedPaths)
	}
	if result.Refreshed || result.Cached || len(result.URLsAdded) != 0 {
		t.Errorf("item actions ran for unresolved scene: %+v", result)
	}
	if len(target.refreshedIDs) != 0 || len(source.addedURLs) != 0 {
		t.Error("target refresh or source urls touched for unresolved scene")
	}
}

func TestSyncSceneScanFallsBackToScenePath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jellyfin.ServerID = "srv1"
	cfg.Match.PathRewriteFrom = "/data"
	cfg.Match.PathRewriteTo = "/mnt/media"
	source := &fakeSource{scene: testScene()}
	target := &fakeTarget{}
	resolver := &fakeResolver{outcome: resolve.Outcome{
		Status: resolve.StatusResolved,
		ItemID: itemID,
	}}
	s := newSyncer(t, cfg, source, target, resolver)

	result, err := s.SyncScene(context.Background(), "42")
	if err != nil {
		t.Fatalf("SyncScene failed: %v", err)
	}
	if !result.Scanned || len(target.scannedPaths) != 1 || target.scannedPaths[0] != "/mnt/media/My Show.mkv|Modified" {
		t.Errorf("scan did not fall back to the scene path: %v", target.scannedPaths)
	}
}

func TestSyncSceneMissingMetadataRefresh(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jellyfin.ServerID = "srv1"
	cfg.Actions.RefreshMetadata = false
	cfg.Actions.RefreshMissingMetadata = true
	source := &fakeSource{scene: testScene()}
	target := &fakeTarget{}
	resolver := &fakeResolver{outcome: resolve.Outcome{
		Status:   resolve.StatusResolved,
		ItemID:   itemID,
		ItemPath: "/media/My Show.mkv",
	}}
	s := newSyncer(t, cfg, source, target, resolver)

	result, err := s.SyncScene(context.Background(), "42")
	if err != nil {
		t.Fatalf("SyncScene failed: %v", err)
	}
	if !result.Refreshed || len(target.refreshedIDs) != 1 {
		t.Fatalf("missing-metadata refresh did not run: %v", target.refreshedIDs)
	}
	opts := target.refreshOpts
	if opts.MetadataRefreshMode != "Default" || opts.ImageRefreshMode != "Default" {
		t.Errorf("expected Default refresh modes: %+v", opts)
	}
	if opts.ReplaceAllMetadata || opts.ReplaceAllImages {
		t.Errorf("missing-metadata refresh must not replace anything: %+v", opts)
	}
}

func TestSyncSceneNoRefreshWhenBothKnobsOff(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jellyfin.ServerID = "srv1"
	cfg.Actions.RefreshMetadata = false
	cfg.Actions.RefreshMissingMetadata = false
	source := &fakeSource{scene: testScene()}
	target := &fakeTarget{}
	resolver := &fakeResolver{outcome: resolve.Outcome{
		Status:   resolve.StatusResolved,
		ItemID:   itemID,
		ItemPath: "/media/My Show.mkv",
	}}
	s := newSyncer(t, cfg, source, target, resolver)

	result, err := s.SyncScene(context.Background(), "42")
	if err != nil {
		t.Fatalf("SyncScene failed: %v", err)
	}
	if result.Refreshed || len(target.refreshedIDs) != 0 {
		t.Errorf("refresh ran with both knobs off: %v", target.refreshedIDs)
	}
}

func TestSyncSceneDoesNotDuplicateStoredLink(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jellyfin.ServerID = "srv1"
	scene := testScene()
	scene.URLs = []string{"http://jf.local/web/index.html#!/details?id=" + itemID + "&serverId=srv1"}
	source := &fakeSource{scene: scene}
	resolver := &fakeResolver{outcome: resolve.Outcome{
		Status: resolve.StatusResolved,
		ItemID: itemID,
	}}
	s := newSyncer(t, cfg, source, &fakeTarget{}, resolver)

	result, err := s.SyncScene(context.Background(), "42")
	if err != nil {
		t.Fatalf("SyncScene failed: %v", err)
	}
	if len(result.URLsAdded) != 0 || len(source.addedURLs) != 0 {
		t.Errorf("existing link stored again: %v", result.URLsAdded)
	}
}

func TestSyncSceneRefreshFailureIsNonFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jellyfin.ServerID = "srv1"
	source := &fakeSource{scene: testScene()}
	target := &fakeTarget{refreshErr: errors.New("boom")}
	resolver := &fakeResolver{outcome: resolve.Outcome{
		Status: resolve.StatusResolved,
		ItemID: itemID,
	}}
	s := newSyncer(t, cfg, source, target, resolver)

	result, err := s.SyncScene(context.Background(), "42")
	if err != nil {
		t.Fatalf("refresh failure must not fail the sync: %v", err)
	}
	if result.Refreshed {
		t.Error("refresh reported despite failure")
	}
	if !result.Cached {
		t.Error("mapping should still be cached after a failed refresh")
	}
}

func TestResolveSceneSkipsActions(t *testing.T) {
	cfg := testConfig(t)
	source := &fakeSource{scene: testScene()}
	target := &fakeTarget{serverID: "srv1"}
	resolver := &fakeResolver{outcome: resolve.Outcome{
		Status:   resolve.StatusResolved,
		ItemID:   itemID,
		ItemPath: "/media/My Show.mkv",
	}}
	s := newSyncer(t, cfg, source, target, resolver)

	result, err := s.ResolveScene(context.Background(), "42")
	if err != nil {
		t.Fatalf("ResolveScene failed: %v", err)
	}
	if !result.Outcome.Resolved() {
		t.Fatalf("unexpected outcome: %+v", result.Outcome)
	}
	if result.Scanned || result.Refreshed || result.Cached {
		t.Errorf("resolve-only run performed actions: %+v", result)
	}
	if len(target.scannedPaths) != 0 || len(target.refreshedIDs) != 0 {
		t.Error("resolve-only run touched the target")
	}
}

func TestSyncSceneFindError(t *testing.T) {
	cfg := testConfig(t)
	source := &fakeSource{findErr: errors.New("connection refused")}
	s := newSyncer(t, cfg, source, &fakeTarget{}, &fakeResolver{})

	if _, err := s.SyncScene(context.Background(), "42"); err == nil {
		t.Error("expected error when the scene fetch fails")
	}
}

package resolve

import (
	"context"
	"log/slog"
	"strings"

	"stashsync/internal/logging"
	"stashsync/internal/normalize"
)

// Strategy names recorded in Outcome.Strategy.
const (
	StrategyMarker    = "marker"
	StrategyExactPath = "exact-path"
	StrategySearch    = "search"
	StrategyHints     = "hints"
)

// Catalog is the read-only surface of the target media server used
// during resolution. Implementations translate transport failures into
// errors; the resolver absorbs every error as an empty result and moves
// on to the next term or strategy.
type Catalog interface {
	// SearchItems runs a scoped text search returning full candidates
	// (id, name, path, premiere date where the server provides them).
	SearchItems(ctx context.Context, term string) ([]TargetCandidate, error)
	// SearchHints runs the lighter-weight hint lookup. Hints may carry
	// only an id and a name.
	SearchHints(ctx context.Context, term string) ([]TargetCandidate, error)
	// ItemDetails fetches the full candidate for an item id.
	ItemDetails(ctx context.Context, itemID string) (TargetCandidate, error)
	// ItemPath fetches the filesystem path the server reports for an
	// item id.
	ItemPath(ctx context.Context, itemID string) (string, error)
	// FindByExactPath enumerates library items whose roots prefix the
	// given path and returns the first item whose reported path equals
	// it byte for byte. The enumeration is page-bounded; exhausting the
	// bound without a hit reports found=false.
	FindByExactPath(ctx context.Context, path string) (TargetCandidate, bool, error)
}

// Options configure a Resolver.
type Options struct {
	// PathRewrite maps source paths onto the target catalog's mount
	// point before any path-based strategy.
	PathRewrite PathRewrite
	// ExactPathEnabled gates the library-enumeration strategy.
	ExactPathEnabled bool
	// FilenameFallbacks gates the quality-stripped filename/title terms.
	FilenameFallbacks bool
	// TruncatedFallbacks gates the shortened-filename terms.
	TruncatedFallbacks bool
	// MaxHintDetails bounds the detail fetches per hint lookup.
	MaxHintDetails int
	// PerformerLimit bounds how many performers the tie-break tries.
	PerformerLimit int
}

const (
	defaultMaxHintDetails = 10
	defaultPerformerLimit = 3
)

// Resolver drives the strategy cascade for one record at a time.
type Resolver struct {
	catalog Catalog
	logger  *slog.Logger
	opts    Options
}

// New constructs a Resolver. A nil logger disables logging.
func New(catalog Catalog, logger *slog.Logger, opts Options) *Resolver {
	if opts.MaxHintDetails <= 0 {
		opts.MaxHintDetails = defaultMaxHintDetails
	}
	if opts.PerformerLimit <= 0 {
		opts.PerformerLimit = defaultPerformerLimit
	}
	return &Resolver{
		catalog: catalog,
		logger:  logging.NewComponentLogger(logger, "resolve"),
		opts:    opts,
	}
}

// Resolve runs the full cascade for one record: trusted marker id,
// exact path enumeration, scoped search across term variants, then
// hint search across the same terms. It terminates at the first
// unambiguous match and never picks arbitrarily from an ambiguous set.
func (r *Resolver) Resolve(ctx context.Context, rec SourceRecord) Outcome {
	log := r.logger.With(logging.String(logging.FieldSceneID, rec.ID))

	if ValidItemID(rec.KnownItemID) {
		outcome := Outcome{Status: StatusResolved, ItemID: rec.KnownItemID, Strategy: StrategyMarker}
		// A stored identifier is trusted; the path lookup only refreshes
		// what the server currently reports and its failure is not fatal.
		if path, err := r.catalog.ItemPath(ctx, rec.KnownItemID); err == nil && path != "" {
			outcome.ItemPath = path
		} else if err != nil {
			log.Warn("item path refresh failed",
				logging.String(logging.FieldItemID, rec.KnownItemID),
				logging.Error(err))
		}
		log.Info("resolved from stored marker",
			logging.String(logging.FieldItemID, rec.KnownItemID),
			logging.String(logging.FieldStrategy, StrategyMarker))
		return outcome
	}

	rewritten := r.opts.PathRewrite.Apply(rec.FilePath)
	if r.opts.ExactPathEnabled && rewritten != "" {
		if outcome, ok := r.resolveByExactPath(ctx, log, rewritten); ok {
			return outcome
		}
	}

	terms := r.buildTerms(rec)
	if len(terms) == 0 {
		log.Warn("no usable title or filename for search")
		return Outcome{Status: StatusUnresolved}
	}

	var lastAmbiguous *Outcome

	for _, pass := range []struct {
		strategy string
		search   searchFunc
	}{
		{StrategySearch, r.searchItems},
		{StrategyHints, r.searchHints},
	} {
		outcome := r.resolveBySearch(ctx, log, rec, terms, pass.strategy, pass.search)
		if outcome.Resolved() {
			return outcome
		}
		if outcome.Status == StatusAmbiguous {
			lastAmbiguous = &outcome
		}
	}

	if lastAmbiguous != nil {
		log.Warn("resolution ended ambiguous",
			logging.String(logging.FieldTerm, lastAmbiguous.Term),
			logging.Any(logging.FieldCandidates, lastAmbiguous.CandidateIDs))
		return *lastAmbiguous
	}
	log.Info("resolution exhausted all terms and strategies")
	return Outcome{Status: StatusUnresolved}
}

func (r *Resolver) resolveByExactPath(ctx context.Context, log *slog.Logger, path string) (Outcome, bool) {
	candidate, found, err := r.catalog.FindByExactPath(ctx, path)
	if err != nil {
		log.Warn("exact path enumeration failed", logging.Error(err))
		return Outcome{}, false
	}
	if !found || !ValidItemID(candidate.ID) {
		return Outcome{}, false
	}
	itemPath := candidate.Path
	if itemPath == "" {
		itemPath = path
	}
	log.Info("resolved by exact path",
		logging.String(logging.FieldItemID, candidate.ID),
		logging.String(logging.FieldStrategy, StrategyExactPath))
	return Outcome{
		Status:   StatusResolved,
		ItemID:   candidate.ID,
		ItemPath: itemPath,
		Strategy: StrategyExactPath,
	}, true
}

// buildTerms assembles the search terms in fixed priority order: title,
// raw filename, quality-stripped filename, quality-stripped title, then
// shortened-filename fallbacks, each expanded into its punctuation
// variants and deduplicated.
func (r *Resolver) buildTerms(rec SourceRecord) []string {
	var terms []string
	addVariants := func(s string) {
		for _, v := range normalize.TitleVariants(s) {
			terms = appendUniqueString(terms, v)
		}
	}

	filenameRaw := strings.TrimSpace(normalize.BasenameWithoutExt(rec.FilePath))

	addVariants(rec.Title)
	addVariants(filenameRaw)
	if r.opts.FilenameFallbacks {
		addVariants(normalize.StripQualitySuffix(filenameRaw))
		addVariants(normalize.StripQualitySuffix(rec.Title))
	}
	if r.opts.TruncatedFallbacks {
		for _, t := range normalize.TruncatedFilenameTerms(filenameRaw) {
			addVariants(t)
		}
	}
	return terms
}

type searchFunc func(ctx context.Context, rec SourceRecord, term string) []TargetCandidate

// searchItems is the scoped-search strategy: one text search with a
// retry stripping trailing punctuation when the first attempt is empty.
func (r *Resolver) searchItems(ctx context.Context, _ SourceRecord, term string) []TargetCandidate {
	return r.withPunctuationRetry(ctx, term, func(ctx context.Context, t string) ([]TargetCandidate, error) {
		return r.catalog.SearchItems(ctx, t)
	})
}

// searchHints is the hint strategy: rank hint ids by name relevance,
// then fetch full details for the best few so narrowing can use paths
// and dates.
func (r *Resolver) searchHints(ctx context.Context, rec SourceRecord, term string) []TargetCandidate {
	hints := r.withPunctuationRetry(ctx, term, func(ctx context.Context, t string) ([]TargetCandidate, error) {
		return r.catalog.SearchHints(ctx, t)
	})
	ids := rankHintIDs(hints, rec, term)
	if len(ids) > r.opts.MaxHintDetails {
		ids = ids[:r.opts.MaxHintDetails]
	}
	details := make([]TargetCandidate, 0, len(ids))
	for _, id := range ids {
		detail, err := r.catalog.ItemDetails(ctx, id)
		if err != nil {
			r.logger.Warn("hint detail fetch failed",
				logging.String(logging.FieldItemID, id),
				logging.Error(err))
			continue
		}
		details = append(details, detail)
	}
	return details
}

func (r *Resolver) withPunctuationRetry(ctx context.Context, term string, search func(context.Context, string) ([]TargetCandidate, error)) []TargetCandidate {
	results, err := search(ctx, term)
	if err != nil {
		r.logger.Warn("catalog search failed",
			logging.String(logging.FieldTerm, term),
			logging.Error(err))
		results = nil
	}
	if len(results) > 0 {
		return results
	}
	retry := normalize.StripTrailingPunctuation(term)
	if retry == "" || retry == term {
		return nil
	}
	results, err = search(ctx, retry)
	if err != nil {
		r.logger.Warn("catalog retry search failed",
			logging.String(logging.FieldTerm, retry),
			logging.Error(err))
		return nil
	}
	if len(results) > 0 {
		r.logger.Debug("search succeeded without trailing punctuation",
			logging.String(logging.FieldTerm, retry))
	}
	return results
}

func (r *Resolver) resolveBySearch(ctx context.Context, log *slog.Logger, rec SourceRecord, terms []string, strategy string, search searchFunc) Outcome {
	var lastAmbiguous *Outcome

	for _, term := range terms {
		narrowed := Narrow(search(ctx, rec, term), rec, term)

		if len(narrowed) > 1 && len(rec.Performers) > 0 {
			log.Warn("multiple candidates, trying performer-assisted search",
				logging.String(logging.FieldStrategy, strategy),
				logging.String(logging.FieldTerm, term),
				logging.Int("candidate_count", len(narrowed)))
			if winner, ok := r.performerTieBreak(ctx, rec, term, search); ok {
				narrowed = []TargetCandidate{winner}
			}
		}

		switch len(narrowed) {
		case 0:
			continue
		case 1:
			match := narrowed[0]
			log.Info("resolved by search",
				logging.String(logging.FieldItemID, match.ID),
				logging.String(logging.FieldStrategy, strategy),
				logging.String(logging.FieldTerm, term))
			return Outcome{
				Status:   StatusResolved,
				ItemID:   match.ID,
				ItemPath: match.Path,
				Strategy: strategy,
				Term:     term,
			}
		default:
			ids := candidateIDs(narrowed)
			log.Warn("ambiguous match, skipping term",
				logging.String(logging.FieldStrategy, strategy),
				logging.String(logging.FieldTerm, term),
				logging.Any(logging.FieldCandidates, ids))
			lastAmbiguous = &Outcome{
				Status:       StatusAmbiguous,
				Strategy:     strategy,
				Term:         term,
				CandidateIDs: ids,
			}
		}
	}

	if lastAmbiguous != nil {
		return *lastAmbiguous
	}
	return Outcome{Status: StatusUnresolved, Strategy: strategy}
}

// performerTieBreak re-runs the search with the term combined with each
// of the record's first few performers; the first combination narrowing
// to exactly one candidate wins.
func (r *Resolver) performerTieBreak(ctx context.Context, rec SourceRecord, term string, search searchFunc) (TargetCandidate, bool) {
	performers := rec.Performers
	if len(performers) > r.opts.PerformerLimit {
		performers = performers[:r.opts.PerformerLimit]
	}
	for _, performer := range performers {
		performer = strings.TrimSpace(performer)
		if performer == "" {
			continue
		}
		combined := strings.TrimSpace(term + " " + performer)
		for _, query := range normalize.TitleVariants(combined) {
			narrowed := Narrow(search(ctx, rec, query), rec, query)
			if len(narrowed) == 1 {
				return narrowed[0], true
			}
		}
	}
	return TargetCandidate{}, false
}

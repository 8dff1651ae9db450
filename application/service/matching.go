package service

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/reqmatch/reqmatch/domain/embedding"
	"github.com/reqmatch/reqmatch/domain/matching"
	"github.com/reqmatch/reqmatch/domain/repository"
	"github.com/reqmatch/reqmatch/internal/config"
	"github.com/reqmatch/reqmatch/internal/database"
	"github.com/reqmatch/reqmatch/internal/log"
)

// RunOption configures a single matching run.
type RunOption func(*runConfig)

type runConfig struct {
	partialThreshold float64
	hasPartial       bool
}

// WithPartialThreshold overrides the partial-match threshold for one run.
// The matched threshold stays process-wide; only the partial tier moves.
func WithPartialThreshold(v float64) RunOption {
	return func(c *runConfig) {
		if v >= 0 && v <= 1 {
			c.partialThreshold = v
			c.hasPartial = true
		}
	}
}

// requirementLocks serializes runs per requirement. Concurrent runs for
// different requirements proceed in parallel. Entries are reference counted
// and removed once the last holder releases, so the map stays bounded by the
// number of in-flight runs.
type requirementLocks struct {
	mu    sync.Mutex
	locks map[int64]*requirementLock
}

type requirementLock struct {
	mu   sync.Mutex
	refs int
}

func newRequirementLocks() *requirementLocks {
	return &requirementLocks{locks: make(map[int64]*requirementLock)}
}

func (l *requirementLocks) acquire(id int64) *requirementLock {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &requirementLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return entry
}

func (l *requirementLocks) release(id int64, entry *requirementLock) {
	entry.mu.Unlock()

	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()
}

// MatchingService runs the requirement-to-feature matching pipeline and
// serves its persisted results.
type MatchingService struct {
	db           database.Database
	requirements matching.RequirementStore
	items        matching.ItemStore
	records      matching.RecordStore
	searcher     matching.CandidateSearcher
	registry     *Registry
	config       config.AppConfig
	logger       *log.Logger
	locks        *requirementLocks
}

// NewMatchingService creates a MatchingService.
func NewMatchingService(
	db database.Database,
	requirements matching.RequirementStore,
	items matching.ItemStore,
	records matching.RecordStore,
	searcher matching.CandidateSearcher,
	registry *Registry,
	cfg config.AppConfig,
	logger *log.Logger,
) *MatchingService {
	if logger == nil {
		logger = log.Default()
	}
	return &MatchingService{
		db:           db,
		requirements: requirements,
		items:        items,
		records:      records,
		searcher:     searcher,
		registry:     registry,
		config:       cfg,
		logger:       logger,
		locks:        newRequirementLocks(),
	}
}

// Run executes one matching run for a requirement.
//
// The run is idempotent: every invocation replaces the requirement's full
// set of match records inside one transaction, so a re-run never leaves a
// mix of old and new records. The requirement moves to processing at the
// start and to completed or failed at the end; the failed transition is
// written even when ctx is already cancelled.
func (s *MatchingService) Run(ctx context.Context, requirementID int64, opts ...RunOption) (matching.RunSummary, error) {
	lock := s.locks.acquire(requirementID)
	defer s.locks.release(requirementID, lock)

	rc := &runConfig{}
	for _, opt := range opts {
		opt(rc)
	}

	req, err := s.requirements.FindOne(ctx, repository.WithID(requirementID))
	if err != nil {
		return matching.RunSummary{}, err
	}

	if err := s.requirements.UpdateStatus(ctx, req.ID(), matching.StatusProcessing); err != nil {
		return matching.RunSummary{}, err
	}

	provider, cfg, err := s.registry.Default(ctx)
	if err != nil {
		return matching.RunSummary{}, s.fail(ctx, req.ID(), PhaseEmbedding, err)
	}

	thresholds := matching.NewThresholds(s.config.MatchedThreshold(), s.config.PartialThreshold())
	if rc.hasPartial {
		thresholds = thresholds.WithPartial(rc.partialThreshold)
	}

	items, err := s.items.Find(ctx, repository.WithRequirementID(req.ID()))
	if err != nil {
		return matching.RunSummary{}, s.fail(ctx, req.ID(), PhasePersistence, err)
	}

	items, err = s.ensureVectors(ctx, items, provider, cfg)
	if err != nil {
		return matching.RunSummary{}, s.fail(ctx, req.ID(), PhaseEmbedding, err)
	}

	records := make([]matching.MatchRecord, 0, len(items)*s.config.MatchLimit())
	skipped := 0
	for _, item := range items {
		vector, ok := item.Vector()
		if !ok || !item.HasVectorFor(cfg.Name()) {
			skipped++
			continue
		}

		candidates, err := s.searcher.FindCandidates(ctx, cfg.Name(), vector, s.config.MatchLimit(), 0, thresholds)
		if err != nil {
			return matching.RunSummary{}, s.fail(ctx, req.ID(), PhaseSearch, err)
		}

		for _, candidate := range candidates {
			records = append(records, matching.NewMatchRecord(req.ID(), item.ID(), candidate, thresholds.Partial()))
		}
	}

	err = database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.records.DeleteTx(tx, repository.WithRequirementID(req.ID())); err != nil {
			return err
		}
		return s.records.SaveAllTx(tx, records)
	})
	if err != nil {
		return matching.RunSummary{}, s.fail(ctx, req.ID(), PhasePersistence, err)
	}

	if err := s.requirements.UpdateStatus(ctx, req.ID(), matching.StatusCompleted); err != nil {
		return matching.RunSummary{}, err
	}

	summary := matching.NewRunSummary(req.ID(), len(items), records)
	s.logger.InfoContext(ctx, "matching run completed",
		"requirement_id", req.ID(),
		"model", cfg.Name(),
		"items", len(items),
		"items_without_vector", skipped,
		"records", summary.TotalMatches(),
		"matched", summary.Matched(),
		"partial", summary.PartialMatched(),
	)
	return summary, nil
}

// ensureVectors encodes the items that have no cached vector under the
// current model. Batches encode concurrently; a failed batch falls back to
// encoding its items one by one so a single bad item cannot sink the run.
// Items that still fail are left without a vector and skipped by search.
func (s *MatchingService) ensureVectors(
	ctx context.Context,
	items []matching.Item,
	provider embedding.Provider,
	cfg embedding.ModelConfig,
) ([]matching.Item, error) {
	type pending struct {
		index int
		text  string
	}

	var todo []pending
	for i, item := range items {
		if item.HasVectorFor(cfg.Name()) {
			continue
		}
		todo = append(todo, pending{index: i, text: s.truncate(ctx, item)})
	}
	if len(todo) == 0 {
		return items, nil
	}

	batchSize := s.config.BatchSize()
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}

	results := make([][]float64, len(todo))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.EncodeWorkers())

	for start := 0; start < len(todo); start += batchSize {
		end := start + batchSize
		if end > len(todo) {
			end = len(todo)
		}
		batch := todo[start:end]
		offset := start

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, p := range batch {
				texts[i] = p.text
			}

			vectors, err := provider.Encode(gctx, texts)
			if err == nil {
				for i := range batch {
					results[offset+i] = vectors[i]
				}
				return nil
			}
			if gctx.Err() != nil {
				return gctx.Err()
			}

			s.logger.WarnContext(gctx, "batch encode failed, retrying items individually",
				"batch_size", len(batch), "error", err)

			for i, p := range batch {
				vector, oneErr := provider.EncodeOne(gctx, p.text)
				if oneErr != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					s.logger.WarnContext(gctx, "item encode failed, item will be skipped",
						"item_index", p.index, "error", oneErr)
					continue
				}
				results[offset+i] = vector
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	encoded := 0
	for i, p := range todo {
		vector := results[i]
		if vector == nil {
			continue
		}
		item := items[p.index].WithVector(vector, cfg.Name())
		if err := s.items.SaveVector(ctx, item.ID(), vector, cfg.Name()); err != nil {
			return nil, err
		}
		items[p.index] = item
		encoded++
	}

	if encoded < len(todo) {
		s.logger.WarnContext(ctx, "some items could not be encoded",
			"model", cfg.Name(), "requested", len(todo), "encoded", encoded)
	}

	s.logger.DebugContext(ctx, "item vectors ensured",
		"model", cfg.Name(), "requested", len(todo), "encoded", encoded)
	return items, nil
}

// truncate caps item text at the configured character budget.
func (s *MatchingService) truncate(ctx context.Context, item matching.Item) string {
	limit := s.config.ItemMaxChars()
	text := item.Text()
	if limit <= 0 || len([]rune(text)) <= limit {
		return text
	}
	runes := []rune(text)
	s.logger.WarnContext(ctx, "item text truncated for encoding",
		"item_id", item.ID(), "chars", len(runes), "limit", limit)
	return string(runes[:limit])
}

// fail marks the requirement failed and wraps the cause in a PhaseError.
// The status write uses a context detached from cancellation so a cancelled
// run still lands in the failed state rather than sticking in processing.
func (s *MatchingService) fail(ctx context.Context, requirementID int64, phase Phase, cause error) error {
	detached := context.WithoutCancel(ctx)
	if err := s.requirements.UpdateStatus(detached, requirementID, matching.StatusFailed); err != nil {
		s.logger.ErrorContext(detached, "failed to mark requirement failed",
			"requirement_id", requirementID, "error", err)
	}
	return NewPhaseError(phase, cause)
}

// Results returns a requirement's persisted matches grouped by
// classification status. A requirement that does not exist or has no records
// yields empty groups, not an error.
func (s *MatchingService) Results(ctx context.Context, requirementID int64) (matching.GroupedResults, error) {
	rows, statuses, err := s.records.ResultRows(ctx, requirementID)
	if err != nil {
		return matching.GroupedResults{}, err
	}
	return matching.NewGroupedResults(rows, statuses), nil
}

// Statistics returns aggregate similarity statistics for a requirement. A
// requirement that does not exist or has no records yields zero-valued
// statistics, not an error.
func (s *MatchingService) Statistics(ctx context.Context, requirementID int64) (matching.Statistics, error) {
	totalItems, err := s.items.Count(ctx, repository.WithRequirementID(requirementID))
	if err != nil {
		return matching.Statistics{}, err
	}

	records, err := s.records.Find(ctx, repository.WithRequirementID(requirementID))
	if err != nil {
		return matching.Statistics{}, err
	}
	return matching.NewStatistics(int(totalItems), records), nil
}

package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	doccontext "go.ngs.io/jplaw-cite/pkg/context"
	"go.ngs.io/jplaw-cite/pkg/detector"
	"go.ngs.io/jplaw-cite/pkg/graph"
	"go.ngs.io/jplaw-cite/pkg/lawdict"
	"go.ngs.io/jplaw-cite/pkg/lawsource"
)

// Orchestrator iterates every current statute, runs the detector over its
// articles, and writes the resulting citations into a graph store — all
// under a fixed worker pool, with progress checkpointed to disk so a run
// can resume after an interruption (spec §4.8).
type Orchestrator struct {
	source   lawsource.StatuteSource
	detector *detector.Detector
	builder  *graph.Builder
	logger   *zap.Logger
}

// New returns an Orchestrator driving detection from source through det and
// writing results via builder.
func New(source lawsource.StatuteSource, det *detector.Detector, builder *graph.Builder, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{source: source, detector: det, builder: builder, logger: logger}
}

// Run drives one orchestrator pass: it lists the statutes to process (all
// current statutes, or Config.LawIds if set), resumes from the latest
// on-disk checkpoint unless Config.Fresh is set, then fans the remaining
// work out across Config.Concurrency workers, checkpointing progress every
// Config.CheckpointEvery statutes. Per-statute failures are recorded and
// the run continues (spec §7: orchestrator never aborts on a single
// statute's failure).
func (o *Orchestrator) Run(ctx context.Context, cfg Config) (*Report, error) {
	ids, err := o.statuteIds(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	runID := uuid.NewString()
	counters := Counters{}
	completed := map[lawdict.LawId]bool{}

	if !cfg.Fresh && cfg.CheckpointDir != "" {
		if cp, ok, err := loadLatestCheckpoint(cfg.CheckpointDir); err != nil {
			return nil, fmt.Errorf("loading checkpoint: %w", err)
		} else if ok {
			runID = cp.RunID
			counters = cp.Counters
			for _, id := range cp.CompletedLawIds {
				completed[id] = true
			}
			o.logger.Info("resuming orchestrator run",
				zap.String("run_id", runID), zap.Int("already_completed", len(completed)))
		}
	}

	var pending []lawdict.LawId
	for _, id := range ids {
		if !completed[id] {
			pending = append(pending, id)
		}
	}

	report := &Report{RunID: runID}
	var mu sync.Mutex
	checkpointCounter := 0

	work := make(chan lawdict.LawId, len(pending))
	for _, id := range pending {
		work <- id
	}
	close(work)

	var wg sync.WaitGroup
	for w := 0; w < cfg.concurrency(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range work {
				select {
				case <-ctx.Done():
					return
				default:
				}

				stats, err := o.processStatute(ctx, id, cfg.subBatchSize())

				mu.Lock()
				if err != nil {
					counters.Failed++
					report.Failures = append(report.Failures, StatuteFailure{LawId: id, Error: err.Error()})
					o.logger.Warn("statute processing failed", zap.String("law_id", string(id)), zap.Error(err))
				} else {
					counters.Processed++
					counters.EdgesInserted += stats.EdgesInserted
				}
				completed[id] = true
				checkpointCounter++

				if cfg.CheckpointDir != "" && checkpointCounter%cfg.checkpointEvery() == 0 {
					if err := o.checkpointLocked(cfg.CheckpointDir, runID, completed, counters); err != nil {
						o.logger.Error("checkpoint write failed", zap.Error(err))
					}
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if cfg.CheckpointDir != "" {
		mu.Lock()
		if err := o.checkpointLocked(cfg.CheckpointDir, runID, completed, counters); err != nil {
			mu.Unlock()
			return nil, fmt.Errorf("writing final checkpoint: %w", err)
		}
		mu.Unlock()
	}

	report.Counters = counters
	return report, nil
}

// checkpointLocked must be called with the report mutex held.
func (o *Orchestrator) checkpointLocked(dir, runID string, completed map[lawdict.LawId]bool, counters Counters) error {
	ids := make([]lawdict.LawId, 0, len(completed))
	for id := range completed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return saveCheckpoint(dir, RunCheckpoint{
		RunID:           runID,
		BatchIndex:      len(ids),
		CompletedLawIds: ids,
		Counters:        counters,
	})
}

func (o *Orchestrator) statuteIds(ctx context.Context, cfg Config) ([]lawdict.LawId, error) {
	if len(cfg.LawIds) > 0 {
		return cfg.LawIds, nil
	}
	return o.source.ListCurrentStatutes(ctx)
}

// processStatute runs the detector over one statute's articles in
// sub-batches of subBatchSize, flushing each sub-batch's citations to the
// graph store before moving on to the next (spec §4.8: "Memory pressure is
// bounded by processing articles in sub-batches").
func (o *Orchestrator) processStatute(ctx context.Context, id lawdict.LawId, subBatchSize int) (graph.BuildStats, error) {
	statute, err := o.source.GetStatute(ctx, id)
	if err != nil {
		return graph.BuildStats{}, fmt.Errorf("loading statute %s: %w", id, err)
	}

	if err := o.builder.Prepare(ctx, id, statute.Title); err != nil {
		return graph.BuildStats{}, fmt.Errorf("preparing graph node for %s: %w", id, err)
	}

	tracker := doccontext.NewTracker(id)
	var total graph.BuildStats

	for start := 0; start < len(statute.Articles); start += subBatchSize {
		end := start + subBatchSize
		if end > len(statute.Articles) {
			end = len(statute.Articles)
		}

		var cites []graph.SourcedCitation
		for _, article := range statute.Articles[start:end] {
			select {
			case <-ctx.Done():
				return total, ctx.Err()
			default:
			}
			if article.IsDeleted {
				continue
			}
			tracker.EnterArticle(article.Label)
			for _, c := range o.detector.Detect(ctx, article.Text, tracker) {
				cites = append(cites, graph.SourcedCitation{Article: article.Label, Citation: c})
			}
		}

		stats, err := o.builder.InsertCitations(ctx, id, cites)
		if err != nil {
			return total, fmt.Errorf("inserting edges for %s: %w", id, err)
		}
		total.EdgesInserted += stats.EdgesInserted
		total.EdgesSkipped += stats.EdgesSkipped
		total.BatchesFailed += stats.BatchesFailed
	}

	return total, nil
}

package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"go.ngs.io/jplaw-cite/pkg/lawdict"
)

// DefaultBatchSize is the number of edges inserted per graph-store
// transaction (spec §4.6).
const DefaultBatchSize = 500

// BuildStats summarizes one statute's contribution to the graph.
type BuildStats struct {
	EdgesInserted int
	EdgesSkipped  int // citations with no resolved TargetLawId
	BatchesFailed int // batches abandoned after a transaction failure
}

// Builder converts a statute's detected citations into graph edges and
// writes them to a GraphStore, clearing that statute's previous edges
// first so re-running detection on an updated text doesn't accumulate
// stale edges from an earlier version. Edges are inserted in fixed-size
// batches; a batch that fails to commit is abandoned and logged, and the
// remaining batches still proceed (spec §4.6).
type Builder struct {
	store     GraphStore
	batchSize int
	logger    *zap.Logger
}

// NewBuilder returns a Builder writing to store, batching inserts at
// DefaultBatchSize and discarding log output.
func NewBuilder(store GraphStore) *Builder {
	return &Builder{store: store, batchSize: DefaultBatchSize, logger: zap.NewNop()}
}

// WithBatchSize overrides the insert batch size.
func (b *Builder) WithBatchSize(size int) *Builder {
	if size > 0 {
		b.batchSize = size
	}
	return b
}

// WithLogger overrides the logger used to report abandoned batches.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// Build upserts lawId's node, clears its outgoing edges, and inserts one
// edge per resolved citation found in citations. Equivalent to Prepare
// followed by InsertCitations; statutes processed in one shot (rather than
// sub-batched by the orchestrator) use this directly.
func (b *Builder) Build(ctx context.Context, lawId lawdict.LawId, lawName string, citations []SourcedCitation) (BuildStats, error) {
	if err := b.Prepare(ctx, lawId, lawName); err != nil {
		return BuildStats{}, err
	}
	return b.InsertCitations(ctx, lawId, citations)
}

// Prepare upserts lawId's node and clears its outgoing edges, readying it
// for one or more InsertCitations calls. Callers that sub-batch a statute's
// articles (the orchestrator, per spec §4.8) call this once per statute and
// then InsertCitations once per sub-batch, so an interrupted run never
// leaves half of a statute's edges cleared and the other half stale.
func (b *Builder) Prepare(ctx context.Context, lawId lawdict.LawId, lawName string) error {
	if err := b.store.UpsertLawNode(ctx, lawId, lawName); err != nil {
		return fmt.Errorf("upserting node %s: %w", lawId, err)
	}
	if err := b.store.ClearEdges(ctx, lawId); err != nil {
		return fmt.Errorf("clearing edges for %s: %w", lawId, err)
	}
	return nil
}

// InsertCitations converts citations into edges from lawId and inserts them
// in batches, without clearing prior edges first. Call Prepare once before
// the first InsertCitations call for a given statute.
func (b *Builder) InsertCitations(ctx context.Context, lawId lawdict.LawId, citations []SourcedCitation) (BuildStats, error) {
	var stats BuildStats
	var edges []Edge
	for _, sc := range citations {
		c := sc.Citation
		if c.TargetLawId == "" {
			stats.EdgesSkipped++
			continue
		}
		if c.TargetLawName != "" {
			if err := b.store.UpsertLawNode(ctx, c.TargetLawId, c.TargetLawName); err != nil {
				return stats, fmt.Errorf("upserting node %s: %w", c.TargetLawId, err)
			}
		}
		edges = append(edges, Edge{
			From:          lawId,
			To:            c.TargetLawId,
			Kind:          c.Kind,
			SourceArticle: sc.Article,
			TargetArticle: c.TargetArticle,
			MatchedText:   truncateMatchedText(c.SourceText),
			Confidence:    c.Confidence,
			IsExternal:    lawId != c.TargetLawId,
		})
	}

	for start := 0; start < len(edges); start += b.batchSize {
		end := start + b.batchSize
		if end > len(edges) {
			end = len(edges)
		}
		batch := edges[start:end]
		if err := b.store.InsertEdges(ctx, batch); err != nil {
			stats.BatchesFailed++
			b.logger.Warn("graph edge batch abandoned",
				zap.String("law_id", string(lawId)),
				zap.Int("batch_start", start),
				zap.Int("batch_size", len(batch)),
				zap.Error(err))
			continue
		}
		stats.EdgesInserted += len(batch)
	}
	return stats, nil
}

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/jplaw-cite/pkg/citation"
	"go.ngs.io/jplaw-cite/pkg/lawdict"
)

func TestMemStoreInsertAndTraverse(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.UpsertLawNode(ctx, "129AC0000000089", "民法"))
	require.NoError(t, s.UpsertLawNode(ctx, "132AC0000000048", "商法"))
	require.NoError(t, s.InsertEdges(ctx, []Edge{
		{From: "132AC0000000048", To: "129AC0000000089", Kind: citation.KindExternal, Confidence: 0.98},
	}))

	out, err := s.OutEdges(ctx, "132AC0000000048")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, lawdict.LawId("129AC0000000089"), out[0].To)

	in, err := s.InEdges(ctx, "129AC0000000089")
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, lawdict.LawId("132AC0000000048"), in[0].From)
}

func TestMemStoreClearEdgesOnlyAffectsFrom(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.InsertEdges(ctx, []Edge{
		{From: "A", To: "B"},
		{From: "B", To: "A"},
	}))

	require.NoError(t, s.ClearEdges(ctx, "A"))

	outA, _ := s.OutEdges(ctx, "A")
	assert.Empty(t, outA)
	outB, _ := s.OutEdges(ctx, "B")
	assert.Len(t, outB, 1)
}

func TestMemStoreSupportsSelfLoops(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.InsertEdges(ctx, []Edge{{From: "A", To: "A"}}))

	out, _ := s.OutEdges(ctx, "A")
	require.Len(t, out, 1)
	assert.Equal(t, out[0].From, out[0].To)
}

func TestBuilderClearsStaleEdgesBeforeReinsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	b := NewBuilder(s)

	first := []SourcedCitation{{Article: "一", Citation: citation.Citation{TargetLawId: "B", TargetLawName: "b", Kind: citation.KindExternal, Confidence: 0.9}}}
	_, err := b.Build(ctx, "A", "a", first)
	require.NoError(t, err)

	second := []SourcedCitation{{Article: "一", Citation: citation.Citation{TargetLawId: "C", TargetLawName: "c", Kind: citation.KindExternal, Confidence: 0.9}}}
	stats, err := b.Build(ctx, "A", "a", second)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EdgesInserted)

	out, _ := s.OutEdges(ctx, "A")
	require.Len(t, out, 1)
	assert.Equal(t, lawdict.LawId("C"), out[0].To)
}

func TestBuilderSkipsUnresolvedCitations(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	b := NewBuilder(s)

	stats, err := b.Build(ctx, "A", "a", []SourcedCitation{{Article: "一", Citation: citation.Citation{TargetLawId: ""}}})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.EdgesInserted)
	assert.Equal(t, 1, stats.EdgesSkipped)
}

func TestBuilderSplitsInsertsIntoBatches(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	b := NewBuilder(s).WithBatchSize(2)

	cites := []SourcedCitation{
		{Article: "一", Citation: citation.Citation{TargetLawId: "X1", Kind: citation.KindExternal, Confidence: 0.9}},
		{Article: "一", Citation: citation.Citation{TargetLawId: "X2", Kind: citation.KindExternal, Confidence: 0.9}},
		{Article: "一", Citation: citation.Citation{TargetLawId: "X3", Kind: citation.KindExternal, Confidence: 0.9}},
	}
	stats, err := b.Build(ctx, "A", "a", cites)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.EdgesInserted)
	assert.Equal(t, 0, stats.BatchesFailed)

	out, _ := s.OutEdges(ctx, "A")
	assert.Len(t, out, 3)
}

func TestBuilderPopulatesEdgeFieldsFromEnclosingArticle(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	b := NewBuilder(s)

	longText := make([]rune, 150)
	for i := range longText {
		longText[i] = '条'
	}
	sc := SourcedCitation{
		Article: "五",
		Citation: citation.Citation{
			SourceText:    string(longText),
			TargetLawId:   "B",
			TargetLawName: "b",
			TargetArticle: "三",
			Kind:          citation.KindExternal,
			Confidence:    0.9,
		},
	}
	_, err := b.Build(ctx, "A", "a", []SourcedCitation{sc})
	require.NoError(t, err)

	out, _ := s.OutEdges(ctx, "A")
	require.Len(t, out, 1)
	assert.Equal(t, "五", out[0].SourceArticle, "SourceArticle must be the citing article, not the target")
	assert.Equal(t, "三", out[0].TargetArticle)
	assert.Len(t, []rune(out[0].MatchedText), 100, "MatchedText must be truncated to 100 runes")
	assert.True(t, out[0].IsExternal)
}

type failingInsertStore struct {
	*MemStore
	failOn int
	calls  int
}

func (f *failingInsertStore) InsertEdges(ctx context.Context, edges []Edge) error {
	f.calls++
	if f.calls == f.failOn {
		return assert.AnError
	}
	return f.MemStore.InsertEdges(ctx, edges)
}

func TestBuilderAbandonsFailedBatchAndContinues(t *testing.T) {
	ctx := context.Background()
	store := &failingInsertStore{MemStore: NewMemStore(), failOn: 1}
	b := NewBuilder(store).WithBatchSize(1)

	cites := []SourcedCitation{
		{Article: "一", Citation: citation.Citation{TargetLawId: "X1", Kind: citation.KindExternal, Confidence: 0.9}},
		{Article: "一", Citation: citation.Citation{TargetLawId: "X2", Kind: citation.KindExternal, Confidence: 0.9}},
	}
	stats, err := b.Build(ctx, "A", "a", cites)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.BatchesFailed)
	assert.Equal(t, 1, stats.EdgesInserted)
}

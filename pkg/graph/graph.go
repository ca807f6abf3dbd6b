// Package graph stores the citation graph: a directed multigraph over
// LawId nodes, typed by citation kind, with legitimate self-loops (a
// statute can cite its own earlier articles in a later amendment's
// metadata). It abstracts over an in-memory store and a Neo4j-backed one
// behind the same GraphStore interface (spec §4.6).
package graph

import (
	"context"

	"go.ngs.io/jplaw-cite/pkg/citation"
	"go.ngs.io/jplaw-cite/pkg/lawdict"
)

// Edge is one citation-graph edge: law From, article SourceArticle, cites
// law To, article TargetArticle, via the text in MatchedText, carrying the
// citation kind, its confidence, and whether it crosses a statute boundary
// (spec §3/§4.6). Multiple edges between the same (From, To) pair are
// legitimate — each distinct citing article contributes its own edge.
type Edge struct {
	From          lawdict.LawId
	To            lawdict.LawId
	Kind          citation.Kind
	SourceArticle string
	TargetArticle string
	MatchedText   string
	Confidence    float64
	IsExternal    bool
}

// SourcedCitation pairs a detected citation with the label of the article
// whose text produced it. A Citation's own ByteOffset/SourceText are
// relative to one article's text only and carry no label for that article,
// so the builder needs this alongside each citation to populate an edge's
// SourceArticle correctly.
type SourcedCitation struct {
	Article  string
	Citation citation.Citation
}

// matchedTextLimit caps Edge.MatchedText at 100 runes (spec §4.6).
const matchedTextLimit = 100

// truncateMatchedText trims s to at most matchedTextLimit runes.
func truncateMatchedText(s string) string {
	r := []rune(s)
	if len(r) <= matchedTextLimit {
		return s
	}
	return string(r[:matchedTextLimit])
}

// Node is a law's graph-local identity: just enough to label it without
// round-tripping through the dictionary on every traversal.
type Node struct {
	LawId lawdict.LawId
	Name  string
}

// GraphStore is the storage abstraction the builder and the impact
// analyzer both depend on, satisfied by both an embedded MemStore and a
// Neo4jStore. Every method is safe for concurrent use.
type GraphStore interface {
	// UpsertLawNode ensures a node for id exists, updating its label if it
	// already does.
	UpsertLawNode(ctx context.Context, id lawdict.LawId, name string) error

	// ClearEdges removes every edge whose From is id, so a re-run of graph
	// construction for one statute doesn't accumulate stale edges from a
	// previous version of its text.
	ClearEdges(ctx context.Context, from lawdict.LawId) error

	// InsertEdges adds edges to the graph. Order is not significant.
	InsertEdges(ctx context.Context, edges []Edge) error

	// OutEdges returns every edge whose From is id: the statutes id cites.
	OutEdges(ctx context.Context, id lawdict.LawId) ([]Edge, error)

	// InEdges returns every edge whose To is id: the statutes that cite id,
	// the direction the impact analyzer's reverse BFS traverses.
	InEdges(ctx context.Context, id lawdict.LawId) ([]Edge, error)

	// Node returns the stored node for id, if one has been upserted.
	Node(ctx context.Context, id lawdict.LawId) (Node, bool, error)
}

// Package impact analyzes the blast radius of an amendment to one statute:
// which other statutes cite it, directly or transitively, and how
// seriously each is likely affected (spec §4.7).
package impact

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.ngs.io/jplaw-cite/pkg/graph"
	"go.ngs.io/jplaw-cite/pkg/lawdict"
)

// Bucket classifies an affected law's overall impact score.
type Bucket string

const (
	BucketHigh   Bucket = "high"
	BucketMedium Bucket = "medium"
	BucketLow    Bucket = "low"
)

// confidenceDecay is applied once per hop of distance from the origin.
const confidenceDecay = 0.9

// Node is one law reached by the reverse traversal from the target, recorded
// only at its shortest distance from the origin — a node revisited through a
// longer path never displaces its first, shorter discovery.
type Node struct {
	LawId      lawdict.LawId
	Name       string
	Depth      int             // minimum distance from the origin, >= 1
	PathCount  int             // distinct qualifying edges that reach this node, at any depth
	Confidence float64         // discovering edge's confidence * decay^(depth-1)
	Score      float64
	Bucket     Bucket
	Path       []lawdict.LawId // origin .. this node, inclusive of both ends
}

// Result is the full output of one impact analysis run.
type Result struct {
	TargetLawId   lawdict.LawId
	TargetName    string
	MaxDepth      int
	MinConfidence float64
	Nodes         []Node // sorted by descending Score, then ascending Depth
	ByDepth       map[int][]lawdict.LawId
}

// Analyzer runs reverse-traversal impact analysis over a GraphStore.
type Analyzer struct {
	store graph.GraphStore
}

// NewAnalyzer returns an Analyzer reading from store.
func NewAnalyzer(store graph.GraphStore) *Analyzer {
	return &Analyzer{store: store}
}

type frontierEntry struct {
	id   lawdict.LawId
	path []lawdict.LawId
}

// Analyze performs a breadth-first reverse traversal from target (following
// InEdges, i.e. "who cites this"). Only edges with confidence >= minConfidence
// are followed. Expansion past depth 1 happens only when includeIndirect is
// true, and never past maxDepth (spec §4.7).
func (a *Analyzer) Analyze(ctx context.Context, target lawdict.LawId, maxDepth int, minConfidence float64, includeIndirect bool) (*Result, error) {
	targetNode, _, err := a.store.Node(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("looking up target node %s: %w", target, err)
	}

	visited := map[lawdict.LawId]*Node{}
	pathCounts := map[lawdict.LawId]int{}
	frontier := []frontierEntry{{id: target, path: []lawdict.LawId{target}}}

	for depth := 0; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []frontierEntry
		for _, cur := range frontier {
			in, err := a.store.InEdges(ctx, cur.id)
			if err != nil {
				return nil, fmt.Errorf("reading incoming edges for %s: %w", cur.id, err)
			}
			for _, e := range in {
				if e.Confidence < minConfidence {
					continue
				}
				pathCounts[e.From]++
				if _, seen := visited[e.From]; seen {
					continue
				}
				childDepth := depth + 1
				path := append(append([]lawdict.LawId{}, cur.path...), e.From)
				node := &Node{
					LawId:      e.From,
					Depth:      childDepth,
					Confidence: e.Confidence * math.Pow(confidenceDecay, float64(depth)),
					Path:       path,
				}
				visited[e.From] = node
				if includeIndirect && depth+1 < maxDepth {
					next = append(next, frontierEntry{id: e.From, path: path})
				}
			}
		}
		frontier = next
	}

	result := &Result{
		TargetLawId:   target,
		TargetName:    targetNode.Name,
		MaxDepth:      maxDepth,
		MinConfidence: minConfidence,
		ByDepth:       make(map[int][]lawdict.LawId),
	}

	for id, node := range visited {
		n, _, err := a.store.Node(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("looking up node %s: %w", id, err)
		}
		node.Name = n.Name
		node.PathCount = pathCounts[id]
		node.Score = Score(node.Depth, node.PathCount)
		node.Bucket = classify(node.Score)
		result.Nodes = append(result.Nodes, *node)
		result.ByDepth[node.Depth] = append(result.ByDepth[node.Depth], id)
	}

	sort.Slice(result.Nodes, func(i, j int) bool {
		if result.Nodes[i].Score != result.Nodes[j].Score {
			return result.Nodes[i].Score > result.Nodes[j].Score
		}
		return result.Nodes[i].Depth < result.Nodes[j].Depth
	})
	for _, ids := range result.ByDepth {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	return result, nil
}

// Score computes the impact score for a law reached at the given impact
// level (minimum distance from origin) through pathCount distinct qualifying
// edges (spec §4.7):
//
//	min(1, 0.7*(1/(impact_level*0.5)) + 0.3*min(pathCount/10, 1))
//
// Depth weighs more heavily than path count. The result is capped at 1, so
// every level-1 law scores 1 whatever its path count, and a level-2 law
// reaches 1 at ten paths; below the cap, a law reached through more paths
// scores higher than one at the same level reached through fewer.
func Score(impactLevel, pathCount int) float64 {
	if impactLevel < 1 {
		impactLevel = 1
	}
	levelTerm := 0.7 * (1 / (float64(impactLevel) * 0.5))
	pathTerm := 0.3 * math.Min(float64(pathCount)/10, 1)
	return math.Min(1, levelTerm+pathTerm)
}

// classify buckets a score: high >= 0.7, medium in [0.4, 0.7), low < 0.4
// (spec §4.7, stated verbatim alongside the score formula).
func classify(score float64) Bucket {
	switch {
	case score >= 0.7:
		return BucketHigh
	case score >= 0.4:
		return BucketMedium
	default:
		return BucketLow
	}
}

package graph

import (
	"context"
	"sync"

	"go.ngs.io/jplaw-cite/pkg/lawdict"
)

// MemStore is an in-memory GraphStore, indexed both by From and by To so
// forward traversal (graph construction, reporting) and reverse traversal
// (impact analysis) are both O(out-degree)/O(in-degree) rather than a scan
// over every edge. Modeled on the teacher's TripleStore: a single slice of
// facts plus parallel indexes into it, guarded by one RWMutex.
type MemStore struct {
	mu sync.RWMutex

	nodes map[lawdict.LawId]Node
	edges []Edge

	outIndex map[lawdict.LawId][]int // law id -> indexes into edges where From == id
	inIndex  map[lawdict.LawId][]int // law id -> indexes into edges where To == id
}

// NewMemStore returns an empty in-memory graph store.
func NewMemStore() *MemStore {
	return &MemStore{
		nodes:    make(map[lawdict.LawId]Node),
		outIndex: make(map[lawdict.LawId][]int),
		inIndex:  make(map[lawdict.LawId][]int),
	}
}

// UpsertLawNode implements GraphStore.
func (m *MemStore) UpsertLawNode(_ context.Context, id lawdict.LawId, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[id] = Node{LawId: id, Name: name}
	return nil
}

// ClearEdges implements GraphStore by rebuilding the edge slice and both
// indexes without any edge whose From is id. O(total edges); acceptable
// for a store that is rebuilt once per statute run, not per citation.
func (m *MemStore) ClearEdges(_ context.Context, from lawdict.LawId) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.edges[:0]
	for _, e := range m.edges {
		if e.From != from {
			kept = append(kept, e)
		}
	}
	m.edges = kept
	m.rebuildIndexesLocked()
	return nil
}

// InsertEdges implements GraphStore.
func (m *MemStore) InsertEdges(_ context.Context, edges []Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range edges {
		idx := len(m.edges)
		m.edges = append(m.edges, e)
		m.outIndex[e.From] = append(m.outIndex[e.From], idx)
		m.inIndex[e.To] = append(m.inIndex[e.To], idx)
	}
	return nil
}

// OutEdges implements GraphStore.
func (m *MemStore) OutEdges(_ context.Context, id lawdict.LawId) ([]Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectLocked(m.outIndex[id]), nil
}

// InEdges implements GraphStore.
func (m *MemStore) InEdges(_ context.Context, id lawdict.LawId) ([]Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectLocked(m.inIndex[id]), nil
}

// Node implements GraphStore.
func (m *MemStore) Node(_ context.Context, id lawdict.LawId) (Node, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	return n, ok, nil
}

func (m *MemStore) collectLocked(indexes []int) []Edge {
	out := make([]Edge, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, m.edges[i])
	}
	return out
}

// rebuildIndexesLocked recomputes outIndex/inIndex from m.edges. Must be
// called with mu held.
func (m *MemStore) rebuildIndexesLocked() {
	m.outIndex = make(map[lawdict.LawId][]int, len(m.outIndex))
	m.inIndex = make(map[lawdict.LawId][]int, len(m.inIndex))
	for i, e := range m.edges {
		m.outIndex[e.From] = append(m.outIndex[e.From], i)
		m.inIndex[e.To] = append(m.inIndex[e.To], i)
	}
}

package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"go.ngs.io/jplaw-cite/pkg/citation"
	"go.ngs.io/jplaw-cite/pkg/lawdict"
)

// Neo4jStore is a GraphStore backed by a Neo4j database: (:Law {id, name})
// nodes connected by (:CITES {kind, source_article, target_article,
// matched_text, confidence, is_external}) edges. Chosen over the embedded
// MemStore for corpus-scale runs where the graph and its traversals outlive
// one process and need to be queried directly.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jStore opens a driver against uri and verifies connectivity.
func NewNeo4jStore(ctx context.Context, uri, username, password string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("opening neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}
	return &Neo4jStore{driver: driver}, nil
}

// Close releases the underlying driver's resources.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Neo4jStore) write(ctx context.Context, work neo4j.ManagedTransactionWork) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, err := session.ExecuteWrite(ctx, work)
	return err
}

// UpsertLawNode implements GraphStore.
func (s *Neo4jStore) UpsertLawNode(ctx context.Context, id lawdict.LawId, name string) error {
	return s.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			`MERGE (l:Law {id: $id}) SET l.name = $name`,
			map[string]any{"id": string(id), "name": name})
		return nil, err
	})
}

// ClearEdges implements GraphStore.
func (s *Neo4jStore) ClearEdges(ctx context.Context, from lawdict.LawId) error {
	return s.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			`MATCH (:Law {id: $from})-[r:CITES]->() DELETE r`,
			map[string]any{"from": string(from)})
		return nil, err
	})
}

// InsertEdges implements GraphStore.
func (s *Neo4jStore) InsertEdges(ctx context.Context, edges []Edge) error {
	return s.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, e := range edges {
			_, err := tx.Run(ctx,
				`MERGE (a:Law {id: $from})
				 MERGE (b:Law {id: $to})
				 CREATE (a)-[:CITES {
				   kind: $kind,
				   source_article: $sourceArticle,
				   target_article: $targetArticle,
				   matched_text: $matchedText,
				   confidence: $confidence,
				   is_external: $isExternal
				 }]->(b)`,
				map[string]any{
					"from":          string(e.From),
					"to":            string(e.To),
					"kind":          string(e.Kind),
					"sourceArticle": e.SourceArticle,
					"targetArticle": e.TargetArticle,
					"matchedText":   e.MatchedText,
					"confidence":    e.Confidence,
					"isExternal":    e.IsExternal,
				})
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
}

const edgeReturnClause = "a.id, b.id, r.kind, r.source_article, r.target_article, r.matched_text, r.confidence, r.is_external"

// OutEdges implements GraphStore.
func (s *Neo4jStore) OutEdges(ctx context.Context, id lawdict.LawId) ([]Edge, error) {
	return s.queryEdges(ctx,
		`MATCH (a:Law {id: $id})-[r:CITES]->(b:Law) RETURN `+edgeReturnClause,
		id)
}

// InEdges implements GraphStore.
func (s *Neo4jStore) InEdges(ctx context.Context, id lawdict.LawId) ([]Edge, error) {
	return s.queryEdges(ctx,
		`MATCH (a:Law)-[r:CITES]->(b:Law {id: $id}) RETURN `+edgeReturnClause,
		id)
}

func (s *Neo4jStore) queryEdges(ctx context.Context, cypher string, id lawdict.LawId) ([]Edge, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, cypher, map[string]any{"id": string(id)})
		if err != nil {
			return nil, err
		}
		var edges []Edge
		for records.Next(ctx) {
			rec := records.Record()
			from, _ := rec.Get("a.id")
			to, _ := rec.Get("b.id")
			kind, _ := rec.Get("r.kind")
			sourceArticle, _ := rec.Get("r.source_article")
			targetArticle, _ := rec.Get("r.target_article")
			matchedText, _ := rec.Get("r.matched_text")
			confidence, _ := rec.Get("r.confidence")
			isExternal, _ := rec.Get("r.is_external")
			edges = append(edges, Edge{
				From:          lawdict.LawId(fmt.Sprint(from)),
				To:            lawdict.LawId(fmt.Sprint(to)),
				Kind:          citation.Kind(fmt.Sprint(kind)),
				SourceArticle: fmt.Sprint(sourceArticle),
				TargetArticle: fmt.Sprint(targetArticle),
				MatchedText:   fmt.Sprint(matchedText),
				Confidence:    toFloat(confidence),
				IsExternal:    toBool(isExternal),
			})
		}
		return edges, records.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("querying neo4j edges: %w", err)
	}
	return result.([]Edge), nil
}

// Node implements GraphStore.
func (s *Neo4jStore) Node(ctx context.Context, id lawdict.LawId) (Node, bool, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, `MATCH (l:Law {id: $id}) RETURN l.id, l.name`, map[string]any{"id": string(id)})
		if err != nil {
			return nil, err
		}
		if !records.Next(ctx) {
			return Node{}, records.Err()
		}
		rec := records.Record()
		nodeId, _ := rec.Get("l.id")
		name, _ := rec.Get("l.name")
		return Node{LawId: lawdict.LawId(fmt.Sprint(nodeId)), Name: fmt.Sprint(name)}, nil
	})
	if err != nil {
		return Node{}, false, fmt.Errorf("querying neo4j node: %w", err)
	}
	node, ok := result.(Node)
	return node, ok && node.LawId != "", nil
}

func toFloat(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}

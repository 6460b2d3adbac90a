package dag

import "github.com/gyaneshwarpardhi/funnelsim/internal/funnel"

// Build constructs adjacency maps from a node/edge snapshot.
// Edges are recorded verbatim: ids absent from nodes still appear in the
// maps, and later stages check existence before reading a node.
func Build(nodes []funnel.Node, edges []funnel.Edge) *Graph {
	g := NewGraph()
	for _, n := range nodes {
		g.AddNode(n.ID)
	}
	for _, e := range edges {
		g.AddEdge(e.SourceID, e.TargetID)
	}
	return g
}

// Prune returns the edges whose endpoints both exist in nodes.
func Prune(nodes []funnel.Node, edges []funnel.Edge) []funnel.Edge {
	ids := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}
	out := make([]funnel.Edge, 0, len(edges))
	for _, e := range edges {
		if _, ok := ids[e.SourceID]; !ok {
			continue
		}
		if _, ok := ids[e.TargetID]; !ok {
			continue
		}
		out = append(out, e)
	}
	return out
}

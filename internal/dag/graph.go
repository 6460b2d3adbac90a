package dag

// Graph holds forward (source → targets) and backward (target → sources)
// adjacency for one funnel snapshot. It is immutable once built.
type Graph struct {
	Forward  map[string][]string
	Backward map[string][]string
	ids      []string // node ids in snapshot order
}

// NewGraph allocates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		Forward:  make(map[string][]string),
		Backward: make(map[string][]string),
	}
}

// AddNode registers a node id. Order of registration is traversal order.
func (g *Graph) AddNode(id string) {
	g.ids = append(g.ids, id)
}

// AddEdge records source → target in both directions. Duplicates are kept.
func (g *Graph) AddEdge(source, target string) {
	g.Forward[source] = append(g.Forward[source], target)
	g.Backward[target] = append(g.Backward[target], source)
}

// Children returns the direct successors of a node.
func (g *Graph) Children(id string) []string {
	return g.Forward[id]
}

// Parents returns the direct predecessors of a node.
func (g *Graph) Parents(id string) []string {
	return g.Backward[id]
}

// IDs returns the registered node ids in snapshot order.
func (g *Graph) IDs() []string {
	return g.ids
}

// NodeCount returns the number of registered nodes.
func (g *Graph) NodeCount() int {
	return len(g.ids)
}

// EdgeCount returns the number of recorded edges, duplicates included.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, targets := range g.Forward {
		n += len(targets)
	}
	return n
}

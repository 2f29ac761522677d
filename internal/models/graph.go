package models

// Graph is the directed transition graph of one entity episode, built by
// unioning the transitions of its trace. Nodes and successors keep insertion
// order so traversals are deterministic.
type Graph struct {
	ID    string
	Phase string

	nodes []Code
	index map[Code]int
	succ  [][]int
	edges TransitionSet
	order []Transition
}

// NewGraph builds a graph from a trace.
func NewGraph(id string, trace Trace) *Graph {
	g := &Graph{
		ID:    id,
		index: make(map[Code]int),
		edges: make(TransitionSet, len(trace)),
	}
	for _, t := range trace {
		g.AddEdge(t)
	}
	return g
}

// GraphOf builds a graph from a code sequence.
func GraphOf(id string, seq Sequence) *Graph {
	return NewGraph(id, TraceOf(seq))
}

// AddEdge inserts a transition; repeated transitions are ignored.
func (g *Graph) AddEdge(t Transition) {
	if g.edges.Has(t) {
		return
	}
	from := g.node(t.From)
	to := g.node(t.To)
	g.succ[from] = append(g.succ[from], to)
	g.edges.Add(t)
	g.order = append(g.order, t)
}

func (g *Graph) node(c Code) int {
	if idx, ok := g.index[c]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, c)
	g.index[c] = idx
	g.succ = append(g.succ, nil)
	return idx
}

// HasEdge reports whether the graph contains t.
func (g *Graph) HasEdge(t Transition) bool {
	return g.edges.Has(t)
}

// HasNode reports whether c is a node of the graph.
func (g *Graph) HasNode(c Code) bool {
	_, ok := g.index[c]
	return ok
}

// Edges returns the distinct transitions in first-seen order.
func (g *Graph) Edges() []Transition {
	return append([]Transition(nil), g.order...)
}

// EdgeSet exposes the graph's transitions as a set. Callers must not mutate it.
func (g *Graph) EdgeSet() TransitionSet {
	return g.edges
}

// Nodes returns the nodes in first-seen order.
func (g *Graph) Nodes() []Code {
	return append([]Code(nil), g.nodes...)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Index returns the arena index for c.
func (g *Graph) Index(c Code) (int, bool) {
	idx, ok := g.index[c]
	return idx, ok
}

// CodeAt returns the code stored at arena index idx.
func (g *Graph) CodeAt(idx int) Code {
	return g.nodes[idx]
}

// SuccessorIndexes returns successor arena indexes of idx in insertion order.
func (g *Graph) SuccessorIndexes(idx int) []int {
	return g.succ[idx]
}

// Trace returns the graph's distinct transitions as a trace.
func (g *Graph) Trace() Trace {
	return Trace(g.Edges())
}

// Cohort is a labelled, read-only collection of entity graphs forming one
// side of a comparison.
type Cohort struct {
	Label  string
	Graphs []*Graph
}

// NewCohort builds a cohort from graphs.
func NewCohort(label string, graphs ...*Graph) Cohort {
	return Cohort{Label: label, Graphs: graphs}
}

// Len returns the number of graphs in the cohort.
func (c Cohort) Len() int {
	return len(c.Graphs)
}

// Traces returns one trace per graph, suitable for the shared counter.
func (c Cohort) Traces() []Trace {
	traces := make([]Trace, 0, len(c.Graphs))
	for _, g := range c.Graphs {
		traces = append(traces, g.Trace())
	}
	return traces
}

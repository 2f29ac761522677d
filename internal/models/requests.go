package models

// Record is one tabular row: a single coded step of an entity episode.
type Record struct {
	EntityID string `json:"entity"`
	Phase    string `json:"phase"`
	Step     string `json:"step"`
	Code     Code   `json:"code"`
	Outcome  int    `json:"outcome"`
	Category string `json:"category,omitempty"`
}

// Episode is the ordered sequence of one entity within one phase, with the
// labels taken from its first record.
type Episode struct {
	EntityID string
	Phase    string
	Outcome  int
	Category string
	Sequence Sequence
}

// Trace returns the episode's consecutive-step transitions.
func (e Episode) Trace() Trace {
	return TraceOf(e.Sequence)
}

// Graph returns the episode's transition graph.
func (e Episode) Graph() *Graph {
	g := GraphOf(e.EntityID, e.Sequence)
	g.Phase = e.Phase
	return g
}

// OutcomePositive marks the reference outcome (e.g. survival).
const OutcomePositive = 0

package activity

// Activity is one unit of project work as read from a single input record.
// It is not modified once the dependency graph has been built from it.
type Activity struct {
	ID       string  `json:"id"`
	Duration float64 `json:"duration"`
	Demand   float64 `json:"demand"`

	// Predecessors and Successors hold the declared dependency lists as
	// written in the record, e.g. "A, B" or "-". They are tokenized by the
	// graph builder.
	Predecessors string `json:"predecessors"`
	Successors   string `json:"successors"`

	Line int `json:"line,omitempty"` // source position, 0 when unknown
}

// Token is a dependency list entry together with its 1-based position in
// the list.
type Token struct {
	Value string
	Pos   int
}

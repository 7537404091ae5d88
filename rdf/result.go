package rdf

// Row is one solution row of a Result: a binding from variable name to
// Term. Missing entries mean "unbound" per spec.md §3.
type Row map[string]Term

// Get returns the term bound to name in this row and whether it was
// bound at all.
func (r Row) Get(name string) (Term, bool) {
	t, ok := r[name]
	return t, ok
}

// Result is a SPARQL solution table: an ordered list of variable names
// (the header) plus an ordered list of rows, in server-returned order.
type Result struct {
	Vars    []string
	Bindings []Row
}

// NewResult constructs a Result with the given variable header and rows.
func NewResult(vars []string, rows []Row) *Result {
	return &Result{Vars: vars, Bindings: rows}
}

// Len returns the number of rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Bindings)
}

package texgraph

import (
	"cmp"
	"slices"

	"github.com/gogpu/gpucontext"
)

// Registry maps operator ids to operators. Graph loading resolves operators
// through a Registry passed by the caller, so a graph can be loaded against
// any controlled operator set.
//
// Registry is safe for concurrent use.
type Registry struct {
	ops *gpucontext.Registry[Operator]
}

// NewRegistry creates a Registry holding ops.
func NewRegistry(ops ...Operator) *Registry {
	r := &Registry{ops: gpucontext.NewRegistry[Operator]()}
	for _, op := range ops {
		r.Register(op)
	}
	return r
}

// Register adds op, replacing any operator with the same id.
func (r *Registry) Register(op Operator) {
	r.ops.Register(op.ID(), func() Operator { return op })
}

// Get returns the operator with the given id.
func (r *Registry) Get(id string) (Operator, error) {
	if !r.ops.Has(id) {
		return nil, &ReferenceError{Kind: RefOperator, ID: id}
	}
	return r.ops.Get(id), nil
}

// Len returns the number of registered operators.
func (r *Registry) Len() int {
	return r.ops.Count()
}

// List returns every operator ordered by group, then by name.
func (r *Registry) List() []Operator {
	ids := r.ops.Available()
	out := make([]Operator, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.ops.Get(id))
	}
	slices.SortFunc(out, func(a, b Operator) int {
		return cmp.Or(
			cmp.Compare(a.Group(), b.Group()),
			cmp.Compare(a.Name(), b.Name()),
			cmp.Compare(a.ID(), b.ID()),
		)
	})
	return out
}

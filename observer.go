package texgraph

import "strings"

// Change is a set of aspects of a graph that changed in one update.
type Change uint16

const (
	ChangeNodes       Change = 1 << iota // Nodes added or removed
	ChangeConnections                    // Connections added or removed
	ChangeParams                         // Parameter values changed
	ChangePositions                      // Nodes moved
	ChangeSelection                      // Selection changed
	ChangeHistory                        // Undo or redo stack changed
	ChangeModified                       // Modified flag, name, or file path changed
)

var changeNames = []struct {
	c    Change
	name string
}{
	{ChangeNodes, "nodes"},
	{ChangeConnections, "connections"},
	{ChangeParams, "params"},
	{ChangePositions, "positions"},
	{ChangeSelection, "selection"},
	{ChangeHistory, "history"},
	{ChangeModified, "modified"},
}

// Has reports whether c includes every aspect in other.
func (c Change) Has(other Change) bool { return c&other == other }

// String returns the names of the aspects in c joined by "|".
func (c Change) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, n := range changeNames {
		if c&n.c != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

type observer struct {
	id int
	fn func(Change)
}

// Subscribe registers fn to be called after every update of the graph with
// the aspects that changed. An update is one public mutator call, or one
// Batch; fn never sees a partially applied update. The returned function
// unsubscribes.
func (g *Graph) Subscribe(fn func(Change)) (unsubscribe func()) {
	g.nextObserver++
	id := g.nextObserver
	g.observers = append(g.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range g.observers {
			if o.id == id {
				g.observers = append(g.observers[:i:i], g.observers[i+1:]...)
				return
			}
		}
	}
}

// Batch runs fn as one update: observers are notified once, after fn
// returns.
func (g *Graph) Batch(fn func() error) error {
	g.begin()
	defer g.end()
	return fn()
}

func (g *Graph) begin() {
	g.depth++
}

// end closes an update. Leaving the outermost update delivers the pending
// changes.
func (g *Graph) end() {
	g.depth--
	if g.depth > 0 || g.pending == 0 {
		return
	}
	c := g.pending
	g.pending = 0
	for _, o := range append([]observer(nil), g.observers...) {
		o.fn(c)
	}
}

func (g *Graph) notify(c Change) {
	g.pending |= c
}

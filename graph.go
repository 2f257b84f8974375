package texgraph

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/samber/lo"

	"github.com/gogpu/texgraph/shader"
)

// Graph is a mutable operator graph with undo history.
//
// Every public mutator is one atomic update: observers registered with
// Subscribe are notified once, after the update completes. Mutators that
// take a recordUndo flag, or that are documented as recording, push an
// Action onto the undo stack and clear the redo stack.
//
// Graph is not safe for concurrent use. Callers serialize mutations; reads
// between mutations are always consistent.
type Graph struct {
	name     string
	path     string
	nodes    []*Node
	index    map[int]*Node
	counter  int
	modified bool
	history  history

	opts     graphOptions
	compiler *shader.Compiler

	observers    []observer
	nextObserver int
	depth        int
	pending      Change
}

// NewGraph creates an empty graph.
func NewGraph(opts ...GraphOption) *Graph {
	o := defaultGraphOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	if o.compiler == nil {
		o.compiler = shader.NewCompiler(
			shader.WithLibrary(o.library),
			shader.WithLogger(o.logger),
		)
	}
	return &Graph{
		index:    make(map[int]*Node),
		history:  history{limit: o.undoLimit},
		opts:     o,
		compiler: o.compiler,
	}
}

func (g *Graph) logger() *slog.Logger { return g.opts.logger }

// Name returns the document name.
func (g *Graph) Name() string { return g.name }

// SetName sets the document name.
func (g *Graph) SetName(name string) {
	if name == g.name {
		return
	}
	g.begin()
	defer g.end()
	g.name = name
	g.notify(ChangeModified)
	g.markModified()
}

// Path returns the file the graph was last opened from or saved to.
func (g *Graph) Path() string { return g.path }

// Modified reports whether the graph changed since it was loaded or saved.
func (g *Graph) Modified() bool { return g.modified }

func (g *Graph) markModified() {
	if !g.modified {
		g.modified = true
		g.notify(ChangeModified)
	}
}

// record pushes a onto the undo stack.
func (g *Graph) record(a Action) {
	g.history.push(a)
	g.notify(ChangeHistory)
}

// NextID returns a fresh node id.
func (g *Graph) NextID() int {
	g.counter++
	return g.counter
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	return slices.Clone(g.nodes)
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) (*Node, error) {
	n, ok := g.index[id]
	if !ok {
		return nil, nodeNotFound(id)
	}
	return n, nil
}

// Terminal returns the input or output terminal termID of node nodeID.
func (g *Graph) Terminal(nodeID int, termID string) (*Terminal, error) {
	n, err := g.Node(nodeID)
	if err != nil {
		return nil, err
	}
	t := n.Terminal(termID)
	if t == nil {
		return nil, terminalNotFound(nodeID, termID)
	}
	return t, nil
}

func (g *Graph) input(nodeID int, termID string) (*Terminal, error) {
	n, err := g.Node(nodeID)
	if err != nil {
		return nil, err
	}
	t := n.Input(termID)
	if t == nil {
		return nil, terminalNotFound(nodeID, termID)
	}
	return t, nil
}

func (g *Graph) output(nodeID int, termID string) (*Terminal, error) {
	n, err := g.Node(nodeID)
	if err != nil {
		return nil, err
	}
	t := n.Output(termID)
	if t == nil {
		return nil, terminalNotFound(nodeID, termID)
	}
	return t, nil
}

func nodeConflict(id int) error {
	return fmt.Errorf("%w: %d", ErrDuplicateNode, id)
}

// CreateNode creates a node of op at (x, y) with a fresh id and adds it,
// recording an add action.
func (g *Graph) CreateNode(op Operator, x, y float64) (*Node, error) {
	n, err := NewNode(op, g.NextID())
	if err != nil {
		return nil, err
	}
	n.X, n.Y = x, y
	if err := g.AddNode(n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddNode adds n and records an add action. The id counter advances past
// n's id.
func (g *Graph) AddNode(n *Node) error {
	if err := g.checkNew(n); err != nil {
		return err
	}
	g.begin()
	defer g.end()
	g.insert(n)
	g.record(&NodesAction{
		kind:    ActionAdd,
		caption: "Add " + n.Title(),
		Nodes:   []NodeDoc{n.document()},
		ops:     map[string]Operator{n.op.ID(): n.op},
	})
	return nil
}

// AddNodes adds nodes without recording undo actions. It is used to replay
// history and to load documents. Either every node is added or none is.
func (g *Graph) AddNodes(nodes ...*Node) error {
	ids := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		if err := g.checkNew(n); err != nil {
			return err
		}
		if ids[n.id] {
			return nodeConflict(n.id)
		}
		ids[n.id] = true
	}
	if len(nodes) == 0 {
		return nil
	}
	g.begin()
	defer g.end()
	for _, n := range nodes {
		g.insert(n)
	}
	return nil
}

func (g *Graph) checkNew(n *Node) error {
	if n == nil {
		return fmt.Errorf("texgraph: nil node")
	}
	if _, dup := g.index[n.id]; dup {
		return nodeConflict(n.id)
	}
	return nil
}

func (g *Graph) insert(n *Node) {
	n.deleted = false
	g.index[n.id] = n
	g.nodes = append(g.nodes, n)
	g.counter = max(g.counter, n.id)
	g.notify(ChangeNodes)
	g.markModified()
}

// Connect connects output srcTerm of node srcNode to input dstTerm of node
// dstNode, replacing any existing connection of the input, and records a
// connect action.
func (g *Graph) Connect(srcNode int, srcTerm string, dstNode int, dstTerm string) error {
	src, err := g.output(srcNode, srcTerm)
	if err != nil {
		return err
	}
	dst, err := g.input(dstNode, dstTerm)
	if err != nil {
		return err
	}
	return g.ConnectTerminals(src, dst, true)
}

// ConnectTerminals connects output src to input dst.
//
// If dst is already connected to src nothing happens. If dst is connected to
// another output that connection is removed first. A connection that would
// make the graph cyclic is rejected with ErrCycle.
func (g *Graph) ConnectTerminals(src, dst *Terminal, recordUndo bool) error {
	if src == nil || dst == nil {
		return fmt.Errorf("%w: nil terminal", ErrTerminalNotFound)
	}
	if !src.IsOutput() || dst.IsOutput() {
		return fmt.Errorf("%w: %s (%s) to %s (%s)", ErrDirection, src.Endpoint(), src.Kind, dst.Endpoint(), dst.Kind)
	}
	if !g.owns(src) {
		return terminalNotFound(src.Node, src.ID)
	}
	if !g.owns(dst) {
		return terminalNotFound(dst.Node, dst.ID)
	}
	if dst.conn != nil && dst.conn.Src == src.Endpoint() {
		return nil
	}
	if g.DetectCycle(dst, src) {
		return fmt.Errorf("%w: %s -> %s", ErrCycle, src.Endpoint(), dst.Endpoint())
	}

	g.begin()
	defer g.end()

	var removed []Connection
	if old := dst.conn; old != nil {
		g.detach(old)
		removed = append(removed, *old)
	}
	c := &Connection{Src: src.Endpoint(), Dst: dst.Endpoint()}
	src.conns = append(src.conns, c)
	dst.conn = c
	g.notify(ChangeConnections)
	g.markModified()

	if recordUndo {
		g.record(&ConnectAction{caption: "Connect", Added: []Connection{*c}, Removed: removed})
	}
	return nil
}

// owns reports whether t is a terminal of a live node of g.
func (g *Graph) owns(t *Terminal) bool {
	n, ok := g.index[t.Node]
	return ok && n.Terminal(t.ID) == t
}

// Disconnect removes the connection of input dstTerm of node dstNode and
// records it as a connect action with only a removed connection. It is a
// no-op if the input is not connected.
func (g *Graph) Disconnect(dstNode int, dstTerm string) error {
	dst, err := g.input(dstNode, dstTerm)
	if err != nil {
		return err
	}
	if dst.conn == nil {
		return nil
	}
	g.begin()
	defer g.end()
	old := *dst.conn
	g.detach(dst.conn)
	g.notify(ChangeConnections)
	g.markModified()
	g.record(&ConnectAction{caption: "Disconnect", Removed: []Connection{old}})
	return nil
}

// detach removes c from both of its terminals.
func (g *Graph) detach(c *Connection) {
	if n := g.index[c.Src.Node]; n != nil {
		if t := n.Output(c.Src.Terminal); t != nil {
			t.detach(c)
		}
	}
	if n := g.index[c.Dst.Node]; n != nil {
		if t := n.Input(c.Dst.Terminal); t != nil {
			t.detach(c)
		}
	}
}

// connectEndpoints connects the terminals named by c.
func (g *Graph) connectEndpoints(c Connection, recordUndo bool) error {
	src, err := g.output(c.Src.Node, c.Src.Terminal)
	if err != nil {
		return err
	}
	dst, err := g.input(c.Dst.Node, c.Dst.Terminal)
	if err != nil {
		return err
	}
	return g.ConnectTerminals(src, dst, recordUndo)
}

// removeConnection removes c if it is present. It reports whether it was.
func (g *Graph) removeConnection(c Connection) bool {
	dst, err := g.input(c.Dst.Node, c.Dst.Terminal)
	if err != nil || dst.conn == nil || *dst.conn != c {
		return false
	}
	g.detach(dst.conn)
	g.notify(ChangeConnections)
	g.markModified()
	return true
}

// Connections returns every connection, grouped by source node in node order.
func (g *Graph) Connections() []Connection {
	var out []Connection
	for _, n := range g.nodes {
		for _, t := range n.outputs {
			out = append(out, t.Connections()...)
		}
	}
	return out
}

// DetectCycle reports whether connecting terminals a and b would create a
// cycle. The terminals may be given in either order. Two terminals of the
// same direction can never be connected, so DetectCycle reports false for
// them.
//
// The search follows existing connections downstream from the node owning
// the input side; the connection would close a cycle if it reaches the node
// owning the output side.
func (g *Graph) DetectCycle(a, b *Terminal) bool {
	if a.Kind == b.Kind {
		return false
	}
	if a.IsOutput() {
		a, b = b, a
	}
	input, output := a, b

	visited := make(map[int]bool)
	stack := []int{input.Node}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == output.Node {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		n := g.index[id]
		if n == nil {
			continue
		}
		for _, t := range n.outputs {
			for _, c := range t.conns {
				stack = append(stack, c.Dst.Node)
			}
		}
	}
	return false
}

// DeleteSelection removes every selected node with its connections and
// records one delete action. It is a no-op if nothing is selected.
func (g *Graph) DeleteSelection() {
	g.deleteWhere("Delete", func(n *Node) bool { return n.Selected })
}

// Clear removes every node and records one delete action. It is a no-op on
// an empty graph.
func (g *Graph) Clear() {
	g.deleteWhere("Clear", func(*Node) bool { return true })
}

func (g *Graph) deleteWhere(caption string, pred func(*Node) bool) {
	g.begin()
	defer g.end()
	docs, conns, ops := g.removeNodes(pred)
	if len(docs) == 0 {
		return
	}
	g.record(&NodesAction{kind: ActionDelete, caption: caption, Nodes: docs, Connections: conns, ops: ops})
}

// removeNodes disconnects and removes the nodes matching pred. It returns
// their snapshots, each removed connection once, and their operators.
func (g *Graph) removeNodes(pred func(*Node) bool) ([]NodeDoc, []Connection, map[string]Operator) {
	targets := lo.Filter(g.nodes, func(n *Node, _ int) bool { return pred(n) })
	if len(targets) == 0 {
		return nil, nil, nil
	}
	g.begin()
	defer g.end()

	var (
		docs  []NodeDoc
		conns []Connection
		seen  = make(map[Connection]bool)
		ops   = make(map[string]Operator)
	)
	remove := func(c *Connection) {
		if !seen[*c] {
			seen[*c] = true
			conns = append(conns, *c)
		}
		g.detach(c)
	}
	for _, n := range targets {
		docs = append(docs, n.document())
		ops[n.op.ID()] = n.op
		for _, t := range n.outputs {
			for _, c := range slices.Clone(t.conns) {
				remove(c)
			}
		}
		for _, t := range n.inputs {
			if t.conn != nil {
				remove(t.conn)
			}
		}
	}
	for _, n := range targets {
		n.deleted = true
		delete(g.index, n.id)
		g.dispose(n)
	}
	g.nodes = slices.DeleteFunc(g.nodes, func(n *Node) bool { return n.deleted })

	g.notify(ChangeNodes)
	if len(conns) > 0 {
		g.notify(ChangeConnections)
	}
	if lo.SomeBy(targets, func(n *Node) bool { return n.Selected }) {
		g.notify(ChangeSelection)
	}
	g.markModified()
	return docs, conns, ops
}

// dispose releases what is held for n outside the graph.
func (g *Graph) dispose(n *Node) {
	g.compiler.Forget(n.id)
	if g.opts.disposer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			g.logger().Warn("texgraph: dispose callback panicked", "node", n.id, "panic", r)
		}
	}()
	g.opts.disposer(n)
}

// SetParam sets parameter paramID of node nodeID. A nil value removes the
// override, so the parameter reads as its default again.
//
// The change is recorded as a chgparam action, merged into the previous
// action when that one changed the same parameter of the same node, so a
// continuous adjustment undoes in one step.
func (g *Graph) SetParam(nodeID int, paramID string, value any) error {
	n, err := g.Node(nodeID)
	if err != nil {
		return err
	}
	p, ok := findParam(n.op.Params(), paramID)
	if !ok {
		return &ReferenceError{Kind: RefParam, ID: n.op.ID() + "." + paramID}
	}
	v, err := coerceParam(p, value)
	if err != nil {
		return err
	}

	g.begin()
	defer g.end()
	before := n.override(paramID)
	n.setParam(paramID, v)
	g.notify(ChangeParams)
	g.markModified()

	if top, ok := g.history.top().(*ChangeParamAction); ok && top.Node == nodeID && top.Param == paramID {
		top.After = v
		g.history.redo = nil
		g.notify(ChangeHistory)
		return nil
	}
	name := p.Name
	if name == "" {
		name = p.ID
	}
	g.record(&ChangeParamAction{caption: "Change " + name, Node: nodeID, Param: paramID, Before: before, After: v})
	return nil
}

// MoveNodes records one move action for nodes the caller has already moved,
// typically by a drag that called SetPosition along the way. It does not
// change positions itself.
func (g *Graph) MoveNodes(moves []NodeMove) error {
	if len(moves) == 0 {
		return nil
	}
	for _, m := range moves {
		if _, ok := g.index[m.Node]; !ok {
			return nodeNotFound(m.Node)
		}
	}
	g.begin()
	defer g.end()
	caption := "Move"
	if n := g.index[moves[0].Node]; len(moves) == 1 {
		caption = "Move " + n.Title()
	}
	g.record(&MoveAction{caption: caption, Moves: slices.Clone(moves)})
	return nil
}

// SetPosition moves a node without recording an undo action.
func (g *Graph) SetPosition(id int, x, y float64) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	if n.X == x && n.Y == y {
		return nil
	}
	g.begin()
	defer g.end()
	n.X, n.Y = x, y
	g.notify(ChangePositions)
	g.markModified()
	return nil
}

// Select sets the selection state of a node.
func (g *Graph) Select(id int, selected bool) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	if n.Selected == selected {
		return nil
	}
	g.begin()
	defer g.end()
	n.Selected = selected
	g.notify(ChangeSelection)
	return nil
}

// SelectAll selects every node.
func (g *Graph) SelectAll() {
	g.setSelection(true)
}

// ClearSelection deselects every node.
func (g *Graph) ClearSelection() {
	g.setSelection(false)
}

func (g *Graph) setSelection(selected bool) {
	g.begin()
	defer g.end()
	for _, n := range g.nodes {
		if n.Selected != selected {
			n.Selected = selected
			g.notify(ChangeSelection)
		}
	}
}

// Selection returns the selected nodes in node order.
func (g *Graph) Selection() []*Node {
	return lo.Filter(g.nodes, func(n *Node, _ int) bool { return n.Selected })
}

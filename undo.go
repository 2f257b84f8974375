package texgraph

import (
	"fmt"
	"slices"
)

// DefaultUndoLimit is the number of undo steps a graph keeps by default.
const DefaultUndoLimit = 100

// ActionKind identifies the type of an undo action.
type ActionKind uint8

const (
	ActionAdd         ActionKind = iota // Nodes added
	ActionDelete                        // Nodes deleted
	ActionConnect                       // Connections added or removed
	ActionMove                          // Nodes moved
	ActionChangeParam                   // One parameter changed
)

// actionKindNames maps ActionKind values to their string representation.
var actionKindNames = [...]string{
	ActionAdd:         "add",
	ActionDelete:      "delete",
	ActionConnect:     "connect",
	ActionMove:        "move",
	ActionChangeParam: "chgparam",
}

// String returns the string representation of an ActionKind.
func (k ActionKind) String() string {
	if int(k) < len(actionKindNames) {
		return actionKindNames[k]
	}
	return "unknown"
}

// Action is one reversible step of graph history. Applying an action returns
// its inverse, which goes on the opposite stack.
type Action interface {
	Kind() ActionKind

	// Caption describes the action for an Undo/Redo menu item.
	Caption() string
}

// NodesAction records nodes added (ActionAdd) or deleted (ActionDelete),
// with the connections that were attached to them.
type NodesAction struct {
	kind        ActionKind
	caption     string
	Nodes       []NodeDoc
	Connections []Connection

	// ops resolves the operator ids of Nodes when they are recreated.
	ops map[string]Operator
}

func (a *NodesAction) Kind() ActionKind { return a.kind }
func (a *NodesAction) Caption() string  { return a.caption }

// ConnectAction records connections added and removed in one step.
type ConnectAction struct {
	caption string
	Added   []Connection
	Removed []Connection
}

func (a *ConnectAction) Kind() ActionKind { return ActionConnect }
func (a *ConnectAction) Caption() string  { return a.caption }

// NodeMove is the position change of one node.
type NodeMove struct {
	Node         int
	FromX, FromY float64
	ToX, ToY     float64
}

// MoveAction records nodes dragged together.
type MoveAction struct {
	caption string
	Moves   []NodeMove
}

func (a *MoveAction) Kind() ActionKind { return ActionMove }
func (a *MoveAction) Caption() string  { return a.caption }

// ChangeParamAction records a change of one parameter of one node. A nil
// Before or After means the parameter had no override.
type ChangeParamAction struct {
	caption string
	Node    int
	Param   string
	Before  any
	After   any
}

func (a *ChangeParamAction) Kind() ActionKind { return ActionChangeParam }
func (a *ChangeParamAction) Caption() string  { return a.caption }

// history holds the undo and redo stacks.
type history struct {
	limit int
	undo  []Action
	redo  []Action
}

// push records a new action. The redo stack is cleared and the oldest undo
// entries are dropped beyond the limit.
func (h *history) push(a Action) {
	h.undo = appendBounded(h.undo, a, h.limit)
	h.redo = nil
}

// top returns the most recent undo action, or nil.
func (h *history) top() Action {
	if len(h.undo) == 0 {
		return nil
	}
	return h.undo[len(h.undo)-1]
}

func (h *history) clear() {
	h.undo = nil
	h.redo = nil
}

func appendBounded(stack []Action, a Action, limit int) []Action {
	stack = append(stack, a)
	if limit > 0 && len(stack) > limit {
		n := len(stack) - limit
		clear(stack[:n])
		stack = stack[n:]
	}
	return stack
}

func pop(stack []Action) ([]Action, Action) {
	if len(stack) == 0 {
		return stack, nil
	}
	a := stack[len(stack)-1]
	stack[len(stack)-1] = nil
	return stack[:len(stack)-1], a
}

// Undo reverts the most recent action and makes it available to Redo. It is
// a no-op when there is nothing to undo.
func (g *Graph) Undo() error {
	var a Action
	g.history.undo, a = pop(g.history.undo)
	if a == nil {
		return nil
	}
	g.begin()
	defer g.end()
	inv, err := g.apply(a)
	if err != nil {
		g.history.undo = append(g.history.undo, a)
		return fmt.Errorf("undo %s: %w", a.Kind(), err)
	}
	g.history.redo = appendBounded(g.history.redo, inv, g.history.limit)
	g.logger().Debug("texgraph: undo", "action", a.Kind(), "caption", a.Caption())
	g.notify(ChangeHistory)
	return nil
}

// Redo reapplies the most recently undone action. It is a no-op when there
// is nothing to redo.
func (g *Graph) Redo() error {
	var a Action
	g.history.redo, a = pop(g.history.redo)
	if a == nil {
		return nil
	}
	g.begin()
	defer g.end()
	inv, err := g.apply(a)
	if err != nil {
		g.history.redo = append(g.history.redo, a)
		return fmt.Errorf("redo %s: %w", a.Kind(), err)
	}
	g.history.undo = appendBounded(g.history.undo, inv, g.history.limit)
	g.logger().Debug("texgraph: redo", "action", a.Kind(), "caption", a.Caption())
	g.notify(ChangeHistory)
	return nil
}

// CanUndo reports whether there is an action to undo.
func (g *Graph) CanUndo() bool { return len(g.history.undo) > 0 }

// CanRedo reports whether there is an action to redo.
func (g *Graph) CanRedo() bool { return len(g.history.redo) > 0 }

// UndoCaption returns the caption of the action Undo would revert, or "".
func (g *Graph) UndoCaption() string {
	if a := g.history.top(); a != nil {
		return a.Caption()
	}
	return ""
}

// RedoCaption returns the caption of the action Redo would reapply, or "".
func (g *Graph) RedoCaption() string {
	if n := len(g.history.redo); n > 0 {
		return g.history.redo[n-1].Caption()
	}
	return ""
}

// UndoStack returns the undo actions, oldest first.
func (g *Graph) UndoStack() []Action {
	return append([]Action(nil), g.history.undo...)
}

// RedoStack returns the redo actions, oldest first.
func (g *Graph) RedoStack() []Action {
	return append([]Action(nil), g.history.redo...)
}

// apply performs a and returns its inverse.
func (g *Graph) apply(a Action) (Action, error) {
	switch a := a.(type) {
	case *NodesAction:
		if a.kind == ActionAdd {
			return g.applyRemoveNodes(a)
		}
		return g.applyRestoreNodes(a)
	case *ConnectAction:
		return g.applyConnect(a)
	case *MoveAction:
		return g.applyMove(a), nil
	case *ChangeParamAction:
		return g.applyChangeParam(a)
	default:
		return nil, fmt.Errorf("texgraph: unknown action %T", a)
	}
}

func (g *Graph) applyRemoveNodes(a *NodesAction) (Action, error) {
	ids := make(map[int]bool, len(a.Nodes))
	for _, d := range a.Nodes {
		ids[d.ID] = true
	}
	docs, conns, ops := g.removeNodes(func(n *Node) bool { return ids[n.id] })
	return &NodesAction{kind: ActionDelete, caption: a.caption, Nodes: docs, Connections: conns, ops: ops}, nil
}

func (g *Graph) applyRestoreNodes(a *NodesAction) (Action, error) {
	nodes := make([]*Node, 0, len(a.Nodes))
	for _, d := range a.Nodes {
		op, ok := a.ops[d.Operator]
		if !ok {
			return nil, &ReferenceError{Kind: RefOperator, ID: d.Operator}
		}
		if _, dup := g.index[d.ID]; dup {
			return nil, nodeConflict(d.ID)
		}
		n, err := NewNode(op, d.ID)
		if err != nil {
			return nil, err
		}
		n.X, n.Y = d.X, d.Y
		n.Selected = true
		if err := n.restoreParams(d.Params); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := g.AddNodes(nodes...); err != nil {
		return nil, err
	}
	var links []link
	for _, c := range a.Connections {
		l, err := g.relink(c)
		if err != nil {
			g.revert(links)
			g.uninsert(nodes)
			return nil, err
		}
		links = append(links, l)
	}
	return &NodesAction{kind: ActionAdd, caption: a.caption, Nodes: a.Nodes, Connections: a.Connections, ops: a.ops}, nil
}

func (g *Graph) applyConnect(a *ConnectAction) (Action, error) {
	var links []link
	for _, c := range a.Added {
		if g.removeConnection(c) {
			links = append(links, link{displaced: &c})
		}
	}
	for _, c := range a.Removed {
		l, err := g.relink(c)
		if err != nil {
			g.revert(links)
			return nil, err
		}
		links = append(links, l)
	}
	return &ConnectAction{caption: a.caption, Added: a.Removed, Removed: a.Added}, nil
}

// link is one connection change made while applying an action: made was
// connected and displaced was removed to make room for it.
type link struct {
	made      *Connection
	displaced *Connection
}

// relink connects c without recording it and reports what it replaced.
func (g *Graph) relink(c Connection) (link, error) {
	dst, err := g.input(c.Dst.Node, c.Dst.Terminal)
	if err != nil {
		return link{}, err
	}
	if dst.conn != nil && *dst.conn == c {
		return link{}, nil
	}
	l := link{made: &c}
	if old := dst.conn; old != nil {
		d := *old
		l.displaced = &d
	}
	if err := g.connectEndpoints(c, false); err != nil {
		return link{}, err
	}
	return l, nil
}

// revert undoes links, newest first.
func (g *Graph) revert(links []link) {
	for _, l := range slices.Backward(links) {
		if l.made != nil {
			g.removeConnection(*l.made)
		}
		if l.displaced != nil {
			if err := g.connectEndpoints(*l.displaced, false); err != nil {
				g.logger().Warn("texgraph: rollback failed", "connection", l.displaced.String(), "err", err)
			}
		}
	}
}

// uninsert takes back nodes inserted by a failed restore. They were never
// handed out, so they are not disposed.
func (g *Graph) uninsert(nodes []*Node) {
	for _, n := range nodes {
		n.deleted = true
		delete(g.index, n.id)
	}
	g.nodes = slices.DeleteFunc(g.nodes, func(n *Node) bool { return n.deleted })
	g.notify(ChangeNodes)
}

func (g *Graph) applyMove(a *MoveAction) Action {
	inv := &MoveAction{caption: a.caption, Moves: make([]NodeMove, len(a.Moves))}
	for i, m := range a.Moves {
		if n := g.index[m.Node]; n != nil {
			n.X, n.Y = m.FromX, m.FromY
		}
		inv.Moves[i] = NodeMove{Node: m.Node, FromX: m.ToX, FromY: m.ToY, ToX: m.FromX, ToY: m.FromY}
	}
	g.notify(ChangePositions)
	g.markModified()
	return inv
}

func (g *Graph) applyChangeParam(a *ChangeParamAction) (Action, error) {
	n, ok := g.index[a.Node]
	if !ok {
		return nil, nodeNotFound(a.Node)
	}
	n.setParam(a.Param, a.Before)
	g.notify(ChangeParams)
	g.markModified()
	return &ChangeParamAction{caption: a.caption, Node: a.Node, Param: a.Param, Before: a.After, After: a.Before}, nil
}

package texgraph

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNextID(t *testing.T) {
	g := NewGraph()
	if id := g.NextID(); id != 1 {
		t.Errorf("first NextID() = %d, want 1", id)
	}
	n, err := NewNode(sourceOp, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(n); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if id := g.NextID(); id <= 10 {
		t.Errorf("NextID() after adding node 10 = %d, want > 10", id)
	}

	dup, _ := NewNode(passOp, 10)
	if err := g.AddNode(dup); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("AddNode(duplicate) = %v, want ErrDuplicateNode", err)
	}
}

func TestAddNodesIsAllOrNothing(t *testing.T) {
	g := NewGraph()
	a, _ := NewNode(sourceOp, 1)
	b, _ := NewNode(passOp, 2)
	c, _ := NewNode(passOp, 1)
	if err := g.AddNodes(a, b, c); !errors.Is(err, ErrDuplicateNode) {
		t.Fatalf("AddNodes = %v, want ErrDuplicateNode", err)
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d after failed AddNodes, want 0", g.Len())
	}
	if err := g.AddNodes(a, b); err != nil {
		t.Fatalf("AddNodes: %v", err)
	}
	if g.CanUndo() {
		t.Error("AddNodes recorded an undo action")
	}
}

func TestConnectReplacesExisting(t *testing.T) {
	g := NewGraph()
	a := mustNode(t, g, sourceOp)
	b := mustNode(t, g, sourceOp)
	c := mustNode(t, g, passOp)

	mustConnect(t, g, a, c, "in")
	mustConnect(t, g, b, c, "in")

	if a.Output("out").Connected() {
		t.Error("a.out still connected after replacement")
	}
	in := c.Input("in")
	if got := in.Connection().Src; got != b.Output("out").Endpoint() {
		t.Errorf("c.in source = %v, want %v", got, b.Output("out").Endpoint())
	}
	top, ok := g.UndoStack()[len(g.UndoStack())-1].(*ConnectAction)
	if !ok {
		t.Fatalf("top action is %T, want *ConnectAction", g.UndoStack()[len(g.UndoStack())-1])
	}
	if len(top.Added) != 1 || len(top.Removed) != 1 || top.Removed[0].Src.Node != a.ID() {
		t.Errorf("connect action = %+v, want one added and a.out removed", top)
	}

	if err := g.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := in.Connection().Src.Node; got != a.ID() {
		t.Errorf("after undo c.in source node = %d, want %d", got, a.ID())
	}
	if b.Output("out").Connected() {
		t.Error("b.out still connected after undo")
	}

	// Connecting the same pair again is a no-op.
	n := len(g.UndoStack())
	mustConnect(t, g, a, c, "in")
	if len(g.UndoStack()) != n {
		t.Error("reconnecting the same terminals recorded an action")
	}
}

func TestConnectErrors(t *testing.T) {
	g := NewGraph()
	a := mustNode(t, g, sourceOp)
	b := mustNode(t, g, passOp)

	tests := []struct {
		name     string
		srcNode  int
		srcTerm  string
		dstNode  int
		dstTerm  string
		want     error
		wantKind ReferenceKind
	}{
		{"missing source node", 99, "out", b.ID(), "in", ErrNodeNotFound, RefNode},
		{"missing dest node", a.ID(), "out", 99, "in", ErrNodeNotFound, RefNode},
		{"missing output", a.ID(), "nope", b.ID(), "in", ErrTerminalNotFound, RefTerminal},
		{"input used as output", b.ID(), "in", b.ID(), "in", ErrTerminalNotFound, RefTerminal},
		{"missing input", a.ID(), "out", b.ID(), "nope", ErrTerminalNotFound, RefTerminal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Connect(tt.srcNode, tt.srcTerm, tt.dstNode, tt.dstTerm)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Connect = %v, want %v", err, tt.want)
			}
			var ref *ReferenceError
			if !errors.As(err, &ref) || ref.Kind != tt.wantKind {
				t.Errorf("Connect error %v, want *ReferenceError of kind %v", err, tt.wantKind)
			}
		})
	}

	if err := g.ConnectTerminals(b.Input("in"), a.Output("out"), true); !errors.Is(err, ErrDirection) {
		t.Errorf("ConnectTerminals(input, output) = %v, want ErrDirection", err)
	}
	other := NewGraph()
	stray := mustNode(t, other, passOp)
	if err := g.ConnectTerminals(stray.Output("out"), b.Input("in"), true); !errors.Is(err, ErrTerminalNotFound) {
		t.Errorf("ConnectTerminals(foreign terminal) = %v, want ErrTerminalNotFound", err)
	}
}

func TestDetectCycle(t *testing.T) {
	g := NewGraph()
	a, b, c := chain(t, g)

	if g.DetectCycle(a.Output("out"), b.Input("in")) != g.DetectCycle(b.Input("in"), a.Output("out")) {
		t.Error("DetectCycle depends on argument order")
	}
	if !g.DetectCycle(b.Input("in"), c.Output("out")) {
		t.Error("c.out -> b.in closes b -> c -> b, want cycle")
	}
	if !g.DetectCycle(c.Output("out"), b.Input("in")) {
		t.Error("DetectCycle(output, input) did not normalize its arguments")
	}
	if g.DetectCycle(c.Input("in"), a.Output("out")) {
		t.Error("a.out -> c.in only adds a parallel path, want no cycle")
	}
	if g.DetectCycle(b.Input("in"), c.Input("in")) {
		t.Error("two inputs can never form a cycle")
	}
	if !g.DetectCycle(b.Input("in"), b.Output("out")) {
		t.Error("self connection is a cycle")
	}

	if err := g.Connect(c.ID(), "out", b.ID(), "in"); !errors.Is(err, ErrCycle) {
		t.Errorf("Connect(c.out -> b.in) = %v, want ErrCycle", err)
	}
	if got := b.Input("in").Connection().Src.Node; got != a.ID() {
		t.Errorf("rejected connection changed b.in source to %d", got)
	}
}

func TestDetectCycleDiamond(t *testing.T) {
	g := NewGraph()
	top := mustNode(t, g, passOp)
	left := mustNode(t, g, passOp)
	right := mustNode(t, g, passOp)
	join := mustNode(t, g, mixOp)
	stray := mustNode(t, g, passOp)
	mustConnect(t, g, top, left, "in")
	mustConnect(t, g, top, right, "in")
	mustConnect(t, g, left, join, "a")
	mustConnect(t, g, right, join, "b")

	if g.DetectCycle(top.Input("in"), stray.Output("out")) {
		t.Error("reaching join twice is not a cycle")
	}
	if !g.DetectCycle(top.Input("in"), join.Output("out")) {
		t.Error("join.out -> top.in closes a cycle")
	}
	mustConnect(t, g, stray, top, "in")
}

func TestDisconnect(t *testing.T) {
	g := NewGraph()
	a, b, _ := chain(t, g)

	if err := g.Disconnect(b.ID(), "in"); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if a.Output("out").Connected() || b.Input("in").Connected() {
		t.Fatal("connection still attached to one of its ends")
	}
	if got := g.UndoCaption(); got != "Disconnect" {
		t.Errorf("UndoCaption() = %q, want Disconnect", got)
	}
	if err := g.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !b.Input("in").Connected() {
		t.Error("undo did not restore the connection")
	}

	if err := g.Disconnect(a.ID(), "nope"); !errors.Is(err, ErrTerminalNotFound) {
		t.Errorf("Disconnect(missing) = %v, want ErrTerminalNotFound", err)
	}
	if err := g.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	n := len(g.UndoStack())
	if err := g.Disconnect(b.ID(), "in"); err != nil {
		t.Fatalf("Disconnect(unconnected): %v", err)
	}
	if len(g.UndoStack()) != n {
		t.Error("disconnecting an unconnected input recorded an action")
	}
}

func TestDeleteSelectionUndo(t *testing.T) {
	var disposed []int
	g := NewGraph(WithDisposer(func(n *Node) { disposed = append(disposed, n.ID()) }))
	a, b, c := chain(t, g)
	if err := g.SetParam(a.ID(), "scale", 2.5); err != nil {
		t.Fatal(err)
	}
	before := g.Document()

	if err := g.Select(b.ID(), true); err != nil {
		t.Fatal(err)
	}
	g.DeleteSelection()

	if _, err := g.Node(b.ID()); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Node(deleted) = %v, want ErrNodeNotFound", err)
	}
	if !b.Deleted() {
		t.Error("deleted node not marked deleted")
	}
	if a.Output("out").Connected() || c.Input("in").Connected() {
		t.Error("neighbors still hold connections to the deleted node")
	}
	if !slices.Equal(disposed, []int{b.ID()}) {
		t.Errorf("disposed = %v, want [%d]", disposed, b.ID())
	}
	del, ok := g.UndoStack()[len(g.UndoStack())-1].(*NodesAction)
	if !ok || del.Kind() != ActionDelete {
		t.Fatalf("top action = %v, want delete", g.UndoStack()[len(g.UndoStack())-1])
	}
	if len(del.Nodes) != 1 || len(del.Connections) != 2 {
		t.Errorf("delete action holds %d nodes and %d connections, want 1 and 2", len(del.Nodes), len(del.Connections))
	}

	if err := g.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if diff := cmp.Diff(before, g.Document()); diff != "" {
		t.Errorf("document after undo mismatch (-want +got):\n%s", diff)
	}
	restored, err := g.Node(b.ID())
	if err != nil {
		t.Fatalf("Node(restored): %v", err)
	}
	if !restored.Selected {
		t.Error("restored node is not selected")
	}

	if err := g.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if g.Len() != 2 {
		t.Errorf("Len() after redo = %d, want 2", g.Len())
	}
}

func TestDeleteWholeSelection(t *testing.T) {
	g := NewGraph()
	a, b, c := chain(t, g)
	g.SelectAll()
	if got := len(g.Selection()); got != 3 {
		t.Fatalf("len(Selection()) = %d, want 3", got)
	}
	g.DeleteSelection()
	del := g.UndoStack()[len(g.UndoStack())-1].(*NodesAction)
	// a -> b and b -> c, each recorded once though both ends were deleted.
	if len(del.Connections) != 2 {
		t.Errorf("recorded %d connections, want 2: %v", len(del.Connections), del.Connections)
	}
	if err := g.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	for _, n := range []*Node{a, b, c} {
		if _, err := g.Node(n.ID()); err != nil {
			t.Errorf("Node(%d) after undo: %v", n.ID(), err)
		}
	}
	if got := len(g.Connections()); got != 2 {
		t.Errorf("len(Connections()) after undo = %d, want 2", got)
	}
}

func TestDeleteEmptySelection(t *testing.T) {
	g := NewGraph()
	mustNode(t, g, sourceOp)
	n := len(g.UndoStack())
	g.DeleteSelection()
	if len(g.UndoStack()) != n || g.Len() != 1 {
		t.Error("deleting an empty selection changed the graph")
	}

	empty := NewGraph()
	empty.Clear()
	if empty.CanUndo() {
		t.Error("clearing an empty graph recorded an action")
	}
}

func TestClear(t *testing.T) {
	g := NewGraph()
	chain(t, g)
	g.Clear()
	if g.Len() != 0 || len(g.Connections()) != 0 {
		t.Fatalf("Clear left %d nodes and %d connections", g.Len(), len(g.Connections()))
	}
	if got := g.UndoCaption(); got != "Clear" {
		t.Errorf("UndoCaption() = %q, want Clear", got)
	}
	if err := g.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if g.Len() != 3 {
		t.Errorf("Len() after undo = %d, want 3", g.Len())
	}
}

func TestSetParamCoalesces(t *testing.T) {
	g := NewGraph()
	n := mustNode(t, g, sourceOp)
	base := len(g.UndoStack())

	for _, v := range []float64{0.1, 0.2, 0.3} {
		if err := g.SetParam(n.ID(), "scale", v); err != nil {
			t.Fatalf("SetParam(%g): %v", v, err)
		}
	}
	if got := len(g.UndoStack()); got != base+1 {
		t.Fatalf("len(UndoStack()) = %d, want %d", got, base+1)
	}
	top := g.UndoStack()[base].(*ChangeParamAction)
	if top.Before != nil || top.After != 0.3 {
		t.Errorf("action before=%v after=%v, want <nil> and 0.3", top.Before, top.After)
	}
	if top.Kind().String() != "chgparam" || top.Caption() != "Change Scale" {
		t.Errorf("action kind %v caption %q", top.Kind(), top.Caption())
	}

	if err := g.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if v, _ := n.Param("scale"); v != 1.0 {
		t.Errorf("scale after undo = %v, want default 1", v)
	}
	if len(n.Overrides()) != 0 {
		t.Errorf("Overrides() after undo = %v, want none", n.Overrides())
	}
	if err := g.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if v, _ := n.Param("scale"); v != 0.3 {
		t.Errorf("scale after redo = %v, want 0.3", v)
	}

	// A different parameter starts a new action.
	if err := g.SetParam(n.ID(), "count", 5); err != nil {
		t.Fatal(err)
	}
	if got := len(g.UndoStack()); got != base+2 {
		t.Fatalf("len(UndoStack()) = %d, want %d", got, base+2)
	}

	// Merging into an action still invalidates redo.
	if err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := g.SetParam(n.ID(), "scale", 0.4); err != nil {
		t.Fatal(err)
	}
	if g.CanRedo() {
		t.Error("CanRedo() after a merged change, want false")
	}
	if got := len(g.UndoStack()); got != base+1 {
		t.Errorf("len(UndoStack()) = %d, want %d", got, base+1)
	}
}

func TestSetParamCoercion(t *testing.T) {
	g := NewGraph()
	n := mustNode(t, g, sourceOp)

	tests := []struct {
		param string
		value any
		want  any
	}{
		{"scale", 2, 2.0},
		{"scale", "0.5", 0.5},
		{"count", 4.0, 4},
		{"color", []any{0.1, 0.2, 0.3, 1.0}, [4]float64{0.1, 0.2, 0.3, 1}},
		{"stops", []any{
			map[string]any{"value": []any{1.0, 0.0, 0.0, 1.0}, "position": 0.25},
		}, []ColorStop{{Value: [4]float64{1, 0, 0, 1}, Position: 0.25}}},
		{"inner", 0.75, 0.75},
	}
	for _, tt := range tests {
		if err := g.SetParam(n.ID(), tt.param, tt.value); err != nil {
			t.Errorf("SetParam(%s, %v): %v", tt.param, tt.value, err)
			continue
		}
		got, _ := n.Param(tt.param)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Param(%s) mismatch (-want +got):\n%s", tt.param, diff)
		}
	}

	if err := g.SetParam(n.ID(), "scale", "abc"); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("SetParam(scale, abc) = %v, want ErrInvalidParam", err)
	}
	if err := g.SetParam(n.ID(), "nope", 1); !errors.Is(err, ErrParamNotFound) {
		t.Errorf("SetParam(nope) = %v, want ErrParamNotFound", err)
	}
	if err := g.SetParam(99, "scale", 1); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("SetParam(node 99) = %v, want ErrNodeNotFound", err)
	}
	if err := g.SetParam(n.ID(), "scale", nil); err != nil {
		t.Fatal(err)
	}
	if v, _ := n.Param("scale"); v != 1.0 {
		t.Errorf("scale after clearing = %v, want default 1", v)
	}
}

func TestMoveNodes(t *testing.T) {
	g := NewGraph()
	n := mustNode(t, g, sourceOp)
	if err := g.SetPosition(n.ID(), 40, 50); err != nil {
		t.Fatal(err)
	}
	if err := g.MoveNodes([]NodeMove{{Node: n.ID(), FromX: 0, FromY: 0, ToX: 40, ToY: 50}}); err != nil {
		t.Fatalf("MoveNodes: %v", err)
	}
	if got := g.UndoCaption(); got != "Move Source" {
		t.Errorf("UndoCaption() = %q, want %q", got, "Move Source")
	}
	if err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	if n.X != 0 || n.Y != 0 {
		t.Errorf("position after undo = (%g, %g), want (0, 0)", n.X, n.Y)
	}
	if err := g.Redo(); err != nil {
		t.Fatal(err)
	}
	if n.X != 40 || n.Y != 50 {
		t.Errorf("position after redo = (%g, %g), want (40, 50)", n.X, n.Y)
	}
	if err := g.MoveNodes([]NodeMove{{Node: 99}}); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("MoveNodes(missing) = %v, want ErrNodeNotFound", err)
	}
}

func TestUndoRedoAddNode(t *testing.T) {
	g := NewGraph()
	if err := g.Undo(); err != nil {
		t.Fatalf("Undo on empty history: %v", err)
	}
	n := mustNode(t, g, sourceOp)
	if got := g.UndoCaption(); got != "Add Source" {
		t.Errorf("UndoCaption() = %q, want %q", got, "Add Source")
	}
	if err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	if g.Len() != 0 || !g.CanRedo() || g.RedoCaption() != "Add Source" {
		t.Fatalf("after undo: len=%d canRedo=%v caption=%q", g.Len(), g.CanRedo(), g.RedoCaption())
	}
	if err := g.Redo(); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Node(n.ID()); err != nil {
		t.Errorf("Node after redo: %v", err)
	}

	// A new action clears the redo stack.
	_ = g.Undo()
	mustNode(t, g, passOp)
	if g.CanRedo() {
		t.Error("CanRedo() after a new action, want false")
	}
}

func TestSelection(t *testing.T) {
	g := NewGraph()
	a, b, c := chain(t, g)
	if err := g.Select(b.ID(), true); err != nil {
		t.Fatal(err)
	}
	if got := g.Selection(); len(got) != 1 || got[0] != b {
		t.Errorf("Selection() = %v, want [%v]", got, b)
	}
	g.SelectAll()
	if got := g.Selection(); !slices.Equal(got, []*Node{a, b, c}) {
		t.Errorf("Selection() after SelectAll = %v", got)
	}
	g.ClearSelection()
	if len(g.Selection()) != 0 {
		t.Error("ClearSelection left nodes selected")
	}
	if err := g.Select(99, true); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Select(99) = %v, want ErrNodeNotFound", err)
	}
}

func TestModified(t *testing.T) {
	g := NewGraph()
	if g.Modified() {
		t.Fatal("new graph is modified")
	}
	mustNode(t, g, sourceOp)
	if !g.Modified() {
		t.Error("graph not modified after CreateNode")
	}
	g.SetName("bricks")
	if g.Name() != "bricks" {
		t.Errorf("Name() = %q", g.Name())
	}
}

func TestTerminalLayout(t *testing.T) {
	g := NewGraph()
	src := mustNode(t, g, sourceOp)
	mix := mustNode(t, g, mixOp)

	out := src.Output("out")
	if out.X != 93 || out.Y != 42 {
		t.Errorf("single output at (%d, %d), want (93, 42)", out.X, out.Y)
	}
	a, b := mix.Input("a"), mix.Input("b")
	if a.X != -9 || a.Y != 24 || b.Y != 60 {
		t.Errorf("inputs at (%d, %d) and y=%d, want (-9, 24) and y=60", a.X, a.Y, b.Y)
	}

	specs := make([]TerminalSpec, 4)
	for i := range specs {
		specs[i] = TerminalSpec{ID: string(rune('a' + i))}
	}
	var ys []int
	for _, term := range layoutTerminals(TerminalOutput, 1, specs) {
		ys = append(ys, term.Y)
	}
	if want := []int{0, 30, 60, 90}; !slices.Equal(ys, want) {
		t.Errorf("four outputs at y=%v, want %v", ys, want)
	}
}

func TestNewNodeDuplicateTerminal(t *testing.T) {
	op := &testOp{BaseOperator: BaseOperator{
		OpID:        "test_dup",
		InputSpecs:  []TerminalSpec{{ID: "x"}},
		OutputSpecs: []TerminalSpec{{ID: "x"}},
	}}
	if _, err := NewNode(op, 1); !errors.Is(err, ErrDuplicateTerminal) {
		t.Errorf("NewNode = %v, want ErrDuplicateTerminal", err)
	}
}

func TestNodeParams(t *testing.T) {
	n, _ := NewNode(sourceOp, 3)
	params := n.Params()
	for _, id := range []string{"color", "scale", "count", "stops", "inner"} {
		if _, ok := params[id]; !ok {
			t.Errorf("Params() missing %q", id)
		}
	}
	if _, ok := params["group"]; ok {
		t.Error("Params() lists the group itself")
	}
	if got := n.CodeKey(); got != "inner=0.5;" {
		t.Errorf("CodeKey() = %q", got)
	}
	var names []string
	for _, u := range n.Uniforms() {
		names = append(names, u.Name)
	}
	want := []string{"test_source3_color", "test_source3_scale", "test_source3_count", "test_source3_stops"}
	if !slices.Equal(names, want) {
		t.Errorf("Uniforms() = %v, want %v", names, want)
	}
	if n.String() != "test_source3" {
		t.Errorf("String() = %q", n.String())
	}
}

package expr

import "sync/atomic"

// Expr is a node of the expression tree.
//
// The set of implementations is closed: only the types in this package
// satisfy Expr.
type Expr interface {
	// Type returns the semantic result type of the expression.
	Type() DataType

	exprNode()
}

// AssignExpr stores Right into Left.
type AssignExpr struct {
	Left  Expr
	Right Expr
}

// CallExpr calls a function definition.
type CallExpr struct {
	Fn     *FunctionDefn
	Args   []Expr
	Result DataType
}

// OverloadCallExpr calls a function with an already resolved signature.
type OverloadCallExpr struct {
	Fn   *OverloadDefn
	Args []Expr
}

// LocalDefn declares a local variable, optionally initialized.
type LocalDefn struct {
	Name     string
	DataType DataType
	Init     Expr // nil when the variable is declared without a value
}

// RefLocalExpr reads a local variable.
type RefLocalExpr struct {
	Name     string
	DataType DataType
}

// RefUniformExpr reads a uniform bound to a node parameter.
type RefUniformExpr struct {
	Name     string // Fully qualified uniform name
	Node     int
	Param    string
	DataType DataType
}

// RefInputExpr reads the value arriving at an input terminal of a node,
// sampled at UV.
type RefInputExpr struct {
	Node     int
	Input    string
	DataType DataType
	UV       Expr
}

// RefTexCoordsExpr reads the fragment texture coordinate.
type RefTexCoordsExpr struct{}

// LiteralExpr is a literal written verbatim into the output.
type LiteralExpr struct {
	Value    string
	DataType DataType
}

// TypeCastExpr converts Value to DataType.
type TypeCastExpr struct {
	Value    Expr
	DataType DataType
}

// GetAttrExpr selects a member or swizzle of Base.
type GetAttrExpr struct {
	Base     Expr
	Name     string
	DataType DataType
}

// BinaryExpr applies an arithmetic operator.
type BinaryExpr struct {
	Op       BinaryOperator
	Left     Expr
	Right    Expr
	DataType DataType
}

// ForkKey identifies one Fork instance.
type ForkKey uint64

// ForkExpr marks Value as consumed more than once. The lowering pass may
// cache it in a local variable called Name.
type ForkExpr struct {
	Value Expr
	Name  string
	Key   ForkKey
}

func (e *AssignExpr) Type() DataType       { return e.Left.Type() }
func (e *CallExpr) Type() DataType         { return e.Result }
func (e *OverloadCallExpr) Type() DataType { return e.Fn.Sig.Result }
func (e *LocalDefn) Type() DataType        { return e.DataType }
func (e *RefLocalExpr) Type() DataType     { return e.DataType }
func (e *RefUniformExpr) Type() DataType   { return e.DataType }
func (e *RefInputExpr) Type() DataType     { return e.DataType }
func (e *RefTexCoordsExpr) Type() DataType { return Vec2 }
func (e *LiteralExpr) Type() DataType      { return e.DataType }
func (e *TypeCastExpr) Type() DataType     { return e.DataType }
func (e *GetAttrExpr) Type() DataType      { return e.DataType }
func (e *BinaryExpr) Type() DataType       { return e.DataType }
func (e *ForkExpr) Type() DataType         { return e.Value.Type() }

func (*AssignExpr) exprNode()       {}
func (*CallExpr) exprNode()         {}
func (*OverloadCallExpr) exprNode() {}
func (*LocalDefn) exprNode()        {}
func (*RefLocalExpr) exprNode()     {}
func (*RefUniformExpr) exprNode()   {}
func (*RefInputExpr) exprNode()     {}
func (*RefTexCoordsExpr) exprNode() {}
func (*LiteralExpr) exprNode()      {}
func (*TypeCastExpr) exprNode()     {}
func (*GetAttrExpr) exprNode()      {}
func (*BinaryExpr) exprNode()       {}
func (*ForkExpr) exprNode()         {}

// Assign returns an assignment of right into left.
func Assign(left, right Expr) *AssignExpr {
	return &AssignExpr{Left: left, Right: right}
}

// DefLocal declares a local variable. init may be nil.
func DefLocal(name string, t DataType, init Expr) *LocalDefn {
	return &LocalDefn{Name: name, DataType: t, Init: init}
}

// RefLocal reads a local variable.
func RefLocal(name string, t DataType) *RefLocalExpr {
	return &RefLocalExpr{Name: name, DataType: t}
}

// RefUniform reads the uniform called name, bound to a parameter of a node.
func RefUniform(name string, t DataType, node int, param string) *RefUniformExpr {
	return &RefUniformExpr{Name: name, Node: node, Param: param, DataType: t}
}

// RefInput reads input terminal input of node at uv.
func RefInput(node int, input string, t DataType, uv Expr) *RefInputExpr {
	return &RefInputExpr{Node: node, Input: input, DataType: t, UV: uv}
}

// TexCoords reads the fragment texture coordinate.
func TexCoords() *RefTexCoordsExpr {
	return &RefTexCoordsExpr{}
}

// Literal returns a literal.
func Literal(value string, t DataType) *LiteralExpr {
	return &LiteralExpr{Value: value, DataType: t}
}

// TypeCast converts value to t.
func TypeCast(value Expr, t DataType) *TypeCastExpr {
	return &TypeCastExpr{Value: value, DataType: t}
}

// GetAttr selects member name of base.
func GetAttr(base Expr, name string, t DataType) *GetAttrExpr {
	return &GetAttrExpr{Base: base, Name: name, DataType: t}
}

// Binary applies op to left and right.
func Binary(op BinaryOperator, left, right Expr, t DataType) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right, DataType: t}
}

// Add returns left + right.
func Add(left, right Expr, t DataType) *BinaryExpr { return Binary(OpAdd, left, right, t) }

// Sub returns left - right.
func Sub(left, right Expr, t DataType) *BinaryExpr { return Binary(OpSub, left, right, t) }

// Mul returns left * right.
func Mul(left, right Expr, t DataType) *BinaryExpr { return Binary(OpMul, left, right, t) }

// Div returns left / right.
func Div(left, right Expr, t DataType) *BinaryExpr { return Binary(OpDiv, left, right, t) }

var forkKeys atomic.Uint64

// Fork marks value as shared under name. Every call returns a fork with a
// fresh key.
func Fork(value Expr, name string) *ForkExpr {
	return &ForkExpr{Value: value, Name: name, Key: ForkKey(forkKeys.Add(1))}
}

// Package expr defines the expression IR that operators emit and the shader
// pipeline lowers, generates, and prints.
//
// An expression tree is a pure computation over the fragment texture
// coordinate, per-node uniforms, and upstream node outputs. Trees are built
// with the constructor functions in this package (Add, Call, Fork, ...) and
// inspected with a type switch over the concrete *XxxExpr types:
//
//	switch e := e.(type) {
//	case *expr.BinaryExpr:
//		...
//	case *expr.ForkExpr:
//		...
//	}
//
// Expressions are immutable once built. Passes that rewrite a tree return a
// new tree and share unchanged subtrees.
package expr

// DataType identifies the semantic result type of an expression, a terminal,
// or a parameter.
type DataType uint8

const (
	Other        DataType = iota // Unknown or not representable
	Float                        // Scalar float
	Int                          // Scalar integer
	Vec2                         // 2-component float vector
	Vec3                         // 3-component float vector
	Vec4                         // 4-component float vector
	RGBA                         // Color, stored as vec4
	RGBAGradient                 // Color stop list, declared as a colors/positions pair
	Vec4Array                    // Fixed size vec4 array
	FloatArray                   // Fixed size float array
	Image                        // Sampled texture
	Group                        // Parameter group (no value of its own)
)

var dataTypeNames = [...]string{
	Other:        "other",
	Float:        "float",
	Int:          "int",
	Vec2:         "vec2",
	Vec3:         "vec3",
	Vec4:         "vec4",
	RGBA:         "rgba",
	RGBAGradient: "rgba-gradient",
	Vec4Array:    "vec4[]",
	FloatArray:   "float[]",
	Image:        "image",
	Group:        "group",
}

// String returns the string representation of a DataType.
func (t DataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return "unknown"
}

// Components returns the number of float components of a scalar or vector
// type, or 0 for anything else.
func (t DataType) Components() int {
	switch t {
	case Float, Int:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4, RGBA:
		return 4
	default:
		return 0
	}
}

// BinaryOperator is an arithmetic operator of a BinaryExpr.
type BinaryOperator uint8

const (
	OpAdd BinaryOperator = iota
	OpSub
	OpMul
	OpDiv
)

var binaryOperatorSymbols = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
}

var binaryOperatorNames = [...]string{
	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mul",
	OpDiv: "div",
}

// Symbol returns the infix symbol of the operator.
func (op BinaryOperator) Symbol() string {
	if int(op) < len(binaryOperatorSymbols) {
		return binaryOperatorSymbols[op]
	}
	return "?"
}

// String returns the name of the operator ("add", "sub", ...).
func (op BinaryOperator) String() string {
	if int(op) < len(binaryOperatorNames) {
		return binaryOperatorNames[op]
	}
	return "unknown"
}

// Precedence returns the binding strength of the operator. Higher binds
// tighter.
func (op BinaryOperator) Precedence() int {
	switch op {
	case OpMul, OpDiv:
		return 2
	default:
		return 1
	}
}

package shader

import (
	"fmt"

	"github.com/gogpu/texgraph/codefmt"
	"github.com/gogpu/texgraph/expr"
)

// Operator precedence levels used to decide parenthesization.
const (
	precLowest  = 0
	precPostfix = 10
)

// Generate maps a lowered statement to a chunk tree in dialect d.
// Assignments and local definitions become statements; any other expression
// becomes an expression statement.
func Generate(d Dialect, stmt expr.Expr) (codefmt.Chunk, error) {
	g := generator{d: d}
	return g.stmt(stmt)
}

// GenerateExpr maps an expression to a chunk tree in dialect d.
func GenerateExpr(d Dialect, e expr.Expr) (codefmt.Chunk, error) {
	g := generator{d: d}
	return g.expr(e, precLowest)
}

type generator struct {
	d Dialect
}

func (g generator) stmt(e expr.Expr) (codefmt.Chunk, error) {
	switch e := e.(type) {
	case *expr.LocalDefn:
		if e.Init == nil {
			return g.d.DeclareLocal(e.Name, e.DataType, nil)
		}
		init, err := g.expr(e.Init, precLowest)
		if err != nil {
			return codefmt.Chunk{}, err
		}
		return g.d.DeclareLocal(e.Name, e.DataType, &init)
	default:
		c, err := g.expr(e, precLowest)
		if err != nil {
			return codefmt.Chunk{}, err
		}
		return codefmt.Stmt(c), nil
	}
}

func (g generator) expr(e expr.Expr, prec int) (codefmt.Chunk, error) {
	switch e := e.(type) {
	case *expr.AssignExpr:
		left, err := g.expr(e.Left, precLowest)
		if err != nil {
			return codefmt.Chunk{}, err
		}
		right, err := g.expr(e.Right, precLowest)
		if err != nil {
			return codefmt.Chunk{}, err
		}
		return codefmt.Flat(left, codefmt.Text(" = "), right), nil

	case *expr.CallExpr:
		if e.Fn == expr.TextureFn {
			return g.sample(e.Args)
		}
		return g.call(e.Fn.NameIn(g.d.Name()), e.Args)

	case *expr.OverloadCallExpr:
		return g.call(e.Fn.Fn.NameIn(g.d.Name()), e.Args)

	case *expr.RefLocalExpr:
		return codefmt.Lit(e.Name), nil

	case *expr.RefUniformExpr:
		return codefmt.Lit(e.Name), nil

	case *expr.RefTexCoordsExpr:
		return codefmt.Lit("vTextureCoord"), nil

	case *expr.LiteralExpr:
		return codefmt.Lit(e.Value), nil

	case *expr.TypeCastExpr:
		typ, err := g.d.TypeName(e.DataType)
		if err != nil {
			return codefmt.Chunk{}, err
		}
		v, err := g.expr(e.Value, precLowest)
		if err != nil {
			return codefmt.Chunk{}, err
		}
		return codefmt.FCall(typ, v), nil

	case *expr.GetAttrExpr:
		base, err := g.expr(e.Base, precPostfix)
		if err != nil {
			return codefmt.Chunk{}, err
		}
		return codefmt.Flat(base, codefmt.Lit("."+e.Name)), nil

	case *expr.BinaryExpr:
		p := e.Op.Precedence()
		left, err := g.expr(e.Left, p)
		if err != nil {
			return codefmt.Chunk{}, err
		}
		// a - (b - c) and a / (b * c) need the parentheses.
		rightPrec := p
		if e.Op == expr.OpSub || e.Op == expr.OpDiv {
			rightPrec = p + 1
		}
		right, err := g.expr(e.Right, rightPrec)
		if err != nil {
			return codefmt.Chunk{}, err
		}
		c := codefmt.Infix(e.Op.Symbol(), left, right)
		if p < prec {
			return codefmt.Parens(c), nil
		}
		return c, nil

	case *expr.RefInputExpr:
		return codefmt.Chunk{}, fmt.Errorf("%w: unresolved input %d.%s", ErrUnsupportedExpr, e.Node, e.Input)

	case *expr.ForkExpr:
		return codefmt.Chunk{}, fmt.Errorf("%w: unlowered fork %s", ErrUnsupportedExpr, e.Name)

	case *expr.LocalDefn:
		return codefmt.Chunk{}, fmt.Errorf("%w: definition of %s used as a value", ErrUnsupportedExpr, e.Name)

	default:
		return codefmt.Chunk{}, fmt.Errorf("%w: %T", ErrUnsupportedExpr, e)
	}
}

func (g generator) call(name string, args []expr.Expr) (codefmt.Chunk, error) {
	chunks := make([]codefmt.Chunk, len(args))
	for i, a := range args {
		c, err := g.expr(a, precLowest)
		if err != nil {
			return codefmt.Chunk{}, err
		}
		chunks[i] = c
	}
	return codefmt.FCall(name, chunks...), nil
}

func (g generator) sample(args []expr.Expr) (codefmt.Chunk, error) {
	if len(args) != 2 {
		return codefmt.Chunk{}, fmt.Errorf("%w: texture sample takes 2 arguments, got %d", ErrUnsupportedExpr, len(args))
	}
	sampler, ok := args[0].(*expr.RefUniformExpr)
	if !ok {
		return codefmt.Chunk{}, fmt.Errorf("%w: texture sample of %T", ErrUnsupportedExpr, args[0])
	}
	uv, err := g.expr(args[1], precLowest)
	if err != nil {
		return codefmt.Chunk{}, err
	}
	return g.d.Sample(sampler.Name, uv), nil
}

package shader

import (
	"fmt"

	"github.com/gogpu/texgraph/expr"
)

// sampleContext describes where the code being inlined is evaluated.
type sampleContext struct {
	// uv replaces the fragment coordinate. nil keeps the fragment
	// coordinate.
	uv expr.Expr

	// suffix is appended to fork names so that values computed at distinct
	// sample points never share a local variable.
	suffix string
}

type resolver struct {
	contexts int
	active   map[int]bool
}

// Resolve returns the code of output of n with every input read replaced by
// the code of the connected upstream node.
//
// An input read at a coordinate other than the fragment coordinate inlines
// the upstream code with that coordinate substituted; the coordinate itself
// is wrapped in a fork so it is computed once. Reads of unconnected inputs
// yield zero. Reads of buffered inputs become texture samples of the input's
// sampler uniform.
func Resolve(n Node, output string) (expr.Expr, error) {
	r := &resolver{active: make(map[int]bool)}
	return r.node(n, output, sampleContext{})
}

func (r *resolver) node(n Node, output string, ctx sampleContext) (expr.Expr, error) {
	if r.active[n.ID()] {
		return nil, fmt.Errorf("%w: node %d", ErrCycle, n.ID())
	}
	code, err := n.Code(output)
	if err != nil {
		return nil, fmt.Errorf("node %d output %q: %w", n.ID(), output, err)
	}

	r.active[n.ID()] = true
	defer delete(r.active, n.ID())
	return r.rewrite(code, n, ctx)
}

func (r *resolver) rewrite(e expr.Expr, n Node, ctx sampleContext) (expr.Expr, error) {
	var err error
	var walk func(expr.Expr) expr.Expr
	walk = func(e expr.Expr) expr.Expr {
		if err != nil {
			return e
		}
		switch e := e.(type) {
		case *expr.RefTexCoordsExpr:
			if ctx.uv != nil {
				return ctx.uv
			}
			return e
		case *expr.ForkExpr:
			v := walk(e.Value)
			if ctx.suffix == "" && v == e.Value {
				return e
			}
			return expr.Fork(v, e.Name+ctx.suffix)
		case *expr.RefInputExpr:
			out, ierr := r.input(e, n, ctx, walk)
			if ierr != nil {
				err = ierr
				return e
			}
			return out
		}
		return expr.MapChildren(e, walk)
	}
	out := walk(e)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *resolver) input(e *expr.RefInputExpr, n Node, ctx sampleContext, walk func(expr.Expr) expr.Expr) (expr.Expr, error) {
	uv := walk(e.UV)

	if n.Buffered(e.Input) {
		sampler := expr.RefUniform(UniformName(n.OperatorID(), n.ID(), e.Input), expr.Image, n.ID(), e.Input)
		return convert(expr.TextureFn.Call(sampler, uv), e.DataType), nil
	}

	up, output, ok := n.Upstream(e.Input)
	if !ok {
		return zeroValue(e.DataType), nil
	}

	child := ctx
	if _, same := e.UV.(*expr.RefTexCoordsExpr); !same {
		r.contexts++
		child = sampleContext{
			uv:     expr.Fork(uv, fmt.Sprintf("uv%d", r.contexts)),
			suffix: fmt.Sprintf("_%d", r.contexts),
		}
	}
	v, err := r.node(up, output, child)
	if err != nil {
		return nil, err
	}
	return convert(v, e.DataType), nil
}

// convert adapts a value read from an upstream terminal to the type of the
// input reading it. Grayscale expands to opaque color and color reduces to
// its red channel; other mismatches are left alone.
func convert(v expr.Expr, to expr.DataType) expr.Expr {
	from := v.Type()
	switch {
	case from == to || from == expr.Other || to == expr.Other:
		return v
	case from == expr.Float && (to == expr.Vec4 || to == expr.RGBA):
		return expr.Vec4Of(expr.Vec3Fn.Call(v), expr.Literal("1.", expr.Float))
	case (from == expr.Vec4 || from == expr.RGBA) && to == expr.Float:
		return expr.GetAttr(v, "x", expr.Float)
	case from == expr.Vec3 && (to == expr.Vec4 || to == expr.RGBA):
		return expr.Vec4Of(v, expr.Literal("1.", expr.Float))
	default:
		return v
	}
}

func zeroValue(t expr.DataType) expr.Expr {
	zero := expr.Literal("0.", expr.Float)
	switch t {
	case expr.Int:
		return expr.Literal("0", expr.Int)
	case expr.Vec2:
		return expr.Vec2Fn.Call(zero)
	case expr.Vec3:
		return expr.Vec3Fn.Call(zero)
	case expr.Vec4, expr.RGBA:
		return expr.Vec4Of(zero)
	default:
		return zero
	}
}

package expr

import (
	"fmt"
	"strings"
)

// MapChildren returns e with f applied to each direct child. Leaves are
// returned unchanged. If f returns every child unchanged, e itself is
// returned.
func MapChildren(e Expr, f func(Expr) Expr) Expr {
	switch e := e.(type) {
	case *AssignExpr:
		l, r := f(e.Left), f(e.Right)
		if l == e.Left && r == e.Right {
			return e
		}
		return &AssignExpr{Left: l, Right: r}
	case *CallExpr:
		args, changed := mapList(e.Args, f)
		if !changed {
			return e
		}
		return &CallExpr{Fn: e.Fn, Args: args, Result: e.Result}
	case *OverloadCallExpr:
		args, changed := mapList(e.Args, f)
		if !changed {
			return e
		}
		return &OverloadCallExpr{Fn: e.Fn, Args: args}
	case *LocalDefn:
		if e.Init == nil {
			return e
		}
		init := f(e.Init)
		if init == e.Init {
			return e
		}
		return &LocalDefn{Name: e.Name, DataType: e.DataType, Init: init}
	case *RefInputExpr:
		uv := f(e.UV)
		if uv == e.UV {
			return e
		}
		return &RefInputExpr{Node: e.Node, Input: e.Input, DataType: e.DataType, UV: uv}
	case *TypeCastExpr:
		v := f(e.Value)
		if v == e.Value {
			return e
		}
		return &TypeCastExpr{Value: v, DataType: e.DataType}
	case *GetAttrExpr:
		b := f(e.Base)
		if b == e.Base {
			return e
		}
		return &GetAttrExpr{Base: b, Name: e.Name, DataType: e.DataType}
	case *BinaryExpr:
		l, r := f(e.Left), f(e.Right)
		if l == e.Left && r == e.Right {
			return e
		}
		return &BinaryExpr{Op: e.Op, Left: l, Right: r, DataType: e.DataType}
	case *ForkExpr:
		v := f(e.Value)
		if v == e.Value {
			return e
		}
		return &ForkExpr{Value: v, Name: e.Name, Key: e.Key}
	default:
		return e
	}
}

func mapList(list []Expr, f func(Expr) Expr) ([]Expr, bool) {
	out := make([]Expr, len(list))
	changed := false
	for i, a := range list {
		out[i] = f(a)
		if out[i] != a {
			changed = true
		}
	}
	return out, changed
}

// Inspect traverses e in depth-first order, calling f for each node. If f
// returns false, the children of that node are skipped.
func Inspect(e Expr, f func(Expr) bool) {
	if e == nil || !f(e) {
		return
	}
	MapChildren(e, func(c Expr) Expr {
		Inspect(c, f)
		return c
	})
}

// Format renders e as an s-expression. The output is stable and is used for
// diagnostics and tests.
func Format(e Expr) string {
	var sb strings.Builder
	format(&sb, e)
	return sb.String()
}

func format(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case nil:
		sb.WriteString("nil")
	case *AssignExpr:
		list(sb, "assign", "", e.Left, e.Right)
	case *CallExpr:
		list(sb, "call", e.Fn.Name, e.Args...)
	case *OverloadCallExpr:
		list(sb, "ovcall", e.Fn.Fn.Name, e.Args...)
	case *LocalDefn:
		if e.Init == nil {
			fmt.Fprintf(sb, "(deflocal %s %s)", e.Name, e.DataType)
			return
		}
		list(sb, "deflocal", e.Name+" "+e.DataType.String(), e.Init)
	case *RefLocalExpr:
		fmt.Fprintf(sb, "(local %s)", e.Name)
	case *RefUniformExpr:
		fmt.Fprintf(sb, "(uniform %s)", e.Name)
	case *RefInputExpr:
		list(sb, "input", fmt.Sprintf("%d.%s", e.Node, e.Input), e.UV)
	case *RefTexCoordsExpr:
		sb.WriteString("(texcoords)")
	case *LiteralExpr:
		sb.WriteString(e.Value)
	case *TypeCastExpr:
		list(sb, "cast", e.DataType.String(), e.Value)
	case *GetAttrExpr:
		list(sb, "attr", e.Name, e.Base)
	case *BinaryExpr:
		list(sb, e.Op.String(), "", e.Left, e.Right)
	case *ForkExpr:
		list(sb, "fork", e.Name, e.Value)
	default:
		fmt.Fprintf(sb, "(?%T)", e)
	}
}

func list(sb *strings.Builder, head, label string, args ...Expr) {
	sb.WriteByte('(')
	sb.WriteString(head)
	if label != "" {
		sb.WriteByte(' ')
		sb.WriteString(label)
	}
	for _, a := range args {
		sb.WriteByte(' ')
		format(sb, a)
	}
	sb.WriteByte(')')
}

package shader

import "github.com/gogpu/texgraph/expr"

// Lower rewrites root so that every fork becomes a read of a local variable.
//
// prologue holds the local definitions already emitted, in declaration
// order. A fork whose name is already defined there is replaced by a read of
// that variable. Otherwise its value is lowered first, which may append
// further definitions, then a definition for the fork itself is appended.
// Forks are matched by name, not by key: operators that want one value
// shared across several outputs give their forks the same name.
//
// Lower returns prologue followed by the rewritten root.
func Lower(root expr.Expr, prologue []expr.Expr) []expr.Expr {
	l := &lowerer{stmts: prologue}
	out := l.lower(root)
	return append(l.stmts, out)
}

type lowerer struct {
	stmts []expr.Expr
}

func (l *lowerer) lower(e expr.Expr) expr.Expr {
	f, ok := e.(*expr.ForkExpr)
	if !ok {
		return expr.MapChildren(e, l.lower)
	}
	if def := l.lookup(f.Name); def != nil {
		return expr.RefLocal(def.Name, def.DataType)
	}
	init := l.lower(f.Value)
	def := expr.DefLocal(f.Name, f.Type(), init)
	l.stmts = append(l.stmts, def)
	return expr.RefLocal(def.Name, def.DataType)
}

func (l *lowerer) lookup(name string) *expr.LocalDefn {
	for _, s := range l.stmts {
		if def, ok := s.(*expr.LocalDefn); ok && def.Name == name {
			return def
		}
	}
	return nil
}

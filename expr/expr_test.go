package expr

import "testing"

func TestDataTypeString(t *testing.T) {
	tests := []struct {
		t    DataType
		want string
	}{
		{Float, "float"},
		{Vec4, "vec4"},
		{RGBAGradient, "rgba-gradient"},
		{Group, "group"},
		{DataType(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("DataType(%d).String() = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestForkKeysUnique(t *testing.T) {
	a := Fork(TexCoords(), "uv")
	b := Fork(TexCoords(), "uv")
	if a.Key == b.Key {
		t.Errorf("forks share key %d", a.Key)
	}
	if a.Type() != Vec2 {
		t.Errorf("fork type = %v, want vec2", a.Type())
	}
}

func TestCallResolvesSignature(t *testing.T) {
	x := Literal("1.", Float)
	v := RefLocal("c", Vec4)
	tests := []struct {
		name string
		call *CallExpr
		want DataType
	}{
		{"fract float", Fract(x), Float},
		{"fract vec4", Fract(v), Vec4},
		{"mix vec4 by float", Mix(v, v, x), Vec4},
		{"vec2 ctor", Vec2Of(x, x), Vec2},
		{"vec4 splat", Vec4Of(x), Vec4},
		{"no match", FractFn.Call(TexCoords(), x), Other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.call.Type(); got != tt.want {
				t.Errorf("Type() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFunctionNameIn(t *testing.T) {
	if got := Vec2Fn.NameIn("wgsl"); got != "vec2<f32>" {
		t.Errorf("NameIn(wgsl) = %q", got)
	}
	if got := Vec2Fn.NameIn("glsl"); got != "vec2" {
		t.Errorf("NameIn(glsl) = %q", got)
	}
}

func TestMapChildrenSharesUnchanged(t *testing.T) {
	e := Sub(Literal("1.", Float), RefInput(3, "in", Float, TexCoords()), Float)
	same := MapChildren(e, func(c Expr) Expr { return c })
	if same != Expr(e) {
		t.Error("identity map allocated a new node")
	}

	replaced := MapChildren(e, func(c Expr) Expr {
		if _, ok := c.(*RefInputExpr); ok {
			return RefLocal("v", Float)
		}
		return c
	})
	if got, want := Format(replaced), "(sub 1. (local v))"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
	if got, want := Format(e), "(sub 1. (input 3.in (texcoords)))"; got != want {
		t.Errorf("original modified: %q", got)
	}
}

func TestInspect(t *testing.T) {
	uv := Fork(TexCoords(), "uv")
	e := Vec2Of(
		Fract(Sub(GetAttr(uv, "x", Float), RefUniform("u_x", Float, 1, "x"), Float)),
		Fract(Sub(GetAttr(uv, "y", Float), RefUniform("u_y", Float, 1, "y"), Float)),
	)

	var forks, uniforms int
	Inspect(e, func(n Expr) bool {
		switch n.(type) {
		case *ForkExpr:
			forks++
		case *RefUniformExpr:
			uniforms++
		}
		return true
	})
	if forks != 2 || uniforms != 2 {
		t.Errorf("forks=%d uniforms=%d, want 2 and 2", forks, uniforms)
	}

	var visited int
	Inspect(e, func(Expr) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("pruned walk visited %d nodes, want 1", visited)
	}
}

func TestBinaryOperator(t *testing.T) {
	if OpMul.Precedence() <= OpAdd.Precedence() {
		t.Error("mul must bind tighter than add")
	}
	if OpDiv.Symbol() != "/" || OpSub.String() != "sub" {
		t.Errorf("unexpected operator text %q %q", OpDiv.Symbol(), OpSub.String())
	}
}

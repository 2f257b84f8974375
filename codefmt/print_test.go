package codefmt

import (
	"errors"
	"strings"
	"testing"
)

var (
	x      = Lit("x")
	y      = Lit("y")
	z      = Lit("z")
	equals = Lit(" = ")
)

func mustPrint(t *testing.T, c Chunk, opts ...Option) string {
	t.Helper()
	got, err := PrintChunk(c, opts...)
	if err != nil {
		t.Fatalf("PrintChunk() error = %v", err)
	}
	return got
}

func TestPrint(t *testing.T) {
	tests := []struct {
		name  string
		chunk Chunk
		width int
		want  string
	}{
		{"flat semicolon", Flat(Text(";")), 16, ";"},
		{"flat assignment", Flat(x, equals, y, Text(";")), 16, "x = y;"},
		{"parens", Parens(x), 16, "(x)"},
		{"parens assignment", Parens(x, equals, y), 16, "(x = y)"},
		{"fcall no args", FCall("x"), 16, "x()"},
		{"fcall short args", FCall("x", y, y, z), 16, "x(y, y, z)"},
		{"infix single", Infix("+", x), 16, "x"},
		{"infix three", Infix("+", x, y, z), 16, "x + y + z"},
		{"infix wrapped", Infix("+", Lit("x123456789"), Lit("y123456789")), 16, "x123456789 +\n  y123456789"},
		{"stmt", Stmt(x), 16, "x;"},
		{"brackets", Brackets(x, y), 16, "[x, y]"},
		{"ret", Ret(x), 16, "return x;"},
		{
			"fcall wrapped",
			FCall("mix", Lit("aaaaaaaaaa"), Lit("bbbbbbbbbb"), Lit("cccccccccc")),
			20,
			"mix(\n  aaaaaaaaaa,\n  bbbbbbbbbb,\n  cccccccccc\n)",
		},
		{
			"ret sticky",
			Ret(Infix("+", Lit("aaaaaaaaaa"), Lit("bbbbbbbbbb"))),
			16,
			"return aaaaaaaaaa +\n  bbbbbbbbbb;",
		},
		{
			"flat breaks before text",
			Stmt(Flat(Lit("abcdefgh"), Text(" = "), Text("ijklmnopqrst"))),
			20,
			"abcdefgh =\n  ijklmnopqrst;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustPrint(t, tt.chunk, WithMaxWidth(tt.width))
			if got != tt.want {
				t.Errorf("PrintChunk() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestPrintInitialIndent(t *testing.T) {
	chunks := []Chunk{
		Stmt(Flat(x, equals, y)),
		Stmt(Flat(y, equals, z)),
	}
	got, err := Print(chunks, WithInitialIndent(1))
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if want := "  x = y;\n  y = z;"; got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestPrintDeterministic(t *testing.T) {
	c := Stmt(Flat(
		Lit("fragColor"),
		Text(" = "),
		FCall("mix",
			FCall("texture", Lit("filter_blur3_in"), Lit("vTextureCoord")),
			FCall("vec4", Infix("-", Lit("1."), Lit("generator_solid1_color"))),
			Lit("generator_gradient2_amount"),
		),
	))
	first := mustPrint(t, c, WithMaxWidth(40), WithInitialIndent(1))
	for i := 0; i < 5; i++ {
		if got := mustPrint(t, c, WithMaxWidth(40), WithInitialIndent(1)); got != first {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, got, first)
		}
	}
	for _, line := range strings.Split(first, "\n") {
		if len(line) >= 40 {
			t.Errorf("line %q exceeds width", line)
		}
	}
}

func TestPrintUnknownKind(t *testing.T) {
	_, err := Print([]Chunk{Flat(x, Chunk{Kind: Kind(42)})})
	if !errors.Is(err, ErrUnknownChunk) {
		t.Errorf("Print() error = %v, want ErrUnknownChunk", err)
	}
}

func TestChunkString(t *testing.T) {
	c := Stmt(Flat(x, equals, FCall("f", Infix("*", y, Parens(Infix("+", x, z))))))
	if got, want := c.String(), "x = f(y * (x + z));"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestKindString(t *testing.T) {
	if KindFCall.String() != "fcall" || Kind(99).String() != "unknown" {
		t.Errorf("unexpected Kind names %q %q", KindFCall, Kind(99))
	}
}

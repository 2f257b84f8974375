package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/texgraph"
	"github.com/gogpu/texgraph/operators"
)

// runCLI runs the command line and returns its output and exit code.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	t.Cleanup(func() { texgraph.SetLogger(nil) })
	code = run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

// writeDoc saves gradient -> invert to dir/name and returns the path.
func writeDoc(t *testing.T, dir, name string) string {
	t.Helper()
	return writeInvertDoc(t, dir, name, operators.Gradient)
}

// writeInvertDoc saves src -> invert to dir/name and returns the path.
func writeInvertDoc(t *testing.T, dir, name string, src texgraph.Operator) string {
	t.Helper()
	g := texgraph.NewGraph()
	gen, err := g.CreateNode(src, 0, 0)
	require.NoError(t, err)
	inv, err := g.CreateNode(operators.Invert, 200, 0)
	require.NoError(t, err)
	require.NoError(t, g.Connect(gen.ID(), "out", inv.ID(), "input"))
	path := filepath.Join(dir, name)
	require.NoError(t, g.SaveFile(path))
	return path
}

func TestOperators(t *testing.T) {
	stdout, _, code := runCLI(t, "operators")
	require.Equal(t, 0, code)
	for _, op := range operators.All() {
		assert.Contains(t, stdout, op.ID())
	}
	assert.Contains(t, stdout, "light{azimuth,elevation}")
	assert.Contains(t, stdout, "in:vec4*")

	stdout, _, code = runCLI(t, "operators", "--group", "generator")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "generator_gradient")
	assert.NotContains(t, stdout, "filter_invert")
}

func TestCompile(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "graph.json")

	stdout, stderr, code := runCLI(t, "compile", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "#version 300 es")
	assert.Contains(t, stdout, "// Shader for Invert")
	assert.Contains(t, stdout, "// Imported from gradient.glsl")

	stdout, stderr, code = runCLI(t, "compile", "--node", "1", "--dialect", "wgsl", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "// Shader for Color Gradient")
	assert.Contains(t, stdout, "@fragment")
}

func TestCompileColor(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "graph.json")
	stdout, stderr, code := runCLI(t, "compile", "--color", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "\x1b[")
}

func TestCompileSettingsFromEnvAndConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "graph.yaml")

	t.Run("env", func(t *testing.T) {
		t.Setenv("TEXGRAPH_DIALECT", "wgsl")
		stdout, stderr, code := runCLI(t, "compile", path)
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "@fragment")
	})

	t.Run("config file", func(t *testing.T) {
		cfg := filepath.Join(dir, "texgraph.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("dialect: wgsl\nlog-level: error\n"), 0o644))
		stdout, stderr, code := runCLI(t, "compile", "--config", cfg, path)
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "@fragment")
	})

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("TEXGRAPH_DIALECT", "wgsl")
		stdout, stderr, code := runCLI(t, "compile", "--dialect", "glsl", path)
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "#version 300 es")
	})
}

func TestCompileOutputAndMetrics(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "graph.json")
	out := filepath.Join(dir, "invert.glsl")
	metrics := filepath.Join(dir, "metrics.prom")

	stdout, stderr, code := runCLI(t, "compile", "-o", out, "--metrics-out", metrics, path)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	src, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(src), "fragColor")

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `texgraph_shader_compiles_total{dialect="glsl",result="ok"} 1`)
	assert.Contains(t, string(prom), `texgraph_shader_cache_lookups_total{result="miss"} 1`)
}

func TestCompileNodeSelection(t *testing.T) {
	dir := t.TempDir()
	g := texgraph.NewGraph()
	_, err := g.CreateNode(operators.Solid, 0, 0)
	require.NoError(t, err)
	_, err = g.CreateNode(operators.Solid, 0, 200)
	require.NoError(t, err)
	path := filepath.Join(dir, "two.json")
	require.NoError(t, g.SaveFile(path))

	_, stderr, code := runCLI(t, "compile", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "document has 2 output nodes")
	assert.Contains(t, stderr, "Hint: choose one with --node: [1 2]")

	_, stderr, code = runCLI(t, "compile", "--node", "7", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Hint: connections and --node must name")

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, texgraph.NewGraph().SaveFile(empty))
	_, stderr, code = runCLI(t, "compile", empty)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "document has no nodes")
}

func TestSPIRV(t *testing.T) {
	dir := t.TempDir()
	path := writeInvertDoc(t, dir, "graph.json", operators.Solid)
	out := filepath.Join(dir, "invert.spv")

	_, stderr, code := runCLI(t, "spirv", "-o", out, path)
	require.Equal(t, 0, code, stderr)
	spv, err := os.ReadFile(out)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(spv), 20)
	assert.Equal(t, []byte{0x03, 0x02, 0x23, 0x07}, spv[:4], "SPIR-V magic number")

	_, stderr, code = runCLI(t, "spirv", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `"out" not set`)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "graph.json")

	stdout, stderr, code := runCLI(t, "validate", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "2 nodes, 1 connections ok")

	solid := writeInvertDoc(t, dir, "solid.json", operators.Solid)
	stdout, stderr, code = runCLI(t, "validate", "--spirv", solid)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "ok")

	doc, err := texgraph.ReadDocumentFile(path)
	require.NoError(t, err)
	doc.Nodes[0].Operator = "generator_plasma"
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, texgraph.WriteDocumentFile(bad, doc))

	_, stderr, code = runCLI(t, "validate", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "generator_plasma")
	assert.Contains(t, stderr, "Hint: run 'texgraph operators'")

	_, stderr, code = runCLI(t, "validate", filepath.Join(dir, "missing.json"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Hint: check the document path")
}

func TestFmt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	raw, err := json.Marshal(map[string]any{
		"nodes": []map[string]any{
			{"id": 2, "x": 200, "y": 0, "operator": "filter_invert", "params": map[string]any{}},
			{"id": 1, "x": 0, "y": 0, "operator": "generator_solid"},
		},
		"connections": []any{
			map[string]any{"src": []any{1, "out"}, "dst": []any{2, "input"}},
		},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, stderr, code := runCLI(t, "fmt", "--check", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "is not formatted")

	_, stderr, code = runCLI(t, "fmt", path)
	require.Equal(t, 0, code, stderr)
	_, stderr, code = runCLI(t, "fmt", "--check", path)
	assert.Equal(t, 0, code, stderr)

	formatted, err := texgraph.ReadDocumentFile(path)
	require.NoError(t, err)
	require.Len(t, formatted.Nodes, 2)
	assert.Equal(t, 1, formatted.Nodes[0].ID)
	assert.Contains(t, formatted.Nodes[0].Params, "color")

	yamlPath := filepath.Join(dir, "graph.yaml")
	_, stderr, code = runCLI(t, "fmt", "-o", yamlPath, path)
	require.Equal(t, 0, code, stderr)
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "operator: filter_invert")
	_, stderr, code = runCLI(t, "fmt", "--check", yamlPath)
	assert.Equal(t, 0, code, stderr)
}

func TestBadSettings(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "graph.json")

	_, stderr, code := runCLI(t, "compile", "--dialect", "hlsl", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Hint: use one of: glsl, wgsl")

	_, stderr, code = runCLI(t, "--log-level", "loud", "operators")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Hint: use one of debug")
}

func TestWithHints(t *testing.T) {
	assert.NoError(t, withHints(nil))

	plain := errors.New("plain")
	assert.Equal(t, plain, withHints(plain))

	err := withHints(errors.Wrap(texgraph.ErrCycle, "connect"))
	assert.ErrorIs(t, err, texgraph.ErrCycle)
	assert.Len(t, errors.GetAllHints(err), 1)
}

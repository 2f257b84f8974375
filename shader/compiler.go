package shader

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/texgraph/codefmt"
	"github.com/gogpu/texgraph/expr"
	"github.com/gogpu/texgraph/internal/cache"
)

// DefaultCacheSize is the number of programs a Compiler keeps by default.
const DefaultCacheSize = 256

// CompilerOption configures a Compiler.
type CompilerOption func(*compilerOptions)

type compilerOptions struct {
	dialect    string
	library    Library
	width      int
	cacheSize  int
	registerer prometheus.Registerer
	logger     *slog.Logger
}

func defaultCompilerOptions() compilerOptions {
	return compilerOptions{
		library:   MapLibrary{},
		width:     codefmt.DefaultMaxWidth,
		cacheSize: DefaultCacheSize,
		logger:    slog.New(slog.DiscardHandler),
	}
}

// WithDialect selects the dialect used by Compile. The default is the
// highest priority registered dialect, GLSL.
func WithDialect(name string) CompilerOption {
	return func(o *compilerOptions) {
		o.dialect = name
	}
}

// WithLibrary sets the library that resolves imported fragments.
func WithLibrary(lib Library) CompilerOption {
	return func(o *compilerOptions) {
		if lib != nil {
			o.library = lib
		}
	}
}

// WithWidth sets the line width of generated statements.
func WithWidth(width int) CompilerOption {
	return func(o *compilerOptions) {
		if width > 0 {
			o.width = width
		}
	}
}

// WithCacheSize sets how many programs are kept. 0 keeps all of them.
func WithCacheSize(n int) CompilerOption {
	return func(o *compilerOptions) {
		o.cacheSize = n
	}
}

// WithRegisterer registers the compiler's metrics with reg.
func WithRegisterer(reg prometheus.Registerer) CompilerOption {
	return func(o *compilerOptions) {
		o.registerer = reg
	}
}

// WithLogger sets the logger for compile and cache events.
func WithLogger(l *slog.Logger) CompilerOption {
	return func(o *compilerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// programKey identifies a program. The fingerprint covers everything
// upstream that can change the generated text, so a stale program is never
// found under a current key.
type programKey struct {
	node        int
	dialect     string
	fingerprint uint64
}

type importsKey struct {
	node        int
	fingerprint uint64
}

// Compiler generates shader programs for graph nodes and caches them.
//
// Compiler is safe for concurrent use.
type Compiler struct {
	opts     compilerOptions
	programs *cache.Cache[programKey, *Program]
	imports  *cache.Cache[importsKey, []string]
	metrics  *metrics
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...CompilerOption) *Compiler {
	o := defaultCompilerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Compiler{
		opts:     o,
		programs: cache.New[programKey, *Program](o.cacheSize),
		imports:  cache.New[importsKey, []string](o.cacheSize),
		metrics:  newMetrics(o.registerer),
	}
	c.programs.OnEvict(func(k programKey, _ *Program) {
		o.logger.Debug("shader: program evicted", "node", k.node, "dialect", k.dialect)
	})
	return c
}

// Compile returns the program rendering the first output of n in the
// compiler's dialect.
func (c *Compiler) Compile(n Node) (*Program, error) {
	return c.CompileDialect(n, c.opts.dialect)
}

// CompileDialect returns the program rendering the first output of n in the
// named dialect.
func (c *Compiler) CompileDialect(n Node, dialect string) (*Program, error) {
	d, err := LookupDialect(dialect)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	key := programKey{node: n.ID(), dialect: d.Name(), fingerprint: Fingerprint(n)}
	p, hit, err := c.programs.GetOrCompute(key, func() (*Program, error) {
		return c.build(n, d)
	})
	c.metrics.duration.WithLabelValues(d.Name()).Observe(time.Since(start).Seconds())

	if hit {
		c.metrics.cacheLookups.WithLabelValues("hit").Inc()
		return p, nil
	}
	c.metrics.cacheLookups.WithLabelValues("miss").Inc()
	if err != nil {
		c.metrics.compiles.WithLabelValues(d.Name(), "error").Inc()
		c.opts.logger.Debug("shader: compile failed", "node", n.ID(), "dialect", d.Name(), "err", err)
		return nil, err
	}
	c.metrics.compiles.WithLabelValues(d.Name(), "ok").Inc()
	c.metrics.sourceBytes.Observe(float64(len(p.Source)))
	c.opts.logger.Debug("shader: compiled", "node", n.ID(), "dialect", d.Name(), "bytes", len(p.Source))
	return p, nil
}

// TransitiveImports returns the library fragments needed by n and every node
// upstream of it. The result is cached until an upstream import set or the
// upstream topology changes.
func (c *Compiler) TransitiveImports(n Node) []string {
	key := importsKey{node: n.ID(), fingerprint: Fingerprint(n)}
	imports, _, _ := c.imports.GetOrCompute(key, func() ([]string, error) {
		return TransitiveImports(n), nil
	})
	return imports
}

// Forget drops every cached result for the node with the given id.
func (c *Compiler) Forget(node int) {
	c.programs.DeleteFunc(func(k programKey) bool { return k.node == node })
	c.imports.DeleteFunc(func(k importsKey) bool { return k.node == node })
}

// CacheStats returns statistics of the program cache.
func (c *Compiler) CacheStats() cache.Stats {
	return c.programs.Stats()
}

func (c *Compiler) build(n Node, d Dialect) (*Program, error) {
	outputs := n.Outputs()
	if len(outputs) == 0 {
		return nil, fmt.Errorf("%w: node %d", ErrNoOutput, n.ID())
	}
	result, err := Resolve(n, outputs[0])
	if err != nil {
		return nil, err
	}
	root := expr.Assign(expr.RefLocal("fragColor", expr.Vec4), convert(result, expr.Vec4))
	stmts := Lower(root, nil)

	a := assembler{d: d, lib: c.opts.library, width: c.opts.width}
	p, err := a.assemble(n, stmts)
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", n.ID(), err)
	}
	return p, nil
}

// Fingerprint hashes everything about n and its upstream nodes that affects
// generated code: ids, operators, code keys, imports, and connections.
// Parameter values read through uniforms are not included.
func Fingerprint(n Node) uint64 {
	h := fnv.New64a()
	write := func(s string) {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	for _, node := range append([]Node{n}, UpstreamNodes(n)...) {
		write(strconv.Itoa(node.ID()))
		write(node.OperatorID())
		write(node.CodeKey())
		for _, imp := range node.Imports() {
			write(imp)
		}
		for _, in := range node.Inputs() {
			write(in)
			if node.Buffered(in) {
				write("buffered")
			}
			if up, out, ok := node.Upstream(in); ok {
				write(strconv.Itoa(up.ID()) + "." + out)
			}
		}
	}
	return h.Sum64()
}

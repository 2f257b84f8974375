package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gogpu/texgraph"
	"github.com/gogpu/texgraph/operators"
	"github.com/gogpu/texgraph/operators/shaders"
	"github.com/gogpu/texgraph/shader"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
	reg    *texgraph.Registry
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      viper.New(),
		stdout: stdout,
		stderr: stderr,
		log:    texgraph.Logger(),
		reg:    operators.Default(),
	}
	root := &cobra.Command{
		Use:           "texgraph",
		Short:         "Compile procedural texture graphs to shaders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ./texgraph.yaml if present)")
	pf.String("log-level", "warn", "log level: debug, info, warn, or error")

	root.AddCommand(
		a.compileCmd(),
		a.spirvCmd(),
		a.operatorsCmd(),
		a.validateCmd(),
		a.fmtCmd(),
	)
	return root
}

// setup binds the flags of the running command into viper, reads the config
// file, and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	a.v.SetEnvPrefix("TEXGRAPH")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
	} else {
		a.v.SetConfigName("texgraph")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "read config")
		}
	}

	level, err := log.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return errors.WithHint(err, "use one of debug, info, warn, or error")
	}
	handler := log.NewWithOptions(a.stderr, log.Options{
		Level:  level,
		Prefix: "texgraph",
	})
	a.log = slog.New(handler)
	texgraph.SetLogger(a.log)
	if f := a.v.ConfigFileUsed(); f != "" {
		a.log.Debug("config loaded", "file", f)
	}
	return nil
}

// compiler returns a shader compiler configured from the dialect and width
// settings. reg may be nil.
func (a *app) compiler(reg prometheus.Registerer) *shader.Compiler {
	opts := []shader.CompilerOption{
		shader.WithLibrary(shaders.Library()),
		shader.WithDialect(a.v.GetString("dialect")),
		shader.WithLogger(a.log),
		shader.WithRegisterer(reg),
	}
	if w := a.v.GetInt("width"); w > 0 {
		opts = append(opts, shader.WithWidth(w))
	}
	return shader.NewCompiler(opts...)
}

// open loads the document at path into a new graph using c.
func (a *app) open(path string, c *shader.Compiler) (*texgraph.Graph, error) {
	g := texgraph.NewGraph(texgraph.WithCompiler(c), texgraph.WithLogger(a.log))
	if err := g.OpenFile(path, a.reg); err != nil {
		return nil, err
	}
	return g, nil
}

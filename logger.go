package texgraph

import (
	"log/slog"
	"sync/atomic"
)

// silent is the logger graphs use until SetLogger installs another.
var silent = slog.New(slog.DiscardHandler)

// defaultLogger is read by NewGraph and by the default shader compiler of
// each graph, possibly from several goroutines.
var defaultLogger atomic.Pointer[slog.Logger]

func init() { defaultLogger.Store(silent) }

// SetLogger sets the logger that graphs created afterwards, and their default
// shader compilers, write to unless given one with WithLogger. Graphs that
// already exist keep the logger they were created with. Pass nil to go back
// to discarding everything, which is the default.
//
// Levels:
//   - [slog.LevelDebug]: undo and redo, shader compiles, cache evictions
//   - [slog.LevelInfo]: documents loaded and saved
//   - [slog.LevelWarn]: a dispose callback panicked, a rollback failed
//
// The texgraph command installs a charmbracelet/log handler here; a plain
// text handler works as well:
//
//	texgraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	defaultLogger.Store(l)
}

// Logger returns the logger set by SetLogger. It is safe for concurrent use.
func Logger() *slog.Logger {
	return defaultLogger.Load()
}

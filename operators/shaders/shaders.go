// Package shaders holds the library fragments imported by the built-in
// operators, one file per fragment and dialect.
package shaders

import (
	"embed"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/gogpu/texgraph/shader"
)

//go:embed glsl/*.glsl wgsl/*.wgsl
var files embed.FS

var library = sync.OnceValue(func() shader.MapLibrary {
	lib := shader.MapLibrary{}
	for _, dialect := range []string{shader.GLSL, shader.WGSL} {
		entries, err := fs.ReadDir(files, dialect)
		if err != nil {
			panic(err)
		}
		frags := make(map[string]string, len(entries))
		for _, e := range entries {
			src, err := fs.ReadFile(files, path.Join(dialect, e.Name()))
			if err != nil {
				panic(err)
			}
			frags[strings.TrimSuffix(e.Name(), path.Ext(e.Name()))] = string(src)
		}
		lib[dialect] = frags
	}
	return lib
})

// Library returns the built-in fragments keyed by dialect and fragment name.
// The returned map is shared and must not be modified.
func Library() shader.MapLibrary {
	return library()
}

// Names returns the fragment names available in dialect, sorted.
func Names(dialect string) []string {
	entries, _ := fs.ReadDir(files, dialect)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
	}
	return out
}

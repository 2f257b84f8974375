package texgraph

import (
	"fmt"
	"os"

	"github.com/google/renameio/v2"
)

// ReadDocumentFile reads a document from path. The format follows the file
// extension.
func ReadDocumentFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteDocumentFile writes doc to path atomically: readers see either the
// old file or the complete new one. The format follows the file extension.
func WriteDocumentFile(path string, doc *Document) error {
	data, err := doc.Marshal(FormatForPath(path))
	if err != nil {
		return err
	}
	return renameio.WriteFile(path, data, 0o644)
}

// OpenFile loads the document at path into g. See Load.
func (g *Graph) OpenFile(path string, reg *Registry) error {
	doc, err := ReadDocumentFile(path)
	if err != nil {
		return err
	}
	if err := g.Load(doc, reg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	g.path = path
	return nil
}

// SaveFile writes g to path and marks it unmodified.
func (g *Graph) SaveFile(path string) error {
	doc := g.Document()
	if err := WriteDocumentFile(path, doc); err != nil {
		return err
	}
	g.begin()
	defer g.end()
	g.path = path
	g.modified = false
	g.notify(ChangeModified)
	g.logger().Info("texgraph: document saved", "path", path, "nodes", len(doc.Nodes))
	return nil
}

// Package mapfile reads and writes block maps as YAML documents, encodes
// stamps as clipboard text, and watches map files for changes on disk.
package mapfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/blockedit/internal/core"
)

// Document is a named map as stored on disk or in the library.
type Document struct {
	Name string
	Map  *core.Map
}

type fileBlock struct {
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	ID      int    `yaml:"id"`
	Options string `yaml:"options,omitempty"`
}

type fileMap struct {
	Name   string      `yaml:"name"`
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	Blocks []fileBlock `yaml:"blocks"`
}

// Encode serializes a document. Only non-empty cells are written.
func Encode(doc Document) ([]byte, error) {
	if doc.Map == nil {
		return nil, fmt.Errorf("mapfile: encode %q: no map", doc.Name)
	}
	fm := fileMap{
		Name:   doc.Name,
		Width:  doc.Map.W(),
		Height: doc.Map.H(),
		Blocks: make([]fileBlock, 0, doc.Map.Count()),
	}
	doc.Map.Each(func(idx core.GridIndex, b core.Block) {
		if b.IsEmpty() {
			return
		}
		fm.Blocks = append(fm.Blocks, fileBlock{X: idx.X, Y: idx.Y, ID: int(b.ID), Options: b.Options})
	})

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("mapfile: encode %q: %w", doc.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("mapfile: encode %q: %w", doc.Name, err)
	}
	return buf.Bytes(), nil
}

// Decode parses a document. The map is created at blockPixelSize.
// Blocks outside the declared size are rejected.
func Decode(data []byte, blockPixelSize int) (Document, error) {
	var fm fileMap
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return Document{}, fmt.Errorf("mapfile: decode: %w", err)
	}
	if err := core.CheckSize(fm.Width, fm.Height); err != nil {
		return Document{}, fmt.Errorf("mapfile: decode %q: %w", fm.Name, err)
	}
	m := core.NewMap(fm.Width, fm.Height, blockPixelSize)
	for _, fb := range fm.Blocks {
		if fb.ID < 0 {
			return Document{}, fmt.Errorf("mapfile: decode %q: negative block id %d at (%d,%d)", fm.Name, fb.ID, fb.X, fb.Y)
		}
		if err := m.Set(core.GI(fb.X, fb.Y), core.Block{ID: core.BlockID(fb.ID), Options: fb.Options}); err != nil {
			return Document{}, fmt.Errorf("mapfile: decode %q: %w", fm.Name, err)
		}
	}
	return Document{Name: fm.Name, Map: m}, nil
}

// Read loads a document from r.
func Read(r io.Reader, blockPixelSize int) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("mapfile: read: %w", err)
	}
	return Decode(data, blockPixelSize)
}

// Load reads a document from a file. A missing name defaults to the file
// name without extension.
func Load(path string, blockPixelSize int) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("mapfile: load %s: %w", path, err)
	}
	doc, err := Decode(data, blockPixelSize)
	if err != nil {
		return Document{}, err
	}
	if doc.Name == "" {
		base := filepath.Base(path)
		doc.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	return doc, nil
}

// Save writes a document to path through a temporary file so a watcher
// never sees a half-written map.
func Save(path string, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mapfile: save %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, ".blockedit-*.yaml")
	if err != nil {
		return fmt.Errorf("mapfile: save %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("mapfile: save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("mapfile: save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("mapfile: save %s: %w", path, err)
	}
	return nil
}

package mapfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/blockedit/internal/core"
)

func sampleMap() *core.Map {
	m := core.NewMap(5, 4, 2)
	_ = m.Set(core.GI(0, 0), core.B(11))
	_ = m.Set(core.GI(4, 3), core.Block{ID: 32, Options: "255"})
	_ = m.Set(core.GI(2, 1), core.B(0))
	return m
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels", "one.yaml")
	if err := Save(path, Document{Name: "Level One", Map: sampleMap()}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	doc, err := Load(path, 3)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Name != "Level One" {
		t.Errorf("Name = %q", doc.Name)
	}
	if !doc.Map.Equal(sampleMap()) {
		t.Error("loaded map differs from saved map")
	}
	if doc.Map.BlockPixelSize() != 3 {
		t.Errorf("BlockPixelSize() = %d, expected 3", doc.Map.BlockPixelSize())
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestLoadNameFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "castle.yaml")
	if err := os.WriteFile(path, []byte("width: 2\nheight: 2\nblocks: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path, 1)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "castle" {
		t.Errorf("Name = %q, expected file name", doc.Name)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		is   error
	}{
		{"malformed", "width: [", nil},
		{"zero size", "width: 0\nheight: 3\n", nil},
		{"oversized", "width: 4294967296\nheight: 4294967296\nblocks:\n  - {x: 0, y: 0, id: 1}\n", core.ErrOutOfBounds},
		{"one side too wide", "width: 5000\nheight: 2\n", core.ErrOutOfBounds},
		{"block outside", "width: 2\nheight: 2\nblocks:\n  - {x: 2, y: 0, id: 1}\n", core.ErrOutOfBounds},
		{"negative id", "width: 2\nheight: 2\nblocks:\n  - {x: 0, y: 0, id: -4}\n", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.data), 1)
			if err == nil {
				t.Fatal("Decode should fail")
			}
			if !strings.HasPrefix(err.Error(), "mapfile:") {
				t.Errorf("error %q lacks package prefix", err)
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Errorf("error = %v, expected %v", err, tc.is)
			}
		})
	}
}

func TestEncodeWritesOnlyBlocks(t *testing.T) {
	data, err := Encode(Document{Name: "x", Map: sampleMap()})
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "id:"); n != 3 {
		t.Errorf("encoded %d blocks, expected 3", n)
	}
	if _, err := Encode(Document{Name: "nil"}); err == nil {
		t.Error("encoding without a map should fail")
	}
}

func TestStampText(t *testing.T) {
	s := core.Stamp{
		{Offset: core.GI(0, 0), Block: core.B(1)},
		{Offset: core.GI(1, 0), Block: core.EmptyBlock},
		{Offset: core.GI(0, 1), Block: core.Block{ID: 32, Options: "10"}},
	}
	text, err := EncodeStamp(s)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeStamp(text)
	if err != nil {
		t.Fatalf("DecodeStamp: %v", err)
	}
	if len(got) != len(s) {
		t.Fatalf("decoded %d cells, expected %d", len(got), len(s))
	}
	for i := range s {
		if got[i] != s[i] {
			t.Errorf("cell %d = %+v, expected %+v", i, got[i], s[i])
		}
	}

	if _, err := DecodeStamp("hello world"); err == nil {
		t.Error("arbitrary clipboard text should not decode as a stamp")
	}
	if _, err := DecodeStamp("blockedit_stamp: 1\ncells:\n  - {dx: -1, dy: 0, id: 1}\n"); err == nil {
		t.Error("negative offsets should be rejected")
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "w.yaml")
	if err := Save(path, Document{Name: "w", Map: sampleMap()}); err != nil {
		t.Fatal(err)
	}
	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Save(path, Document{Name: "w2", Map: sampleMap()}); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if got != w.Path() {
			t.Errorf("event for %q, expected %q", got, w.Path())
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event for a rewritten map file")
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	// Events is closed after Close; ranging drains any buffered event.
	for range w.Events {
	}
}

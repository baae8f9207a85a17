package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/mapfile"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testDoc(name string) mapfile.Document {
	m := core.NewMap(6, 4, core.DefaultBlockPixelSize)
	m.Set(core.GI(0, 0), core.B(1))
	m.Set(core.GI(5, 3), core.Block{ID: 32, Options: "16746496"})
	return mapfile.Document{Name: name, Map: m}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := openTestStore(t)
	doc := testDoc("arena")

	if err := store.SaveMap(doc); err != nil {
		t.Fatalf("SaveMap() failed: %v", err)
	}

	got, err := store.LoadMap("arena", 3)
	if err != nil {
		t.Fatalf("LoadMap() failed: %v", err)
	}
	if got.Name != "arena" {
		t.Errorf("Name = %q, want arena", got.Name)
	}
	if !got.Map.Equal(doc.Map) {
		t.Error("loaded map differs from saved map")
	}
	if got.Map.BlockPixelSize() != 3 {
		t.Errorf("BlockPixelSize = %d, want 3", got.Map.BlockPixelSize())
	}
}

func TestStoreSaveReplaces(t *testing.T) {
	store := openTestStore(t)
	doc := testDoc("arena")
	if err := store.SaveMap(doc); err != nil {
		t.Fatalf("SaveMap() failed: %v", err)
	}

	doc.Map.Set(core.GI(2, 2), core.B(4))
	if err := store.SaveMap(doc); err != nil {
		t.Fatalf("SaveMap() failed: %v", err)
	}

	entries, err := store.ListMaps()
	if err != nil {
		t.Fatalf("ListMaps() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 map, got %d", len(entries))
	}
	if entries[0].Blocks != 3 {
		t.Errorf("Blocks = %d, want 3", entries[0].Blocks)
	}

	got, err := store.LoadMap("arena", core.DefaultBlockPixelSize)
	if err != nil {
		t.Fatalf("LoadMap() failed: %v", err)
	}
	if got.Map.At(core.GI(2, 2)).ID != 4 {
		t.Error("second save was not stored")
	}
}

func TestStoreList(t *testing.T) {
	store := openTestStore(t)
	for _, name := range []string{"alpha", "beta", "gamma"} {
		if err := store.SaveMap(testDoc(name)); err != nil {
			t.Fatalf("SaveMap(%s) failed: %v", name, err)
		}
	}

	entries, err := store.ListMaps()
	if err != nil {
		t.Fatalf("ListMaps() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 maps, got %d", len(entries))
	}
	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.Name] = true
		if e.Width != 6 || e.Height != 4 {
			t.Errorf("%s size = %dx%d, want 6x4", e.Name, e.Width, e.Height)
		}
		if e.UpdatedAt.IsZero() {
			t.Errorf("%s has no update time", e.Name)
		}
	}
	for _, name := range []string{"alpha", "beta", "gamma"} {
		if !seen[name] {
			t.Errorf("%s missing from list", name)
		}
	}
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveMap(testDoc("arena")); err != nil {
		t.Fatalf("SaveMap() failed: %v", err)
	}

	if err := store.DeleteMap("arena"); err != nil {
		t.Fatalf("DeleteMap() failed: %v", err)
	}
	exists, err := store.MapExists("arena")
	if err != nil {
		t.Fatalf("MapExists() failed: %v", err)
	}
	if exists {
		t.Error("map still exists after delete")
	}

	if err := store.DeleteMap("arena"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteMap() error = %v, want ErrNotFound", err)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.LoadMap("nope", 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadMap() error = %v, want ErrNotFound", err)
	}
}

func TestStoreRejectsBadInput(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		name string
		doc  mapfile.Document
	}{
		{"empty name", mapfile.Document{Name: "  ", Map: core.NewMap(1, 1, 2)}},
		{"nil map", mapfile.Document{Name: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.SaveMap(tt.doc); err == nil {
				t.Error("SaveMap() succeeded, want error")
			}
		})
	}

	if _, err := Open(""); err == nil {
		t.Error("Open(\"\") succeeded, want error")
	}
}

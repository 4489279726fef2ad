package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lifor121/SketchBlade-sub002/internal/game"
	"github.com/pixil98/go-testutil"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func writeItem(t *testing.T, path string, version uint, id string, def *game.ItemDefinition) {
	t.Helper()
	data, err := json.Marshal(Asset[*game.ItemDefinition]{
		Version:    version,
		Identifier: Identifier(id),
		Spec:       def,
	})
	if err != nil {
		t.Fatalf("encoding asset: %v", err)
	}
	writeFile(t, path, data)
}

var (
	woodDef   = &game.ItemDefinition{Name: "Wood", CategoryStr: "material"}
	potionDef = &game.ItemDefinition{Name: "Potion", CategoryStr: "consumable", EffectPower: 25}
)

func TestNewFileStore(t *testing.T) {
	tests := map[string]struct {
		setup    func(t *testing.T, dir string)
		opts     []FileStoreOpt
		expErr   string
		expNames map[string]string
	}{
		"empty directory": {
			setup:    func(*testing.T, string) {},
			expNames: map[string]string{},
		},
		"loads nested assets": {
			setup: func(t *testing.T, dir string) {
				writeItem(t, filepath.Join(dir, "wood.json"), 1, "wood", woodDef)
				writeItem(t, filepath.Join(dir, "potions", "potion.json"), 1, "potion", potionDef)
			},
			expNames: map[string]string{"wood": "Wood", "potion": "Potion"},
		},
		"ignores other files": {
			setup: func(t *testing.T, dir string) {
				writeItem(t, filepath.Join(dir, "wood.json"), 1, "wood", woodDef)
				writeFile(t, filepath.Join(dir, "README.txt"), []byte("not an asset"))
				writeFile(t, filepath.Join(dir, "wood.json.tmp"), []byte("{"))
			},
			expNames: map[string]string{"wood": "Wood"},
		},
		"malformed json": {
			setup: func(t *testing.T, dir string) {
				writeFile(t, filepath.Join(dir, "bad.json"), []byte(`{"version":`))
			},
			expErr: "loading bad.json",
		},
		"missing version": {
			setup: func(t *testing.T, dir string) {
				writeItem(t, filepath.Join(dir, "wood.json"), 0, "wood", woodDef)
			},
			expErr: "version must be set",
		},
		"invalid definition": {
			setup: func(t *testing.T, dir string) {
				writeItem(t, filepath.Join(dir, "chair.json"), 1, "chair", &game.ItemDefinition{Name: "Chair", CategoryStr: "furniture"})
			},
			expErr: `item category "furniture" is invalid`,
		},
		"duplicate id": {
			setup: func(t *testing.T, dir string) {
				writeItem(t, filepath.Join(dir, "a.json"), 1, "wood", woodDef)
				writeItem(t, filepath.Join(dir, "b", "a.json"), 1, "wood", woodDef)
			},
			expErr: "duplicate key detected: wood",
		},
		"skip invalid keeps the rest": {
			setup: func(t *testing.T, dir string) {
				writeItem(t, filepath.Join(dir, "wood.json"), 1, "wood", woodDef)
				writeFile(t, filepath.Join(dir, "bad.json"), []byte(`{"version":`))
				writeItem(t, filepath.Join(dir, "chair.json"), 1, "chair", &game.ItemDefinition{Name: "Chair", CategoryStr: "furniture"})
			},
			opts:     []FileStoreOpt{WithSkipInvalid()},
			expNames: map[string]string{"wood": "Wood"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			store, err := NewFileStore[*game.ItemDefinition](dir, tt.opts...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			all := store.GetAll()
			testutil.AssertEqual(t, "record count", len(all), len(tt.expNames))
			for id, expName := range tt.expNames {
				def := store.Get(id)
				if def == nil {
					t.Errorf("expected %s to be loaded", id)
					continue
				}
				testutil.AssertEqual(t, id+" name", def.Name, expName)
			}
		})
	}
}

func TestNewFileStore_MissingDirectory(t *testing.T) {
	_, err := NewFileStore[*game.ItemDefinition](filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFileStore_Get(t *testing.T) {
	store, err := NewFileStore[*game.ItemDefinition](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Save("wood", woodDef); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]struct {
		id      string
		expName string
	}{
		"existing": {id: "wood", expName: "Wood"},
		"missing":  {id: "stone"},
		"empty id": {id: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			def := store.Get(tt.id)
			if tt.expName == "" {
				if def != nil {
					t.Errorf("expected nil, got %+v", def)
				}
				return
			}
			if def == nil {
				t.Fatal("expected a definition")
			}
			testutil.AssertEqual(t, "name", def.Name, tt.expName)
		})
	}
}

func TestFileStore_GetAll_ReturnsCopy(t *testing.T) {
	store, err := NewFileStore[*game.ItemDefinition](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for id, def := range map[string]*game.ItemDefinition{"wood": woodDef, "potion": potionDef} {
		if err := store.Save(id, def); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all := store.GetAll()
	delete(all, "wood")

	testutil.AssertEqual(t, "store count", len(store.GetAll()), 2)
}

func TestFileStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore[*game.ItemDefinition](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Save("potion", potionDef); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Save("potion", &game.ItemDefinition{Name: "Greater Potion", CategoryStr: "consumable"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "cached", store.Get("potion").Name, "Greater Potion")

	data, err := os.ReadFile(filepath.Join(dir, "potion.json"))
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	var asset Asset[*game.ItemDefinition]
	if err := json.Unmarshal(data, &asset); err != nil {
		t.Fatalf("decoding saved file: %v", err)
	}
	testutil.AssertEqual(t, "version", asset.Version, uint(1))
	testutil.AssertEqual(t, "id", asset.Identifier, Identifier("potion"))
	testutil.AssertEqual(t, "name", asset.Spec.Name, "Greater Potion")

	if _, err := os.Stat(filepath.Join(dir, "potion.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	// A second store over the same directory sees the write.
	reopened, err := NewFileStore[*game.ItemDefinition](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "reloaded", reopened.Get("potion").Name, "Greater Potion")
}

func TestFileStore_Save_InvalidId(t *testing.T) {
	tests := map[string]string{
		"path escape": "../escape",
		"empty":       "",
		"spaces":      "two words",
	}

	for name, id := range tests {
		t.Run(name, func(t *testing.T) {
			store, err := NewFileStore[*game.ItemDefinition](t.TempDir())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			err = store.Save(id, woodDef)
			testutil.AssertErrorContains(t, err, "invalid id")
			testutil.AssertEqual(t, "record count", len(store.GetAll()), 0)
		})
	}
}

package skipstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	r, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() on empty dir error = %v", err)
	}
	if got := r.Versions(); len(got) != 0 {
		t.Errorf("Versions() = %v, want empty", got)
	}
}

func TestAddPersistsImmediately(t *testing.T) {
	dir := t.TempDir()
	r, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := r.Add("v3.0.0"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !r.Contains("v3.0.0") {
		t.Error("Contains(v3.0.0) = false after Add")
	}

	// A fresh load must see the skip without any explicit save step.
	r2, err := Load(dir)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if !r2.Contains("v3.0.0") {
		t.Error("skip not persisted across loads")
	}
	if r2.Contains("v3.1.0") {
		t.Error("Contains(v3.1.0) = true, never skipped")
	}
}

func TestVersionsSortedAndDeduplicated(t *testing.T) {
	r, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, v := range []string{"v2.0.0", "v1.0.0", "v2.0.0", "v1.5.0"} {
		if err := r.Add(v); err != nil {
			t.Fatalf("Add(%q) error = %v", v, err)
		}
	}
	want := []string{"v1.0.0", "v1.5.0", "v2.0.0"}
	if got := r.Versions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Versions() = %v, want %v", got, want)
	}
}

func TestRemoveAndClear(t *testing.T) {
	dir := t.TempDir()
	r, _ := Load(dir)
	_ = r.Add("v1.0.0")
	_ = r.Add("v2.0.0")

	if err := r.Remove("v1.0.0"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if r.Contains("v1.0.0") {
		t.Error("Contains(v1.0.0) = true after Remove")
	}

	if err := r.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	r2, _ := Load(dir)
	if got := r2.Versions(); len(got) != 0 {
		t.Errorf("Versions() after Clear = %v, want empty", got)
	}
}

func TestLoadCorruptDigest(t *testing.T) {
	dir := t.TempDir()
	f := skipFile{Versions: []string{"v1.0.0"}, Digest: "0000000000000000"}
	data, _ := json.Marshal(f)
	if err := os.WriteFile(Path(dir), data, 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(dir)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Load() error = %v, want ErrCorrupt", err)
	}
	// Damage degrades to an empty, still-usable registry.
	if r == nil || len(r.Versions()) != 0 {
		t.Errorf("corrupt load registry = %+v, want empty usable registry", r)
	}
	if err := r.Add("v2.0.0"); err != nil {
		t.Errorf("Add() after corrupt load error = %v", err)
	}
}

func TestLoadUnparsableFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(dir)
	if err == nil {
		t.Fatal("Load() on unparsable file: want error")
	}
	if r == nil || len(r.Versions()) != 0 {
		t.Errorf("registry = %+v, want empty usable registry", r)
	}
}

func TestSaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	r, _ := Load(dir)
	_ = r.Add("v1.0.0")

	// No temp leftovers next to the registry file.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != filepath.Base(Path(dir)) {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contents = %v, want only the skip file", names)
	}
}

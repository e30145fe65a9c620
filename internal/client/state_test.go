package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStateStore_Identity(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "state"))

	id, err := store.LoadIdentity()
	if err != nil || id != nil {
		t.Fatalf("missing snapshot = %+v, %v", id, err)
	}

	want := &Identity{
		User:    User{ID: 3, Username: "ana", Name: "Ana", Email: "ana@x.com", Role: "user"},
		Cookies: []SavedCookie{{Name: "rentexpress_session", Value: "abc"}},
	}
	if err := store.SaveIdentity(want); err != nil {
		t.Fatalf("SaveIdentity: %v", err)
	}

	got, err := store.LoadIdentity()
	if err != nil || got == nil {
		t.Fatalf("LoadIdentity = %+v, %v", got, err)
	}
	if got.User != want.User || len(got.Cookies) != 1 || got.Cookies[0] != want.Cookies[0] {
		t.Fatalf("round trip = %+v", got)
	}

	if err := store.ClearIdentity(); err != nil {
		t.Fatalf("ClearIdentity: %v", err)
	}
	if err := store.ClearIdentity(); err != nil {
		t.Fatalf("second ClearIdentity: %v", err)
	}
	if got, _ := store.LoadIdentity(); got != nil {
		t.Fatalf("identity survived clear: %+v", got)
	}
}

func TestStateStore_CorruptSnapshotsAreDiscarded(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)

	files := map[string]string{
		identityFile:  "{not json",
		selectionFile: "[1,2",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if id, err := store.LoadIdentity(); err != nil || id != nil {
		t.Fatalf("corrupt identity = %+v, %v", id, err)
	}
	if v, err := store.LoadSelection(); err != nil || v != nil {
		t.Fatalf("corrupt selection = %+v, %v", v, err)
	}
	for name := range files {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Fatalf("%s not removed: %v", name, err)
		}
	}
}

func TestStateStore_IdentityWithoutUserIsDiscarded(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, identityFile), []byte(`{"user":{"name":"x"}}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if id, err := NewStateStore(dir).LoadIdentity(); err != nil || id != nil {
		t.Fatalf("identity without id = %+v, %v", id, err)
	}
}

func TestStateStore_Selection(t *testing.T) {
	store := NewStateStore(t.TempDir())
	v := DemoVehicles()[2]

	if err := store.SaveSelection(&v); err != nil {
		t.Fatalf("SaveSelection: %v", err)
	}
	got, err := store.LoadSelection()
	if err != nil || got == nil || got.ID != v.ID || got.Brand != "Nissan" || *got.Color != "Negro" {
		t.Fatalf("LoadSelection = %+v, %v", got, err)
	}

	entries, _ := os.ReadDir(store.dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

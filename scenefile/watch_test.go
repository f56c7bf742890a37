package scenefile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func nextBatch(t *testing.T, w *Watcher) []Change {
	t.Helper()
	select {
	case batch, ok := <-w.Batches():
		if !ok {
			t.Fatalf("watcher closed")
		}
		return batch
	case <-time.After(2 * time.Second):
		t.Fatalf("no batch delivered")
	}
	return nil
}

func TestWatcherBatchesSceneAndScriptChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	script := filepath.Join(dir, "spin.tengo")
	scene := filepath.Join(dir, "level.yaml")
	writes := []struct {
		path string
		data string
	}{
		{filepath.Join(dir, "notes.txt"), "x"},
		{script, "update := func(body, dt) {}\n"},
		{scene, "name: level\n"},
		{scene, "name: level\nbodies: []\n"},
	}
	for _, wr := range writes {
		if err := os.WriteFile(wr.path, []byte(wr.data), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	want := []Change{{Path: scene, Kind: SceneChange}, {Path: script, Kind: ScriptChange}}
	var got []Change
	for len(got) < len(want) {
		for _, c := range nextBatch(t, w) {
			if !slices.Contains(got, c) {
				got = append(got, c)
			}
		}
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestWatcherPollDoesNotBlock(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	changes, open := w.Poll()
	if len(changes) != 0 || !open {
		t.Fatalf("expected no changes from an idle watcher, got %v open=%v", changes, open)
	}
	if err := w.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, open := w.Poll(); open {
		t.Fatalf("poll should report a closed watcher")
	}
}

func TestClassifyAndDrain(t *testing.T) {
	cases := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"scenes/default.yaml", SceneChange, true},
		{"scenes/LEVEL.YML", SceneChange, true},
		{"scenes/scripts/pusher.tengo", ScriptChange, true},
		{"scenes/readme.md", 0, false},
		{"scenes/default.yaml~", 0, false},
	}
	pending := make(map[string]ChangeKind)
	for _, c := range cases {
		kind, ok := classify(c.path)
		if ok != c.ok || kind != c.kind {
			t.Fatalf("classify(%q) = %s %v, want %s %v", c.path, kind, ok, c.kind, c.ok)
		}
		if ok {
			pending[c.path] = kind
		}
	}

	batch := drain(pending)
	want := []Change{
		{Path: "scenes/LEVEL.YML", Kind: SceneChange},
		{Path: "scenes/default.yaml", Kind: SceneChange},
		{Path: "scenes/scripts/pusher.tengo", Kind: ScriptChange},
	}
	if !slices.Equal(batch, want) || len(pending) != 0 {
		t.Fatalf("drain = %v (left %d), want %v", batch, len(pending), want)
	}
}

func TestScenePathCleaning(t *testing.T) {
	cases := []struct{ in, scene, script string }{
		{"default", "default.yaml", "scripts/default"},
		{"scenes/default.yaml", "default.yaml", "scripts/default.yaml"},
		{"scripts/spinner.tengo", "scripts/spinner.tengo", "scripts/spinner.tengo"},
		{"", "", ""},
	}
	for _, c := range cases {
		if got := cleanScenePath(c.in); got != c.scene {
			t.Fatalf("cleanScenePath(%q) = %q, want %q", c.in, got, c.scene)
		}
		if got := cleanScriptPath(c.in); got != c.script {
			t.Fatalf("cleanScriptPath(%q) = %q, want %q", c.in, got, c.script)
		}
	}
}

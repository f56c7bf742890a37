package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/bodybind/scenefile"
	"github.com/milk9111/bodybind/trace"
)

func init() {
	scenefile.Dir = "testdata-missing"
}

func TestRun(t *testing.T) {
	cases := []struct {
		name    string
		opts    options
		samples int
	}{
		{"every_step", options{scene: "default", steps: 30, every: 1, flush: 7, scripts: true}, 30 * 9},
		{"sparse", options{scene: "default", steps: 30, every: 10, scripts: false}, 3 * 9},
		{"no_steps", options{scene: "default", steps: 0, every: 1, scripts: true}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			stats, err := run(c.opts, &buf)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if c.samples == 0 {
				if buf.Len() != 0 || len(stats) != 0 {
					t.Fatalf("expected no output, got %d bytes", buf.Len())
				}
				return
			}
			if strings.Count(buf.String(), "step,body") != 1 {
				t.Fatalf("expected exactly one header")
			}
			samples, err := trace.ReadCSV(&buf)
			if err != nil {
				t.Fatalf("read back: %v", err)
			}
			if len(samples) != c.samples {
				t.Fatalf("expected %d samples, got %d", c.samples, len(samples))
			}
			if len(stats) != 9 || stats[0].Body != "ground" {
				t.Fatalf("expected stats for 9 bodies in scene order, got %d", len(stats))
			}
		})
	}

	if _, err := run(options{scene: "missing", steps: 1}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for a missing scene")
	}
}

func TestRunToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.csv")
	stats, err := runTo(options{scene: "default", steps: 10, every: 5, flush: 3}, path)
	if err != nil {
		t.Fatalf("runTo: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	samples, err := trace.ReadCSV(f)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(samples) != 2*9 || len(stats) != 9 {
		t.Fatalf("expected 18 samples for 9 bodies, got %d samples %d stats", len(samples), len(stats))
	}

	cases := []struct {
		name string
		opts options
		path string
	}{
		{"missing_dir", options{scene: "default", steps: 1, every: 1}, filepath.Join(dir, "nope", "trace.csv")},
		{"missing_scene", options{scene: "missing", steps: 1, every: 1}, filepath.Join(dir, "empty.csv")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := runTo(c.opts, c.path); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

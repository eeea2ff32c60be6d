package catalog

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/originchart/pkg/errors"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestGlobSourceMergesInPathOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"steps/2-birthright.yaml": `
- id: fringe-survivor
  step: birthright
  position: 1
  requirements:
    excludedSteps: [hive-world]
`,
		"steps/1-home/worlds.yaml": `
origins:
  - id: hive-world
    step: homeWorld
    positions: [4, 5]
    name: Hive World
    xpCost: 100
`,
		"notes.md": "not a catalog",
	})

	pattern := filepath.Join(dir, "steps", "**", "*.yaml")
	cat, err := GlobSource{Pattern: pattern}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Source != pattern {
		t.Errorf("Source = %q, want %q", cat.Source, pattern)
	}
	if !reflect.DeepEqual(cat.Nodes, wantSample()) {
		t.Errorf("Nodes = %+v", cat.Nodes)
	}
}

func TestGlobSourceOffsetsIssues(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.yaml": yamlCatalog,
		"b.json": `[{"id": "odd", "step": "career", "positions": ["left"]}]`,
	})

	cat, err := GlobSource{Pattern: filepath.Join(dir, "*.{yaml,json}")}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(cat.Nodes))
	}
	var found bool
	for _, is := range cat.Report.Issues {
		if is.Kind == IssueUndecodable {
			found = true
			if is.Index != 2 || is.ID != "odd" {
				t.Errorf("issue = %+v, want index 2 for odd", is)
			}
		}
	}
	if !found {
		t.Errorf("issues = %v, want an undecodable record", cat.Report.Issues)
	}
}

func TestGlobSourceErrors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"broken.json": `{"origins": [`,
		"origins":     "no extension",
	})

	tests := []struct {
		name    string
		pattern string
		code    errors.Code
	}{
		{"no match", filepath.Join(dir, "*.toml"), errors.ErrCodeFileNotFound},
		{"bad pattern", filepath.Join(dir, "[.yaml"), errors.ErrCodeInvalidInput},
		{"empty", "", errors.ErrCodeInvalidInput},
		{"broken", filepath.Join(dir, "*.json"), errors.ErrCodeInvalidFormat},
		{"no extension", filepath.Join(dir, "orig*"), errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GlobSource{Pattern: tt.pattern}.Load(context.Background())
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	if _, ok := Open("origins.yaml").(FileSource); !ok {
		t.Error("Open(plain path) should be a FileSource")
	}
	if _, ok := Open("catalogs/**/*.yaml").(GlobSource); !ok {
		t.Error("Open(pattern) should be a GlobSource")
	}
}

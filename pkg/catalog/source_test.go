package catalog

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/origin"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "origins.yaml")
	if err := os.WriteFile(path, []byte(yamlCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Source != path {
		t.Errorf("Source = %q, want %q", cat.Source, path)
	}
	if !reflect.DeepEqual(cat.Nodes, wantSample()) {
		t.Errorf("Nodes = %+v", cat.Nodes)
	}

	// An explicit format overrides the extension.
	alt := filepath.Join(dir, "origins.txt")
	if err := os.WriteFile(alt, []byte(tomlCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (FileSource{Path: alt, Format: FormatTOML}).Load(context.Background()); err != nil {
		t.Errorf("Load with explicit format: %v", err)
	}
}

func TestFileSourceErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(bad, []byte(`{"origins": [`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		src  FileSource
		code errors.Code
	}{
		{"missing", FileSource{Path: filepath.Join(dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"no extension", FileSource{Path: filepath.Join(dir, "origins")}, errors.ErrCodeInvalidFormat},
		{"empty path", FileSource{}, errors.ErrCodeInvalidInput},
		{"broken", FileSource{Path: bad}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.src.Load(context.Background())
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestFileSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (FileSource{Path: "origins.json"}).Load(ctx); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestReaderSource(t *testing.T) {
	src := ReaderSource{Reader: strings.NewReader(jsonCatalog)}
	cat, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Source != "<stream>" || cat.Len() != 2 {
		t.Errorf("catalog = %s with %d nodes", cat.Source, cat.Len())
	}

	if _, err := (ReaderSource{}).Load(context.Background()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil reader err = %v", err)
	}
}

func TestDecodeDocuments(t *testing.T) {
	docs := []bson.M{
		{
			"_id":       primitive.NewObjectID(),
			"id":        "tainted",
			"step":      "lureOfTheVoid",
			"positions": bson.A{int32(2), int64(3)},
			"requirements": bson.D{
				{Key: "previousSteps", Value: bson.A{"void-born"}},
			},
			"name": "Tainted",
		},
		{"id": "broken", "step": "career", "positions": bson.A{"left"}},
	}

	nodes, issues := decodeDocuments(docs)
	if len(nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(nodes))
	}
	want := origin.Node{
		ID:           "tainted",
		Step:         origin.StepLureOfTheVoid,
		Positions:    []int{2, 3},
		Requirements: origin.Requirements{PreviousSteps: []string{"void-born"}},
		Meta:         origin.Metadata{Name: "Tainted"},
	}
	if !reflect.DeepEqual(nodes[0], want) {
		t.Errorf("node = %+v, want %+v", nodes[0], want)
	}
	if len(issues) != 1 || issues[0].ID != "broken" || issues[0].Index != 1 {
		t.Errorf("issues = %+v", issues)
	}
}

package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/originchart/pkg/cache"
	"github.com/matzehuels/originchart/pkg/catalog"
	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/origin"
)

const testCatalog = `
[[origins]]
id = "forge-world"
step = "homeWorld"
position = 3

[[origins]]
id = "hive-world"
step = "homeWorld"
position = 5

[[origins]]
id = "scavenger"
step = "birthright"
position = 2

[[origins]]
id = "fringe-survivor"
step = "birthright"
position = 4
requirements = { excludedSteps = ["hive-world"] }

[[origins]]
id = "stubjack"
step = "birthright"
position = 6

[[origins]]
id = "tainted"
step = "lureOfTheVoid"
position = 4

[[origins]]
id = "stray"
position = 4
`

// memCache is an in-memory cache counting reads and writes.
type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	gets   int
	hits   int
	sets   int
	closed bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	d, ok := m.data[key]
	if ok {
		m.hits++
	}
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = data
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error {
	m.closed = true
	return nil
}

var _ cache.Cache = (*memCache)(nil)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no catalog", Options{}, errors.ErrCodeInvalidInput},
		{"bad direction", Options{Catalog: "c.toml", Direction: "up"}, errors.ErrCodeInvalidDirection},
		{"bad selections path", Options{Catalog: "c.toml", Selections: "a\x00b"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	opts := Options{Catalog: "c.toml", Direction: "BACKWARD"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Direction != "backward" || opts.ChartOptions().Direction != origin.Backward {
		t.Errorf("direction not normalized: %q", opts.Direction)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}

	withSource := Options{Source: catalog.ReaderSource{Reader: strings.NewReader("[]")}}
	if err := withSource.ValidateAndSetDefaults(); err != nil {
		t.Errorf("a Source replaces the catalog path: %v", err)
	}
}

func TestExecute(t *testing.T) {
	path := writeFile(t, "origins.toml", testCatalog)
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	ctx := context.Background()

	opts := Options{Catalog: path, Guided: true, Picks: map[string]string{"home-world": "hive-world"}}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.ChartHit {
		t.Error("first run should miss the cache")
	}
	if res.Selections[origin.StepHomeWorld].ID != "hive-world" {
		t.Errorf("selections = %+v", res.Selections)
	}
	if res.Stats.Nodes != 7 || res.Stats.Cards != 6 || res.Stats.Issues != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.CatalogHash == "" {
		t.Error("CatalogHash should be set")
	}

	selectable := map[string]bool{}
	for _, c := range res.Layout.Steps[1].Cards {
		selectable[c.ID] = c.IsSelectable
	}
	want := map[string]bool{"scavenger": false, "fringe-survivor": false, "stubjack": true}
	for id, s := range want {
		if selectable[id] != s {
			t.Errorf("%s selectable = %v, want %v", id, selectable[id], s)
		}
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.ChartHit {
		t.Error("second run should hit the cache")
	}
	first, _ := EncodeLayout(res.Layout, false)
	second, _ := EncodeLayout(again.Layout, false)
	if !bytes.Equal(first, second) {
		t.Error("cached layout differs from computed layout")
	}

	opts.Refresh = true
	fresh, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheInfo.ChartHit {
		t.Error("Refresh should bypass the cache")
	}

	opts.Refresh = false
	opts.Guided = false
	unguided, _ := r.Execute(ctx, opts)
	if unguided.CacheInfo.ChartHit {
		t.Error("changing the mode should change the cache key")
	}
}

func TestExecuteCachedLayoutEqual(t *testing.T) {
	path := writeFile(t, "extra.toml", `
[[origins]]
id = "forge-world"
step = "homeWorld"
position = 3
tier = 2
aptitudes = ["toughness", "intelligence"]
`)
	r := NewRunner(newMemCache(), nil, quietLogger())
	opts := Options{Catalog: path, Guided: true}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	again, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.ChartHit {
		t.Fatal("second run should hit the cache")
	}
	if !reflect.DeepEqual(first.Layout, again.Layout) {
		t.Errorf("cached layout differs from computed layout:\n%+v\n%+v", first.Layout, again.Layout)
	}
}

func TestExecuteMergesSelections(t *testing.T) {
	cat := writeFile(t, "origins.toml", testCatalog)
	sel := writeFile(t, "picks.yaml", "home-world: forge-world\nbirthright: scavenger\n")
	r := NewRunner(nil, nil, quietLogger())

	res, err := r.Execute(context.Background(), Options{
		Catalog:    cat,
		Selections: sel,
		Picks:      map[string]string{"homeWorld": "hive-world", "birthright": ""},
		Guided:     true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := res.Selections[origin.StepHomeWorld].ID; got != "hive-world" {
		t.Errorf("homeWorld = %q, want the explicit pick", got)
	}
	if _, ok := res.Selections[origin.StepBirthright]; ok {
		t.Error("an empty explicit pick should clear the file's pick")
	}
}

func TestExecuteErrors(t *testing.T) {
	cat := writeFile(t, "origins.toml", testCatalog)
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing catalog", Options{Catalog: filepath.Join(t.TempDir(), "none.toml")}, errors.ErrCodeFileNotFound},
		{"unknown origin", Options{Catalog: cat, Picks: map[string]string{"homeWorld": "ghost"}}, errors.ErrCodeInvalidSelection},
		{"missing selections file", Options{Catalog: cat, Selections: filepath.Join(t.TempDir(), "p.json")}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Execute(ctx, tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadCatalogLogsIssues(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	r := NewRunner(nil, nil, logger)

	cat, err := r.LoadCatalog(context.Background(), Options{Catalog: writeFile(t, "origins.toml", testCatalog)})
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() != 7 {
		t.Errorf("Len = %d, want 7", cat.Len())
	}
	out := buf.String()
	for _, want := range []string{"catalog issue", "missing-step", "id=stray", "left out of the chart"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestComputeLabelsBypassCache(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	ctx := context.Background()
	cat, err := r.LoadCatalog(ctx, Options{Catalog: writeFile(t, "origins.toml", testCatalog)})
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Catalog: "unused.toml", Labels: func(s origin.Step) string { return strings.ToUpper(string(s)) }}
	for range 2 {
		l, hit, err := r.ComputeWithCacheInfo(ctx, cat, nil, opts)
		if err != nil {
			t.Fatal(err)
		}
		if hit {
			t.Error("custom labels should never hit the cache")
		}
		if l.Steps[0].Label != "HOMEWORLD" {
			t.Errorf("label = %q", l.Steps[0].Label)
		}
	}
	if mc.sets != 0 || mc.gets != 0 {
		t.Errorf("cache used: %d gets, %d sets", mc.gets, mc.sets)
	}
}

func TestNextOptions(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	ctx := context.Background()
	cat, err := r.LoadCatalog(ctx, Options{Catalog: writeFile(t, "origins.toml", testCatalog)})
	if err != nil {
		t.Fatal(err)
	}

	ids := func(nodes []origin.Node) []string {
		out := []string{}
		for _, n := range nodes {
			out = append(out, n.ID)
		}
		return out
	}

	tests := []struct {
		from string
		want []string
	}{
		{"hive-world", []string{"stubjack"}},
		{"forge-world", []string{"scavenger", "fringe-survivor"}},
		{"scavenger", []string{}},
		{"stubjack", []string{}},
		{"fringe-survivor", []string{"tainted"}},
	}
	for _, tt := range tests {
		got, err := r.NextOptions(ctx, cat, tt.from)
		if err != nil {
			t.Fatalf("NextOptions(%s): %v", tt.from, err)
		}
		if strings.Join(ids(got), ",") != strings.Join(tt.want, ",") {
			t.Errorf("NextOptions(%s) = %v, want %v", tt.from, ids(got), tt.want)
		}
	}

	if _, err := r.NextOptions(ctx, cat, "hive-world"); err != nil || mc.hits == 0 {
		t.Errorf("repeated lookup should hit the cache (hits=%d, err=%v)", mc.hits, err)
	}

	if _, err := r.NextOptions(ctx, cat, "ghost"); !errors.Is(err, errors.ErrCodeOriginNotFound) {
		t.Errorf("unknown origin err = %v", err)
	}
	if _, err := r.NextOptions(ctx, cat, "stray"); !errors.Is(err, errors.ErrCodeInvalidStep) {
		t.Errorf("step-less origin err = %v", err)
	}
	if _, err := r.NextOptions(ctx, cat, ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty id err = %v", err)
	}
}

func TestCatalogHashIgnoresFormat(t *testing.T) {
	ctx := context.Background()
	fromTOML, err := catalog.Load(ctx, writeFile(t, "a.toml", "[[origins]]\nid = \"a\"\nstep = \"career\"\npositions = [1, 2]\n"))
	if err != nil {
		t.Fatal(err)
	}
	fromJSON, err := catalog.Load(ctx, writeFile(t, "a.json", `[{"id": "a", "step": "career", "positions": [1, 2]}]`))
	if err != nil {
		t.Fatal(err)
	}
	if CatalogHash(fromTOML) != CatalogHash(fromJSON) {
		t.Error("equal catalogs should hash equally across formats")
	}
}

func TestRunnerClose(t *testing.T) {
	mc := newMemCache()
	if err := NewRunner(mc, nil, nil).Close(); err != nil || !mc.closed {
		t.Errorf("Close should close the cache (err=%v)", err)
	}
}

func TestDecodeLayoutError(t *testing.T) {
	if _, err := DecodeLayout([]byte("{")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v", err)
	}
}

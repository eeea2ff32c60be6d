// Package pipeline runs the load → resolve → compute chain shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Load: read the catalog from a file, stream or MongoDB
//  2. Resolve: turn step → origin picks into confirmed selections
//  3. Compute: build the chart layout, memoized in a [cache.Cache]
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Catalog: "origins.toml",
//	    Picks:   map[string]string{"homeWorld": "hive-world"},
//	    Guided:  true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, _ := pipeline.EncodeLayout(result.Layout, true)
//
// Stages can also run on their own, for example to compute several charts
// over one loaded catalog:
//
//	cat, err := runner.LoadCatalog(ctx, opts)
//	sel, err := runner.ResolveSelections(cat, opts)
//	layout, hit, err := runner.ComputeWithCacheInfo(ctx, cat, sel, opts)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/originchart/pkg/cache"
	"github.com/matzehuels/originchart/pkg/catalog"
	"github.com/matzehuels/originchart/pkg/chart"
	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/origin"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It is decoded directly from HTTP
// request bodies.
type Options struct {
	Catalog    string            `json:"catalog,omitempty"`    // catalog file path
	Selections string            `json:"selections,omitempty"` // selections file path
	Picks      map[string]string `json:"picks,omitempty"`      // step → origin id, applied over Selections
	Guided     bool              `json:"guided"`
	Direction  string            `json:"direction,omitempty"`
	Refresh    bool              `json:"refresh,omitempty"` // recompute even on a cache hit

	// Runtime options (not serialized)
	Source catalog.Source   `json:"-"` // replaces Catalog when set
	Labels origin.LabelFunc `json:"-"`
	Logger *log.Logger      `json:"-"`

	direction origin.Direction
	validated bool
}

// ValidateAndSetDefaults checks the options and fills defaults. Calling it
// again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == nil {
		if o.Catalog == "" {
			return errors.New(errors.ErrCodeInvalidInput, "catalog is required")
		}
		if err := errors.ValidateCatalogPath(o.Catalog); err != nil {
			return err
		}
	}
	if o.Selections != "" {
		if err := errors.ValidateCatalogPath(o.Selections); err != nil {
			return err
		}
	}
	dir, ok := origin.ParseDirection(o.Direction)
	if !ok {
		return errors.New(errors.ErrCodeInvalidDirection, "direction %q: want forward or backward", o.Direction)
	}
	o.direction = dir
	o.Direction = dir.String()
	o.validated = true
	return nil
}

// ChartOptions returns the engine options.
func (o *Options) ChartOptions() chart.Options {
	return chart.Options{Guided: o.Guided, Direction: o.direction, Labels: o.Labels}
}

// ChartKeyOpts returns the cache key inputs for a chart over sel.
func (o *Options) ChartKeyOpts(sel origin.Selections) cache.ChartKeyOpts {
	ids := make(map[string]string, len(sel))
	for step, s := range sel {
		ids[string(step)] = s.ID
	}
	return cache.ChartKeyOpts{Selections: ids, Guided: o.Guided, Direction: o.direction.String()}
}

// source returns the catalog source the options name.
func (o *Options) source() catalog.Source {
	if o.Source != nil {
		return o.Source
	}
	return catalog.Open(o.Catalog)
}

// picks merges the selections file with explicit picks. Step keys are
// canonicalized first so "home-world" in a file and "homeWorld" on the
// command line name the same step.
func (o *Options) picks() (catalog.Picks, error) {
	picks := catalog.Picks{}
	merge := func(src map[string]string) {
		for k, v := range src {
			if step, ok := origin.ParseStep(k); ok {
				k = string(step)
			}
			picks[k] = v
		}
	}
	if o.Selections != "" {
		fromFile, err := catalog.ReadSelections(o.Selections)
		if err != nil {
			return nil, err
		}
		merge(fromFile)
	}
	merge(o.Picks)
	return picks, nil
}

// =============================================================================
// Result
// =============================================================================

// Result is the output of [Runner.Execute].
type Result struct {
	Catalog     *catalog.Catalog
	CatalogHash string
	Selections  origin.Selections
	Layout      chart.Layout
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats contains counts and timings of a run.
type Stats struct {
	Nodes       int
	Cards       int
	Edges       int
	Issues      int
	LoadTime    time.Duration
	ComputeTime time.Duration
}

// CacheInfo tracks cache use per stage.
type CacheInfo struct {
	ChartHit bool
}

package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/originchart/pkg/cache"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no per-run state, so one Runner may serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration // chart cache lifetime, [cache.DefaultTTL] when zero
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer] and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → resolve → compute.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	res := &Result{}

	loadStart := time.Now()
	cat, err := r.LoadCatalog(ctx, opts)
	if err != nil {
		return nil, err
	}
	res.Catalog = cat
	res.CatalogHash = CatalogHash(cat)
	res.Stats.Nodes = cat.Len()
	res.Stats.Issues = len(cat.Report.Issues)
	res.Stats.LoadTime = time.Since(loadStart)

	sel, err := r.ResolveSelections(cat, opts)
	if err != nil {
		return nil, err
	}
	res.Selections = sel

	computeStart := time.Now()
	layout, hit, err := r.ComputeWithCacheInfo(ctx, cat, sel, opts)
	if err != nil {
		return nil, err
	}
	res.Layout = layout
	res.CacheInfo.ChartHit = hit
	res.Stats.ComputeTime = time.Since(computeStart)
	res.Stats.Cards, res.Stats.Edges = countLayout(layout)

	opts.Logger.Info("computed chart",
		"selections", len(sel),
		"cards", res.Stats.Cards,
		"edges", res.Stats.Edges,
		"cached", hit,
		"duration", res.Stats.ComputeTime)

	return res, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.DefaultTTL
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

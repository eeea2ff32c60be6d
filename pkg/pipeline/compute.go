package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/originchart/pkg/catalog"
	"github.com/matzehuels/originchart/pkg/chart"
	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/observability"
	"github.com/matzehuels/originchart/pkg/origin"
)

// ComputeWithCacheInfo computes the chart for cat and sel, reading and
// writing the cache, and reports whether the result came from the cache.
//
// Custom step labels bypass the cache since the label function cannot be
// part of the key.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, cat *catalog.Catalog, sel origin.Selections, opts Options) (chart.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return chart.Layout{}, false, err
	}
	r.applyLogger(&opts)
	if cat == nil {
		return chart.Layout{}, false, errors.New(errors.ErrCodeInvalidInput, "catalog is nil")
	}

	hash := CatalogHash(cat)
	cacheable := hash != "" && opts.Labels == nil
	key := ""
	if cacheable {
		key = r.Keyer.ChartKey(hash, opts.ChartKeyOpts(sel))
	}

	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			if l, err := DecodeLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "chart")
				return l, true, nil
			}
			// Undecodable entry; recompute and overwrite it.
		}
		observability.Cache().OnCacheMiss(ctx, "chart")
	}

	hooks := observability.Chart()
	hooks.OnChartStart(ctx, cat.Len(), opts.Guided)
	start := time.Now()
	l := chart.Compute(cat.Nodes, sel, opts.ChartOptions())
	cards, edges := countLayout(l)
	hooks.OnChartComplete(ctx, cards, edges, time.Since(start))

	if cacheable {
		if data, err := EncodeLayout(l, false); err == nil {
			if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
				opts.Logger.Warn("cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "chart", len(data))
			}
		}
	}
	return l, false, nil
}

// Compute is ComputeWithCacheInfo without the cache hit flag.
func (r *Runner) Compute(ctx context.Context, cat *catalog.Catalog, sel origin.Selections, opts Options) (chart.Layout, error) {
	l, _, err := r.ComputeWithCacheInfo(ctx, cat, sel, opts)
	return l, err
}

// NextOptions lists the origins of the step after fromID's step that may
// follow fromID. The last step has no successors and yields an empty list.
func (r *Runner) NextOptions(ctx context.Context, cat *catalog.Catalog, fromID string) ([]origin.Node, error) {
	if err := errors.ValidateOriginID(fromID); err != nil {
		return nil, err
	}
	n, ok := cat.Node(fromID)
	if !ok {
		return nil, errors.New(errors.ErrCodeOriginNotFound, "origin %q is not in the catalog", fromID)
	}
	if !n.Step.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidStep, "origin %q has no known step", fromID)
	}
	next, ok := origin.StepAt(n.Step.Index() + 1)
	if !ok {
		return []origin.Node{}, nil
	}

	hash := CatalogHash(cat)
	key := ""
	if hash != "" {
		key = r.Keyer.OptionsKey(hash, fromID)
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var nodes []origin.Node
			if err := json.Unmarshal(data, &nodes); err == nil {
				observability.Cache().OnCacheHit(ctx, "options")
				return nodes, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "options")
	}

	nodes := chart.ValidNextOptions(origin.SelectionOf(n), cat.InStep(next))
	if key != "" {
		if data, err := json.Marshal(nodes); err == nil && r.Cache.Set(ctx, key, data, r.ttl()) == nil {
			observability.Cache().OnCacheSet(ctx, "options", len(data))
		}
	}
	return nodes, nil
}

func countLayout(l chart.Layout) (cards, edges int) {
	for _, s := range l.Steps {
		cards += len(s.Cards)
	}
	return cards, len(l.Connections)
}

package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/originchart/pkg/cache"
	"github.com/matzehuels/originchart/pkg/catalog"
	"github.com/matzehuels/originchart/pkg/observability"
	"github.com/matzehuels/originchart/pkg/origin"
)

// LoadCatalog reads the catalog named by opts and logs every validation
// issue as a warning. Issues never fail the load.
func (r *Runner) LoadCatalog(ctx context.Context, opts Options) (*catalog.Catalog, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	src := opts.source()
	name := sourceName(opts)
	hooks := observability.Chart()
	hooks.OnLoadStart(ctx, name)

	start := time.Now()
	cat, err := src.Load(ctx)
	if err != nil {
		hooks.OnLoadComplete(ctx, name, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, name, cat.Len(), len(cat.Report.Issues), time.Since(start), nil)

	for _, is := range cat.Report.Issues {
		opts.Logger.Warn("catalog issue", "kind", is.Kind, "record", is.Index, "id", is.ID, "msg", is.Message)
	}
	if dropped := cat.Report.Dropped(); len(dropped) > 0 {
		opts.Logger.Warn("origins without a known step are left out of the chart", "count", len(dropped))
	}
	opts.Logger.Debug("loaded catalog", "source", cat.Source, "origins", cat.Len(), "issues", len(cat.Report.Issues))

	return cat, nil
}

// ResolveSelections reads the selections file, applies explicit picks and
// checks the result against cat.
func (r *Runner) ResolveSelections(cat *catalog.Catalog, opts Options) (origin.Selections, error) {
	picks, err := opts.picks()
	if err != nil {
		return nil, err
	}
	return catalog.ResolveSelections(cat, picks)
}

// CatalogHash returns the content hash of the catalog's nodes. Two
// catalogs with the same records in the same order hash equally,
// whatever their source format.
func CatalogHash(cat *catalog.Catalog) string {
	data, err := json.Marshal(cat.Nodes)
	if err != nil {
		// Metadata extras that cannot be encoded make the catalog
		// uncacheable rather than failing the run.
		return ""
	}
	return cache.Hash(data)
}

func sourceName(opts Options) string {
	switch src := opts.Source.(type) {
	case nil:
		return opts.Catalog
	case catalog.FileSource:
		return src.Path
	case catalog.GlobSource:
		return src.Pattern
	case catalog.ReaderSource:
		if src.Name != "" {
			return src.Name
		}
		return "<stream>"
	case *catalog.MongoSource:
		return "mongo"
	default:
		return "custom"
	}
}

package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/originchart/internal/server"
	"github.com/matzehuels/originchart/pkg/catalog"
	"github.com/matzehuels/originchart/pkg/config"
	"github.com/matzehuels/originchart/pkg/observability"
)

// serveCommand creates the serve command, which exposes the chart over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		mongoURI string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve [catalog]",
		Short: "Serve the chart API over HTTP",
		Long: `Serve the chart API over HTTP.

The server catalog is read from the given file, the configured catalog, or
a MongoDB collection when a Mongo URI is configured (--mongo-uri or
ORIGINCHART_MONGO_URI). Requests may also carry their own catalog.

Metrics are served on /metrics. With --verbose every catalog load, chart
computation, cache access and request is also logged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("mongo-uri") {
				cfg.Mongo.URI = mongoURI
			}
			if len(args) > 0 {
				cfg.Catalog = args[0]
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "read the server catalog from MongoDB")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, noCache bool) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetricsHooks(reg)
	if err != nil {
		return err
	}
	hooks := []observability.Hooks{metrics}
	if c.Logger.GetLevel() <= log.DebugLevel {
		hooks = append(hooks, observability.NewLogHooks(c.Logger))
	}
	observability.Install(hooks...)
	defer observability.Reset()

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := []server.Option{
		server.WithDefaults(cfg.Guided, cfg.Direction),
		server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		server.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	}

	switch {
	case cfg.Mongo.URI != "":
		src, client, err := catalog.ConnectMongo(ctx, catalog.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				c.Logger.Warn("mongo disconnect", "err", err)
			}
		}()
		c.Logger.Info("serving catalog from mongo", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)
		opts = append(opts, server.WithCatalog(src))
	case cfg.Catalog != "":
		c.Logger.Info("serving catalog", "path", cfg.Catalog)
		opts = append(opts, server.WithCatalog(catalog.Open(cfg.Catalog)))
	default:
		c.Logger.Warn("no server catalog, requests must carry their own origins")
	}

	srv := server.New(runner, c.Logger, opts...)
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}

// Package cli implements the originchart command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/originchart/pkg/buildinfo"
	"github.com/matzehuels/originchart/pkg/cache"
	"github.com/matzehuels/originchart/pkg/catalog"
	"github.com/matzehuels/originchart/pkg/config"
	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	formatJSON = "json"
	formatText = "text"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Originchart lays out origin paths as a connected step chart",
		Long: `Originchart reads a catalog of character origins and computes the chart
that guides a player through the six creation steps: which origins sit in
which slot, which may be picked next, and how picks connect.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/originchart/config.toml)")

	root.AddCommand(c.chartCommand())
	root.AddCommand(c.optionsCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration named by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = cfg.Cache.TTL
	return r, nil
}

// newCache opens the configured backend. An unusable file cache directory
// degrades to no caching; an unreachable Redis is an error.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.DialRedis(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect redis %s", cfg.Cache.RedisAddr)
		}
		return rc, nil
	default:
		dir, err := cacheDir(cfg)
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the configured one, else the
// XDG default (~/.cache/originchart/).
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return config.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// chartFlags are the flags shared by commands that compute a chart.
type chartFlags struct {
	selections string
	picks      []string
	guided     bool
	direction  string
	noCache    bool
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.selections, "select", "", "selections file (step = origin id)")
	cmd.Flags().StringArrayVarP(&f.picks, "pick", "p", nil, "pick an origin as step=id (repeatable)")
	cmd.Flags().BoolVar(&f.guided, "guided", true, "gate selectability by adjacency and requirements")
	cmd.Flags().StringVar(&f.direction, "direction", "", "authoritative neighbour: forward (default), backward")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options merges the flags over cfg. Flags win only when set explicitly.
func (f *chartFlags) options(cmd *cobra.Command, cfg config.Config, catalogPath string) (pipeline.Options, error) {
	picks, err := catalog.ParsePicks(f.picks)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Catalog:    catalogPath,
		Selections: f.selections,
		Picks:      picks,
		Guided:     cfg.Guided,
		Direction:  cfg.Direction,
	}
	if cmd.Flags().Changed("guided") {
		opts.Guided = f.guided
	}
	if cmd.Flags().Changed("direction") {
		opts.Direction = f.direction
	}
	return opts, opts.ValidateAndSetDefaults()
}

// catalogArg returns the catalog path from args, falling back to the
// configured one.
func catalogArg(args []string, cfg config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Catalog != "" {
		return cfg.Catalog, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "no catalog given and none configured")
}

// validateFormat checks an output format flag.
func validateFormat(f string) error {
	switch strings.ToLower(f) {
	case formatJSON, formatText:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'json' or 'text')", f)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/originchart/pkg/cache"
	"github.com/matzehuels/originchart/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the chart cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached charts and options",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ch, err := c.newCache(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok || cfg.Cache.Backend == config.CacheNone {
				newPrinter(cmd.OutOrStdout()).info("Caching is disabled, nothing to clear")
				return nil
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			p := newPrinter(cmd.OutOrStdout())
			p.success("Cache cleared")
			p.detail("Backend: %s", describeCache(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeCache(cfg))
			return nil
		},
	}
}

// describeCache names the configured cache location.
func describeCache(cfg config.Config) string {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return "none"
	case config.CacheRedis:
		return "redis://" + cfg.Cache.RedisAddr + "/" + cache.DefaultRedisPrefix + "*"
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return "unavailable: " + err.Error()
	}
	return dir
}

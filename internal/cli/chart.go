package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/originchart/pkg/pipeline"
)

// chartCommand creates the chart command.
func (c *CLI) chartCommand() *cobra.Command {
	var (
		flags  chartFlags
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "chart [catalog]",
		Short: "Compute the origin chart for a catalog and picks",
		Long: `Compute the origin chart for a catalog and picks.

The catalog is a JSON, YAML or TOML file holding an "origins" list. Picks
come from a selections file (--select) and from --pick step=id flags, the
flags winning for the same step.

The chart is written as JSON (-f json, the default) or printed as a table
(-f text). Results are cached; --no-cache skips the cache.`,
		Example: `  originchart chart origins.toml --pick homeWorld=forge-world
  originchart chart origins.yaml --select picks.toml -f text
  originchart chart origins.json --guided=false -o chart.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			path, err := catalogArg(args, cfg)
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg, path)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			return c.runChart(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), runner, opts, output, strings.ToLower(format))
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json (default), text")

	return cmd
}

// runChart computes the chart and writes it in the requested format. The
// spinner goes to errOut so piped JSON stays clean.
func (c *CLI) runChart(ctx context.Context, out, errOut io.Writer, runner *pipeline.Runner, opts pipeline.Options, output, format string) error {
	opts.Logger = c.Logger

	spin := newSpinner(ctx, errOut, "Computing chart...")
	spin.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spin.StopWithError("Chart failed")
		return err
	}
	spin.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	var data []byte
	switch format {
	case formatText:
		data = []byte(renderChartText(res.Layout) + "\n" + renderConnectionsText(res.Layout))
	default:
		data, err = pipeline.EncodeLayout(res.Layout, true)
		if err != nil {
			return err
		}
	}

	if output == "" {
		fmt.Fprint(out, string(data))
		if format == formatJSON {
			fmt.Fprintln(out)
		}
		return nil
	}

	if err := writeFile(output, data); err != nil {
		return err
	}
	p := newPrinter(out)
	p.success("Chart complete")
	p.file(output)
	p.stats(res.Stats.Cards, res.Stats.Edges, res.CacheInfo.ChartHit)
	if res.Stats.Issues > 0 {
		p.warning("%d catalog issues", res.Stats.Issues)
		p.nextStep("Inspect", appName+" validate "+opts.Catalog)
	}
	return nil
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

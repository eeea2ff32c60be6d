package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/originchart/pkg/catalog"
	"github.com/matzehuels/originchart/pkg/pipeline"
)

// validateCommand creates the validate command. Catalog issues are
// warnings; the command fails only when the catalog cannot be read.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [catalog]",
		Short: "Report problems in an origin catalog",
		Long: `Report problems in an origin catalog: missing or duplicate ids, unknown
steps, out-of-range slots and requirements naming unknown origins.

The chart tolerates every reported problem, so the command exits non-zero
only when the catalog cannot be read at all, or with --strict when any
problem is found.

The catalog may be a glob such as 'catalogs/**/*.yaml', in which case the
matching files are merged in path order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			path, err := catalogArg(args, cfg)
			if err != nil {
				return err
			}

			// Issues are printed as a report below, not as log warnings.
			quiet := newLogger(cmd.ErrOrStderr(), log.ErrorLevel)
			runner := pipeline.NewRunner(nil, nil, quiet)
			prog := newProgress(c.Logger)
			cat, err := runner.LoadCatalog(cmd.Context(), pipeline.Options{Catalog: path})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Loaded %d origins from %s", cat.Len(), cat.Source))

			p := newPrinter(cmd.OutOrStdout())
			p.keyValue("Source", cat.Source)
			p.keyValue("Origins", fmt.Sprint(cat.Len()))
			p.keyValue("Hash", pipeline.CatalogHash(cat))
			p.newline()
			p.report(cat)
			if strict && !cat.Report.OK() {
				return fmt.Errorf("%d catalog issues", len(cat.Report.Issues))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any issue is found")

	return cmd
}

// report prints the validation report of cat.
func (p printer) report(cat *catalog.Catalog) {
	r := cat.Report
	if r.OK() {
		p.success("%s is valid", cat.Source)
		p.detail("%d origins", cat.Len())
		return
	}

	p.warning("%d issues in %s", len(r.Issues), cat.Source)
	for _, issue := range r.Issues {
		p.detail("[%s] %s", issue.Kind, issue)
	}
	if dropped := r.Dropped(); len(dropped) > 0 {
		p.newline()
		p.info("%d origins are left out of the chart:", len(dropped))
		for _, id := range dropped {
			p.detail("%s", id)
		}
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/origin"
	"github.com/matzehuels/originchart/pkg/pipeline"
)

// optionsCommand creates the options command, which lists the origins of
// the next step that may follow a given origin.
func (c *CLI) optionsCommand() *cobra.Command {
	var (
		from    string
		format  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "options [catalog] --from id",
		Short: "List the valid next options of an origin",
		Long: `List the origins of the following step that may be picked after --from.

A candidate is valid when its requirements admit the origin and one of
its slots is adjacent to one of the origin's slots.`,
		Example: `  originchart options origins.toml --from forge-world`,
		Args:    cobra.MaximumNArgs(1),
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
			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ctx := cmd.Context()
			cat, err := runner.LoadCatalog(ctx, pipeline.Options{Catalog: path, Logger: c.Logger})
			if err != nil {
				return err
			}
			nodes, err := runner.NextOptions(ctx, cat, from)
			if err != nil {
				return err
			}

			n, _ := cat.Node(from)
			next, ok := origin.StepAt(n.Step.Index() + 1)
			if strings.ToLower(format) == formatJSON {
				data, err := json.MarshalIndent(map[string]any{
					"from":    from,
					"step":    next,
					"options": nodes,
				}, "", "  ")
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "encode options")
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if !ok {
				newPrinter(cmd.OutOrStdout()).info("%s is in the last step, nothing follows it", from)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderOptionsText(next, nodes))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "origin id to continue from")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text (default), json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/pricing-page/pkg/pricing"
)

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect plan catalogs",
	}
	cmd.AddCommand(newCatalogValidateCommand())
	return cmd
}

func newCatalogValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a plan catalog and print its plans for both billing cycles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			catalog, err := loadCatalog(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tMONTHLY\tANNUAL\tBADGE")
			for _, plan := range catalog.Plans {
				monthly := pricing.Present(plan, pricing.Monthly)
				annual := pricing.Present(plan, pricing.Annual)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", plan.ID, plan.Title, monthly.PriceText(), annual.PriceText(), annual.SavingsBadge)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			warnings := catalog.Warnings()
			for _, warning := range warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning)
			}
			if strict && len(warnings) > 0 {
				return fmt.Errorf("catalog has %d warning(s)", len(warnings))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")

	return cmd
}

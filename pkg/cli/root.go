package cli

import (
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags
var Version = "dev"

// NewRootCommand creates the pricing-page root command
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pricing-page",
		Short:         "Pricing page service",
		Long:          "Serves the pricing page with its billing cycle toggle, plan cards and search-engine metadata.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newRenderCommand())
	root.AddCommand(newCatalogCommand())

	return root
}

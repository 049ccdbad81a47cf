package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/pricing-page/pkg/page"
	"github.com/platinummonkey/pricing-page/pkg/pricing"
)

func newRenderCommand() *cobra.Command {
	var (
		billing     string
		catalogFile string
		format      string
		meta        page.Metadata
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the pricing page to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cycle, err := pricing.ParseBillingCycle(billing)
			if err != nil {
				return err
			}

			catalog, err := loadCatalog(catalogFile)
			if err != nil {
				return err
			}
			for _, warning := range catalog.Warnings() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning)
			}

			p := page.New(catalog, meta, nil, page.WithCycle(cycle))

			switch format {
			case "html":
				renderer, err := page.NewRenderer(page.RendererConfig{})
				if err != nil {
					return err
				}
				body, err := renderer.Render(cmd.Context(), p)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(body)
				return err
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(p.Snapshot())
			default:
				return fmt.Errorf("unknown format %q (must be html or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&billing, "billing", string(pricing.DefaultBillingCycle), "Billing cycle: monthly or annual")
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "Plan catalog YAML file (default embedded catalog)")
	cmd.Flags().StringVarP(&format, "output", "o", "html", "Output format: html or json")
	cmd.Flags().StringVar(&meta.Title, "title", "", "Override the page title")
	cmd.Flags().StringVar(&meta.CanonicalURL, "canonical-url", "", "Override the canonical URL")

	return cmd
}

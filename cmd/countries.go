package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/travelhub/internal/country"
)

func newCountriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "Lists countries by common name",
		Long: `Fetches the country dataset and prints one common name per line, sorted
alphabetically. --popular restricts the list to the configured destinations and
--query filters by name, capital, or region.`,
		Args: cobra.NoArgs,
		RunE: runCountriesCommand,
	}
	cmd.Flags().Bool("popular", false, "only list popular destinations")
	cmd.Flags().StringP("query", "q", "", "case-insensitive filter on name, capital, or region")
	return cmd
}

func runCountriesCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	popular, _ := cmd.Flags().GetBool("popular")
	query, _ := cmd.Flags().GetString("query")

	svc := appInstance.Countries()
	var list []country.Country
	switch {
	case popular:
		list, err = svc.Popular(cmd.Context())
		if err == nil && query != "" {
			list = country.Search(list, query)
		}
	case query != "":
		list, err = svc.Search(cmd.Context(), query)
	default:
		list, err = svc.Countries(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("list countries: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, c := range list {
		fmt.Fprintln(out, c.Name)
	}
	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/travelhub/internal/country"
	"github.com/JakeFAU/travelhub/internal/places"
	"github.com/JakeFAU/travelhub/internal/summary"
)

type countryOutput struct {
	Country country.Detail   `json:"country"`
	Places  *places.Result   `json:"places,omitempty"`
	Summary *summary.Summary `json:"summary,omitempty"`
}

func newCountryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "country NAME",
		Short: "Prints the detail view of one country as JSON",
		Long: `Resolves NAME against the cached dataset, falling back to a by-name lookup,
and prints the detail view. --enrich adds a restaurant, a hotel, and a summary
for the capital; enrichment failures are logged and omitted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCountryCommand,
	}
	cmd.Flags().Bool("enrich", false, "include places and summary")
	return cmd
}

func runCountryCommand(cmd *cobra.Command, args []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	enrich, _ := cmd.Flags().GetBool("enrich")
	ctx := cmd.Context()

	c, err := appInstance.Countries().Lookup(ctx, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("lookup country: %w", err)
	}
	out := countryOutput{Country: country.Present(c)}

	if enrich {
		location := c.Landmark()
		var coords *places.Coordinates
		if cc, ok := c.Coordinates(); ok {
			coords = &places.Coordinates{Lat: cc.Lat, Lon: cc.Lon}
		}
		if result := appInstance.Places().FetchPlaces(ctx, location, coords); !result.Empty() {
			out.Places = &result
		}
		sum, err := appInstance.Summaries().FetchSummary(ctx, out.Country.SummaryTitle)
		if err != nil {
			appInstance.GetLogger().Info("summary unavailable", zap.Error(err))
		} else {
			out.Summary = &sum
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode country: %w", err)
	}
	return nil
}

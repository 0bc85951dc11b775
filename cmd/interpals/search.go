package main

import (
	"context"

	"github.com/spf13/cobra"

	"interpals/pkg/interpals"
	"interpals/pkg/logger"
	"interpals/pkg/ui"
)

var (
	searchOpts  interpals.SearchOptions
	searchLimit int
	searchAsync bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search users, printing one username per line",
	Long: `Search users with the site's search form.

Results are streamed page by page until the site runs out of results or
--limit users have been printed. Use --delay to pause between pages.`,
	Example: `  # Women aged 20 to 30 in Europe who are online
  interpals search --sex female --age-from 20 --age-to 30 --continent EU --online

  # Everyone in a city, looked up by name
  interpals search --city-name London --limit 200`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

var cityCmd = &cobra.Command{
	Use:   "city <name>",
	Short: "Print the city code the search form uses for a city",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
			code, err := api.CityCode(ctx, args[0])
			if err != nil {
				return err
			}
			ui.PrintRaw(code + "\n")
			return nil
		})
	},
}

func init() {
	f := searchCmd.Flags()
	f.IntVar(&searchOpts.AgeFrom, "age-from", 16, "minimum age")
	f.IntVar(&searchOpts.AgeTo, "age-to", 110, "maximum age")
	f.StringSliceVar(&searchOpts.Sexes, "sex", nil, "sexes to include (male, female)")
	f.StringSliceVar(&searchOpts.Continents, "continent", nil, "continent codes (AF, AS, EU, NA, OC, SA)")
	f.StringSliceVar(&searchOpts.Countries, "country", nil, "country codes")
	f.StringVar(&searchOpts.Keywords, "keywords", "", "free text keywords")
	f.BoolVar(&searchOpts.Online, "online", false, "only users online now")
	f.StringVar(&searchOpts.City, "city", "", "city code")
	f.StringVar(&searchOpts.CityName, "city-name", "", "city name, looked up with the autocomplete")
	f.IntVar(&searchLimit, "limit", 0, "stop after this many users (default from config)")
	f.BoolVar(&searchAsync, "async", false, "fetch pages in the background while printing")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(cityCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit := searchLimit
	if !cmd.Flags().Changed("limit") {
		limit = cfg.Search.Limit
	}

	api, err := newAPI()
	if err != nil {
		return err
	}

	progress := ui.NewSearchProgress(limit)
	log := logger.WithFields(map[string]interface{}{"limit": limit, "async": searchAsync})
	log.Debug("search started")

	if searchAsync {
		err = streamAsync(cmd.Context(), interpals.NewAsync(api), limit, progress)
	} else {
		err = streamSync(cmd.Context(), api, limit, progress)
	}

	log.WithField("found", progress.Found).Debug("search finished")
	progress.Summary()
	return err
}

func streamSync(ctx context.Context, api *interpals.API, limit int, progress *ui.SearchProgress) error {
	for user, err := range api.Search(ctx, searchOpts, limit) {
		if err != nil {
			return err
		}
		progress.Add()
		ui.PrintRaw(user + "\n")
	}
	return nil
}

func streamAsync(ctx context.Context, api *interpals.AsyncAPI, limit int, progress *ui.SearchProgress) error {
	for result := range api.Search(ctx, searchOpts, limit) {
		if result.Err != nil {
			return result.Err
		}
		progress.Add()
		ui.PrintRaw(result.Username + "\n")
	}
	return ctx.Err()
}

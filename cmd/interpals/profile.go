package main

import (
	"context"

	"github.com/spf13/cobra"

	"interpals/pkg/interpals"
	"interpals/pkg/ui"
)

var profileCmd = &cobra.Command{
	Use:   "profile [user]",
	Short: "Show a profile (your own by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
			user := api.Session().Username
			if len(args) > 0 {
				user = args[0]
			}
			profile, err := api.Profile(ctx, user)
			if err != nil {
				return err
			}
			return printResult(profile, []string{"Field", "Value"}, func() [][]interface{} {
				rows := [][]interface{}{
					{"name", orDash(profile.Name)},
					{"age", orDash(profile.Age)},
					{"sex", profile.Sex},
					{"city", profile.City},
					{"country", profile.Country},
					{"online", profile.Online},
					{"last seen", orDash(profile.LastSeen)},
					{"joined", profile.Joined},
					{"updated", profile.Updated},
					{"uid", profile.UID},
				}
				for _, item := range profile.Info {
					rows = append(rows, []interface{}{item.Title, item.Text})
				}
				return rows
			})
		})
	},
}

var viewCmd = &cobra.Command{
	Use:   "view <user>",
	Short: "Visit a profile so it shows up in their visitors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
			if err := api.View(ctx, args[0]); err != nil {
				return err
			}
			ui.PrintSuccess("Viewed " + args[0])
			return nil
		})
	},
}

var uidCmd = &cobra.Command{
	Use:   "uid <user>",
	Short: "Print the numeric id of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
			uid, err := api.UID(ctx, args[0])
			if err != nil {
				return err
			}
			ui.PrintRaw(uid + "\n")
			return nil
		})
	},
}

var visitorsCmd = &cobra.Command{
	Use:   "visitors",
	Short: "List the users who recently viewed your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
			visitors, err := api.Visitors(ctx)
			if err != nil {
				return err
			}
			return printResult(visitors, []string{"Visitor"}, func() [][]interface{} {
				rows := make([][]interface{}, 0, len(visitors))
				for _, v := range visitors {
					rows = append(rows, []interface{}{v})
				}
				return rows
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(uidCmd)
	rootCmd.AddCommand(visitorsCmd)
}

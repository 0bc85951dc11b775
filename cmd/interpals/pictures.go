package main

import (
	"context"

	"github.com/spf13/cobra"

	"interpals/pkg/interpals"
)

var albumsCmd = &cobra.Command{
	Use:   "albums [user]",
	Short: "List photo albums (your own by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
			user := api.Session().Username
			if len(args) > 0 {
				user = args[0]
			}
			uid, err := resolveUID(ctx, api, user)
			if err != nil {
				return err
			}
			albums, err := api.Albums(ctx, uid)
			if err != nil {
				return err
			}
			return printResult(albums, []string{"ID", "Name", "Pictures", "Created", "Updated"}, func() [][]interface{} {
				rows := make([][]interface{}, 0, len(albums))
				for _, a := range albums {
					rows = append(rows, []interface{}{a.ID, a.Name, a.PictureCount, a.Created, a.Updated})
				}
				return rows
			})
		})
	},
}

var picturesCmd = &cobra.Command{
	Use:   "pictures <user> <album-id>",
	Short: "List the pictures of an album",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
			uid, err := resolveUID(ctx, api, args[0])
			if err != nil {
				return err
			}
			pictures, err := api.Pictures(ctx, uid, args[1])
			if err != nil {
				return err
			}
			return printResult(pictures, []string{"Picture"}, func() [][]interface{} {
				rows := make([][]interface{}, 0, len(pictures))
				for _, p := range pictures {
					rows = append(rows, []interface{}{p.Full})
				}
				return rows
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(albumsCmd)
	rootCmd.AddCommand(picturesCmd)
}

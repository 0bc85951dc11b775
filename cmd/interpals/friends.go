package main

import (
	"context"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"interpals/pkg/interpals"
	"interpals/pkg/ui"
)

var friendsCmd = &cobra.Command{
	Use:   "friends [user]",
	Short: "List the friends of a user (your own by default)",
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
			friends, err := api.Friends(ctx, uid)
			if err != nil {
				return err
			}
			return printResult(friends, []string{"User", "Age", "City", "Online"}, func() [][]interface{} {
				rows := make([][]interface{}, 0, len(friends))
				for _, f := range friends {
					rows = append(rows, []interface{}{f.Username, orDash(f.Age), f.City, f.Online})
				}
				return rows
			})
		})
	},
}

var friendCmd = &cobra.Command{
	Use:   "friend",
	Short: "Send or withdraw friend requests",
}

var friendAddCmd = &cobra.Command{
	Use:   "add <user>",
	Short: "Send a friend request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return friendAction(cmd.Context(), args[0], (*interpals.API).FriendAdd, "Friend request sent to ")
	},
}

var friendRemoveCmd = &cobra.Command{
	Use:   "remove <user>",
	Short: "Remove a friend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return friendAction(cmd.Context(), args[0], (*interpals.API).FriendRemove, "Friend removed: ")
	},
}

func init() {
	friendCmd.AddCommand(friendAddCmd)
	friendCmd.AddCommand(friendRemoveCmd)

	rootCmd.AddCommand(friendsCmd)
	rootCmd.AddCommand(friendCmd)
}

func friendAction(ctx context.Context, user string, action func(*interpals.API, context.Context, string) error, done string) error {
	return withAPI(ctx, func(ctx context.Context, api *interpals.API) error {
		uid, err := resolveUID(ctx, api, user)
		if err != nil {
			return err
		}
		if err := action(api, ctx, uid); err != nil {
			return err
		}
		ui.PrintSuccess(done + user)
		return nil
	})
}

// resolveUID accepts a numeric id as is and looks up anything else as a
// username
func resolveUID(ctx context.Context, api *interpals.API, user string) (string, error) {
	if user != "" && strings.IndexFunc(user, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return user, nil
	}
	return api.UID(ctx, user)
}

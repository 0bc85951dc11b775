package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"interpals/pkg/interpals"
	"interpals/pkg/ui"
)

var (
	chatCount  int
	chatOffset int
	lastMsgID  string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "List message threads, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
			overview, err := api.Chat(ctx, chatCount, chatOffset)
			if err != nil {
				return err
			}
			ui.PrintInfo("Unread", fmt.Sprint(overview.Unread))
			return printResult(overview, []string{"Thread", "User", "Age", "City", "Online", "Unread", "Message"}, func() [][]interface{} {
				rows := make([][]interface{}, 0, len(overview.Threads))
				for _, th := range overview.Threads {
					rows = append(rows, []interface{}{th.ID, th.User, orDash(th.Age), orDash(th.City), th.Online, th.Unread, th.Snippet})
				}
				return rows
			})
		})
	},
}

var threadCmd = &cobra.Command{
	Use:   "thread <uid>",
	Short: "Print the id of the thread with a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
			id, err := api.ThreadID(ctx, args[0])
			if err != nil {
				return err
			}
			ui.PrintRaw(id + "\n")
			return nil
		})
	},
}

var messagesCmd = &cobra.Command{
	Use:   "messages <thread-id>",
	Short: "Show the messages of a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
			messages, err := api.ChatMessages(ctx, args[0], lastMsgID)
			if err != nil {
				return err
			}
			return printResult(messages, []string{"ID", "Date", "Time", "From", "Text"}, func() [][]interface{} {
				rows := make([][]interface{}, 0, len(messages))
				for _, m := range messages {
					rows = append(rows, []interface{}{m.ID, orDash(m.Date), m.Time, orDash(m.Sender), m.Text})
				}
				return rows
			})
		})
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <thread-id> <message>...",
	Short: "Send a message to a thread",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
			if err := api.ChatSend(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			ui.PrintSuccess("Message sent")
			return nil
		})
	},
}

var deleteChatCmd = &cobra.Command{
	Use:   "delete-chat <thread-id>",
	Short: "Delete a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
			if err := api.ChatDelete(ctx, args[0]); err != nil {
				return err
			}
			ui.PrintSuccess("Thread deleted: " + args[0])
			return nil
		})
	},
}

func init() {
	chatCmd.Flags().IntVar(&chatCount, "count", 20, "number of threads")
	chatCmd.Flags().IntVar(&chatOffset, "offset", 0, "threads to skip")
	messagesCmd.Flags().StringVar(&lastMsgID, "before", "", "only messages older than this message id")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(threadCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(deleteChatCmd)
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"interpals/pkg/auth"
	"interpals/pkg/interpals"
	"interpals/pkg/logger"
	"interpals/pkg/session"
	"interpals/pkg/ui"
)

var passwordStdin bool

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in and store the session",
	Long: `Log in to interpals.net with a username and password.

The password is only sent to the site. What is stored is the pair of
session cookies the site hands out, in the first available store:
  - System keychain
  - Encrypted file with PBKDF2 key derivation`,
	Example: `  # Interactive login
  interpals login

  # Scripted login
  echo "$PASSWORD" | interpals login alice --password-stdin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout [username]",
	Short: "Forget a stored session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogout,
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions",
	RunE:  runSessions,
}

var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"whoami"},
	Short:   "Check that the stored session is still logged in",
	RunE:    runCheck,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current session as JSON to stdout",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Read a session exported as JSON from stdin and store it",
	RunE:  runImport,
}

func init() {
	loginCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := sessionManager()
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	user := cfg.Interpals.Username
	if len(args) > 0 {
		user = args[0]
	}
	if user == "" {
		fmt.Fprint(os.Stderr, "Username: ")
		user, err = readLine(reader)
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}
	if user == "" {
		return fmt.Errorf("username is required")
	}

	var password string
	if passwordStdin {
		password, err = readLine(reader)
	} else {
		fmt.Fprint(os.Stderr, "Password: ")
		password, err = readPassword(reader)
	}
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	client := newClient()
	authenticator := session.NewAuthenticator(client, client.BaseURL(), logger.GetLogger())

	s, err := authenticator.Login(cmd.Context(), user, password)
	if err != nil {
		return err
	}

	if err := manager.Save(s); err != nil {
		return err
	}

	ui.PrintSuccess("Logged in as " + s.Username)
	ui.PrintInfo("Session", s.String())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := sessionManager()
	if err != nil {
		return err
	}

	user := cfg.Interpals.Username
	if len(args) > 0 {
		user = args[0]
	}
	if user == "" {
		account, err := manager.RetrieveDefault()
		if err != nil {
			return err
		}
		user = account.Username
	}

	if err := manager.Delete(user); err != nil {
		return err
	}
	ui.PrintSuccess("Session removed: " + user)
	return nil
}

func runSessions(cmd *cobra.Command, args []string) error {
	manager, err := sessionManager()
	if err != nil {
		return err
	}

	accounts, err := manager.List()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		ui.PrintInfo("No stored sessions", "use 'interpals login' to add one")
		return nil
	}

	ui.PrintHighlight("Stored Sessions")
	rows := make([][]interface{}, 0, len(accounts))
	for _, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		modified := "-"
		if !sanitized.LastModified.IsZero() {
			modified = sanitized.LastModified.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []interface{}{sanitized.Username, sanitized.SessID, sanitized.CSRFCookie, modified})
	}
	ui.Table([]string{"Username", "Session ID", "CSRF Cookie", "Last Modified"}, rows)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	return withAPI(cmd.Context(), func(ctx context.Context, api *interpals.API) error {
		ok, err := api.CheckAuth(ctx)
		if err != nil {
			return err
		}
		if !ok {
			ui.PrintWarning("Session expired", api.Session().Username)
			return fmt.Errorf("session of %s is no longer logged in", api.Session().Username)
		}
		ui.PrintSuccess("Logged in as " + api.Session().Username)
		return nil
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := currentSession()
	if err != nil {
		return err
	}
	return session.Dump(os.Stdout, s)
}

func runImport(cmd *cobra.Command, args []string) error {
	return importSession(os.Stdin)
}

func importSession(r io.Reader) error {
	s, err := session.Load(r)
	if err != nil {
		return err
	}
	manager, err := sessionManager()
	if err != nil {
		return err
	}
	if err := manager.Save(s); err != nil {
		return err
	}
	ui.PrintSuccess("Session imported: " + s.Username)
	return nil
}

func readLine(reader *bufio.Reader) (string, error) {
	input, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// readPassword reads a password from stdin without echoing
func readPassword(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err == nil {
			return string(password), nil
		}
	}
	return readLine(reader)
}

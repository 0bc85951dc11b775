package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"interpals/pkg/config"
	"interpals/pkg/logger"
	"interpals/pkg/ui"
)

var (
	// Version information
	version   = "0.1.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	username   string
	baseURL    string
	timeout    time.Duration
	pageDelay  time.Duration
	storeKind  string
	logLevel   string
	noColor    bool
	quiet      bool
	output     string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "interpals",
	Short: "Command-line client for interpals.net",
	Long: `interpals drives an interpals.net account from the command line.

Log in once with 'interpals login'. The session cookies are kept in the
system keychain or an encrypted file and reused by every other command:
  - read profiles, visitors and friends
  - run paged user searches
  - read, send and delete private messages
  - list photo albums and pictures`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flags := make(map[string]interface{})
		pf := cmd.Flags()
		if pf.Changed("username") {
			flags["username"] = username
		}
		if pf.Changed("base-url") {
			flags["base-url"] = baseURL
		}
		if pf.Changed("timeout") {
			flags["timeout"] = timeout
		}
		if pf.Changed("delay") {
			flags["delay"] = pageDelay
		}
		if pf.Changed("store") {
			flags["store"] = storeKind
		}
		if pf.Changed("log-level") {
			flags["log-level"] = logLevel
		}
		if noColor {
			flags["no-color"] = true
		}

		loaded, err := config.Load(configFile, flags)
		if err != nil {
			return err
		}
		cfg = loaded

		if err := logger.Initialize(&cfg.Logging); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		ui.SetNoColor(cfg.Logging.NoColor)
		ui.SetQuietMode(quiet)
		if output != "yaml" && output != "table" {
			return fmt.Errorf("invalid output format %q", output)
		}

		logger.WithFields(map[string]interface{}{
			"command": cmd.CommandPath(),
			"version": version,
		}).Debug("starting")
		return nil
	},
}

// Execute runs the root command until it finishes or the process is
// interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.interpals.yaml or ~/.config/interpals/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "account to act as (default is the most recent login)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "site origin")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout")
	rootCmd.PersistentFlags().DurationVar(&pageDelay, "delay", 0, "pause between search result pages")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "session store (auto, keyring, file, env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print results only")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "yaml", "result format (yaml, table)")

	rootCmd.SetVersionTemplate(`interpals {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

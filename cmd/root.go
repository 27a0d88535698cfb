package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bpopineau/gspace/internal/config"
	"github.com/bpopineau/gspace/internal/dryrun"
	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/idempotency"
	"github.com/bpopineau/gspace/internal/logging"
	"github.com/bpopineau/gspace/internal/workspace"
)

var (
	flagConfig   string
	flagAccount  string
	flagLogLevel string
	flagJSON     bool
	flagDryRun   bool
	flagReason   string
	flagOnce     string
)

// rootCmd represents the base command for the gspace application
var rootCmd = &cobra.Command{
	Use:   "gspace",
	Short: "Work with Google Drive, Sheets, Docs, Calendar, Tasks, Gmail and Contacts",
	Long: `gspace wraps the Google Workspace APIs behind a set of small commands
for personal automation.

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gspace version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to the config file (default: the user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagAccount, "account", "", "Account name (default: the configured default account)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print results as JSON instead of aligned text")

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDriveCmd())
	rootCmd.AddCommand(newSheetsCmd())
	rootCmd.AddCommand(newDocsCmd())
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newTasksCmd())
	rootCmd.AddCommand(newGmailCmd())
	rootCmd.AddCommand(newContactsCmd())
}

// addMutationFlags attaches the flags shared by every mutating verb.
func addMutationFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Report what would change without performing the mutation")
	cmd.Flags().StringVar(&flagReason, "reason", "", "Free-form note recorded in the dry-run report")
	cmd.Flags().StringVar(&flagOnce, "once", "", "Idempotency key: skip the action if this key already completed")
}

// runContext returns a context cancelled on SIGINT or SIGTERM.
func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flagAccount != "" {
		cfg.Account = flagAccount
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	return cfg, nil
}

// newWorkspace builds the shared client factory from the loaded config.
// Logs go to stderr so command output stays parseable.
func newWorkspace() (*workspace.Workspace, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.Setup(os.Stderr, logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	return workspace.New(cfg, logger, nil), cfg, nil
}

// callOpts maps the --dry-run and --reason flags onto call options.
func callOpts() []gapi.CallOption {
	var opts []gapi.CallOption
	if flagDryRun {
		opts = append(opts, gapi.DryRun(flagReason))
	}
	return opts
}

// onceGuard wraps a mutating action with the idempotency ledger. With
// --once unset the action just runs. With a key set, a completed key
// skips the action and a successful run marks it. Dry runs never mark.
func onceGuard(ctx context.Context, cfg *config.Config, namespace string, action func() error) error {
	if flagOnce == "" {
		return action()
	}

	store, err := idempotency.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open idempotency ledger: %w", err)
	}
	defer store.Close()

	key := namespace + "/" + flagOnce
	done, err := store.Done(ctx, key)
	if err != nil {
		return err
	}
	if done {
		fmt.Fprintf(os.Stderr, "skipping: %s already completed\n", key)
		return nil
	}

	if err := action(); err != nil {
		return err
	}
	if flagDryRun {
		return nil
	}
	return store.Mark(ctx, key, flagReason)
}

// printMutation renders either the dry-run report or the real outcome.
func printMutation(report *dryrun.Report, outcome any) error {
	if report != nil {
		return printJSON(report)
	}
	return printJSON(outcome)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes rows as aligned text, or as JSON with --json set.
func printTable(header []string, rows [][]string, jsonValue any) error {
	if flagJSON {
		return printJSON(jsonValue)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, h := range header {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

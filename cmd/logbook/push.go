package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/claude/logbook/internal/upload"
)

var pushCmd = &cobra.Command{
	Use:   "push <dir>",
	Short: "Send new Alpha Progression exports in a directory to a logbook server",
	Long: `push walks a directory of Alpha Progression CSV exports and posts each new
or changed file to the server's ingest endpoint. Pushed files are tracked in a
local state database so a re-run does not log the same sessions twice.`,
	Args: cobra.ExactArgs(1),
	RunE: runPush,
}

var (
	pushServer   string
	pushStateDir string
	pushDryRun   bool
)

func init() {
	pushCmd.Flags().StringVar(&pushServer, "server", "", "logbook server URL (e.g. https://logbook.tail1234.ts.net)")
	pushCmd.Flags().StringVar(&pushStateDir, "state-dir", "", "directory for the push state database (default ~/.logbook-push)")
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "parse exports but don't send them")
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	if pushServer == "" && !pushDryRun {
		return fmt.Errorf("--server is required (or use --dry-run)")
	}
	info, err := os.Stat(args[0])
	if err != nil || !info.IsDir() {
		return fmt.Errorf("export directory %s not found", args[0])
	}

	stateDir := pushStateDir
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locating home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".logbook-push")
	}
	state, err := upload.OpenStateDB(stateDir)
	if err != nil {
		return err
	}
	defer state.Close()

	var client *upload.Client
	if !pushDryRun {
		client = upload.NewClient(pushServer)
	}

	stats, err := upload.New(client, state, args[0], pushDryRun, log).Run(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), stats.Summary())
	return err
}

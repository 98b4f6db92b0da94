package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var ingestAlphaCmd = &cobra.Command{
	Use:   "ingest-alpha <file>",
	Short: "Append the sessions of an Alpha Progression CSV export",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestAlpha,
}

func init() {
	rootCmd.AddCommand(ingestAlphaCmd)
}

func runIngestAlpha(cmd *cobra.Command, args []string) (err error) {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, a.Close()) }()

	res, err := a.svc.IngestAlpha(cmd.Context(), f)
	if err != nil {
		return err
	}
	fmt.Printf("sessions: %d received, %d inserted, %d skipped; sets: %d inserted\n",
		res.SessionsReceived, res.SessionsInserted, res.SessionsSkipped, res.SetsInserted)
	return nil
}

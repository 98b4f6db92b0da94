package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show last set and PR for the key lifts",
	Args:  cobra.NoArgs,
	RunE:  runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) (err error) {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, a.Close()) }()

	rows, err := a.svc.Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXERCISE\tSET\tLAST\tPR")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Exercise, r.SetType, r.LastText, r.PRText)
	}
	return tw.Flush()
}

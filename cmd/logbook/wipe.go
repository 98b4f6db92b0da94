package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete every session and set",
	Args:  cobra.NoArgs,
	RunE:  runWipe,
}

var wipeYes bool

func init() {
	wipeCmd.Flags().BoolVar(&wipeYes, "yes", false, "confirm deleting all data")
	rootCmd.AddCommand(wipeCmd)
}

func runWipe(cmd *cobra.Command, args []string) (err error) {
	if !wipeYes {
		return errors.New("refusing to delete all data without --yes")
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, a.Close()) }()

	if err := a.svc.Wipe(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("all sessions and sets deleted")
	return nil
}

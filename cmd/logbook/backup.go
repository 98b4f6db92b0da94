package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/claude/logbook/internal/backup"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write every session and set to a JSON backup",
	Args:  cobra.NoArgs,
	RunE:  runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Import a JSON backup (merge by default)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

var (
	backupOut      string
	restoreReplace bool
)

func init() {
	backupCmd.Flags().StringVarP(&backupOut, "output", "o", "", "output file, - for stdout (default logbook_backup_<date>.json)")
	restoreCmd.Flags().BoolVar(&restoreReplace, "replace", false, "wipe existing data before importing")
	rootCmd.AddCommand(backupCmd, restoreCmd)
}

func runBackup(cmd *cobra.Command, args []string) (err error) {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, a.Close()) }()

	doc, err := a.svc.ExportBackup(cmd.Context())
	if err != nil {
		return err
	}

	path := backupOut
	if path == "" {
		path = a.svc.BackupFilename()
	}
	w, err := outputFile(path)
	if err != nil {
		return err
	}
	if err := multierr.Append(backup.Write(w, doc), w.Close()); err != nil {
		return err
	}
	if path != "-" {
		fmt.Fprintf(os.Stderr, "wrote %d sessions and %d sets to %s\n", len(doc.Sessions), len(doc.Sets), path)
	}
	return nil
}

func runRestore(cmd *cobra.Command, args []string) (err error) {
	mode := backup.Merge
	if restoreReplace {
		mode = backup.Replace
	}

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

	res, err := a.svc.ImportBackup(cmd.Context(), f, mode)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d sessions and %d sets (%s)\n", res.Sessions, res.Sets, res.Mode)
	if res.Unmapped > 0 {
		fmt.Printf("%d sets kept a session id with no match in the backup\n", res.Unmapped)
	}
	return nil
}

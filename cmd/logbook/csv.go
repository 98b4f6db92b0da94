package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var csvCmd = &cobra.Command{
	Use:   "csv <exercise>",
	Short: "Export one exercise's history as CSV (or XLSX)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCSV,
}

var (
	csvOut  string
	csvXLSX bool
)

func init() {
	csvCmd.Flags().StringVarP(&csvOut, "output", "o", "", "output file, - for stdout (default history_<exercise>.csv)")
	csvCmd.Flags().BoolVar(&csvXLSX, "xlsx", false, "write an Excel workbook instead of CSV")
	rootCmd.AddCommand(csvCmd)
}

func runCSV(cmd *cobra.Command, args []string) (err error) {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, a.Close()) }()

	var buf bytes.Buffer
	var name string
	if csvXLSX {
		name, err = a.svc.HistoryXLSX(cmd.Context(), &buf, args[0])
	} else {
		name, err = a.svc.HistoryCSV(cmd.Context(), &buf, args[0])
	}
	if err != nil {
		return err
	}

	path := csvOut
	if path == "" {
		path = name
	}
	w, err := outputFile(path)
	if err != nil {
		return err
	}
	_, werr := w.Write(buf.Bytes())
	if err := multierr.Append(werr, w.Close()); err != nil {
		return err
	}
	if path != "-" {
		fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	}
	return nil
}

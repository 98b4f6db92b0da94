package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claude/logbook/internal/load"
	"github.com/claude/logbook/internal/plates"
)

var platesCmd = &cobra.Command{
	Use:   "plates <target>",
	Short: "Show the plates per side for a target weight",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlates,
}

var platesBar float64

func init() {
	platesCmd.Flags().Float64Var(&platesBar, "bar", plates.DefaultBar, "bar weight")
	rootCmd.AddCommand(platesCmd)
}

func runPlates(cmd *cobra.Command, args []string) error {
	target, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("target %q is not a number", args[0])
	}
	b, err := plates.Calculate(target, platesBar)
	if err != nil {
		return err
	}

	if len(b.Plates) == 0 {
		fmt.Printf("%s: empty bar\n", load.FormatNumber(b.Target))
		return nil
	}
	per := make([]string, len(b.Plates))
	for i, p := range b.Plates {
		per[i] = load.FormatNumber(p)
	}
	fmt.Printf("%s: bar %s + per side %s (%s)\n",
		load.FormatNumber(b.Target), load.FormatNumber(b.Bar), strings.Join(per, ", "), load.FormatNumber(b.PerSide))
	return nil
}

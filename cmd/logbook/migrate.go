package main

import "github.com/spf13/cobra"

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		log.Info("migrations applied", "driver", cfg.Database.Driver)
		return a.Close()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

package main

import (
	"github.com/spf13/cobra"
)

var dropSchema bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, store, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		if dropSchema {
			if err := store.DropSchema(cmd.Context()); err != nil {
				return err
			}
			logger.Info("schema dropped")
		}
		if err := store.CreateSchema(cmd.Context()); err != nil {
			return err
		}
		logger.Info("schema created")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&dropSchema, "drop", false, "drop existing tables first")
}

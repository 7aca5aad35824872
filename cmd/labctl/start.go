package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a virtual cluster from an inventory",
	Long: `Start creates a new session, synthesizes its container topology and
session inventory, builds the referenced images, and brings the containers
up. The new session identifier is printed on success so it can be reused
with run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inventoryPath, _ := cmd.Flags().GetString("inventory")

		mgr, err := newManager()
		if err != nil {
			return err
		}

		id, err := mgr.Start(cmd.Context(), inventoryPath)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

func init() {
	startCmd.Flags().StringP("inventory", "i", "", "Inventory YAML file or directory path")
	startCmd.MarkFlagRequired("inventory")
}

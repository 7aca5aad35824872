package main

import (
	"github.com/spf13/cobra"

	"github.com/virtlab/labctl/pkg/manager"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Ping hosts or run a playbook against a session",
	Long: `Run executes the configuration runner against a session's generated
inventory: a ping of all hosts by default, or a playbook with -t. The
session may be omitted when exactly one is live.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inventoryPath, _ := cmd.Flags().GetString("inventory")
		playbook, _ := cmd.Flags().GetString("test")
		sessionID, _ := cmd.Flags().GetString("session")

		mgr, err := newManager()
		if err != nil {
			return err
		}

		return mgr.Run(cmd.Context(), manager.RunOptions{
			Inventory: inventoryPath,
			Playbook:  playbook,
			SessionID: sessionID,
		})
	},
}

func init() {
	runCmd.Flags().StringP("inventory", "i", "", "Inventory path override (persisted on the session)")
	runCmd.Flags().StringP("test", "t", "", "Playbook path (pings all hosts when omitted)")
	runCmd.Flags().StringP("session", "s", "", "Session ID, optional if only one session is live")
}

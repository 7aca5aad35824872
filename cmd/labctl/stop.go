package main

import (
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Tear down every session and delete all generated state",
	Long: `Stop brings down the containers of every live session and removes the
session store together with all generated artifacts. Irreversible, and a
no-op when nothing is running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		removeImages, _ := cmd.Flags().GetBool("rmi")

		mgr, err := newManager()
		if err != nil {
			return err
		}
		return mgr.Stop(cmd.Context(), removeImages)
	},
}

func init() {
	stopCmd.Flags().Bool("rmi", false, "Also remove the images the sessions built")
}

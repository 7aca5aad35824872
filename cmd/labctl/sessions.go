package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List the active sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")

		mgr, err := newManager()
		if err != nil {
			return err
		}

		for _, record := range mgr.Sessions() {
			if verbose {
				fmt.Printf("%s    path=%s entryIp=%s\n", record.ID, record.Path, record.EntryIP)
			} else {
				fmt.Println(record.ID)
			}
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().BoolP("verbose", "v", false, "Show session metadata")
}

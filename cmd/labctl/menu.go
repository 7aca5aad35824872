package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/virtlab/labctl/pkg/manager"
)

const (
	choiceStart    = "Start - Start the virtual cluster"
	choiceRun      = "Run - Run playbook or ping hosts"
	choiceStop     = "Stop - Stop the virtual cluster"
	choiceSessions = "Sessions - Show all the active sessions"
	choiceQuit     = "Quit"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive front-end for the cluster commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		for {
			var choice string
			prompt := &survey.Select{
				Message: "Virtual Cluster Manager",
				Options: []string{choiceStart, choiceRun, choiceStop, choiceSessions, choiceQuit},
			}
			if err := survey.AskOne(prompt, &choice); err != nil {
				if errors.Is(err, terminal.InterruptErr) {
					return nil
				}
				return err
			}

			var err error
			switch choice {
			case choiceStart:
				err = menuStart(cmd)
			case choiceRun:
				err = menuRun(cmd)
			case choiceStop:
				err = menuStop(cmd)
			case choiceSessions:
				err = menuSessions()
			case choiceQuit:
				return nil
			}
			if err != nil {
				if errors.Is(err, terminal.InterruptErr) {
					return nil
				}
				// Menu errors are shown and the menu resumes; only quit ends it.
				fmt.Printf("Error: %v\n", err)
			}
		}
	},
}

func menuStart(cmd *cobra.Command) error {
	var inventoryPath string
	err := survey.AskOne(&survey.Input{Message: "Path to inventory file or directory:"}, &inventoryPath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(inventoryPath) == "" {
		return nil
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}
	id, err := mgr.Start(cmd.Context(), strings.TrimSpace(inventoryPath))
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func menuRun(cmd *cobra.Command) error {
	var inventoryPath, playbook string
	err := survey.AskOne(&survey.Input{Message: "Inventory path (leave empty to reuse session inventory):"}, &inventoryPath)
	if err != nil {
		return err
	}
	err = survey.AskOne(&survey.Input{Message: "Playbook path (leave empty to ping hosts):"}, &playbook)
	if err != nil {
		return err
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}

	sessions := mgr.Sessions()
	var sessionID string
	switch len(sessions) {
	case 0:
		fmt.Println("No active sessions found.")
		return nil
	case 1:
		sessionID = sessions[0].ID
		fmt.Printf("Using session %s\n", sessionID)
	default:
		options := make([]string, 0, len(sessions))
		for _, record := range sessions {
			options = append(options, fmt.Sprintf("%s  ->  %s", record.ID, record.Path))
		}
		var selected string
		err := survey.AskOne(&survey.Select{Message: "Select a session", Options: options}, &selected)
		if err != nil {
			return err
		}
		sessionID = strings.Fields(selected)[0]
	}

	return mgr.Run(cmd.Context(), manager.RunOptions{
		Inventory: strings.TrimSpace(inventoryPath),
		Playbook:  strings.TrimSpace(playbook),
		SessionID: sessionID,
	})
}

func menuStop(cmd *cobra.Command) error {
	removeImages := false
	if err := survey.AskOne(&survey.Confirm{Message: "Remove docker images?"}, &removeImages); err != nil {
		return err
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}
	return mgr.Stop(cmd.Context(), removeImages)
}

func menuSessions() error {
	verbose := false
	if err := survey.AskOne(&survey.Confirm{Message: "Verbose output?"}, &verbose); err != nil {
		return err
	}

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
}

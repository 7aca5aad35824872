package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/virtlab/labctl/pkg/config"
	"github.com/virtlab/labctl/pkg/log"
	"github.com/virtlab/labctl/pkg/manager"
	"github.com/virtlab/labctl/pkg/runner"
	"github.com/virtlab/labctl/pkg/runtime"
	"github.com/virtlab/labctl/pkg/session"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	flagQuiet bool
	flagDebug int
	flagJSON  bool
)

func main() {
	// Default logger so failures before flag parsing are still reported;
	// PersistentPreRun re-initializes it from the flags.
	log.Init(log.Config{Level: log.InfoLevel})
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("command failed", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "labctl",
	Short: "labctl - disposable multi-host virtual clusters on one machine",
	Long: `labctl provisions short-lived virtual clusters by translating a declarative
host inventory into an isolated container topology, then exposes that
topology to Ansible through a generated inventory that routes every host
over a single published bastion port.

Multiple sessions coexist, each with its own subnet, port range, and
containers, so several isolated topologies can run concurrently.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.InfoLevel
		if flagQuiet {
			level = log.ErrorLevel
		} else if flagDebug >= 1 {
			level = log.DebugLevel
		}
		log.Init(log.Config{Level: level, JSONOutput: flagJSON})
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"labctl version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only print errors")
	rootCmd.PersistentFlags().IntVarP(&flagDebug, "debug", "d", 0, "Debug level (0=info, 1=verbose, 2=external command output)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Log in JSON format")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(menuCmd)
}

// newManager wires the full collaborator graph from configuration.
func newManager() (*manager.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store := session.NewStore(cfg.StorePath(), cfg.Paths.DataDir)

	// External command output is discarded unless the operator asks for it.
	var cmdOut io.Writer
	if flagDebug >= 2 {
		cmdOut = os.Stderr
	}
	docker := runtime.NewDocker(cmdOut)
	ansible := runner.NewAnsible(cfg.Ansible.PingBinary, cfg.Ansible.PlaybookBinary)

	return manager.New(cfg, store, docker, ansible), nil
}

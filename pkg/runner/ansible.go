package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/virtlab/labctl/pkg/log"
)

// Ansible invokes the configuration runner against a generated session
// inventory. Unlike the container runtime its output always streams to the
// terminal: ping and playbook results are the point of the invocation.
type Ansible struct {
	pingBin     string
	playbookBin string
	stdout      io.Writer
	stderr      io.Writer
	logger      zerolog.Logger
}

// NewAnsible returns a runner using the given binaries, or the conventional
// ansible/ansible-playbook names when empty.
func NewAnsible(pingBin, playbookBin string) *Ansible {
	if pingBin == "" {
		pingBin = "ansible"
	}
	if playbookBin == "" {
		playbookBin = "ansible-playbook"
	}
	return &Ansible{
		pingBin:     pingBin,
		playbookBin: playbookBin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		logger:      log.WithComponent("runner"),
	}
}

// Ping pings every host in the inventory.
func (a *Ansible) Ping(ctx context.Context, inventory string) error {
	return a.run(ctx, a.pingBin, "all", "-m", "ping", "-i", inventory)
}

// Playbook runs a playbook against the inventory, targeting all hosts.
func (a *Ansible) Playbook(ctx context.Context, inventory, playbook string) error {
	return a.run(ctx, a.playbookBin, "-i", inventory, playbook, "-e", "h=all")
}

func (a *Ansible) run(ctx context.Context, bin string, args ...string) error {
	a.logger.Debug().Str("command", bin+" "+strings.Join(args, " ")).Msg("running command")

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", bin, err)
	}
	return nil
}

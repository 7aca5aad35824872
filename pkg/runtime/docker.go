package runtime

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/virtlab/labctl/pkg/log"
)

// Docker drives the container runtime through the docker CLI. The runtime is
// an opaque external collaborator: this wrapper only constructs its inputs
// and interprets exit status.
type Docker struct {
	bin    string
	output io.Writer // nil discards command output
	logger zerolog.Logger
}

// NewDocker returns a Docker wrapper. output receives the subprocess
// stdout/stderr; pass nil to discard it (the default below debug level 2).
func NewDocker(output io.Writer) *Docker {
	return &Docker{
		bin:    "docker",
		output: output,
		logger: log.WithComponent("runtime"),
	}
}

// BuildImage builds one image from a Dockerfile in the current context.
func (d *Docker) BuildImage(ctx context.Context, image, dockerfile string) error {
	d.logger.Debug().Str("image", image).Str("dockerfile", dockerfile).Msg("building image")
	return d.run(ctx, "build", "-t", image, "-f", dockerfile, ".")
}

// ComposeUp builds and starts the session's containers in the background.
func (d *Docker) ComposeUp(ctx context.Context, project, composeFile string) error {
	d.logger.Debug().Str("project", project).Msg("starting containers")
	return d.run(ctx, "compose", "-p", project, "-f", composeFile, "up", "-d", "--build")
}

// ComposeDown tears the session's containers down. With removeImages set it
// also removes the images the compose file built.
func (d *Docker) ComposeDown(ctx context.Context, project, composeFile string, removeImages bool) error {
	d.logger.Debug().Str("project", project).Msg("stopping containers")
	args := []string{"compose", "-p", project, "-f", composeFile, "down"}
	if removeImages {
		args = append(args, "--rmi", "local")
	}
	return d.run(ctx, args...)
}

func (d *Docker) run(ctx context.Context, args ...string) error {
	d.logger.Debug().Str("command", d.bin+" "+strings.Join(args, " ")).Msg("running command")

	cmd := exec.CommandContext(ctx, d.bin, args...)
	if d.output != nil {
		cmd.Stdout = d.output
		cmd.Stderr = d.output
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s failed: %w", d.bin, strings.Join(args, " "), err)
	}
	return nil
}

package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/virtlab/labctl/pkg/allocator"
	"github.com/virtlab/labctl/pkg/config"
	"github.com/virtlab/labctl/pkg/inventory"
	"github.com/virtlab/labctl/pkg/log"
	"github.com/virtlab/labctl/pkg/session"
	"github.com/virtlab/labctl/pkg/topology"
	"github.com/virtlab/labctl/pkg/types"
)

// ContainerRuntime is the external collaborator that builds images and runs
// the session's containers.
type ContainerRuntime interface {
	BuildImage(ctx context.Context, image, dockerfile string) error
	ComposeUp(ctx context.Context, project, composeFile string) error
	ComposeDown(ctx context.Context, project, composeFile string, removeImages bool) error
}

// Runner is the external configuration runner invoked against a session
// inventory.
type Runner interface {
	Ping(ctx context.Context, inventory string) error
	Playbook(ctx context.Context, inventory, playbook string) error
}

// Manager orchestrates the session lifecycle: start, run, stop, list.
type Manager struct {
	cfg     *config.Config
	store   *session.Store
	runtime ContainerRuntime
	runner  Runner
	ports   *allocator.Ports
	logger  zerolog.Logger
}

// New wires a manager from its collaborators. Port probing parameters come
// from the network configuration.
func New(cfg *config.Config, store *session.Store, rt ContainerRuntime, runner Runner) *Manager {
	probe := allocator.LoopbackProbe(time.Duration(cfg.Network.ProbeTimeoutMs) * time.Millisecond)
	return &Manager{
		cfg:     cfg,
		store:   store,
		runtime: rt,
		runner:  runner,
		ports: &allocator.Ports{
			Probe:       probe,
			Step:        cfg.Network.PortStep,
			MaxAttempts: cfg.Network.MaxProbeAttempts,
		},
		logger: log.WithComponent("manager"),
	}
}

// Start creates a session from the inventory at path, synthesizes its
// topology, builds every referenced image once, and brings the containers
// up. It returns the new session identifier.
func (m *Manager) Start(ctx context.Context, inventoryPath string) (string, error) {
	id, err := m.store.Create(inventoryPath)
	if err != nil {
		return "", err
	}
	logger := log.WithSessionID(id)
	logger.Info().Msg("session created")

	tree, err := inventory.Load(inventoryPath)
	if err != nil {
		return id, err
	}

	num := allocator.SessionNumber(id)
	plan, err := allocator.PlanAddresses(tree, num, m.cfg.Network.SubnetBase)
	if err != nil {
		return id, err
	}

	result, err := topology.Synthesize(tree, id, num, plan, m.ports)
	if err != nil {
		return id, err
	}
	logger.Debug().
		Str("subnet", plan.Subnet).
		Int("jump_port", result.JumpPort).
		Int("hosts", tree.HostCount()).
		Msg("topology synthesized")

	for _, image := range result.Images {
		if err := m.runtime.BuildImage(ctx, image, m.cfg.DockerfilePath(image)); err != nil {
			return id, err
		}
	}

	composePath := m.cfg.ComposePath(id)
	if err := writeYAML(composePath, result.Compose); err != nil {
		return id, err
	}

	sessionInvPath := m.cfg.InventoryPath(id)
	rewritten := topology.SessionInventory(tree, result.JumpPort)
	if err := writeYAML(sessionInvPath, topology.MarshalTree(rewritten)); err != nil {
		return id, err
	}

	if err := m.store.Update(id, sessionInvPath, result.EntryIP); err != nil {
		return id, err
	}

	logger.Info().Msg("starting containers")
	if err := m.runtime.ComposeUp(ctx, strings.ToLower(id), composePath); err != nil {
		return id, err
	}
	return id, nil
}

// RunOptions selects what run executes and against which session.
type RunOptions struct {
	// Inventory overrides the session's stored inventory path and persists
	// the override.
	Inventory string
	// Playbook runs instead of the default ping when set.
	Playbook string
	// SessionID names the target session; required when several are live.
	SessionID string
}

// Run pings, or runs a playbook against, a session's generated inventory.
func (m *Manager) Run(ctx context.Context, opts RunOptions) error {
	sessions := m.store.All()
	if len(sessions) == 0 {
		return ErrNoActiveSession
	}

	var target *types.Session
	switch {
	case opts.SessionID != "":
		record, ok := m.store.Get(opts.SessionID)
		if !ok {
			return &UnknownSessionError{ID: opts.SessionID}
		}
		target = record
	case len(sessions) == 1:
		target = sessions[0]
	default:
		return ErrAmbiguousSession
	}

	inventoryPath := opts.Inventory
	if inventoryPath != "" {
		if err := m.store.Update(target.ID, inventoryPath, ""); err != nil {
			return err
		}
	} else {
		inventoryPath = target.Path
		if inventoryPath == "" {
			return fmt.Errorf("no inventory associated with session %s", target.ID)
		}
	}

	logger := log.WithSessionID(target.ID).With().Str("inventory", inventoryPath).Logger()
	if opts.Playbook != "" {
		logger.Info().Str("playbook", opts.Playbook).Msg("running playbook")
		return m.runner.Playbook(ctx, inventoryPath, opts.Playbook)
	}
	logger.Info().Msg("pinging all hosts")
	return m.runner.Ping(ctx, inventoryPath)
}

// Stop tears down every session's containers and deletes all generated
// state. Safe to call with no active sessions. Teardown continues past
// individual failures so one broken session cannot pin the rest, but state
// is removed only once every teardown succeeded, keeping a failed stop
// retryable.
func (m *Manager) Stop(ctx context.Context, removeImages bool) error {
	sessions := m.store.All()
	if len(sessions) == 0 {
		return nil
	}

	var errs []error
	for _, record := range sessions {
		m.logger.Info().Str("session_id", record.ID).Msg("cleaning up session")
		err := m.runtime.ComposeDown(ctx, strings.ToLower(record.ID), m.cfg.ComposePath(record.ID), removeImages)
		if err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", record.ID, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return m.store.RemoveAll()
}

// Sessions returns every live session sorted by identifier.
func (m *Manager) Sessions() []*types.Session {
	return m.store.All()
}

func writeYAML(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifacts directory: %w", err)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

package topology

import (
	"errors"
	"fmt"
	"sort"

	"github.com/virtlab/labctl/pkg/allocator"
	"github.com/virtlab/labctl/pkg/types"
)

// ErrMissingEntryPointPort means a host is marked as the entry point but
// declares no connection port to publish. Synthesis fails before any
// container is built.
var ErrMissingEntryPointPort = errors.New("entry point missing ansible_port")

// Fixed per-container resource limits.
const (
	limitCPUs   = "1.0"
	limitMemory = "512M"
)

// Result is everything one synthesis run produces: the compose descriptor,
// the distinct image references to build, and the bastion routing facts the
// session record and the inventory rewrite both need.
type Result struct {
	Compose   *types.ComposeFile
	Images    []string
	EntryHost string
	EntryIP   string
	// JumpPort is the host port published to the entry point's SSH port. It
	// is allocated once here so the descriptor and the session inventory
	// always agree on it.
	JumpPort int
}

// Synthesize builds the container-topology descriptor for a session from the
// merged inventory and the session's address plan.
func Synthesize(tree *types.Tree, sessionID string, sessionNum int, plan *allocator.Plan, ports *allocator.Ports) (*Result, error) {
	networkName := fmt.Sprintf("%s-cluster-net", sessionID)

	entryHost, entryVars, hasEntry := tree.EntryPoint()
	jumpBase := types.DefaultSSHPort
	if hasEntry {
		if entryVars.Port == 0 {
			return nil, fmt.Errorf("%w: host %s", ErrMissingEntryPointPort, entryHost)
		}
		jumpBase = entryVars.Port
	}
	jumpPort, err := ports.Allocate(jumpBase, sessionNum)
	if err != nil {
		return nil, err
	}

	// Containers start before the session inventory wires any DNS, so every
	// service gets static name->IP mappings for all its peers.
	extraHosts := make([]string, 0, len(plan.Hosts))
	for _, host := range plan.Hosts {
		extraHosts = append(extraHosts, fmt.Sprintf("%s:%s", host, plan.IP(host)))
	}

	defaultImage := ""
	if tree.Vars != nil {
		defaultImage = tree.Vars.Dockerfile
	}

	compose := &types.ComposeFile{
		Services: map[string]*types.ComposeService{},
		Networks: map[string]*types.ComposeNetwork{
			networkName: {
				Driver: "bridge",
				IPAM: types.IPAM{
					Config: []types.IPAMConfig{{Subnet: plan.Subnet}},
				},
			},
		},
	}

	images := map[string]bool{}
	var synthErr error
	tree.EachHost(func(_, host string, vars *types.HostVars) {
		if synthErr != nil {
			return
		}

		image := defaultImage
		if vars != nil && vars.Dockerfile != "" {
			image = vars.Dockerfile
		}
		if image == "" {
			synthErr = fmt.Errorf("no image reference for host %s: set dockerfile on the host or in vars", host)
			return
		}
		images[image] = true

		peers := make([]string, 0, len(extraHosts)-1)
		for _, entry := range extraHosts {
			if entry != fmt.Sprintf("%s:%s", host, plan.IP(host)) {
				peers = append(peers, entry)
			}
		}

		service := &types.ComposeService{
			Image:         image + ":latest",
			ContainerName: fmt.Sprintf("%s-%s", sessionID, host),
			Hostname:      host,
			ExtraHosts:    peers,
			Tmpfs:         []string{"/run", "/run/lock"},
			Networks: map[string]*types.ServiceNetwork{
				networkName: {IPv4Address: plan.IP(host)},
			},
			Deploy: &types.Deploy{
				Resources: types.Resources{
					Limits: types.ResourceLimits{CPUs: limitCPUs, Memory: limitMemory},
				},
			},
		}
		if hasEntry && host == entryHost {
			service.Ports = []string{fmt.Sprintf("%d:22", jumpPort)}
		}
		compose.Services[host] = service
	})
	if synthErr != nil {
		return nil, synthErr
	}

	result := &Result{
		Compose:  compose,
		Images:   sortedKeys(images),
		JumpPort: jumpPort,
	}
	if hasEntry {
		result.EntryHost = entryHost
		result.EntryIP = plan.IP(entryHost)
	}
	return result, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

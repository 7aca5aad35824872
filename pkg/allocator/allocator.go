package allocator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/virtlab/labctl/pkg/log"
	"github.com/virtlab/labctl/pkg/types"
)

// DefaultSubnetBase puts session n on 172.(19+n).0.0/16.
const DefaultSubnetBase = 19

// maxHostsPerSession bounds host addresses to .0.2 through .0.254.
const maxHostsPerSession = 253

// ErrSubnetExhausted reports an inventory with more hosts than the session
// address range can hold.
var ErrSubnetExhausted = errors.New("session address range exhausted")

// SessionNumber parses the numeric suffix of a session identifier such as
// "S03". An unparsable suffix degrades to 0 so list/stop keep working against
// a damaged store, but the condition is logged since it usually means the
// store was corrupted.
func SessionNumber(id string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "S"))
	if err != nil {
		log.Logger.Warn().Str("session_id", id).Msg("session id has no numeric suffix, using 0")
		return 0
	}
	return n
}

// Plan is the address layout for one session: its /16 subnet and one static
// IP per host in stable enumeration order.
type Plan struct {
	Subnet  string
	HostIPs map[string]string
	// Hosts records the enumeration order the IPs were assigned in.
	Hosts []string
}

// PlanAddresses derives the session subnet 172.(base+n).0.0/16 and assigns
// host addresses from .0.2 upward in group-then-host lexicographic order.
// The .1 address is left to the network infrastructure; the range ends at
// .254, so inventories beyond 253 hosts are rejected.
func PlanAddresses(tree *types.Tree, sessionNum, subnetBase int) (*Plan, error) {
	if subnetBase <= 0 {
		subnetBase = DefaultSubnetBase
	}
	if n := tree.HostCount(); n > maxHostsPerSession {
		return nil, fmt.Errorf("%w: %d hosts, at most %d fit", ErrSubnetExhausted, n, maxHostsPerSession)
	}
	prefix := fmt.Sprintf("172.%d", subnetBase+sessionNum)

	plan := &Plan{
		Subnet:  fmt.Sprintf("%s.0.0/16", prefix),
		HostIPs: make(map[string]string),
	}

	counter := 2
	tree.EachHost(func(_, host string, _ *types.HostVars) {
		plan.HostIPs[host] = fmt.Sprintf("%s.0.%d", prefix, counter)
		plan.Hosts = append(plan.Hosts, host)
		counter++
	})
	return plan, nil
}

// IP returns the planned address for a host.
func (p *Plan) IP(host string) string {
	return p.HostIPs[host]
}

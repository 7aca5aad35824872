package types

import "sort"

// Tree is a merged inventory: an optional named root wrapper around
// group-wide vars and the groups that hold the hosts.
type Tree struct {
	// Name is the root wrapper key of the source document, empty when the
	// document carried vars/children at the top level.
	Name   string
	Vars   *GroupVars
	Groups map[string]*Group
}

// GroupVars are the inventory-wide defaults declared under the root's vars.
type GroupVars struct {
	Dockerfile string         `yaml:"dockerfile,omitempty"`
	User       string         `yaml:"ansible_user,omitempty"`
	Password   string         `yaml:"ansible_ssh_pass,omitempty"`
	Extra      map[string]any `yaml:",inline"`
}

const (
	DefaultUser     = "ubuntu"
	DefaultPassword = "password"
	DefaultSSHPort  = 22
)

// UserOrDefault returns the configured SSH user or the conventional default.
func (v *GroupVars) UserOrDefault() string {
	if v != nil && v.User != "" {
		return v.User
	}
	return DefaultUser
}

// PasswordOrDefault returns the configured SSH password or the conventional default.
func (v *GroupVars) PasswordOrDefault() string {
	if v != nil && v.Password != "" {
		return v.Password
	}
	return DefaultPassword
}

// Group is one named host group. Host names map to their variables; a host
// declared with no variables has a nil entry.
type Group struct {
	Hosts map[string]*HostVars `yaml:"hosts,omitempty"`
}

// HostVars is the recognized per-host configuration plus an escape hatch for
// keys this tool does not interpret. Unrecognized keys survive a load/rewrite
// round trip through Extra.
type HostVars struct {
	Dockerfile string         `yaml:"dockerfile,omitempty"`
	Port       int            `yaml:"ansible_port,omitempty"`
	EntryPoint bool           `yaml:"is_entry_point,omitempty"`
	User       string         `yaml:"ansible_user,omitempty"`
	Password   string         `yaml:"ansible_ssh_pass,omitempty"`
	Host       string         `yaml:"ansible_host,omitempty"`
	CommonArgs string         `yaml:"ansible_ssh_common_args,omitempty"`
	Extra      map[string]any `yaml:",inline"`
}

// Clone returns a deep copy so rewrites never alias the source tree.
func (v *HostVars) Clone() *HostVars {
	if v == nil {
		return nil
	}
	c := *v
	if v.Extra != nil {
		c.Extra = make(map[string]any, len(v.Extra))
		for k, val := range v.Extra {
			c.Extra[k] = val
		}
	}
	return &c
}

// GroupNames returns the group names in lexicographic order. All enumeration
// of the tree happens in this order so derived artifacts are reproducible.
func (t *Tree) GroupNames() []string {
	names := make([]string, 0, len(t.Groups))
	for name := range t.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HostNames returns the group's host names in lexicographic order.
func (g *Group) HostNames() []string {
	names := make([]string, 0, len(g.Hosts))
	for name := range g.Hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EachHost visits every host in stable group-then-host order.
func (t *Tree) EachHost(fn func(group, host string, vars *HostVars)) {
	for _, gname := range t.GroupNames() {
		group := t.Groups[gname]
		for _, hname := range group.HostNames() {
			fn(gname, hname, group.Hosts[hname])
		}
	}
}

// HostCount returns the number of hosts across all groups.
func (t *Tree) HostCount() int {
	n := 0
	for _, g := range t.Groups {
		n += len(g.Hosts)
	}
	return n
}

// EntryPoint returns the first host in iteration order whose variables mark
// it as the session's entry point.
func (t *Tree) EntryPoint() (host string, vars *HostVars, ok bool) {
	t.EachHost(func(_, h string, v *HostVars) {
		if ok || v == nil || !v.EntryPoint {
			return
		}
		host, vars, ok = h, v, true
	})
	return host, vars, ok
}

// Session is one persisted cluster instance. The ID is the store key and is
// not serialized into the record itself.
type Session struct {
	ID      string `json:"-"`
	Path    string `json:"path"`
	EntryIP string `json:"entryIp"`
}

// DefaultEntryIP marks a session whose topology has not been synthesized yet.
const DefaultEntryIP = "0.0.0.0"

// ComposeFile is the container-topology descriptor handed to the runtime.
type ComposeFile struct {
	Services map[string]*ComposeService `yaml:"services"`
	Networks map[string]*ComposeNetwork `yaml:"networks"`
}

// ComposeService describes one container in the session topology.
type ComposeService struct {
	Image         string                     `yaml:"image"`
	ContainerName string                     `yaml:"container_name"`
	Hostname      string                     `yaml:"hostname"`
	ExtraHosts    []string                   `yaml:"extra_hosts,omitempty"`
	Tmpfs         []string                   `yaml:"tmpfs,omitempty"`
	Networks      map[string]*ServiceNetwork `yaml:"networks"`
	Deploy        *Deploy                    `yaml:"deploy,omitempty"`
	Ports         []string                   `yaml:"ports,omitempty"`
}

// ServiceNetwork pins a service to a static address on the session network.
type ServiceNetwork struct {
	IPv4Address string `yaml:"ipv4_address"`
}

// Deploy carries the per-container resource limits.
type Deploy struct {
	Resources Resources `yaml:"resources"`
}

type Resources struct {
	Limits ResourceLimits `yaml:"limits"`
}

type ResourceLimits struct {
	CPUs   string `yaml:"cpus"`
	Memory string `yaml:"memory"`
}

// ComposeNetwork is the session's bridge network definition.
type ComposeNetwork struct {
	Driver string `yaml:"driver"`
	IPAM   IPAM   `yaml:"ipam"`
}

type IPAM struct {
	Config []IPAMConfig `yaml:"config"`
}

type IPAMConfig struct {
	Subnet string `yaml:"subnet"`
}

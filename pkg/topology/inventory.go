package topology

import (
	"fmt"

	"github.com/virtlab/labctl/pkg/types"
)

const relaxedSSHArgs = "-o StrictHostKeyChecking=no -o UserKnownHostsFile=/dev/null"

// SessionInventory produces the rewritten inventory for a session: same
// hosts, same groups, same uninterpreted variables, but every connection
// parameter rerouted through the session's published bastion port.
//
// The entry point connects directly over loopback. Every other host keeps
// its container name as the target and is reached through an ssh -W proxy
// chained through the bastion, authenticated with the inventory's session
// password, with host-key checking relaxed on both hops.
func SessionInventory(tree *types.Tree, jumpPort int) *types.Tree {
	user := tree.Vars.UserOrDefault()
	password := tree.Vars.PasswordOrDefault()

	proxy := fmt.Sprintf(
		"ssh -W %%h:%%p -q %s@127.0.0.1 -p %d %s",
		user, jumpPort, relaxedSSHArgs,
	)
	proxyArgs := fmt.Sprintf("-o ProxyCommand='sshpass -p %s %s'", password, proxy)

	out := &types.Tree{
		Name:   tree.Name,
		Groups: make(map[string]*types.Group, len(tree.Groups)),
	}
	if tree.Vars != nil {
		vars := *tree.Vars
		out.Vars = &vars
	}

	for _, gname := range tree.GroupNames() {
		group := tree.Groups[gname]
		rewritten := &types.Group{Hosts: make(map[string]*types.HostVars, len(group.Hosts))}

		for _, host := range group.HostNames() {
			vars := group.Hosts[host].Clone()
			if vars == nil {
				vars = &types.HostVars{}
			}

			if vars.EntryPoint {
				vars.Host = "127.0.0.1"
				vars.Port = jumpPort
				vars.CommonArgs = relaxedSSHArgs
			} else {
				vars.Host = host
				vars.Port = types.DefaultSSHPort
				vars.CommonArgs = proxyArgs
			}
			rewritten.Hosts[host] = vars
		}
		out.Groups[gname] = rewritten
	}
	return out
}

// MarshalTree renders a tree back into the on-disk inventory document shape,
// restoring the root wrapper when the source had one.
func MarshalTree(tree *types.Tree) any {
	root := map[string]any{}
	if tree.Vars != nil {
		root["vars"] = tree.Vars
	}
	root["children"] = tree.Groups

	if tree.Name == "" {
		return root
	}
	return map[string]any{tree.Name: root}
}

package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/virtlab/labctl/pkg/types"
)

// ReadError reports a failed or malformed inventory source. Any single
// unreadable file aborts the whole load; there is no partial inventory.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read inventory %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// rawRoot is the on-disk shape of one root wrapper value.
type rawRoot struct {
	Vars     *types.GroupVars        `yaml:"vars,omitempty"`
	Children map[string]*types.Group `yaml:"children,omitempty"`
}

// Load reads an inventory from a YAML file, or from every .yml/.yaml file in
// a directory merged in lexicographic file order (last file wins key-by-key
// on overlapping host variables).
func Load(path string) (*types.Tree, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return loadDir(path)
	}
	return loadFile(path)
}

func loadFile(path string) (*types.Tree, error) {
	doc, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return toTree(doc), nil
}

func loadDir(dir string) (*types.Tree, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ReadError{Path: dir, Err: err}
	}

	// os.ReadDir sorts by name, which fixes the merge order: a host variable
	// set in two files takes its value from the lexicographically later one.
	acc := map[string]*rawRoot{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		doc, err := decodeFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		merge(acc, doc)
	}
	return toTree(acc), nil
}

// decodeFile parses one YAML document into its root wrappers. A document may
// carry vars/children at the top level, in which case it decodes as a single
// unnamed root.
func decodeFile(path string) (map[string]*rawRoot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	var unwrapped rawRoot
	if err := yaml.Unmarshal(data, &unwrapped); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if unwrapped.Children != nil {
		return map[string]*rawRoot{"": &unwrapped}, nil
	}

	doc := map[string]*rawRoot{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return doc, nil
}

// merge folds one document into the accumulator. A new root name is inserted
// wholesale; an existing one has only its children merged, group by group.
func merge(acc map[string]*rawRoot, doc map[string]*rawRoot) {
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		incoming := doc[name]
		existing, ok := acc[name]
		if !ok || incoming == nil {
			acc[name] = incoming
			continue
		}
		if existing == nil {
			acc[name] = incoming
			continue
		}
		for gname, group := range incoming.Children {
			if existing.Children == nil {
				existing.Children = map[string]*types.Group{}
			}
			current, ok := existing.Children[gname]
			if !ok || current == nil {
				existing.Children[gname] = group
				continue
			}
			if group == nil {
				continue
			}
			if current.Hosts == nil {
				current.Hosts = map[string]*types.HostVars{}
			}
			for hname, hvars := range group.Hosts {
				current.Hosts[hname] = mergeHostVars(current.Hosts[hname], hvars)
			}
		}
	}
}

// mergeHostVars overlays the later file's variables onto the earlier ones,
// key by key. Only keys the later file actually sets override; a false
// is_entry_point cannot unset an earlier true.
func mergeHostVars(old, incoming *types.HostVars) *types.HostVars {
	if old == nil {
		return incoming.Clone()
	}
	if incoming == nil {
		return old
	}
	out := old.Clone()
	if incoming.Dockerfile != "" {
		out.Dockerfile = incoming.Dockerfile
	}
	if incoming.Port != 0 {
		out.Port = incoming.Port
	}
	if incoming.EntryPoint {
		out.EntryPoint = true
	}
	if incoming.User != "" {
		out.User = incoming.User
	}
	if incoming.Password != "" {
		out.Password = incoming.Password
	}
	if incoming.Host != "" {
		out.Host = incoming.Host
	}
	if incoming.CommonArgs != "" {
		out.CommonArgs = incoming.CommonArgs
	}
	for k, v := range incoming.Extra {
		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		out.Extra[k] = v
	}
	return out
}

// toTree selects the effective root and normalizes it. With several root
// wrappers present the lexicographically first one carrying children wins.
func toTree(doc map[string]*rawRoot) *types.Tree {
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		root := doc[name]
		if root == nil || root.Children == nil {
			continue
		}
		for gname, group := range root.Children {
			if group == nil {
				root.Children[gname] = &types.Group{}
			}
		}
		return &types.Tree{
			Name:   name,
			Vars:   root.Vars,
			Groups: root.Children,
		}
	}
	return &types.Tree{Groups: map[string]*types.Group{}}
}

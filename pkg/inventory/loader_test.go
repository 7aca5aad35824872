package inventory

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/virtlab/labctl/pkg/types"
)

const singleInventory = `
test_inv:
  vars:
    dockerfile: ubuntu-ssh
    ansible_user: admin
    ansible_ssh_pass: secret
  children:
    web:
      hosts:
        web1:
          ansible_port: 2222
          custom_key: custom_value
        bastion:
          is_entry_point: true
          ansible_port: 2200
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

func TestLoadSingleFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "inventory.yml", singleInventory)

	tree, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if tree.Name != "test_inv" {
		t.Errorf("root name = %q, want test_inv", tree.Name)
	}
	if tree.Vars == nil || tree.Vars.Dockerfile != "ubuntu-ssh" {
		t.Errorf("vars dockerfile not parsed: %+v", tree.Vars)
	}
	if tree.Vars.User != "admin" || tree.Vars.Password != "secret" {
		t.Errorf("vars user/password not parsed: %+v", tree.Vars)
	}

	web := tree.Groups["web"]
	if web == nil {
		t.Fatal("group web missing")
	}
	web1 := web.Hosts["web1"]
	if web1 == nil || web1.Port != 2222 {
		t.Errorf("web1 port = %+v, want 2222", web1)
	}
	if got := web1.Extra["custom_key"]; got != "custom_value" {
		t.Errorf("web1 custom_key = %v, want custom_value", got)
	}
	bastion := web.Hosts["bastion"]
	if bastion == nil || !bastion.EntryPoint || bastion.Port != 2200 {
		t.Errorf("bastion vars = %+v, want entry point on 2200", bastion)
	}
}

func TestLoadUnwrappedRoot(t *testing.T) {
	path := writeFile(t, t.TempDir(), "inventory.yml", `
vars:
  dockerfile: base
children:
  db:
    hosts:
      db1:
`)

	tree, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tree.Name != "" {
		t.Errorf("root name = %q, want empty", tree.Name)
	}
	if tree.Groups["db"] == nil {
		t.Error("group db missing")
	}
}

func TestLoadDirectoryDisjointMergeIsOrderIndependent(t *testing.T) {
	fileA := `
test_inv:
  vars:
    dockerfile: base
  children:
    web:
      hosts:
        web1:
          ansible_port: 2222
`
	fileB := `
test_inv:
  children:
    db:
      hosts:
        db1:
          ansible_port: 2322
`

	// Same content under both file orderings must yield the same tree.
	dir1 := t.TempDir()
	writeFile(t, dir1, "a.yml", fileA)
	writeFile(t, dir1, "b.yml", fileB)

	dir2 := t.TempDir()
	writeFile(t, dir2, "a.yml", fileB)
	writeFile(t, dir2, "b.yml", fileA)

	tree1, err := Load(dir1)
	if err != nil {
		t.Fatalf("Load(dir1) error = %v", err)
	}
	tree2, err := Load(dir2)
	if err != nil {
		t.Fatalf("Load(dir2) error = %v", err)
	}

	if !reflect.DeepEqual(tree1.Groups, tree2.Groups) {
		t.Errorf("disjoint merges differ:\n%+v\n%+v", tree1.Groups, tree2.Groups)
	}
	if len(tree1.Groups) != 2 {
		t.Errorf("merged groups = %d, want 2", len(tree1.Groups))
	}
	if tree1.Groups["web"].Hosts["web1"] == nil || tree1.Groups["db"].Hosts["db1"] == nil {
		t.Error("merged tree is missing hosts from one source file")
	}
}

func TestLoadDirectoryLastFileWinsKeyByKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01-base.yml", `
test_inv:
  children:
    web:
      hosts:
        web1:
          ansible_port: 2222
          dockerfile: base
`)
	writeFile(t, dir, "02-override.yml", `
test_inv:
  children:
    web:
      hosts:
        web1:
          ansible_port: 2322
        web2:
`)

	tree, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	web1 := tree.Groups["web"].Hosts["web1"]
	if web1.Port != 2322 {
		t.Errorf("web1 port = %d, want override 2322", web1.Port)
	}
	// The later file set only ansible_port; the earlier dockerfile survives.
	if web1.Dockerfile != "base" {
		t.Errorf("web1 dockerfile = %q, want base", web1.Dockerfile)
	}
	if _, ok := tree.Groups["web"].Hosts["web2"]; !ok {
		t.Error("web2 from second file missing")
	}
}

func TestLoadDirectoryEmptyFileIsNoOp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "00-empty.yml", "")
	writeFile(t, dir, "01-real.yml", singleInventory)
	writeFile(t, dir, "ignored.txt", "not yaml")

	tree, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tree.HostCount() != 2 {
		t.Errorf("host count = %d, want 2", tree.HostCount())
	}
}

func TestLoadMalformedYAMLFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01-real.yml", singleInventory)
	writeFile(t, dir, "02-bad.yml", "test_inv: [unclosed")

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() with malformed file succeeded, want error")
	}
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Errorf("error type = %T, want *ReadError", err)
	}
}

func TestLoadMissingPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err == nil {
		t.Fatal("Load() of missing path succeeded, want error")
	}
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Errorf("error type = %T, want *ReadError", err)
	}
}

func TestMergeHostVarsDoesNotMutateInputs(t *testing.T) {
	old := &types.HostVars{Port: 2222, Extra: map[string]any{"k": "v"}}
	incoming := &types.HostVars{Port: 2322}

	merged := mergeHostVars(old, incoming)
	merged.Extra["other"] = "x"

	if old.Port != 2222 {
		t.Errorf("merge mutated old port: %d", old.Port)
	}
	if _, ok := old.Extra["other"]; ok {
		t.Error("merge aliased the old Extra map")
	}
}

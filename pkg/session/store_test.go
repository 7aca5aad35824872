package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/virtlab/labctl/pkg/types"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "artifacts")
	return NewStore(filepath.Join(dir, "cluster_session.json"), dir), dir
}

func TestCreateNumbersSequentially(t *testing.T) {
	store, _ := newTestStore(t)

	want := []string{"S01", "S02", "S03"}
	for _, expected := range want {
		id, err := store.Create("/tmp/inventory.yml")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if id != expected {
			t.Errorf("Create() = %s, want %s", id, expected)
		}
	}

	if got := len(store.All()); got != 3 {
		t.Errorf("All() returned %d sessions, want 3", got)
	}
}

func TestNumberingRestartsOnlyAfterRemoveAll(t *testing.T) {
	store, _ := newTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := store.Create("/tmp/inv.yml"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if err := store.RemoveAll(); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}

	id, err := store.Create("/tmp/inv.yml")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != "S01" {
		t.Errorf("Create() after RemoveAll = %s, want S01", id)
	}
}

func TestNumberingContinuesFromMax(t *testing.T) {
	store, _ := newTestStore(t)

	// A surviving high-numbered session keeps the counter moving forward.
	if err := store.Update("S07", "/tmp/inv.yml", ""); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	id, err := store.Create("/tmp/other.yml")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != "S08" {
		t.Errorf("Create() = %s, want S08", id)
	}
}

func TestCreateSetsDefaultEntryIP(t *testing.T) {
	store, _ := newTestStore(t)

	id, err := store.Create("/tmp/inv.yml")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	record, ok := store.Get(id)
	if !ok {
		t.Fatal("Get() did not find created session")
	}
	if record.EntryIP != types.DefaultEntryIP {
		t.Errorf("entry IP = %s, want %s", record.EntryIP, types.DefaultEntryIP)
	}
	if record.Path != "/tmp/inv.yml" {
		t.Errorf("path = %s, want /tmp/inv.yml", record.Path)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	store, _ := newTestStore(t)

	id, err := store.Create("/tmp/inv.yml")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.Update(id, "", "172.20.0.2"); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	record, _ := store.Get(id)
	if record.Path != "/tmp/inv.yml" {
		t.Errorf("path lost on entry IP update: %s", record.Path)
	}
	if record.EntryIP != "172.20.0.2" {
		t.Errorf("entry IP = %s, want 172.20.0.2", record.EntryIP)
	}

	if err := store.Update(id, "/tmp/generated.yml", ""); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	record, _ = store.Get(id)
	if record.Path != "/tmp/generated.yml" {
		t.Errorf("path = %s, want /tmp/generated.yml", record.Path)
	}
	if record.EntryIP != "172.20.0.2" {
		t.Errorf("entry IP lost on path update: %s", record.EntryIP)
	}
}

func TestGetMissingSession(t *testing.T) {
	store, _ := newTestStore(t)
	if _, ok := store.Get("S99"); ok {
		t.Error("Get(S99) on empty store reported a session")
	}
}

func TestCorruptStoreReadsAsEmpty(t *testing.T) {
	store, dir := newTestStore(t)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "cluster_session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := store.All(); len(got) != 0 {
		t.Errorf("All() on corrupt store = %d sessions, want 0", len(got))
	}

	// A corrupt store behaves like an empty one for numbering too.
	id, err := store.Create("/tmp/inv.yml")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != "S01" {
		t.Errorf("Create() on corrupt store = %s, want S01", id)
	}
}

func TestRemoveAllDeletesArtifacts(t *testing.T) {
	store, dir := newTestStore(t)

	if _, err := store.Create("/tmp/inv.yml"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	artifact := filepath.Join(dir, "docker-compose-S01.yml")
	if err := os.WriteFile(artifact, []byte("services: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := store.RemoveAll(); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("artifacts directory still exists after RemoveAll")
	}
	if got := store.All(); len(got) != 0 {
		t.Errorf("All() after RemoveAll = %d sessions, want 0", len(got))
	}
}

func TestAllSortedByID(t *testing.T) {
	store, _ := newTestStore(t)
	for i := 0; i < 3; i++ {
		if _, err := store.Create("/tmp/inv.yml"); err != nil {
			t.Fatal(err)
		}
	}

	ids := []string{}
	for _, record := range store.All() {
		ids = append(ids, record.ID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("All() not sorted: %v", ids)
		}
	}
}

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/virtlab/labctl/pkg/types"
)

// Store persists the session map as a plain JSON file inside the artifacts
// directory. Access is read-modify-write and deliberately non-transactional:
// the last writer wins. Callers that need cross-process serialization inject
// a lock via WithLocker; by default only in-process calls are serialized.
type Store struct {
	path         string
	artifactsDir string
	lock         sync.Locker
}

// Option configures a Store.
type Option func(*Store)

// WithLocker sets the lock taken around every read-modify-write cycle, for
// example an advisory file lock shared with other processes.
func WithLocker(l sync.Locker) Option {
	return func(s *Store) { s.lock = l }
}

// NewStore creates a store backed by the JSON file at path. artifactsDir is
// the directory holding every generated session artifact; RemoveAll deletes
// it wholesale.
func NewStore(path, artifactsDir string, opts ...Option) *Store {
	s := &Store{
		path:         path,
		artifactsDir: artifactsDir,
		lock:         &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates the next session identifier and persists a fresh record
// for it. Numbering continues from the highest identifier ever present in
// the store and restarts at 1 only once the store is empty, so identifiers
// are never reused while any session is live.
func (s *Store) Create(inventoryPath string) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	sessions := s.read()

	next := 1
	for id := range sessions {
		if n, ok := parseNumber(id); ok && n >= next {
			next = n + 1
		}
	}

	id := fmt.Sprintf("S%02d", next)
	sessions[id] = &types.Session{
		Path:    inventoryPath,
		EntryIP: types.DefaultEntryIP,
	}

	if err := s.write(sessions); err != nil {
		return "", err
	}
	return id, nil
}

// Update merges the provided fields into the session's record, creating a
// default record if none exists. Empty arguments leave the stored value
// untouched.
func (s *Store) Update(id, inventoryPath, entryIP string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	sessions := s.read()

	record, ok := sessions[id]
	if !ok {
		record = &types.Session{EntryIP: types.DefaultEntryIP}
	}
	if inventoryPath != "" {
		record.Path = inventoryPath
	}
	if entryIP != "" {
		record.EntryIP = entryIP
	}
	if record.EntryIP == "" {
		record.EntryIP = types.DefaultEntryIP
	}
	sessions[id] = record

	return s.write(sessions)
}

// Get returns the session record, or false if the store has no such session.
func (s *Store) Get(id string) (*types.Session, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	record, ok := s.read()[id]
	if !ok {
		return nil, false
	}
	record.ID = id
	return record, true
}

// All returns every session sorted by identifier. An absent or corrupt store
// file reads as no sessions.
func (s *Store) All() []*types.Session {
	s.lock.Lock()
	defer s.lock.Unlock()

	sessions := s.read()
	out := make([]*types.Session, 0, len(sessions))
	for id, record := range sessions {
		record.ID = id
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RemoveAll deletes the store file along with the whole artifacts directory.
func (s *Store) RemoveAll() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := os.RemoveAll(s.artifactsDir); err != nil {
		return fmt.Errorf("failed to remove artifacts directory: %w", err)
	}
	if !strings.HasPrefix(s.path, s.artifactsDir) {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove session store: %w", err)
		}
	}
	return nil
}

// read loads the current snapshot. Missing or corrupt JSON is treated as an
// empty store, never as an error, so stop and sessions stay robust against
// partial writes.
func (s *Store) read() map[string]*types.Session {
	sessions := map[string]*types.Session{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return sessions
	}
	if err := json.Unmarshal(data, &sessions); err != nil {
		return map[string]*types.Session{}
	}
	return sessions
}

func (s *Store) write(sessions map[string]*types.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write session store: %w", err)
	}
	return nil
}

func parseNumber(id string) (int, bool) {
	if !strings.HasPrefix(id, "S") {
		return 0, false
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

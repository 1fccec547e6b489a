package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type document struct {
	Version int                   `json:"version"`
	Values  map[string]string     `json:"values"`
	History map[string][]Revision `json:"history,omitempty"`
}

// JSONStore keeps all values in a single JSON file, rewritten on every
// change.
type JSONStore struct {
	path  string
	store *document
	now   func() time.Time
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
		now:  time.Now,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.store = &document{
		Version: 1,
		Values:  make(map[string]string),
	}
	if err := s.save(); err != nil {
		return err
	}
	return InitDefaults(s)
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}
	s.store = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temp file and renames it over the store so readers never
// see a partial file.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(key string) (string, bool, error) {
	if s.store == nil {
		return "", false, fmt.Errorf("storage not loaded")
	}
	v, ok := s.store.Values[key]
	return v, ok, nil
}

func (s *JSONStore) Set(key, value string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	old, ok := s.store.Values[key]
	if ok && old == value {
		return nil
	}
	if ok {
		s.record(key, old)
	}
	s.store.Values[key] = value
	return s.save()
}

func (s *JSONStore) Delete(key string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	old, ok := s.store.Values[key]
	if !ok {
		return nil
	}
	s.record(key, old)
	delete(s.store.Values, key)
	return s.save()
}

func (s *JSONStore) record(key, value string) {
	if s.store.History == nil {
		s.store.History = make(map[string][]Revision)
	}
	revs := append(s.store.History[key], Revision{Key: key, Value: value, ReplacedAt: s.now().UTC()})
	if over := len(revs) - MaxHistoryPerKey; over > 0 {
		revs = revs[over:]
	}
	s.store.History[key] = revs
}

func (s *JSONStore) Keys() ([]string, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	keys := make([]string, 0, len(s.store.Values))
	for k := range s.store.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONStore) History(key string, limit int) ([]Revision, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	revs := s.store.History[key]
	out := make([]Revision, 0, len(revs))
	for i := len(revs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, revs[i])
	}
	return out, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// Package store persists receipt templates to a JSON file on disk
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/thereceipt/template-engine/pkg/templateformat"
)

// Store manages saved templates keyed by id. Access is serialized with
// a read-write lock; concurrent writes to the same template are last
// writer wins.
type Store struct {
	filePath string
	data     map[string]*templateformat.ReceiptTemplate
	mu       sync.RWMutex
}

// New creates a new Store backed by the given file
func New(filePath string) (*Store, error) {
	s := &Store{
		filePath: filePath,
		data:     make(map[string]*templateformat.ReceiptTemplate),
	}

	if err := s.load(); err != nil {
		// If file doesn't exist, that's okay - we'll create it on first save
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load template store: %w", err)
		}
	}

	return s, nil
}

// Put validates and saves a template, replacing any existing template
// with the same id.
func (s *Store) Put(t *templateformat.ReceiptTemplate) error {
	if err := templateformat.Validate(t); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[t.ID] = t.Clone()
	return s.save()
}

// Get returns a copy of the template with the given id, or nil
func (s *Store) Get(id string) *templateformat.ReceiptTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.data[id]; ok {
		return t.Clone()
	}
	return nil
}

// Exists reports whether a template with the given id is stored
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[id]
	return ok
}

// List returns copies of all templates sorted by name
func (s *Store) List() []*templateformat.ReceiptTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*templateformat.ReceiptTemplate, 0, len(s.data))
	for _, t := range s.data {
		result = append(result, t.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID < result[j].ID
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// Rename sets a new display name for a template
func (s *Store) Rename(id string, name string) bool {
	if name == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.data[id]
	if !ok {
		return false
	}
	t.Name = name
	if err := s.save(); err != nil {
		// Non-critical: the rename is applied in memory and the next
		// successful save will pick it up
	}
	return true
}

// Remove deletes a template from the store
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return false
	}
	delete(s.data, id)
	if err := s.save(); err != nil {
		// Non-critical, next save will retry
	}
	return true
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &s.data)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0644)
}

// Package memstore provides an in-memory menu store with the same version
// and guard semantics as the DynamoDB store.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/jacentio/menutree/menu"
)

// Store is a mutex-guarded in-memory implementation of menu.Store and
// menu.Workspaces. Every method is atomic with respect to the others.
type Store struct {
	mu         sync.Mutex
	items      map[string]*menu.MenuItem
	order      []string
	workspaces map[string]menu.Workspace
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		items:      make(map[string]*menu.MenuItem),
		workspaces: make(map[string]menu.Workspace),
	}
}

// PutWorkspace creates or replaces a workspace.
func (s *Store) PutWorkspace(ws menu.Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[ws.ID] = ws
}

// FindWorkspace implements menu.Workspaces.
func (s *Store) FindWorkspace(_ context.Context, id string) (*menu.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", menu.ErrWorkspaceNotFound, id)
	}
	return &ws, nil
}

// FindByID implements menu.Store.
func (s *Store) FindByID(_ context.Context, id string) (*menu.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", menu.ErrNotFound, id)
	}
	return item.Clone(), nil
}

// FindByIDs implements menu.Store.
func (s *Store) FindByIDs(_ context.Context, ids []string) ([]*menu.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*menu.MenuItem
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

// FindByWorkspace implements menu.Store. Items come back in insertion order.
func (s *Store) FindByWorkspace(_ context.Context, workspaceID string) ([]*menu.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*menu.MenuItem
	for _, id := range s.order {
		if item := s.items[id]; item.WorkspaceID == workspaceID {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

// Create implements menu.Store.
func (s *Store) Create(_ context.Context, items []*menu.MenuItem, guards []menu.Guard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkGuards(guards); err != nil {
		return err
	}
	for _, item := range items {
		if _, ok := s.items[item.ID]; ok {
			return fmt.Errorf("%w: %s", menu.ErrAlreadyExists, item.ID)
		}
	}
	for _, item := range items {
		item.Version = 1
		s.insert(item)
	}
	return nil
}

// Update implements menu.Store.
func (s *Store) Update(_ context.Context, items []*menu.MenuItem, guards []menu.Guard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkGuards(guards); err != nil {
		return err
	}
	for _, item := range items {
		current, ok := s.items[item.ID]
		if !ok || current.Version != item.Version {
			return fmt.Errorf("%w: %s", menu.ErrConcurrentModification, item.ID)
		}
	}
	for _, item := range items {
		item.Version++
		s.items[item.ID] = item.Clone()
	}
	return nil
}

// DeleteByID implements menu.Store.
func (s *Store) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(func(item *menu.MenuItem) bool { return item.ID == id })
	return nil
}

// DeleteAllByWorkspace implements menu.Store.
func (s *Store) DeleteAllByWorkspace(_ context.Context, workspaceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(func(item *menu.MenuItem) bool { return item.WorkspaceID == workspaceID })
	return nil
}

// ReplaceWorkspace implements menu.Store.
func (s *Store) ReplaceWorkspace(_ context.Context, workspaceID string, items []*menu.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(func(item *menu.MenuItem) bool { return item.WorkspaceID == workspaceID })
	for _, item := range items {
		item.Version = 1
		s.insert(item)
	}
	return nil
}

// Len returns the number of stored items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) checkGuards(guards []menu.Guard) error {
	for _, g := range guards {
		current, ok := s.items[g.ID]
		if !ok || current.Version != g.Version {
			return fmt.Errorf("%w: guard on %s", menu.ErrConcurrentModification, g.ID)
		}
	}
	return nil
}

func (s *Store) insert(item *menu.MenuItem) {
	s.items[item.ID] = item.Clone()
	s.order = append(s.order, item.ID)
}

func (s *Store) remove(match func(*menu.MenuItem) bool) {
	kept := s.order[:0]
	for _, id := range s.order {
		if match(s.items[id]) {
			delete(s.items, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

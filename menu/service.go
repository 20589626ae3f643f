package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store persists menu items. Multi-item writes must commit atomically.
type Store interface {
	// FindByID returns the item or ErrNotFound.
	FindByID(ctx context.Context, id string) (*MenuItem, error)

	// FindByIDs returns the items that exist, in request order. Missing IDs
	// are skipped; callers compare counts.
	FindByIDs(ctx context.Context, ids []string) ([]*MenuItem, error)

	// FindByWorkspace returns all items of a workspace in the store's
	// natural order.
	FindByWorkspace(ctx context.Context, workspaceID string) ([]*MenuItem, error)

	// Create inserts items after checking guards. On success each item's
	// Version is 1.
	Create(ctx context.Context, items []*MenuItem, guards []Guard) error

	// Update writes items if each still has its read Version and every
	// guard holds. On success each item's Version is incremented.
	Update(ctx context.Context, items []*MenuItem, guards []Guard) error

	// DeleteByID removes one item. Missing items are ignored.
	DeleteByID(ctx context.Context, id string) error

	// DeleteAllByWorkspace removes every item of a workspace.
	DeleteAllByWorkspace(ctx context.Context, workspaceID string) error

	// ReplaceWorkspace swaps every item of a workspace for items. Readers
	// see either the old menu or the new one, never a mix.
	ReplaceWorkspace(ctx context.Context, workspaceID string, items []*MenuItem) error
}

// Workspaces resolves workspaces by ID.
type Workspaces interface {
	// FindWorkspace returns the workspace or ErrWorkspaceNotFound.
	FindWorkspace(ctx context.Context, id string) (*Workspace, error)
}

// Service is the menu tree mutation engine.
type Service struct {
	store      Store
	workspaces Workspaces
	logger     zerolog.Logger
	newID      func() string
	now        func() time.Time
}

// NewService creates a Service.
func NewService(store Store, workspaces Workspaces, logger zerolog.Logger) *Service {
	return &Service{
		store:      store,
		workspaces: workspaces,
		logger:     logger.With().Str("component", "menu").Logger(),
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// CreateItem creates a menu item in a workspace. A new item cannot be an
// ancestor of anything, so only parent existence and workspace membership
// are checked.
func (s *Service) CreateItem(ctx context.Context, workspaceID string, in ItemInput) (*MenuItem, error) {
	ws, err := s.workspaces.FindWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	var guards []Guard
	if in.ParentID != "" {
		parent, err := s.store.FindByID(ctx, in.ParentID)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrParentNotFound, in.ParentID)
		}
		if err != nil {
			return nil, err
		}
		if parent.WorkspaceID != workspaceID {
			return nil, fmt.Errorf("%w: parent %s is in workspace %s, not %s",
				ErrCrossWorkspaceParent, parent.ID, parent.WorkspaceID, workspaceID)
		}
		guards = append(guards, Guard{ID: parent.ID, WorkspaceID: parent.WorkspaceID, Version: parent.Version})
	}

	now := s.now().UTC()
	item := &MenuItem{
		ID:            s.newID(),
		WorkspaceID:   ws.ID,
		WorkspaceName: ws.Name,
		ParentID:      in.ParentID,
		Attributes:    in.Attributes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, []*MenuItem{item}, guards); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("workspaceID", workspaceID).
		Str("itemID", item.ID).
		Str("parentID", item.ParentID).
		Msg("menu item created")
	return item, nil
}

// GetItem returns one menu item.
func (s *Service) GetItem(ctx context.Context, id string) (*MenuItem, error) {
	return s.store.FindByID(ctx, id)
}

// ListItems returns the items of a workspace as a flat list.
func (s *Service) ListItems(ctx context.Context, workspaceID string) ([]*MenuItem, error) {
	items, err := s.store.FindByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return Flatten(items), nil
}

// Tree returns the items of a workspace arranged as a forest.
func (s *Service) Tree(ctx context.Context, workspaceID string) ([]*Node, error) {
	items, err := s.store.FindByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return ToForest(items), nil
}

// UpdateItem validates a parent change and writes the new parent and
// attributes. A validation failure leaves the item untouched.
func (s *Service) UpdateItem(ctx context.Context, id string, in ItemInput) (*MenuItem, error) {
	found, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	idx, err := s.loadIndex(ctx, []*MenuItem{found}, []string{in.ParentID})
	if err != nil {
		return nil, err
	}
	item, _ := idx.Item(found.ID)

	res, err := ValidateReparent(item, in.ParentID, idx)
	if err != nil {
		return nil, err
	}
	if !res.Unchanged {
		idx.Move(item, res.ParentID)
	}
	item.Attributes = in.Attributes
	item.UpdatedAt = s.now().UTC()

	var guards []Guard
	if !res.Unchanged {
		guards = ancestorGuards(idx, []*MenuItem{item}, map[string]struct{}{item.ID: {}})
	}
	if err := s.store.Update(ctx, []*MenuItem{item}, guards); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("workspaceID", item.WorkspaceID).
		Str("itemID", item.ID).
		Str("parentID", item.ParentID).
		Bool("reparented", !res.Unchanged).
		Msg("menu item updated")
	return item, nil
}

// PatchItems updates a batch of items atomically. Inputs are keyed by ID
// and the last input for a repeated ID wins. The batch is validated against
// the tree it produces as a whole, so the order of inputs does not change
// the outcome. One failure aborts the whole batch before anything is
// written.
func (s *Service) PatchItems(ctx context.Context, inputs []ItemInput) ([]*MenuItem, error) {
	byID := make(map[string]ItemInput, len(inputs))
	var order []string
	for i, in := range inputs {
		if in.ID == "" {
			return nil, fmt.Errorf("%w: batch entry %d has no id", ErrInvalidInput, i)
		}
		if _, dup := byID[in.ID]; dup {
			s.logger.Debug().Str("itemID", in.ID).Msg("duplicate id in batch, last entry wins")
		} else {
			order = append(order, in.ID)
		}
		byID[in.ID] = in
	}

	found, err := s.store.FindByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: none of %d requested menu items exist", ErrNotFound, len(order))
	}
	if len(found) != len(order) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(missingIDs(order, found), ", "))
	}

	parentIDs := make([]string, 0, len(byID))
	for _, id := range order {
		parentIDs = append(parentIDs, byID[id].ParentID)
	}
	idx, err := s.loadIndex(ctx, found, parentIDs)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	batch := make(map[string]struct{}, len(order))
	items := make([]*MenuItem, 0, len(order))
	changes := make([]ParentChange, 0, len(order))
	for _, id := range order {
		item, _ := idx.Item(id)
		changes = append(changes, ParentChange{Item: item, ParentID: byID[id].ParentID})
		batch[id] = struct{}{}
		items = append(items, item)
	}

	moved, err := ValidateBatch(changes, idx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.Attributes = byID[item.ID].Attributes
		item.UpdatedAt = now
	}

	guards := ancestorGuards(idx, moved, batch)
	if err := s.store.Update(ctx, items, guards); err != nil {
		return nil, err
	}

	s.logger.Info().Int("count", len(items)).Msg("menu items patched")
	return items, nil
}

// ReplaceStructure deletes every item of a workspace and rebuilds the tree
// from nodes. Parent links follow the nesting, so the result is acyclic and
// every new item belongs to the workspace.
func (s *Service) ReplaceStructure(ctx context.Context, workspaceID string, nodes []StructureNode) error {
	ws, err := s.workspaces.FindWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("%w: workspace %s", ErrEmptyStructure, workspaceID)
	}

	now := s.now().UTC()
	var items []*MenuItem
	var build func(level []StructureNode, parentID string)
	build = func(level []StructureNode, parentID string) {
		for _, n := range level {
			item := &MenuItem{
				ID:            s.newID(),
				WorkspaceID:   ws.ID,
				WorkspaceName: ws.Name,
				ParentID:      parentID,
				Attributes:    n.Attributes,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			items = append(items, item)
			build(n.Children, item.ID)
		}
	}
	build(nodes, "")

	if err := s.store.ReplaceWorkspace(ctx, workspaceID, items); err != nil {
		return err
	}

	s.logger.Info().
		Str("workspaceID", workspaceID).
		Int("count", len(items)).
		Msg("menu structure replaced")
	return nil
}

// DeleteItem removes one item. Its children are not moved or deleted; they
// keep a dangling parent ID and read back as roots.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("itemID", id).Msg("menu item deleted")
	return nil
}

// DeleteAllForWorkspace removes every item of a workspace.
func (s *Service) DeleteAllForWorkspace(ctx context.Context, workspaceID string) error {
	if err := s.store.DeleteAllByWorkspace(ctx, workspaceID); err != nil {
		return err
	}
	s.logger.Info().Str("workspaceID", workspaceID).Msg("menu items deleted for workspace")
	return nil
}

// loadIndex builds an Index over every item in the workspaces of items,
// plus any proposed parent that lives elsewhere so that cross-workspace
// parents are told apart from missing ones. Copies loaded with the
// workspace win over the ones passed in.
func (s *Service) loadIndex(ctx context.Context, items []*MenuItem, parentIDs []string) (*Index, error) {
	idx := NewIndex(nil)
	loaded := make(map[string]struct{})
	for _, item := range items {
		if _, ok := loaded[item.WorkspaceID]; ok {
			continue
		}
		loaded[item.WorkspaceID] = struct{}{}

		members, err := s.store.FindByWorkspace(ctx, item.WorkspaceID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			idx.Add(m)
		}
	}
	for _, item := range items {
		idx.Add(item)
	}

	var outside []string
	for _, id := range parentIDs {
		if id == "" {
			continue
		}
		if _, ok := idx.Item(id); !ok {
			outside = append(outside, id)
		}
	}
	if len(outside) > 0 {
		extra, err := s.store.FindByIDs(ctx, outside)
		if err != nil {
			return nil, err
		}
		for _, m := range extra {
			idx.Add(m)
		}
	}
	return idx, nil
}

// ancestorGuards pins the new parent chain of every item so that a
// concurrent reparent along that chain fails the write. Items in batch are
// already version-checked by the write itself.
func ancestorGuards(idx *Index, items []*MenuItem, batch map[string]struct{}) []Guard {
	var guards []Guard
	seen := make(map[string]struct{})
	for _, item := range items {
		for _, a := range idx.Ancestors(item.ParentID) {
			if _, ok := batch[a.ID]; ok {
				continue
			}
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}
			guards = append(guards, Guard{ID: a.ID, WorkspaceID: a.WorkspaceID, Version: a.Version})
		}
	}
	return guards
}

func missingIDs(requested []string, found []*MenuItem) []string {
	have := make(map[string]struct{}, len(found))
	for _, item := range found {
		have[item.ID] = struct{}{}
	}
	var missing []string
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

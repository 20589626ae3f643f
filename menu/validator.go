package menu

import "fmt"

// Lookup resolves items and their children from a loaded item set.
type Lookup interface {
	// Item returns the item with the given ID.
	Item(id string) (*MenuItem, bool)

	// Children returns the items whose ParentID equals id.
	Children(id string) []*MenuItem
}

// Index is an in-memory Lookup built from a loaded item set. The
// parent-to-children map is rebuilt on every load and never persisted.
type Index struct {
	byID     map[string]*MenuItem
	children map[string][]*MenuItem
}

// NewIndex creates an Index over items.
func NewIndex(items []*MenuItem) *Index {
	idx := &Index{
		byID:     make(map[string]*MenuItem, len(items)),
		children: make(map[string][]*MenuItem),
	}
	for _, item := range items {
		idx.Add(item)
	}
	return idx
}

// Add inserts item into the index. Items already present are ignored.
func (idx *Index) Add(item *MenuItem) {
	if _, ok := idx.byID[item.ID]; ok {
		return
	}
	idx.byID[item.ID] = item
	if item.ParentID != "" {
		idx.children[item.ParentID] = append(idx.children[item.ParentID], item)
	}
}

// Item implements Lookup.
func (idx *Index) Item(id string) (*MenuItem, bool) {
	item, ok := idx.byID[id]
	return item, ok
}

// Children implements Lookup.
func (idx *Index) Children(id string) []*MenuItem {
	return idx.children[id]
}

// Move sets item's parent to parentID and updates the children map.
func (idx *Index) Move(item *MenuItem, parentID string) {
	if item.ParentID == parentID {
		return
	}
	if item.ParentID != "" {
		siblings := idx.children[item.ParentID]
		for i, c := range siblings {
			if c == item {
				idx.children[item.ParentID] = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
	}
	item.ParentID = parentID
	if parentID != "" {
		idx.children[parentID] = append(idx.children[parentID], item)
	}
}

// Ancestors returns the chain from the item with the given ID up to its
// root, starting with that item. The walk stops at a parent missing from
// the index or at an already visited item.
func (idx *Index) Ancestors(id string) []*MenuItem {
	var chain []*MenuItem
	visited := make(map[string]struct{})
	for id != "" {
		if _, seen := visited[id]; seen {
			break
		}
		visited[id] = struct{}{}
		item, ok := idx.byID[id]
		if !ok {
			break
		}
		chain = append(chain, item)
		id = item.ParentID
	}
	return chain
}

// Reparent is the outcome of a successful ValidateReparent call.
type Reparent struct {
	// ParentID is the resolved parent ID, empty for a root.
	ParentID string

	// Parent is the resolved parent item. Nil for roots and for unchanged
	// parents that are not present in the lookup.
	Parent *MenuItem

	// Unchanged is true when the proposed parent equals the current one.
	Unchanged bool
}

// ValidateReparent checks whether item may be moved under proposedParentID.
// An empty proposedParentID makes the item a root. The check is pure:
// callers apply the resolved parent afterwards.
func ValidateReparent(item *MenuItem, proposedParentID string, lookup Lookup) (Reparent, error) {
	if proposedParentID == "" {
		return Reparent{}, nil
	}

	if proposedParentID == item.ParentID {
		parent, _ := lookup.Item(proposedParentID)
		return Reparent{ParentID: proposedParentID, Parent: parent, Unchanged: true}, nil
	}

	parent, err := resolveParent(item, proposedParentID, lookup)
	if err != nil {
		return Reparent{}, err
	}

	if _, isDescendant := Descendants(lookup, item.ID)[parent.ID]; isDescendant {
		return Reparent{}, fmt.Errorf("%w: %s is a descendant of menu item %s",
			ErrCycleDetected, parent.ID, item.ID)
	}

	return Reparent{ParentID: parent.ID, Parent: parent}, nil
}

// resolveParent applies the parent rules that do not depend on the shape of
// the tree: no self parent, the parent exists, same workspace.
func resolveParent(item *MenuItem, proposedParentID string, lookup Lookup) (*MenuItem, error) {
	if proposedParentID == item.ID {
		return nil, fmt.Errorf("%w: menu item %s", ErrSelfParent, item.ID)
	}

	parent, ok := lookup.Item(proposedParentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrParentNotFound, proposedParentID)
	}

	if parent.WorkspaceID != item.WorkspaceID {
		return nil, fmt.Errorf("%w: parent %s is in workspace %s, menu item %s is in workspace %s",
			ErrCrossWorkspaceParent, parent.ID, parent.WorkspaceID, item.ID, item.WorkspaceID)
	}
	return parent, nil
}

// ParentChange is one proposed parent of a batch.
type ParentChange struct {
	Item     *MenuItem
	ParentID string
}

// ValidateBatch checks parent changes against the tree they produce
// together, so the result does not depend on the order of changes. Each
// item of changes must be the instance held by idx and appear once.
//
// Changes are checked in order for self, missing and cross-workspace
// parents; then all moves are applied to idx and every moved item is
// checked for a cycle. On success idx reflects the batch and the moved
// items are returned. On error idx is left partially moved and must be
// discarded.
func ValidateBatch(changes []ParentChange, idx *Index) ([]*MenuItem, error) {
	var moves []ParentChange
	for _, c := range changes {
		if c.ParentID == c.Item.ParentID {
			continue
		}
		if c.ParentID != "" {
			if _, err := resolveParent(c.Item, c.ParentID, idx); err != nil {
				return nil, err
			}
		}
		moves = append(moves, c)
	}

	moved := make([]*MenuItem, 0, len(moves))
	for _, m := range moves {
		idx.Move(m.Item, m.ParentID)
		moved = append(moved, m.Item)
	}

	for _, item := range moved {
		for _, a := range idx.Ancestors(item.ParentID) {
			if a.ID == item.ID {
				return nil, fmt.Errorf("%w: %s is a descendant of menu item %s",
					ErrCycleDetected, item.ParentID, item.ID)
			}
		}
	}
	return moved, nil
}

// Descendants returns the IDs of all items transitively reachable from id
// through the children relation. It uses an explicit stack and a visited
// set, so an already corrupt cycle still terminates.
func Descendants(lookup Lookup, id string) map[string]struct{} {
	result := make(map[string]struct{})
	stack := []string{id}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range lookup.Children(current) {
			if _, seen := result[child.ID]; seen {
				continue
			}
			result[child.ID] = struct{}{}
			stack = append(stack, child.ID)
		}
	}
	return result
}

package menu

import "time"

// Workspace is the tenant that owns a menu tree.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Attributes is the display payload of a menu item. The integrity rules
// never look at it.
type Attributes struct {
	Key           string            `json:"key,omitempty"`
	Name          string            `json:"name,omitempty"`
	Description   string            `json:"description,omitempty"`
	URL           string            `json:"url,omitempty"`
	ApplicationID string            `json:"applicationId,omitempty"`
	Position      int               `json:"position"`
	Disabled      bool              `json:"disabled"`
	WorkspaceExit bool              `json:"workspaceExit"`
	Badge         string            `json:"badge,omitempty"`
	Scope         string            `json:"scope,omitempty"`
	Permission    string            `json:"permission,omitempty"`
	I18n          map[string]string `json:"i18n,omitempty"`
}

// MenuItem is one node of a workspace menu tree.
type MenuItem struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspaceId"`

	// WorkspaceName is a copy of the workspace name taken at creation.
	// It is never re-synced, so a workspace rename leaves it stale.
	WorkspaceName string `json:"workspaceName"`

	// ParentID is empty for root items.
	ParentID string `json:"parentItemId,omitempty"`

	Attributes

	// Version is the optimistic lock counter. It starts at 1 and every
	// write increments it.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"creationDate"`
	UpdatedAt time.Time `json:"modificationDate"`
}

// IsRoot reports whether the item has no parent.
func (m *MenuItem) IsRoot() bool {
	return m.ParentID == ""
}

// Clone returns a deep copy of the item.
func (m *MenuItem) Clone() *MenuItem {
	c := *m
	if m.I18n != nil {
		c.I18n = make(map[string]string, len(m.I18n))
		for k, v := range m.I18n {
			c.I18n[k] = v
		}
	}
	return &c
}

// ItemInput carries the caller-supplied fields for create, update and
// patch operations. ID is only read by PatchItems.
type ItemInput struct {
	ID       string `json:"id,omitempty"`
	ParentID string `json:"parentItemId,omitempty"`
	Attributes
}

// StructureNode is one node of a nested structure upload. Parent links are
// taken from the nesting, never from caller-supplied IDs.
type StructureNode struct {
	Attributes
	Children []StructureNode `json:"children,omitempty"`
}

// Guard pins an item to the version it had when it was read. A write that
// carries guards fails with ErrConcurrentModification if any guarded item
// changed or was deleted in the meantime. WorkspaceID lets a store also
// pin the item to the workspace's current menu generation.
type Guard struct {
	ID          string
	WorkspaceID string
	Version     int64
}

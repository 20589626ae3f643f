package store

import "github.com/rs/zerolog"

// Config holds configuration for the Store.
type Config struct {
	// ItemsTable is the name of the menu items table (hash key "id").
	// Default: "menu_items"
	ItemsTable string

	// WorkspacesTable is the name of the workspaces table (hash key "id").
	// Default: "workspaces"
	WorkspacesTable string

	// MembershipTable lists the item IDs of each workspace
	// (hash key "pk", range key "item_id").
	// Default: "menu_memberships"
	MembershipTable string

	// NumShards is the number of shards per workspace in the membership table.
	// Higher values increase write throughput but require more parallel queries.
	// Default: 1 (no sharding, single query)
	// Max: 256
	NumShards int

	// Logger receives warnings from best-effort cleanup after a structure
	// replace. The zero value discards them.
	Logger zerolog.Logger
}

// DefaultConfig returns sensible defaults for small datasets.
func DefaultConfig() Config {
	return Config{
		ItemsTable:      "menu_items",
		WorkspacesTable: "workspaces",
		MembershipTable: "menu_memberships",
		NumShards:       1,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	def := DefaultConfig()
	if c.ItemsTable == "" {
		c.ItemsTable = def.ItemsTable
	}
	if c.WorkspacesTable == "" {
		c.WorkspacesTable = def.WorkspacesTable
	}
	if c.MembershipTable == "" {
		c.MembershipTable = def.MembershipTable
	}
	if c.NumShards < 1 {
		c.NumShards = 1
	}
	if c.NumShards > 256 {
		c.NumShards = 256
	}
}

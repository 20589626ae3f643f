// Package store provides a DynamoDB data access layer for workspace menu trees.
//
// The Store implements menu.Store and menu.Workspaces on three tables:
//
//   - items: one record per menu item, hash key "id"
//   - workspaces: one record per workspace, hash key "id"
//   - memberships: the item IDs of each workspace, hash key "pk"
//     ("workspace#<id>#<shard>"), range key "item_id"
//
// # Key Features
//
//   - Optimistic locking with a version field on every item
//   - Guard condition checks that pin ancestor versions inside the write
//     transaction, so concurrent reparents cannot form a cycle
//   - Soft deletes via TTL; deleted items are invisible to every read
//   - Membership cleanup via DynamoDB Streams (see package stream)
//   - Configurable write sharding of the membership table
//
// # Configuration
//
// Use [DefaultConfig] for small datasets (NumShards=1, single queries).
// Increase NumShards for workspaces with heavy write traffic:
//
//	cfg := store.DefaultConfig()
//	cfg.NumShards = 16
//
// # Menu Generations
//
// Each item carries the menu generation of its workspace, and reads return
// only items of the workspace's current generation. A structure replace
// writes the new menu under a fresh generation, in as many transactions as
// it needs, and publishes it by switching the workspace record's
// menu_generation attribute in one conditional update. Items of the previous
// generation become invisible at that moment and are expired afterwards.
// Creates and updates check the generation inside their transaction, so a
// write that raced a replace fails instead of landing in the wrong menu.
//
// # Limits
//
// Creates and updates run in one TransactWriteItems call, which accepts at
// most [MaxTransactItems] actions. Larger batches fail with
// [ErrTransactionTooLarge]. Structure replaces have no such limit.
package store

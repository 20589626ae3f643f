// Package menu manages per-workspace menu trees and keeps them well formed.
//
// A workspace owns a forest of menu items. Each item stores a single parent
// reference; the children relation is always derived from the loaded item
// set and never persisted.
//
// # Integrity Rules
//
// After every mutation the following hold:
//
//   - every item belongs to exactly one workspace, which never changes
//   - a parent, when set, exists and belongs to the same workspace
//   - no item is its own parent
//   - following parent links never revisits an item (no cycles)
//
// [ValidateReparent] checks a proposed parent change against these rules
// without side effects. [Service] orchestrates validation and persistence
// for single-item and bulk mutations.
//
// # Concurrency
//
// [Service] holds no locks across store calls. Every write carries the
// expected version of each written item and a [Guard] for the new parent
// and its ancestor chain, so a concurrent reparent that would invalidate the
// cycle check fails the transaction with [ErrConcurrentModification].
//
// # Projection
//
// [Flatten] and [ToForest] reshape a loaded item set for output. Items whose
// parent is not part of the set are treated as roots.
//
// # Errors
//
// Failures are reported with sentinel errors matched via [errors.Is]:
//
//   - [ErrWorkspaceNotFound] - workspace doesn't exist
//   - [ErrParentNotFound] - proposed parent doesn't exist
//   - [ErrCrossWorkspaceParent] - parent belongs to another workspace
//   - [ErrSelfParent] - item proposed as its own parent
//   - [ErrCycleDetected] - parent is a descendant of the item
//   - [ErrNotFound] - item or batch member doesn't exist
//   - [ErrEmptyStructure] - structure upload has no items
//   - [ErrInvalidInput] - malformed request payload
//   - [ErrConcurrentModification] - optimistic guard failed
package menu

// Package shard provides shard key generation for the workspace membership table.
package shard

import (
	"fmt"
	"hash/fnv"
)

// WorkspaceRef returns the type-qualified reference for a workspace.
func WorkspaceRef(workspaceID string) string {
	return "workspace#" + workspaceID
}

// MembershipPK computes the sharded partition key for a membership record.
// With numShards=1, all records go to shard "00".
// With numShards>1, records are distributed across shards based on itemID hash.
func MembershipPK(workspaceID, itemID string, numShards int) string {
	if numShards <= 1 {
		return ShardPK(workspaceID, 0)
	}
	h := fnv.New32a()
	h.Write([]byte(itemID))
	return ShardPK(workspaceID, int(h.Sum32()%uint32(numShards)))
}

// ShardPK returns the partition key of one membership shard of a workspace.
func ShardPK(workspaceID string, shard int) string {
	return fmt.Sprintf("%s#%02x", WorkspaceRef(workspaceID), shard)
}

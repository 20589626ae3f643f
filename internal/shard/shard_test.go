package shard

import (
	"fmt"
	"strings"
	"testing"
)

func TestMembershipPK_SingleShard(t *testing.T) {
	// With numShards=1, all records should go to shard "00"
	tests := []struct {
		workspaceID string
		itemID      string
		expected    string
	}{
		{"w1", "i1", "workspace#w1#00"},
		{"w1", "i2", "workspace#w1#00"},
		{"w2", "i1", "workspace#w2#00"},
		{"abc", "xyz", "workspace#abc#00"},
	}

	for _, tt := range tests {
		result := MembershipPK(tt.workspaceID, tt.itemID, 1)
		if result != tt.expected {
			t.Errorf("MembershipPK(%q, %q, 1) = %q, want %q",
				tt.workspaceID, tt.itemID, result, tt.expected)
		}
	}
}

func TestMembershipPK_ZeroShards(t *testing.T) {
	// Zero or negative shards should be treated as 1
	if result := MembershipPK("w1", "i1", 0); result != "workspace#w1#00" {
		t.Errorf("expected 'workspace#w1#00', got %q", result)
	}
	if result := MembershipPK("w1", "i1", -1); result != "workspace#w1#00" {
		t.Errorf("expected 'workspace#w1#00', got %q", result)
	}
}

func TestMembershipPK_MultipleShards(t *testing.T) {
	prefix := WorkspaceRef("w1") + "#"
	numShards := 256

	shardCounts := make(map[string]int)
	for i := 0; i < 1000; i++ {
		pk := MembershipPK("w1", fmt.Sprintf("item-%d", i), numShards)

		if !strings.HasPrefix(pk, prefix) {
			t.Errorf("expected prefix %q, got %q", prefix, pk)
		}
		shardCounts[pk[len(prefix):]]++
	}

	// Should have distribution across multiple shards (not all in one)
	if len(shardCounts) < 10 {
		t.Errorf("expected distribution across multiple shards, got only %d unique shards", len(shardCounts))
	}
}

func TestMembershipPK_Deterministic(t *testing.T) {
	first := MembershipPK("w1", "i1", 256)
	for i := 0; i < 100; i++ {
		if result := MembershipPK("w1", "i1", 256); result != first {
			t.Errorf("expected deterministic result %q, got %q on iteration %d", first, result, i)
		}
	}
}

func TestMembershipPK_WithinShardRange(t *testing.T) {
	for _, numShards := range []int{2, 4, 16} {
		valid := make(map[string]bool, numShards)
		for s := 0; s < numShards; s++ {
			valid[ShardPK("w1", s)] = true
		}
		for i := 0; i < 200; i++ {
			pk := MembershipPK("w1", fmt.Sprintf("item-%d", i), numShards)
			if !valid[pk] {
				t.Errorf("numShards=%d: %q is not one of the queried shard keys", numShards, pk)
			}
		}
	}
}

func TestMembershipPK_SameItemDifferentWorkspace(t *testing.T) {
	// The shard suffix depends only on the item ID
	a := MembershipPK("w1", "i1", 16)
	b := MembershipPK("w2", "i1", 16)
	if a[len(a)-2:] != b[len(b)-2:] {
		t.Errorf("expected same shard suffix, got %q and %q", a, b)
	}
}

func TestShardPK_HexFormat(t *testing.T) {
	tests := []struct {
		shard    int
		expected string
	}{
		{0, "workspace#w1#00"},
		{10, "workspace#w1#0a"},
		{255, "workspace#w1#ff"},
	}
	for _, tt := range tests {
		if got := ShardPK("w1", tt.shard); got != tt.expected {
			t.Errorf("ShardPK(w1, %d) = %q, want %q", tt.shard, got, tt.expected)
		}
	}
}

func BenchmarkMembershipPK_SingleShard(b *testing.B) {
	for i := 0; i < b.N; i++ {
		MembershipPK("w1", "i1", 1)
	}
}

func BenchmarkMembershipPK_256Shards(b *testing.B) {
	for i := 0; i < b.N; i++ {
		MembershipPK("w1", "i1", 256)
	}
}

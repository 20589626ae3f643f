package store_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/menutree/menu"
	"github.com/jacentio/menutree/store"
)

func TestDefaultConfig(t *testing.T) {
	cfg := store.DefaultConfig()

	if cfg.ItemsTable != "menu_items" {
		t.Errorf("expected ItemsTable 'menu_items', got %q", cfg.ItemsTable)
	}
	if cfg.WorkspacesTable != "workspaces" {
		t.Errorf("expected WorkspacesTable 'workspaces', got %q", cfg.WorkspacesTable)
	}
	if cfg.MembershipTable != "menu_memberships" {
		t.Errorf("expected MembershipTable 'menu_memberships', got %q", cfg.MembershipTable)
	}
	if cfg.NumShards != 1 {
		t.Errorf("expected NumShards 1, got %d", cfg.NumShards)
	}
}

func TestIsDeleted(t *testing.T) {
	tests := []struct {
		name     string
		item     map[string]types.AttributeValue
		expected bool
	}{
		{
			name:     "no TTL attribute",
			item:     map[string]types.AttributeValue{},
			expected: false,
		},
		{
			name: "TTL in past",
			item: map[string]types.AttributeValue{
				"ttl": &types.AttributeValueMemberN{Value: "1000000000"}, // 2001
			},
			expected: true,
		},
		{
			name: "TTL in future",
			item: map[string]types.AttributeValue{
				"ttl": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix()+3600)},
			},
			expected: false,
		},
		{
			name: "TTL is now",
			item: map[string]types.AttributeValue{
				"ttl": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())},
			},
			expected: true,
		},
		{
			name: "TTL wrong type",
			item: map[string]types.AttributeValue{
				"ttl": &types.AttributeValueMemberS{Value: "1000000000"},
			},
			expected: false,
		},
		{
			name: "TTL not a number",
			item: map[string]types.AttributeValue{
				"ttl": &types.AttributeValueMemberN{Value: "soon"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := store.IsDeleted(tt.item)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestConditionExpressions(t *testing.T) {
	if got := store.TTLFilterExpr(); got != "attribute_not_exists(#ttl) OR #ttl > :now" {
		t.Errorf("unexpected TTL filter %q", got)
	}
	if got := store.LiveVersionCondition(); got != "#version = :expected_version AND attribute_not_exists(#ttl)" {
		t.Errorf("unexpected version condition %q", got)
	}
}

func TestItemRef(t *testing.T) {
	if got := store.ItemRef("abc"); got != "menu_item#abc" {
		t.Errorf("expected 'menu_item#abc', got %q", got)
	}
}

func TestNewStore(t *testing.T) {
	s := store.New(nil, store.Config{NumShards: 0})
	cfg := s.Config()

	if cfg.ItemsTable != "menu_items" {
		t.Errorf("expected default ItemsTable, got %q", cfg.ItemsTable)
	}
	if cfg.NumShards != 1 {
		t.Errorf("expected NumShards clamped to 1, got %d", cfg.NumShards)
	}

	s = store.New(nil, store.Config{ItemsTable: "custom", NumShards: 1000})
	cfg = s.Config()
	if cfg.ItemsTable != "custom" {
		t.Errorf("expected ItemsTable 'custom', got %q", cfg.ItemsTable)
	}
	if cfg.NumShards != 256 {
		t.Errorf("expected NumShards clamped to 256, got %d", cfg.NumShards)
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ menu.Store = (*store.Store)(nil)
	var _ menu.Workspaces = (*store.Store)(nil)
}

package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/menutree/menu"
)

func TestCreate_SetsVersionAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := New()

	item := &menu.MenuItem{ID: "a", WorkspaceID: "w1"}
	require.NoError(t, s.Create(ctx, []*menu.MenuItem{item}, nil))
	assert.Equal(t, int64(1), item.Version)

	err := s.Create(ctx, []*menu.MenuItem{{ID: "a", WorkspaceID: "w1"}}, nil)
	assert.ErrorIs(t, err, menu.ErrAlreadyExists)
	assert.Equal(t, 1, s.Len())
}

func TestUpdate_VersionCheck(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Create(ctx, []*menu.MenuItem{{ID: "a", WorkspaceID: "w1"}}, nil))

	first, err := s.FindByID(ctx, "a")
	require.NoError(t, err)
	stale, err := s.FindByID(ctx, "a")
	require.NoError(t, err)

	first.Name = "first"
	require.NoError(t, s.Update(ctx, []*menu.MenuItem{first}, nil))
	assert.Equal(t, int64(2), first.Version)

	stale.Name = "stale"
	assert.ErrorIs(t, s.Update(ctx, []*menu.MenuItem{stale}, nil), menu.ErrConcurrentModification)

	got, err := s.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
}

func TestGuards(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Create(ctx, []*menu.MenuItem{
		{ID: "p", WorkspaceID: "w1"},
		{ID: "c", WorkspaceID: "w1"},
	}, nil))

	err := s.Create(ctx, []*menu.MenuItem{{ID: "x", WorkspaceID: "w1", ParentID: "p"}},
		[]menu.Guard{{ID: "p", Version: 2}})
	assert.ErrorIs(t, err, menu.ErrConcurrentModification)

	err = s.Create(ctx, []*menu.MenuItem{{ID: "x", WorkspaceID: "w1", ParentID: "gone"}},
		[]menu.Guard{{ID: "gone", Version: 1}})
	assert.ErrorIs(t, err, menu.ErrConcurrentModification)
	assert.Equal(t, 2, s.Len())

	require.NoError(t, s.Create(ctx, []*menu.MenuItem{{ID: "x", WorkspaceID: "w1", ParentID: "p"}},
		[]menu.Guard{{ID: "p", Version: 1}}))
}

func TestReturnedItemsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Create(ctx, []*menu.MenuItem{{
		ID:          "a",
		WorkspaceID: "w1",
		Attributes:  menu.Attributes{I18n: map[string]string{"en": "Home"}},
	}}, nil))

	got, err := s.FindByID(ctx, "a")
	require.NoError(t, err)
	got.I18n["en"] = "changed"
	got.ParentID = "elsewhere"

	again, err := s.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Home", again.I18n["en"])
	assert.True(t, again.IsRoot())
}

func TestFindByWorkspace_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Create(ctx, []*menu.MenuItem{
		{ID: "b", WorkspaceID: "w1"},
		{ID: "z", WorkspaceID: "w2"},
		{ID: "a", WorkspaceID: "w1"},
	}, nil))

	items, err := s.FindByWorkspace(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
}

func TestDeleteAndReplace(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Create(ctx, []*menu.MenuItem{
		{ID: "a", WorkspaceID: "w1"},
		{ID: "b", WorkspaceID: "w1"},
		{ID: "c", WorkspaceID: "w2"},
	}, nil))

	require.NoError(t, s.DeleteByID(ctx, "a"))
	require.NoError(t, s.DeleteByID(ctx, "a"))
	_, err := s.FindByID(ctx, "a")
	assert.ErrorIs(t, err, menu.ErrNotFound)

	require.NoError(t, s.ReplaceWorkspace(ctx, "w1", []*menu.MenuItem{{ID: "n", WorkspaceID: "w1"}}))
	items, err := s.FindByWorkspace(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "n", items[0].ID)
	assert.Equal(t, int64(1), items[0].Version)

	require.NoError(t, s.DeleteAllByWorkspace(ctx, "w1"))
	assert.Equal(t, 1, s.Len())
}

func TestFindWorkspace(t *testing.T) {
	s := New()
	s.PutWorkspace(menu.Workspace{ID: "w1", Name: "One"})

	ws, err := s.FindWorkspace(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, "One", ws.Name)

	_, err = s.FindWorkspace(context.Background(), "missing")
	assert.ErrorIs(t, err, menu.ErrWorkspaceNotFound)
}

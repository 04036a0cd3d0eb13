package services

import (
	"testing"

	"couples-gallery/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDescendant(t *testing.T) {
	env := newTestEnv(t)

	root, err := env.Catalog.CreateFolder("Wedding", nil)
	require.NoError(t, err)
	child, err := env.Catalog.CreateFolder("Ceremony", &root.ID)
	require.NoError(t, err)
	grandchild, err := env.Catalog.CreateFolder("Vows", &child.ID)
	require.NoError(t, err)
	other, err := env.Catalog.CreateFolder("Private", nil)
	require.NoError(t, err)

	t.Run("reflexive", func(t *testing.T) {
		ok, err := env.Access.IsDescendant(root.ID, root.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("direct child", func(t *testing.T) {
		ok, err := env.Access.IsDescendant(child.ID, root.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("deep descendant", func(t *testing.T) {
		ok, err := env.Access.IsDescendant(grandchild.ID, root.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("sibling tree", func(t *testing.T) {
		ok, err := env.Access.IsDescendant(other.ID, root.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("inverted direction", func(t *testing.T) {
		ok, err := env.Access.IsDescendant(root.ID, grandchild.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown folder", func(t *testing.T) {
		ok, err := env.Access.IsDescendant(uuid.New(), root.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRequireInSubtree(t *testing.T) {
	env := newTestEnv(t)

	root, err := env.Catalog.CreateFolder("Shared", nil)
	require.NoError(t, err)
	outside, err := env.Catalog.CreateFolder("Outside", nil)
	require.NoError(t, err)

	assert.NoError(t, env.Access.RequireInSubtree(root.ID, root.ID))
	assert.ErrorIs(t, env.Access.RequireInSubtree(outside.ID, root.ID), ErrForbidden)
}

func TestAllowsEdit(t *testing.T) {
	assert.False(t, AllowsEdit(models.PermissionRead))
	assert.True(t, AllowsEdit(models.PermissionEdit))
	assert.True(t, AllowsEdit(models.PermissionFull))
	assert.False(t, AllowsEdit(""))
	assert.False(t, AllowsEdit("admin"))
}

func TestValidPermission(t *testing.T) {
	assert.True(t, ValidPermission(models.PermissionRead))
	assert.True(t, ValidPermission(models.PermissionEdit))
	assert.True(t, ValidPermission(models.PermissionFull))
	assert.False(t, ValidPermission("owner"))
	assert.False(t, ValidPermission(""))
}

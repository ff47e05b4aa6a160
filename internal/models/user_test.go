package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminPermissions(t *testing.T) {
	admin := &User{Role: RoleAdmin}

	assert.True(t, admin.Can(PermManageUsers))
	assert.True(t, admin.Can(PermManageClients))
	assert.True(t, admin.Can(PermManageProjects))
	assert.True(t, admin.Can(PermViewOwnProjects))
}

func TestRegularUserPermissions(t *testing.T) {
	user := &User{Role: RoleUser}

	assert.False(t, user.Can(PermManageUsers))
	assert.False(t, user.Can(PermManageClients))
	assert.False(t, user.Can(PermManageProjects))
	assert.True(t, user.Can(PermViewOwnProjects))
}

func TestUnknownRoleGrantsNothing(t *testing.T) {
	ghost := &User{Role: UserRole("viewer")}

	assert.False(t, ghost.Can(PermManageClients))
	assert.False(t, ghost.Can(PermManageProjects))
	assert.False(t, ghost.Can(PermViewOwnProjects))
}

func TestOwns(t *testing.T) {
	owner := &User{}
	owner.ID = 7
	other := &User{}
	other.ID = 8

	project := &Project{UserID: 7}

	assert.True(t, owner.Owns(project))
	assert.False(t, other.Owns(project))
	assert.False(t, owner.Owns(nil))
}

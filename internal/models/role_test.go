package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePriority(t *testing.T) {
	tests := []struct {
		role Role
		want int
	}{
		{RoleFounder, 4},
		{RoleStaff, 3},
		{RoleManager, 2},
		{RoleUser, 1},
		{Role(""), 0},
		{Role("admin"), 0},
		{Role("FOUNDER"), 0}, // roles are case-sensitive
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Priority())
		})
	}
}

func TestRoleCanPin(t *testing.T) {
	assert.True(t, RoleFounder.CanPin())
	assert.True(t, RoleStaff.CanPin())
	assert.True(t, RoleManager.CanPin())
	assert.False(t, RoleUser.CanPin())
	assert.False(t, Role("").CanPin())
	assert.False(t, Role("intern").CanPin())
}

func TestRoleOrDefault(t *testing.T) {
	assert.Equal(t, RoleUser, Role("").OrDefault())
	assert.Equal(t, RoleFounder, RoleFounder.OrDefault())
	// Unknown roles are kept as-is; only the empty string defaults.
	assert.Equal(t, Role("ghost"), Role("ghost").OrDefault())
}

package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

func Test_ParseRole(t *testing.T) {
	testCases := []struct {
		claim    string
		expected core.Role
	}{
		{"Member", core.RoleMember},
		{"librarian", core.RoleLibrarian},
		{" ADMIN ", core.RoleAdmin},
	}

	for _, tc := range testCases {
		t.Run(tc.claim, func(t *testing.T) {
			// act
			role, err := core.ParseRole(tc.claim)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.expected, role)
		})
	}
}

func Test_ParseRole_RejectsUnknownClaims(t *testing.T) {
	// act
	_, err := core.ParseRole("Janitor")

	// assert
	assert.ErrorIs(t, err, core.ErrUnknownRole)
}

func Test_Actor_Permissions(t *testing.T) {
	testCases := []struct {
		role          core.Role
		canBorrow     bool
		canManageLoan bool
	}{
		{core.RoleMember, true, false},
		{core.RoleLibrarian, false, true},
		{core.RoleAdmin, false, true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.role), func(t *testing.T) {
			// arrange
			actor := core.BuildActor("user-1", tc.role)

			// assert
			assert.Equal(t, tc.canBorrow, actor.CanBorrow())
			assert.Equal(t, tc.canManageLoan, actor.CanManageLoans())
			assert.Equal(t, tc.canManageLoan, actor.CanManageCatalog())
		})
	}
}

func Test_Actor_WithoutUserID_IsNotPermitted(t *testing.T) {
	// arrange
	actor := core.BuildActor("", core.RoleAdmin)

	// assert
	assert.False(t, actor.CanBorrow())
	assert.False(t, actor.CanManageLoans())
}

package domain

import "testing"

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleModerator, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	for _, r := range []Role{"", "user", "SUPERVISOR"} {
		if r.Valid() {
			t.Errorf("%q should be invalid", r)
		}
	}
}

func TestRolePermissionTable(t *testing.T) {
	cases := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleUser, PermReadSelf, true},
		{RoleUser, PermDownloadFile, true},
		{RoleUser, PermReadWriteDeleteUser, false},
		{RoleUser, PermManageUsers, false},
		{RoleModerator, PermReadWriteDeleteEvent, true},
		{RoleModerator, PermReadWriteDeleteFile, true},
		{RoleModerator, PermReadWriteDeleteUser, true},
		{RoleModerator, PermManageUsers, false},
		{RoleModerator, PermManageRoles, false},
		{RoleAdmin, PermManageUsers, true},
		{RoleAdmin, PermManageRoles, true},
		{RoleAdmin, PermDownloadFile, true},
	}
	for _, c := range cases {
		if got := c.role.Has(c.perm); got != c.want {
			t.Errorf("%s.Has(%s) = %v, want %v", c.role, c.perm, got, c.want)
		}
	}
}

func TestRoleHasAny(t *testing.T) {
	if RoleUser.HasAny(PermManageUsers, PermManageRoles) {
		t.Error("USER should not hold manage permissions")
	}
	if !RoleAdmin.HasAny(PermManageUsers, PermManageRoles) {
		t.Error("ADMIN should hold manage permissions")
	}
	if RoleUser.HasAny() {
		t.Error("empty permission list should never match")
	}
}

func TestPermissionsReturnsCopy(t *testing.T) {
	perms := RoleUser.Permissions()
	if len(perms) != 2 {
		t.Fatalf("USER permissions = %d, want 2", len(perms))
	}
	perms[0] = PermManageUsers
	if RoleUser.Has(PermManageUsers) {
		t.Error("mutating the returned slice must not affect the table")
	}
}

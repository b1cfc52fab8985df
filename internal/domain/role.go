package domain

type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

type Permission string

const (
	PermReadSelf             Permission = "read:self"
	PermDownloadFile         Permission = "download:file"
	PermReadWriteDeleteEvent Permission = "read_write_delete:events"
	PermReadWriteDeleteUser  Permission = "read_write_delete:users"
	PermReadWriteDeleteFile  Permission = "read_write_delete:files"
	PermManageUsers          Permission = "manage:users"
	PermManageRoles          Permission = "manage:roles"
)

// 角色→权限静态表，启动时即固定，不落库
var rolePermissions = map[Role][]Permission{
	RoleUser: {PermReadSelf, PermDownloadFile},
	RoleModerator: {
		PermReadSelf, PermDownloadFile,
		PermReadWriteDeleteEvent, PermReadWriteDeleteFile, PermReadWriteDeleteUser,
	},
	RoleAdmin: {
		PermReadSelf, PermDownloadFile,
		PermReadWriteDeleteEvent, PermReadWriteDeleteFile, PermReadWriteDeleteUser,
		PermManageUsers, PermManageRoles,
	},
}

func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

func (r Role) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

func (r Role) Has(p Permission) bool {
	for _, rp := range rolePermissions[r] {
		if rp == p {
			return true
		}
	}
	return false
}

func (r Role) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if r.Has(p) {
			return true
		}
	}
	return false
}

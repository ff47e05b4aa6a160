package models

import "gorm.io/gorm"

// Permission is a named capability a role grants. The set is closed and
// every check goes through User.Can, so a mistyped tag can never pass.
type Permission string

const (
	PermManageUsers     Permission = "manage users"
	PermManageClients   Permission = "manage clients"
	PermManageProjects  Permission = "manage projects"
	PermViewOwnProjects Permission = "view own projects"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

var rolePermissions = map[UserRole][]Permission{
	RoleAdmin: {PermManageUsers, PermManageClients, PermManageProjects, PermViewOwnProjects},
	RoleUser:  {PermViewOwnProjects},
}

type User struct {
	gorm.Model
	Name         string   `gorm:"size:255;not null"`
	Email        string   `gorm:"uniqueIndex;size:254;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`
}

// Can reports whether the user's role grants the permission. Unknown roles
// grant nothing.
func (u *User) Can(p Permission) bool {
	for _, granted := range rolePermissions[u.Role] {
		if granted == p {
			return true
		}
	}
	return false
}

// Owns reports whether the user is the assigned owner of the project.
func (u *User) Owns(p *Project) bool {
	return p != nil && p.UserID == u.ID
}

package domain

import "errors"

// Role is the organisational role of a user.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrManagerCycle = errors.New("manager chain forms a cycle")
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User models an employee, manager or administrator. ManagerID is a weak
// reference to another user's ID; it may point at a user that does not exist.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
	ManagerID  string `json:"managerId,omitempty"`
}

// UserPatch carries the fields of a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Name       *string
	Email      *string
	Role       *Role
	Department *string
	ManagerID  *string
}

// Apply merges the set fields of p into u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.ManagerID != nil {
		u.ManagerID = *p.ManagerID
	}
}

// Validate checks the enumerated fields of a user.
func (u *User) Validate() error {
	if u.Name == "" || u.Email == "" {
		return ValidationError("name and email are required")
	}
	if !u.Role.Valid() {
		return ValidationError("unknown role " + string(u.Role))
	}
	if u.ManagerID != "" && u.ManagerID == u.ID {
		return ErrManagerCycle
	}
	return nil
}

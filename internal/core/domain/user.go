package domain

import (
	"strings"
	"time"
)

type UserRole int

const (
	RoleSuperAdmin UserRole = iota + 1
	RoleAdmin
	RoleManager
	RoleLogist
	RoleCompanyAdmin
	RoleCompanyStaff
)

type UserStatus int

const (
	UserNotVerified UserStatus = iota + 1
	UserVerified
	UserBlocked
)

type User struct {
	ID         int64
	Phone      string
	Email      string
	FirstName  string
	MiddleName string
	LastName   string
	Role       UserRole
	Status     UserStatus
	CompanyID  int64
	Code       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u User) ShortName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) FullName() string {
	return strings.TrimSpace(u.LastName + " " + u.FirstName + " " + u.MiddleName)
}

// Actor identifies the user performing a mutation. It is passed explicitly to
// every operation that records attribution; nothing recovers it from ambient
// state.
type Actor struct {
	ID        int64
	Name      string
	Role      UserRole
	CompanyID int64
}

// ActorFromUser projects the identity fields audit records need.
func ActorFromUser(u User) Actor {
	return Actor{ID: u.ID, Name: u.ShortName(), Role: u.Role, CompanyID: u.CompanyID}
}

// CanAccessCompany reports whether the actor may mutate the company's data:
// staff of the company itself, its assigned platform manager, or a platform
// admin. Logists never mutate company data.
func (a Actor) CanAccessCompany(c Company) bool {
	switch a.Role {
	case RoleSuperAdmin, RoleAdmin:
		return true
	case RoleManager:
		return c.ManagerID == a.ID
	case RoleLogist:
		return false
	default:
		return a.CompanyID == c.ID
	}
}

package domain

// Role separates ticket submitters from the people who work them.
type Role string

const (
	RoleUser          Role = "User"
	RoleEngineer      Role = "Engineer"
	RoleAdministrator Role = "Administrator"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleEngineer, RoleAdministrator:
		return true
	}
	return false
}

// User is anybody who can log in: submitters, engineers and administrators.
type User struct {
	ID             string
	DisplayName    string
	DomainUsername string
	Email          string
	Role           Role
	IsActive       bool
	// CategoryIDs is only meaningful for engineers.
	CategoryIDs []int64
}

// Actor is the identity a request is evaluated for.
type Actor struct {
	ID   string
	Role Role
}

// Specified reports whether both identity and role were supplied.
func (a Actor) Specified() bool {
	return a.ID != "" && a.Role.Valid()
}

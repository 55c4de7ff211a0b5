package domain

// Role is the access level of a user.
type Role string

// User roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var roleLevels = map[Role]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// HasPermission reports whether r grants at least the access of required.
func (r Role) HasPermission(required Role) bool {
	level, ok := roleLevels[r]
	if !ok {
		return false
	}
	return level >= roleLevels[required]
}

// User is a stored user record. Password is kept in plaintext and must
// never leave the service; use Public for anything that is sent out.
type User struct {
	ID       string
	Name     string
	Email    string
	Type     Role
	Password string
}

// Public returns the sanitized view of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Type:  u.Type,
	}
}

// Identity returns the claims a session token carries for the user.
func (u User) Identity() Identity {
	return Identity{
		ID:    u.ID,
		Email: u.Email,
		Type:  u.Type,
	}
}

// PublicUser is a user record without the password.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Type  Role   `json:"type"`
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Type  Role   `json:"type"`
}

// NewUser holds the fields required to create a user.
type NewUser struct {
	Name     string
	Email    string
	Type     Role
	Password string
}

// UserPatch holds the fields of a partial update. Nil fields are left as is.
type UserPatch struct {
	Name     *string
	Email    *string
	Type     *Role
	Password *string
}

// Apply merges the provided fields of p into u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Type != nil {
		u.Type = *p.Type
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
}

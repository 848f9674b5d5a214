package session

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the active-user value held by the session store. The JSON
// shape is the stored wire format.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// RoleFor derives the mock-login role: the reserved "admin" username gets
// the admin role, everyone else is a regular user.
func RoleFor(username string) Role {
	if username == "admin" {
		return RoleAdmin
	}
	return RoleUser
}

package domain

// Identity is who a bearer token says the caller is. The role is not part
// of it; the stored user record is the authority for roles.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

package role

type Role string

const (
	User  Role = "user"
	Admin Role = "admin"
)

// Valid - известная ли роль.
func (r Role) Valid() bool {
	return r == User || r == Admin
}

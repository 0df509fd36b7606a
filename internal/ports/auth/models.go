package auth

const (
	RoleAdmin    = "admin"
	RoleOperator = "operador"
)

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

func (c Claims) HasRole(role string) bool {
	if c.Role == RoleAdmin {
		return true
	}
	return c.Role == role
}

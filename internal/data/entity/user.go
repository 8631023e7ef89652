package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	BaseNoDelete
	Name         string   `db:"name"`
	Email        string   `db:"email"`
	Address      string   `db:"address"`
	PasswordHash string   `db:"password"`
	Role         UserRole `db:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

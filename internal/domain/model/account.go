package model

import "time"

// Role gates which operations an account may perform.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleOperator || r == RoleAdmin
}

// Staff reports whether the role belongs to restaurant personnel.
func (r Role) Staff() bool {
	return r == RoleOperator || r == RoleAdmin
}

// Account represents a registered customer or staff member.
type Account struct {
	ID           int64
	Login        string
	Name         string
	Role         Role
	PasswordHash string
	OrdersCount  int64
	TotalSpent   int64
	CreatedAt    time.Time
}

// Identity is the authenticated caller extracted from a token.
type Identity struct {
	AccountID int64
	Role      Role
}

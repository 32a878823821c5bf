package domain

import "fmt"

// Role is the authorization level stored on a user record.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleUser     Role = "User"
	RoleCustomer Role = "Customer"
)

// Roles lists every accepted role in declaration order.
var Roles = []Role{RoleAdmin, RoleUser, RoleCustomer}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole converts s into a Role. The match is exact.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, s)
	}
	return r, nil
}

// User is the sole persisted entity of the service.
//
// Username is the login key but is not unique at the storage layer: two records
// may share it, and credential checks take the first match in store order.
// Password holds a bcrypt hash once written through the user service.
type User struct {
	ID           string `json:"id"           bson:"_id"`
	Username     string `json:"username"     bson:"username"`
	Password     string `json:"-"            bson:"password"`
	Role         *Role  `json:"role"         bson:"role,omitempty"`
	Name         string `json:"name"         bson:"name,omitempty"`
	Address1     string `json:"address1"     bson:"address1,omitempty"`
	Address2     string `json:"address2"     bson:"address2,omitempty"`
	PostalCode   int    `json:"postalCode"   bson:"postalCode,omitempty"`
	City         string `json:"city"         bson:"city,omitempty"`
	EmailAddress string `json:"emailAddress" bson:"emailAddress,omitempty"`
	PhoneNumber  string `json:"phoneNumber"  bson:"phoneNumber,omitempty"`
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Role != nil {
		r := *u.Role
		c.Role = &r
	}
	return &c
}

// RolePtr is a convenience for building users with a role literal.
func RolePtr(r Role) *Role {
	return &r
}

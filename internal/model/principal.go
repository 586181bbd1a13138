package model

import "github.com/google/uuid"

type Role string

const (
	RoleConsumer Role = "consumer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Principal is the trusted caller identity resolved from the access token.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) IsConsumer() bool { return p.Role == RoleConsumer }
func (p Principal) IsProvider() bool { return p.Role == RoleProvider }
func (p Principal) IsAdmin() bool    { return p.Role == RoleAdmin }

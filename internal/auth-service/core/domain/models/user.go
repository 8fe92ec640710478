package models

import (
	"fmt"
	"time"

	"taxi-booking/internal/common/types"

	"github.com/google/uuid"
)

type UserProfile struct {
	ID           uuid.UUID  `json:"user_id"`
	Email        string     `json:"email"`
	PasswordHash []byte     `json:"-"`
	Username     string     `json:"username"`
	FullName     string     `json:"full_name"`
	Address      string     `json:"address"`
	Role         types.Role `json:"role"`
	Record       RoleRecord `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Validate checks that the role tag and the role record agree.
func (u UserProfile) Validate() error {
	if !u.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidRoleRecord, u.Role)
	}
	if u.Record == nil {
		return fmt.Errorf("%w: %s profile has no role record", ErrInvalidRoleRecord, u.Role)
	}
	if u.Record.Role() != u.Role {
		return fmt.Errorf("%w: role %s with %s record", ErrInvalidRoleRecord, u.Role, u.Record.Role())
	}
	if u.Record.RoleID() == uuid.Nil {
		return fmt.Errorf("%w: %s record has no id", ErrInvalidRoleRecord, u.Role)
	}
	return nil
}

// RoleID returns the role-scoped id, uuid.Nil when the profile has no record.
func (u UserProfile) RoleID() uuid.UUID {
	if u.Record == nil {
		return uuid.Nil
	}
	return u.Record.RoleID()
}

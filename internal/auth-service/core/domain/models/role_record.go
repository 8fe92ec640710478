package models

import (
	"errors"

	"taxi-booking/internal/common/types"

	"github.com/google/uuid"
)

var ErrInvalidRoleRecord = errors.New("role record does not match role")

// RoleRecord is the role-specific part of a profile. The set of
// implementations is closed: AdminRecord, ClientRecord, DriverRecord.
type RoleRecord interface {
	Role() types.Role
	RoleID() uuid.UUID
	isRoleRecord()
}

type AdminRecord struct {
	AdminID uuid.UUID `json:"admin_id"`
}

func (AdminRecord) Role() types.Role    { return types.RoleAdmin }
func (r AdminRecord) RoleID() uuid.UUID { return r.AdminID }
func (AdminRecord) isRoleRecord()       {}

type ClientRecord struct {
	ClientID uuid.UUID `json:"client_id"`
}

func (ClientRecord) Role() types.Role    { return types.RoleClient }
func (r ClientRecord) RoleID() uuid.UUID { return r.ClientID }
func (ClientRecord) isRoleRecord()       {}

type DriverRecord struct {
	DriverID uuid.UUID          `json:"driver_id"`
	Status   types.DriverStatus `json:"status"`
}

func (DriverRecord) Role() types.Role    { return types.RoleDriver }
func (r DriverRecord) RoleID() uuid.UUID { return r.DriverID }
func (DriverRecord) isRoleRecord()       {}

// NewRoleRecord builds a fresh record for role with a newly generated id.
// Drivers start NOT_VERIFIED.
func NewRoleRecord(role types.Role) (RoleRecord, error) {
	switch role {
	case types.RoleAdmin:
		return AdminRecord{AdminID: uuid.New()}, nil
	case types.RoleClient:
		return ClientRecord{ClientID: uuid.New()}, nil
	case types.RoleDriver:
		return DriverRecord{DriverID: uuid.New(), Status: types.DriverNotVerified}, nil
	}
	return nil, ErrInvalidRoleRecord
}

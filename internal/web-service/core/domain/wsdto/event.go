package wsdto

import (
	"encoding/json"

	"taxi-booking/internal/common/types"

	"github.com/google/uuid"
)

const DriverStatusUpdateType = "driver_status_update"

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type DriverStatusUpdate struct {
	DriverID uuid.UUID          `json:"driver_id"`
	Status   types.DriverStatus `json:"status"`
}

func NewDriverStatusUpdate(driverID uuid.UUID, status types.DriverStatus) (Event, error) {
	payload, err := json.Marshal(DriverStatusUpdate{DriverID: driverID, Status: status})
	if err != nil {
		return Event{}, err
	}
	return Event{Type: DriverStatusUpdateType, Data: payload}, nil
}

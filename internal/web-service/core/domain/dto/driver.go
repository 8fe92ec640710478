package dto

import (
	"taxi-booking/internal/common/types"

	"github.com/google/uuid"
)

type UpdateDriverStatusRequest struct {
	Status types.DriverStatus `json:"status" validate:"required"`
}

type UpdateDriverStatusResponse struct {
	Updated bool `json:"updated"`
}

type DriverStatusResponse struct {
	DriverID uuid.UUID          `json:"driver_id"`
	Status   types.DriverStatus `json:"status"`
}

type RateDriverRequest struct {
	DriverID uuid.UUID `json:"driver_id" validate:"required"`
	Score    int       `json:"score" validate:"required,min=1,max=5"`
	Comment  string    `json:"comment" validate:"max=1000"`
}

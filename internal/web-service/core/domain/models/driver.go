package models

import (
	"time"

	"taxi-booking/internal/common/types"

	"github.com/google/uuid"
)

type Driver struct {
	DriverID uuid.UUID          `json:"driver_id"`
	UserID   uuid.UUID          `json:"user_id"`
	Email    string             `json:"email"`
	Username string             `json:"username"`
	FullName string             `json:"full_name"`
	Status   types.DriverStatus `json:"status"`
}

const (
	MinScore = 1
	MaxScore = 5
)

// RideRating is a client's score for a driver after a ride.
type RideRating struct {
	ID        uuid.UUID `json:"rating_id"`
	DriverID  uuid.UUID `json:"driver_id"`
	ClientID  uuid.UUID `json:"client_id,omitempty"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AverageRating struct {
	DriverID uuid.UUID `json:"driver_id"`
	Average  float64   `json:"average"`
	Count    int       `json:"count"`
}

package driver

import (
	"context"

	"taxi-booking/internal/common/types"
	"taxi-booking/internal/web-service/core/domain/models"
	"taxi-booking/internal/web-service/core/effects"

	"github.com/google/uuid"
)

type IDriverService interface {
	GetDriverStatus(ctx context.Context, driverID uuid.UUID) (types.DriverStatus, error)
	UpdateDriverStatus(ctx context.Context, driverID uuid.UUID, status types.DriverStatus) (bool, []effects.Effect, error)
	ListAllDrivers(ctx context.Context) ([]models.Driver, error)
	RateDriver(ctx context.Context, rating models.RideRating) (models.RideRating, error)
	GetAverageRatingForDriver(ctx context.Context, driverID uuid.UUID) (models.AverageRating, error)
}

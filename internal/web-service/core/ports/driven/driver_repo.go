package driven

import (
	"context"

	"taxi-booking/internal/common/types"
	"taxi-booking/internal/web-service/core/domain/models"

	"github.com/google/uuid"
)

// IDriverRepo returns myerrors.ErrDriverNotFound for unknown driver ids.
type IDriverRepo interface {
	GetDriver(ctx context.Context, driverID uuid.UUID) (models.Driver, error)
	// UpdateStatus reports false when the driver already had status.
	UpdateStatus(ctx context.Context, driverID uuid.UUID, status types.DriverStatus) (models.Driver, bool, error)
	ListDrivers(ctx context.Context) ([]models.Driver, error)
	CreateRating(ctx context.Context, rating models.RideRating) (models.RideRating, error)
	AverageRating(ctx context.Context, driverID uuid.UUID) (models.AverageRating, error)
}

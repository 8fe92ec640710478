package service

import (
	"context"
	"errors"
	"fmt"

	"taxi-booking/internal/common/types"
	"taxi-booking/internal/mylogger"
	"taxi-booking/internal/web-service/core/domain/models"
	"taxi-booking/internal/web-service/core/domain/wsdto"
	"taxi-booking/internal/web-service/core/effects"
	"taxi-booking/internal/web-service/core/myerrors"
	"taxi-booking/internal/web-service/core/ports/driven"

	"github.com/google/uuid"
)

const (
	StatusEmailSubject = "TaxiWeb status update"
	statusEmailBody    = "Your status on TaxiWeb application has been changed to %s"
)

type DriverService struct {
	repo  driven.IDriverRepo
	mylog mylogger.Logger
}

func NewDriverService(repo driven.IDriverRepo, mylog mylogger.Logger) *DriverService {
	return &DriverService{
		repo:  repo,
		mylog: mylog,
	}
}

func (ds *DriverService) GetDriverStatus(ctx context.Context, driverID uuid.UUID) (types.DriverStatus, error) {
	driver, err := ds.repo.GetDriver(ctx, driverID)
	if err != nil {
		return "", storeErr(err)
	}
	return driver.Status, nil
}

// UpdateDriverStatus changes the status and, when it actually changed,
// returns the email and live push the driver should receive.
func (ds *DriverService) UpdateDriverStatus(ctx context.Context, driverID uuid.UUID, status types.DriverStatus) (bool, []effects.Effect, error) {
	mylog := ds.mylog.Action("UpdateDriverStatus")

	if !status.Valid() {
		return false, nil, fmt.Errorf("%w: %q", myerrors.ErrInvalidStatus, status)
	}

	driver, updated, err := ds.repo.UpdateStatus(ctx, driverID, status)
	if err != nil {
		return false, nil, storeErr(err)
	}
	if !updated {
		mylog.Debug("Driver status unchanged", "driver_id", driverID, "status", status)
		return false, nil, nil
	}

	effs := []effects.Effect{
		effects.Email{
			To:      driver.Email,
			Subject: StatusEmailSubject,
			Body:    fmt.Sprintf(statusEmailBody, status),
		},
	}

	event, err := wsdto.NewDriverStatusUpdate(driverID, status)
	if err != nil {
		mylog.Error("Failed to build status event", err)
	} else {
		effs = append(effs, effects.DriverPush{DriverID: driverID, Event: event})
	}

	mylog.Info("Driver status updated", "driver_id", driverID, "status", status)
	return true, effs, nil
}

func (ds *DriverService) ListAllDrivers(ctx context.Context) ([]models.Driver, error) {
	drivers, err := ds.repo.ListDrivers(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	if drivers == nil {
		drivers = []models.Driver{}
	}
	return drivers, nil
}

func (ds *DriverService) RateDriver(ctx context.Context, rating models.RideRating) (models.RideRating, error) {
	if rating.ID == uuid.Nil {
		return models.RideRating{}, fmt.Errorf("%w: missing rating id", myerrors.ErrInvalidRating)
	}
	if rating.Score < models.MinScore || rating.Score > models.MaxScore {
		return models.RideRating{}, fmt.Errorf("%w: score must be in range [%d, %d]", myerrors.ErrInvalidRating, models.MinScore, models.MaxScore)
	}

	saved, err := ds.repo.CreateRating(ctx, rating)
	if err != nil {
		return models.RideRating{}, storeErr(err)
	}

	ds.mylog.Action("RateDriver").Info("Driver rated", "driver_id", saved.DriverID, "rating_id", saved.ID)
	return saved, nil
}

func (ds *DriverService) GetAverageRatingForDriver(ctx context.Context, driverID uuid.UUID) (models.AverageRating, error) {
	avg, err := ds.repo.AverageRating(ctx, driverID)
	if err != nil {
		return models.AverageRating{}, storeErr(err)
	}
	return avg, nil
}

func storeErr(err error) error {
	switch {
	case errors.Is(err, myerrors.ErrDriverNotFound):
		return myerrors.ErrDriverNotFound
	case errors.Is(err, myerrors.ErrClientNotFound):
		return myerrors.ErrClientNotFound
	}
	return fmt.Errorf("%w: %v", myerrors.ErrStore, err)
}

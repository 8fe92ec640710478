package db

import (
	"context"
	"errors"
	"fmt"

	"taxi-booking/internal/common/types"
	"taxi-booking/internal/database"
	"taxi-booking/internal/web-service/core/domain/models"
	"taxi-booking/internal/web-service/core/myerrors"
	"taxi-booking/internal/web-service/core/ports/driven"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectDriver = `
	SELECT
		d.driver_id, u.user_id, u.email, u.username, u.full_name, d.status
	FROM
		drivers d
		JOIN users u ON u.user_id = d.user_id`

type DriverRepo struct {
	db *database.DB
}

func NewDriverRepo(db *database.DB) driven.IDriverRepo {
	return &DriverRepo{db: db}
}

func (dr *DriverRepo) GetDriver(ctx context.Context, driverID uuid.UUID) (models.Driver, error) {
	row := dr.db.Pool().QueryRow(ctx, selectDriver+` WHERE d.driver_id = $1`, driverID)

	driver, err := scanDriver(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Driver{}, myerrors.ErrDriverNotFound
		}
		return models.Driver{}, err
	}
	return driver, nil
}

func (dr *DriverRepo) UpdateStatus(ctx context.Context, driverID uuid.UUID, status types.DriverStatus) (models.Driver, bool, error) {
	q := `
		UPDATE
			drivers
		SET
			status = $2
		WHERE
			driver_id = $1 AND status <> $2`

	var (
		driver  models.Driver
		updated bool
	)
	err := dr.db.InTx(ctx, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, q, driverID, status)
		if err != nil {
			return err
		}
		updated = cmd.RowsAffected() > 0

		driver, err = scanDriver(tx.QueryRow(ctx, selectDriver+` WHERE d.driver_id = $1`, driverID))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Driver{}, false, myerrors.ErrDriverNotFound
		}
		return models.Driver{}, false, err
	}
	return driver, updated, nil
}

func (dr *DriverRepo) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	rows, err := dr.db.Pool().Query(ctx, selectDriver+` ORDER BY u.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

func (dr *DriverRepo) CreateRating(ctx context.Context, rating models.RideRating) (models.RideRating, error) {
	q := `
		INSERT INTO ride_ratings
			(rating_id, driver_id, client_id, score, comment)
		VALUES
			($1, $2, $3, $4, $5)
		RETURNING
			created_at`

	var clientID *uuid.UUID
	if rating.ClientID != uuid.Nil {
		clientID = &rating.ClientID
	}

	err := dr.db.Pool().QueryRow(ctx, q, rating.ID, rating.DriverID, clientID, rating.Score, rating.Comment).
		Scan(&rating.CreatedAt)
	if err != nil {
		return models.RideRating{}, ratingErr(err, rating)
	}
	return rating, nil
}

const (
	ratingDriverFK = "ride_ratings_driver_id_fkey"
	ratingClientFK = "ride_ratings_client_id_fkey"
)

func ratingErr(err error, rating models.RideRating) error {
	switch name, _ := database.ViolatedConstraint(err); name {
	case ratingDriverFK:
		return fmt.Errorf("%w: %s", myerrors.ErrDriverNotFound, rating.DriverID)
	case ratingClientFK:
		return fmt.Errorf("%w: %s", myerrors.ErrClientNotFound, rating.ClientID)
	}
	return err
}

func (dr *DriverRepo) AverageRating(ctx context.Context, driverID uuid.UUID) (models.AverageRating, error) {
	q := `
		SELECT
			COALESCE(AVG(r.score), 0)::float8, COUNT(r.rating_id)
		FROM
			drivers d
			LEFT JOIN ride_ratings r ON r.driver_id = d.driver_id
		WHERE
			d.driver_id = $1
		GROUP BY
			d.driver_id`

	avg := models.AverageRating{DriverID: driverID}
	err := dr.db.Pool().QueryRow(ctx, q, driverID).Scan(&avg.Average, &avg.Count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AverageRating{}, myerrors.ErrDriverNotFound
		}
		return models.AverageRating{}, err
	}
	return avg, nil
}

func scanDriver(row pgx.Row) (models.Driver, error) {
	var d models.Driver
	err := row.Scan(&d.DriverID, &d.UserID, &d.Email, &d.Username, &d.FullName, &d.Status)
	return d, err
}

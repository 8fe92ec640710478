package db

import (
	"errors"
	"testing"

	"taxi-booking/internal/database"
	"taxi-booking/internal/web-service/core/domain/models"
	"taxi-booking/internal/web-service/core/myerrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestRatingErr(t *testing.T) {
	rating := models.RideRating{ID: uuid.New(), DriverID: uuid.New(), ClientID: uuid.New(), Score: 5}
	timeout := errors.New("timeout")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "missing driver",
			err:  &pgconn.PgError{Code: database.ForeignKeyViolation, ConstraintName: ratingDriverFK},
			want: myerrors.ErrDriverNotFound,
		},
		{
			name: "stale client",
			err:  &pgconn.PgError{Code: database.ForeignKeyViolation, ConstraintName: ratingClientFK},
			want: myerrors.ErrClientNotFound,
		},
		{
			name: "other failure",
			err:  timeout,
			want: timeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ratingErr(tt.err, rating), tt.want)
		})
	}

	err := ratingErr(&pgconn.PgError{Code: database.ForeignKeyViolation, ConstraintName: ratingClientFK}, rating)
	assert.NotErrorIs(t, err, myerrors.ErrDriverNotFound)
}

package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"taxi-booking/internal/auth-service/core/domain/models"
	"taxi-booking/internal/auth-service/core/myerrors"
	"taxi-booking/internal/auth-service/core/ports/driven"
	"taxi-booking/internal/common/types"
	"taxi-booking/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const selectProfile = `
	SELECT
		u.user_id, u.email, u.password_hash, u.username, u.full_name, u.address,
		u.role, u.created_at, u.updated_at,
		a.admin_id, c.client_id, d.driver_id, d.status
	FROM
		users u
		LEFT JOIN admins a ON a.user_id = u.user_id
		LEFT JOIN clients c ON c.user_id = u.user_id
		LEFT JOIN drivers d ON d.user_id = u.user_id`

type UserStore struct {
	db *database.DB
}

func NewUserStore(db *database.DB) driven.IUserStore {
	return &UserStore{db: db}
}

// dummyHash is compared against when no stored hash exists, so a miss costs
// the same bcrypt work as a wrong password. Cost matches service.HashFactor.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("taxi-booking-unknown-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("generate dummy hash: %v", err))
	}
	return hash
})

// FindByCredentials loads the profile by email and checks the password in the
// same call. A wrong password is reported exactly like an unknown email.
func (us *UserStore) FindByCredentials(ctx context.Context, email, password string) (models.UserProfile, error) {
	user, err := us.FindByEmail(ctx, email)
	if errors.Is(err, myerrors.ErrNotFound) {
		return models.UserProfile{}, checkPassword(nil, password)
	}
	if err != nil {
		return models.UserProfile{}, err
	}

	if err := checkPassword(user.PasswordHash, password); err != nil {
		return models.UserProfile{}, err
	}
	return user, nil
}

// checkPassword returns ErrNotFound on any mismatch. An empty hash is
// compared against dummyHash and always fails.
func checkPassword(hash []byte, password string) error {
	if len(hash) == 0 {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return myerrors.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return myerrors.ErrNotFound
		}
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}

func (us *UserStore) FindByEmail(ctx context.Context, email string) (models.UserProfile, error) {
	q := selectProfile + ` WHERE lower(u.email) = lower($1)`
	return scanProfile(us.db.Pool().QueryRow(ctx, q, email))
}

func (us *UserStore) GetUserProfile(ctx context.Context, id uuid.UUID) (models.UserProfile, error) {
	q := selectProfile + ` WHERE u.user_id = $1`
	return scanProfile(us.db.Pool().QueryRow(ctx, q, id))
}

func (us *UserStore) CreateUser(ctx context.Context, user models.UserProfile) error {
	return us.create(ctx, user, func(tx pgx.Tx) error {
		rec, ok := user.Record.(models.AdminRecord)
		if !ok {
			return models.ErrInvalidRoleRecord
		}
		_, err := tx.Exec(ctx, `INSERT INTO admins (admin_id, user_id) VALUES ($1, $2)`, rec.AdminID, user.ID)
		return err
	})
}

func (us *UserStore) CreateClient(ctx context.Context, user models.UserProfile) error {
	return us.create(ctx, user, func(tx pgx.Tx) error {
		rec, ok := user.Record.(models.ClientRecord)
		if !ok {
			return models.ErrInvalidRoleRecord
		}
		_, err := tx.Exec(ctx, `INSERT INTO clients (client_id, user_id) VALUES ($1, $2)`, rec.ClientID, user.ID)
		return err
	})
}

func (us *UserStore) CreateDriver(ctx context.Context, user models.UserProfile) error {
	return us.create(ctx, user, func(tx pgx.Tx) error {
		rec, ok := user.Record.(models.DriverRecord)
		if !ok {
			return models.ErrInvalidRoleRecord
		}
		_, err := tx.Exec(ctx, `INSERT INTO drivers (driver_id, user_id, status) VALUES ($1, $2, $3)`,
			rec.DriverID, user.ID, rec.Status)
		return err
	})
}

// create writes the users row and the role row in one transaction.
func (us *UserStore) create(ctx context.Context, user models.UserProfile, insertRecord func(tx pgx.Tx) error) error {
	if err := user.Validate(); err != nil {
		return err
	}

	q := `
		INSERT INTO users
			(user_id, email, password_hash, username, full_name, address, role)
		VALUES
			($1, $2, $3, $4, $5, $6, $7)`

	err := us.db.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, q,
			user.ID, user.Email, user.PasswordHash, user.Username, user.FullName, user.Address, user.Role,
		); err != nil {
			return err
		}
		return insertRecord(tx)
	})
	if database.IsUniqueViolation(err) {
		return myerrors.ErrEmailRegistered
	}
	return err
}

func (us *UserStore) UpdateUserProfile(ctx context.Context, patch models.ProfilePatch, id uuid.UUID) (models.UserProfile, error) {
	q := `
		UPDATE
			users
		SET
			email = COALESCE($1, email),
			password_hash = COALESCE($2, password_hash),
			username = COALESCE($3, username),
			full_name = COALESCE($4, full_name),
			address = COALESCE($5, address),
			updated_at = now()
		WHERE
			user_id = $6`

	cmd, err := us.db.Pool().Exec(ctx, q, patch.Email, patch.PasswordHash, patch.Username, patch.FullName, patch.Address, id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.UserProfile{}, myerrors.ErrEmailRegistered
		}
		return models.UserProfile{}, err
	}
	if cmd.RowsAffected() == 0 {
		return models.UserProfile{}, myerrors.ErrNotFound
	}
	return us.GetUserProfile(ctx, id)
}

func scanProfile(row pgx.Row) (models.UserProfile, error) {
	var (
		user     models.UserProfile
		adminID  *uuid.UUID
		clientID *uuid.UUID
		driverID *uuid.UUID
		status   *string
	)

	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Username, &user.FullName, &user.Address,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
		&adminID, &clientID, &driverID, &status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.UserProfile{}, myerrors.ErrNotFound
		}
		return models.UserProfile{}, err
	}

	switch user.Role {
	case types.RoleAdmin:
		if adminID != nil {
			user.Record = models.AdminRecord{AdminID: *adminID}
		}
	case types.RoleClient:
		if clientID != nil {
			user.Record = models.ClientRecord{ClientID: *clientID}
		}
	case types.RoleDriver:
		if driverID != nil {
			rec := models.DriverRecord{DriverID: *driverID}
			if status != nil {
				rec.Status = types.DriverStatus(*status)
			}
			user.Record = rec
		}
	}
	return user, nil
}

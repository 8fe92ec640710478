package handle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taxi-booking/internal/common/authz"
	"taxi-booking/internal/common/types"
	"taxi-booking/internal/metrics"
	"taxi-booking/internal/mylogger"
	"taxi-booking/internal/web-service/core/domain/dto"
	"taxi-booking/internal/web-service/core/domain/models"
	"taxi-booking/internal/web-service/core/effects"
	"taxi-booking/internal/web-service/core/myerrors"
	"taxi-booking/internal/web-service/core/ports/driver"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	statusReaders = authz.NewRoleSet(types.RoleAdmin, types.RoleDriver)
	adminsOnly    = authz.NewRoleSet(types.RoleAdmin)
	clientsOnly   = authz.NewRoleSet(types.RoleClient)
)

// EffectDeliverer runs the side effects of a committed change.
type EffectDeliverer interface {
	Deliver(ctx context.Context, effs []effects.Effect)
}

type DriverHandler struct {
	driverService driver.IDriverService
	effects       EffectDeliverer
	metrics       *metrics.Collector
	validate      *validator.Validate
	mylog         mylogger.Logger
}

func NewDriverHandler(driverService driver.IDriverService, deliverer EffectDeliverer, m *metrics.Collector, mylog mylogger.Logger) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		effects:       deliverer,
		metrics:       m,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		mylog:         mylog,
	}
}

// GET /driver-status/{driver_id}
func (dh *DriverHandler) GetDriverStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !dh.authorize(w, r, "get_driver_status", statusReaders, false) {
			return
		}

		driverID, ok := pathDriverID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		status, err := dh.driverService.GetDriverStatus(ctx, driverID)
		if err != nil {
			dh.serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.DriverStatusResponse{DriverID: driverID, Status: status})
	}
}

// PATCH /driver-status/{driver_id}
func (dh *DriverHandler) UpdateDriverStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := dh.mylog.Action("UpdateDriverStatus")

		if !dh.authorize(w, r, "update_driver_status", adminsOnly, true) {
			return
		}

		driverID, ok := pathDriverID(w, r)
		if !ok {
			return
		}

		var req dto.UpdateDriverStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Debug("Failed to parse status update", "error", err.Error())
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}
		if err := dh.validate.Struct(req); err != nil {
			jsonError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", myerrors.ErrInvalidStatus, err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		updated, effs, err := dh.driverService.UpdateDriverStatus(ctx, driverID, req.Status)
		if err != nil {
			dh.serviceError(w, err)
			return
		}

		dh.effects.Deliver(r.Context(), effs)

		jsonResponse(w, http.StatusOK, dto.UpdateDriverStatusResponse{Updated: updated})
	}
}

// GET /list-drivers
func (dh *DriverHandler) ListAllDrivers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !dh.authorize(w, r, "list_drivers", adminsOnly, false) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		drivers, err := dh.driverService.ListAllDrivers(ctx)
		if err != nil {
			dh.serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, drivers)
	}
}

// POST /rate-driver
func (dh *DriverHandler) RateDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := dh.mylog.Action("RateDriver")

		if !dh.authorize(w, r, "rate_driver", clientsOnly, false) {
			return
		}

		var req dto.RateDriverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Debug("Failed to parse rating", "error", err.Error())
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}
		if err := dh.validate.Struct(req); err != nil {
			jsonError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", myerrors.ErrInvalidRating, err))
			return
		}

		rating := models.RideRating{
			ID:       uuid.New(),
			DriverID: req.DriverID,
			Score:    req.Score,
			Comment:  req.Comment,
		}
		if clientID, ok := authz.RoleIDFromContext(r.Context()); ok {
			rating.ClientID = clientID
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		saved, err := dh.driverService.RateDriver(ctx, rating)
		if err != nil {
			dh.serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, saved)
	}
}

// GET /avg-rating-driver/{driver_id}
func (dh *DriverHandler) AverageRatingDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !dh.authorize(w, r, "avg_rating_driver", adminsOnly, true) {
			return
		}

		driverID, ok := pathDriverID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		avg, err := dh.driverService.GetAverageRatingForDriver(ctx, driverID)
		if err != nil {
			dh.serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, avg)
	}
}

// authorize writes 401 and returns false when the caller's role is not in
// allowed or, with needRoleID, when the caller carries no role id.
func (dh *DriverHandler) authorize(w http.ResponseWriter, r *http.Request, route string, allowed authz.RoleSet, needRoleID bool) bool {
	ok := authz.Authorize(r.Context(), allowed)
	if ok && needRoleID {
		_, ok = authz.RoleIDFromContext(r.Context())
	}
	if !ok {
		dh.metrics.RecordAuthorizationDenied(route)
		jsonError(w, http.StatusUnauthorized, myerrors.ErrUnauthorized)
	}
	return ok
}

func (dh *DriverHandler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, myerrors.ErrDriverNotFound):
		jsonError(w, http.StatusNotFound, myerrors.ErrDriverNotFound)
	case errors.Is(err, myerrors.ErrClientNotFound):
		// the caller's role id no longer names a client
		jsonError(w, http.StatusUnauthorized, myerrors.ErrUnauthorized)
	case errors.Is(err, myerrors.ErrInvalidStatus), errors.Is(err, myerrors.ErrInvalidRating):
		jsonError(w, http.StatusBadRequest, err)
	default:
		dh.mylog.Error("Driver service failed", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

func pathDriverID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "driver_id"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid driver id"))
		return uuid.Nil, false
	}
	return id, true
}

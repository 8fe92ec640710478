package myhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taxi-booking/internal/common/authz"
	"taxi-booking/internal/common/jwtauth"
	"taxi-booking/internal/common/types"
	"taxi-booking/internal/metrics"
	"taxi-booking/internal/mylogger"
	"taxi-booking/internal/web-service/adapters/driver/myhttp/effects"
	"taxi-booking/internal/web-service/adapters/driver/myhttp/handle"
	"taxi-booking/internal/web-service/adapters/driver/myhttp/ws"
	"taxi-booking/internal/web-service/core/domain/models"
	"taxi-booking/internal/web-service/core/myerrors"
	"taxi-booking/internal/web-service/core/service"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type MockDriverRepo struct {
	mock.Mock
}

func (m *MockDriverRepo) GetDriver(ctx context.Context, driverID uuid.UUID) (models.Driver, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).(models.Driver), args.Error(1)
}

func (m *MockDriverRepo) UpdateStatus(ctx context.Context, driverID uuid.UUID, status types.DriverStatus) (models.Driver, bool, error) {
	args := m.Called(ctx, driverID, status)
	return args.Get(0).(models.Driver), args.Bool(1), args.Error(2)
}

func (m *MockDriverRepo) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Driver), args.Error(1)
}

func (m *MockDriverRepo) CreateRating(ctx context.Context, rating models.RideRating) (models.RideRating, error) {
	args := m.Called(ctx, rating)
	if fn, ok := args.Get(0).(func(context.Context, models.RideRating) models.RideRating); ok {
		return fn(ctx, rating), args.Error(1)
	}
	return args.Get(0).(models.RideRating), args.Error(1)
}

func (m *MockDriverRepo) AverageRating(ctx context.Context, driverID uuid.UUID) (models.AverageRating, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).(models.AverageRating), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	args := m.Called(ctx, recipient, subject, body)
	return args.Error(0)
}

type testEnv struct {
	router   http.Handler
	repo     *MockDriverRepo
	notifier *MockNotifier
	tokens   *jwtauth.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := mylogger.Discard()
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	repo := new(MockDriverRepo)
	notifier := new(MockNotifier)
	tokens := jwtauth.NewManager(testSecret, time.Hour)

	dispatcher := ws.NewDispatcher(ctx, log)
	deliverer := effects.NewDispatcher(notifier, dispatcher, collector, log, false)
	driverHandler := handle.NewDriverHandler(service.NewDriverService(repo, log), deliverer, collector, log)

	return &testEnv{
		router:   NewRouter(driverHandler, dispatcher, jwtauth.NewAuthMiddleware(tokens), reg),
		repo:     repo,
		notifier: notifier,
		tokens:   tokens,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string, id *authz.Identity) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if id != nil {
		token, _, err := e.tokens.Issue(*id)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func identity(role types.Role, withRoleID bool) *authz.Identity {
	id := &authz.Identity{UserID: uuid.New(), Role: role}
	if withRoleID {
		id.RoleID = uuid.New()
	}
	return id
}

func TestPatchDriverStatus_NonAdminGetsUnauthorized(t *testing.T) {
	driverID := uuid.New()

	for _, caller := range []*authz.Identity{
		nil,
		identity(types.RoleDriver, true),
		identity(types.RoleClient, true),
		identity(types.RoleAdmin, false),
	} {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPatch, "/driver-status/"+driverID.String(), `{"status":"VERIFIED"}`, caller)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		env.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestPatchDriverStatus_AdminNotifiesOnce(t *testing.T) {
	env := newTestEnv(t)
	driverID := uuid.New()

	env.repo.On("UpdateStatus", mock.Anything, driverID, types.DriverBlocked).
		Return(models.Driver{DriverID: driverID, Email: "dan@taxi.io", Status: types.DriverBlocked}, true, nil)
	env.notifier.On("Send", mock.Anything, "dan@taxi.io", service.StatusEmailSubject, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "BLOCKED")
	})).Return(nil).Once()

	rec := env.do(t, http.MethodPatch, "/driver-status/"+driverID.String(), `{"status":"BLOCKED"}`, identity(types.RoleAdmin, true))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":true}`, rec.Body.String())
	env.notifier.AssertExpectations(t)
	env.notifier.AssertNumberOfCalls(t, "Send", 1)
}

func TestPatchDriverStatus_UnchangedSendsNothing(t *testing.T) {
	env := newTestEnv(t)
	driverID := uuid.New()
	env.repo.On("UpdateStatus", mock.Anything, driverID, types.DriverVerified).Return(models.Driver{}, false, nil)

	rec := env.do(t, http.MethodPatch, "/driver-status/"+driverID.String(), `{"status":"VERIFIED"}`, identity(types.RoleAdmin, true))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":false}`, rec.Body.String())
	env.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPatchDriverStatus_NotificationFailureKeepsResponse(t *testing.T) {
	env := newTestEnv(t)
	driverID := uuid.New()

	env.repo.On("UpdateStatus", mock.Anything, driverID, types.DriverVerified).
		Return(models.Driver{DriverID: driverID, Email: "dan@taxi.io"}, true, nil)
	env.notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	rec := env.do(t, http.MethodPatch, "/driver-status/"+driverID.String(), `{"status":"VERIFIED"}`, identity(types.RoleAdmin, true))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":true}`, rec.Body.String())
}

func TestPatchDriverStatus_BadStatus(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPatch, "/driver-status/"+uuid.NewString(), `{"status":"RETIRED"}`, identity(types.RoleAdmin, true))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDriverStatus_Roles(t *testing.T) {
	driverID := uuid.New()

	tests := []struct {
		caller   *authz.Identity
		wantCode int
	}{
		{identity(types.RoleAdmin, true), http.StatusOK},
		{identity(types.RoleDriver, true), http.StatusOK},
		{identity(types.RoleDriver, false), http.StatusOK},
		{identity(types.RoleClient, true), http.StatusUnauthorized},
		{nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		env := newTestEnv(t)
		env.repo.On("GetDriver", mock.Anything, driverID).
			Return(models.Driver{DriverID: driverID, Status: types.DriverVerified}, nil)

		rec := env.do(t, http.MethodGet, "/driver-status/"+driverID.String(), "", tt.caller)
		require.Equal(t, tt.wantCode, rec.Code)
		if tt.wantCode == http.StatusOK {
			assert.JSONEq(t, `{"driver_id":"`+driverID.String()+`","status":"VERIFIED"}`, rec.Body.String())
		}
	}
}

func TestListDrivers_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("ListDrivers", mock.Anything).Return([]models.Driver{{DriverID: uuid.New(), Status: types.DriverNotVerified}}, nil)

	rec := env.do(t, http.MethodGet, "/list-drivers", "", identity(types.RoleAdmin, false))
	require.Equal(t, http.StatusOK, rec.Code)

	var drivers []models.Driver
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&drivers))
	assert.Len(t, drivers, 1)

	rec = env.do(t, http.MethodGet, "/list-drivers", "", identity(types.RoleDriver, true))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateDriver_UniqueIDs(t *testing.T) {
	env := newTestEnv(t)
	client := identity(types.RoleClient, true)
	driverID := uuid.New()

	var ids []uuid.UUID
	env.repo.On("CreateRating", mock.Anything, mock.AnythingOfType("models.RideRating")).
		Return(func(_ context.Context, r models.RideRating) models.RideRating {
			ids = append(ids, r.ID)
			return r
		}, nil)

	body := `{"driver_id":"` + driverID.String() + `","score":5,"comment":"smooth ride"}`
	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/rate-driver", body, client)
		require.Equal(t, http.StatusOK, rec.Code)

		var saved models.RideRating
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&saved))
		assert.Equal(t, client.RoleID, saved.ClientID)
	}

	require.Len(t, ids, 2)
	assert.NotEqual(t, uuid.Nil, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}

func TestRateDriver_Rejects(t *testing.T) {
	env := newTestEnv(t)
	body := `{"driver_id":"` + uuid.NewString() + `","score":5}`

	rec := env.do(t, http.MethodPost, "/rate-driver", body, identity(types.RoleAdmin, true))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/rate-driver", `{"driver_id":"`+uuid.NewString()+`","score":9}`, identity(types.RoleClient, true))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.repo.AssertNotCalled(t, "CreateRating", mock.Anything, mock.Anything)
}

func TestRateDriver_UnknownDriverOrClient(t *testing.T) {
	env := newTestEnv(t)
	knownDriver := uuid.New()
	missingDriver := uuid.New()

	env.repo.On("CreateRating", mock.Anything, mock.MatchedBy(func(r models.RideRating) bool { return r.DriverID == missingDriver })).
		Return(models.RideRating{}, myerrors.ErrDriverNotFound)
	env.repo.On("CreateRating", mock.Anything, mock.MatchedBy(func(r models.RideRating) bool { return r.DriverID == knownDriver })).
		Return(models.RideRating{}, myerrors.ErrClientNotFound)

	client := identity(types.RoleClient, true)

	rec := env.do(t, http.MethodPost, "/rate-driver", `{"driver_id":"`+missingDriver.String()+`","score":4}`, client)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/rate-driver", `{"driver_id":"`+knownDriver.String()+`","score":4}`, client)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAverageRating_NeedsRoleID(t *testing.T) {
	env := newTestEnv(t)
	driverID := uuid.New()
	env.repo.On("AverageRating", mock.Anything, driverID).Return(models.AverageRating{DriverID: driverID, Average: 4.5, Count: 2}, nil)

	rec := env.do(t, http.MethodGet, "/avg-rating-driver/"+driverID.String(), "", identity(types.RoleAdmin, false))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/avg-rating-driver/"+driverID.String(), "", identity(types.RoleAdmin, true))
	require.Equal(t, http.StatusOK, rec.Code)

	var avg models.AverageRating
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&avg))
	assert.InDelta(t, 4.5, avg.Average, 0.001)
	assert.Equal(t, 2, avg.Count)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/list-drivers", "", identity(types.RoleClient, true))

	rec := env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `taxi_authorization_denied_total{route="list_drivers"} 1`)
}

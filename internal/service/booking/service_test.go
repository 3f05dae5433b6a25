package booking

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/repository/mocks"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	"github.com/jwalitptl/clinic-api/pkg/payment"
)

type gatewayMock struct {
	mock.Mock
}

func (g *gatewayMock) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	args := g.Called(ctx, req)
	result, _ := args.Get(0).(*payment.ChargeResult)
	return result, args.Error(1)
}

func testLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func newTestService(repo *mocks.AppointmentRepository, doctorRepo *mocks.DoctorRepository, userRepo *mocks.UserRepository, gw *gatewayMock) *Service {
	return NewService(repo, doctorRepo, userRepo, gw, testLogger(), 0.01)
}

func createRequest() *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		UserID:          uuid.New(),
		DoctorID:        uuid.New(),
		AppointmentTime: "2026-09-14T10:30:00",
		Reason:          "checkup",
		Phone:           "252611234567",
		Price:           "25.00",
	}
}

func TestCreateAppointment_Success(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	doctorRepo := new(mocks.DoctorRepository)
	userRepo := new(mocks.UserRepository)
	gw := new(gatewayMock)
	svc := newTestService(repo, doctorRepo, userRepo, gw)

	req := createRequest()
	repo.On("FindBySlot", mock.Anything, req.DoctorID, mock.Anything, (*uuid.UUID)(nil)).Return(nil, nil)
	gw.On("Charge", mock.Anything, mock.MatchedBy(func(cr payment.ChargeRequest) bool {
		return cr.Phone == req.Phone && cr.Amount == 0.01 && cr.ReferenceID == "key-1"
	})).Return(&payment.ChargeResult{Ok: true}, nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	apt, err := svc.CreateAppointment(context.Background(), req, "key-1")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)
	assert.Equal(t, model.ParsePrice("25.00"), apt.Price)
	assert.Equal(t, time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC), apt.Date)

	repo.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestCreateAppointment_InvalidTime(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	gw := new(gatewayMock)
	svc := newTestService(repo, new(mocks.DoctorRepository), new(mocks.UserRepository), gw)

	req := createRequest()
	req.AppointmentTime = "not-a-time"

	_, err := svc.CreateAppointment(context.Background(), req, "")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
	repo.AssertNotCalled(t, "FindBySlot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestCreateAppointment_SlotTaken_NoPayment(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	gw := new(gatewayMock)
	svc := newTestService(repo, new(mocks.DoctorRepository), new(mocks.UserRepository), gw)

	req := createRequest()
	repo.On("FindBySlot", mock.Anything, req.DoctorID, mock.Anything, (*uuid.UUID)(nil)).
		Return(&model.Appointment{}, nil)

	_, err := svc.CreateAppointment(context.Background(), req, "")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))

	// The payment gate must never fire for an occupied slot.
	gw.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateAppointment_PaymentDeclined_NothingPersisted(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	gw := new(gatewayMock)
	svc := newTestService(repo, new(mocks.DoctorRepository), new(mocks.UserRepository), gw)

	req := createRequest()
	repo.On("FindBySlot", mock.Anything, req.DoctorID, mock.Anything, (*uuid.UUID)(nil)).Return(nil, nil)
	gw.On("Charge", mock.Anything, mock.Anything).
		Return(&payment.ChargeResult{Ok: false, Detail: "insufficient balance"}, nil)

	_, err := svc.CreateAppointment(context.Background(), req, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrPaymentFailed))
	assert.Equal(t, "insufficient balance", apperrors.AsAppError(err).Message)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateAppointment_GatewayUnreachable(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	gw := new(gatewayMock)
	svc := newTestService(repo, new(mocks.DoctorRepository), new(mocks.UserRepository), gw)

	req := createRequest()
	repo.On("FindBySlot", mock.Anything, req.DoctorID, mock.Anything, (*uuid.UUID)(nil)).Return(nil, nil)
	gw.On("Charge", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, err := svc.CreateAppointment(context.Background(), req, "")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInternal))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateAppointment_ConcurrentInsertLosesRace(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	gw := new(gatewayMock)
	svc := newTestService(repo, new(mocks.DoctorRepository), new(mocks.UserRepository), gw)

	req := createRequest()
	repo.On("FindBySlot", mock.Anything, req.DoctorID, mock.Anything, (*uuid.UUID)(nil)).Return(nil, nil)
	gw.On("Charge", mock.Anything, mock.Anything).Return(&payment.ChargeResult{Ok: true}, nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrSlotTaken)

	_, err := svc.CreateAppointment(context.Background(), req, "")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestUpdateAppointment_NonDateFields_NoConflictCheck(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	svc := newTestService(repo, new(mocks.DoctorRepository), new(mocks.UserRepository), new(gatewayMock))

	id := uuid.New()
	stored := &model.Appointment{
		Base:     model.Base{ID: id},
		DoctorID: uuid.New(),
		Date:     time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC),
		Reason:   "checkup",
		Status:   model.AppointmentStatusConfirmed,
	}
	repo.On("Get", mock.Anything, id).Return(stored, nil)
	repo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	apt, err := svc.UpdateAppointment(context.Background(), id, &model.UpdateAppointmentRequest{Reason: "follow-up"})
	require.NoError(t, err)
	assert.Equal(t, "follow-up", apt.Reason)
	repo.AssertNotCalled(t, "FindBySlot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAppointment_DateConflict(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	svc := newTestService(repo, new(mocks.DoctorRepository), new(mocks.UserRepository), new(gatewayMock))

	id := uuid.New()
	doctorID := uuid.New()
	stored := &model.Appointment{
		Base:     model.Base{ID: id},
		DoctorID: doctorID,
		Date:     time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC),
	}
	repo.On("Get", mock.Anything, id).Return(stored, nil)
	repo.On("FindBySlot", mock.Anything, doctorID, mock.Anything, &id).
		Return(&model.Appointment{}, nil)

	_, err := svc.UpdateAppointment(context.Background(), id, &model.UpdateAppointmentRequest{Date: "2026-09-15T10:00:00"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAppointment_NotFound(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	svc := newTestService(repo, new(mocks.DoctorRepository), new(mocks.UserRepository), new(gatewayMock))

	id := uuid.New()
	repo.On("Get", mock.Anything, id).Return(nil, nil)

	_, err := svc.UpdateAppointment(context.Background(), id, &model.UpdateAppointmentRequest{Reason: "x"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestDeleteAppointment_NotFound(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	svc := newTestService(repo, new(mocks.DoctorRepository), new(mocks.UserRepository), new(gatewayMock))

	id := uuid.New()
	repo.On("Delete", mock.Anything, id, mock.Anything).Return(repository.ErrNotFound)

	err := svc.DeleteAppointment(context.Background(), id)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestListAppointmentsByDoctorUser_Unlinked(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	doctorRepo := new(mocks.DoctorRepository)
	svc := newTestService(repo, doctorRepo, new(mocks.UserRepository), new(gatewayMock))

	userID := uuid.New()
	doctorRepo.On("GetByUserID", mock.Anything, userID).Return(nil, nil)

	_, err := svc.ListAppointmentsByDoctorUser(context.Background(), userID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestParseAppointmentTime_AcceptedLayouts(t *testing.T) {
	for _, value := range []string{
		"2026-09-14T10:30:00Z",
		"2026-09-14T10:30:00",
		"2026-09-14 10:30",
		"2026-09-14",
	} {
		_, err := ParseAppointmentTime(value)
		assert.NoError(t, err, value)
	}
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/email"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
	"github.com/jwalitptl/clinic-api/pkg/payment"
)

// acceptedTimeLayouts are the formats clients send appointment times in.
var acceptedTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Service orchestrates the booking flow: conflict check, payment gate,
// persist. Exactly one appointment record is created per successful flow,
// or none at all.
type Service struct {
	repo       repository.AppointmentRepository
	doctorRepo repository.DoctorRepository
	userRepo   repository.UserRepository
	gateway    payment.Gateway
	emailSvc   email.Service
	logger     *logger.Logger
	metrics    *metrics.Metrics

	// chargeAmount is the fixed token amount the gateway charges per
	// booking, distinct from the quoted appointment price.
	chargeAmount float64
}

type Option func(*Service)

func WithEmail(svc email.Service) Option {
	return func(s *Service) { s.emailSvc = svc }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(
	repo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	gateway payment.Gateway,
	log *logger.Logger,
	chargeAmount float64,
	opts ...Option,
) *Service {
	s := &Service{
		repo:         repo,
		doctorRepo:   doctorRepo,
		userRepo:     userRepo,
		gateway:      gateway,
		logger:       log,
		chargeAmount: chargeAmount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseAppointmentTime converts a client-supplied time string. Unparsable
// input is InvalidInput, matching the 400 contract on the create path.
func ParseAppointmentTime(value string) (time.Time, error) {
	for _, layout := range acceptedTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.InvalidInput("invalid appointment time format", nil)
}

// CreateAppointment books a slot. The flow is conflict check, then payment,
// then persist: no payment is attempted for an occupied slot, and no record
// is written for a failed payment. idempotencyKey, when supplied by the
// caller, is forwarded to the gateway so client retries don't double-charge.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest, idempotencyKey string) (*model.Appointment, error) {
	date, err := ParseAppointmentTime(req.AppointmentTime)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindBySlot(ctx, req.DoctorID, date, nil)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		s.countConflict()
		return nil, apperrors.Conflict("an appointment already exists for this doctor at this time")
	}

	result, err := s.charge(ctx, req.Phone, idempotencyKey, date)
	if err != nil {
		return nil, err
	}
	if !result.Ok {
		return nil, apperrors.PaymentFailed(result.Detail, nil)
	}

	apt := &model.Appointment{
		UserID:   req.UserID,
		DoctorID: req.DoctorID,
		Date:     date,
		Reason:   req.Reason,
		Phone:    req.Phone,
		Price:    model.ParsePrice(req.Price),
		Status:   model.AppointmentStatusConfirmed,
	}

	event, err := model.NewOutboxEvent(model.EventAppointmentCreated, apt)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.repo.Create(ctx, apt, event); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			// Lost the race to a concurrent booking; the unique index is
			// the authority.
			s.countConflict()
			return nil, apperrors.Conflict("an appointment already exists for this doctor at this time")
		}
		return nil, apperrors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.notifyConfirmed(apt)

	return apt, nil
}

func (s *Service) charge(ctx context.Context, phone, idempotencyKey string, date time.Time) (*payment.ChargeResult, error) {
	start := time.Now()
	result, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		Phone:       phone,
		Amount:      s.chargeAmount,
		ReferenceID: idempotencyKey,
		Description: fmt.Sprintf("appointment booking %s", date.Format(time.RFC3339)),
	})
	if s.metrics != nil {
		s.metrics.PaymentLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.countPayment("error")
		return nil, apperrors.Internal(fmt.Errorf("payment gateway call failed: %w", err))
	}
	if result.Ok {
		s.countPayment("approved")
	} else {
		s.countPayment("declined")
	}
	return result, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if apt == nil {
		return nil, apperrors.NotFound("appointment")
	}
	return apt, nil
}

func (s *Service) ListAppointments(ctx context.Context) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

func (s *Service) ListAppointmentsByUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

// ListAppointmentsByDoctorUser resolves the doctor linked to userID and
// returns that doctor's appointments.
func (s *Service) ListAppointmentsByDoctorUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	doctor, err := s.doctorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if doctor == nil {
		return nil, apperrors.NotFound("doctor")
	}
	appointments, err := s.repo.ListByDoctor(ctx, doctor.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

// UpdateAppointment applies merge-non-empty semantics: only supplied fields
// change. A date change re-runs the slot conflict check against other
// records; nothing else re-validates, and payment is never re-run.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if apt == nil {
		return nil, apperrors.NotFound("appointment")
	}

	if req.Date != "" {
		newDate, err := ParseAppointmentTime(req.Date)
		if err != nil {
			return nil, err
		}
		if !newDate.Equal(apt.Date) {
			conflict, err := s.repo.FindBySlot(ctx, apt.DoctorID, newDate, &apt.ID)
			if err != nil {
				return nil, apperrors.Internal(err)
			}
			if conflict != nil {
				s.countConflict()
				return nil, apperrors.Conflict("another appointment exists for this doctor at that time")
			}
			apt.Date = newDate
		}
	}

	if req.Reason != "" {
		apt.Reason = req.Reason
	}
	if req.Phone != "" {
		apt.Phone = req.Phone
	}
	if req.Price != "" {
		apt.Price = model.ParsePrice(req.Price)
	}
	cancelled := false
	if req.Status != "" {
		cancelled = model.AppointmentStatus(req.Status) == model.AppointmentStatusCancelled &&
			apt.Status != model.AppointmentStatusCancelled
		apt.Status = model.AppointmentStatus(req.Status)
	}

	eventType := model.EventAppointmentUpdated
	if cancelled {
		eventType = model.EventAppointmentCancelled
	}
	event, err := model.NewOutboxEvent(eventType, apt)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.repo.Update(ctx, apt, event); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			s.countConflict()
			return nil, apperrors.Conflict("another appointment exists for this doctor at that time")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("appointment")
		default:
			return nil, apperrors.Internal(err)
		}
	}

	if cancelled {
		s.notifyCancelled(apt)
	}

	return apt, nil
}

// DeleteAppointment hard-deletes the record, freeing the slot.
func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	event, err := model.NewOutboxEvent(model.EventAppointmentDeleted, map[string]interface{}{"id": id})
	if err != nil {
		return apperrors.Internal(err)
	}

	if err := s.repo.Delete(ctx, id, event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("appointment")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) countConflict() {
	if s.metrics != nil {
		s.metrics.BookingConflicts.Inc()
	}
}

func (s *Service) countPayment(outcome string) {
	if s.metrics != nil {
		s.metrics.PaymentAttempts.WithLabelValues(outcome).Inc()
	}
}

// notifyConfirmed emails the booking owner. Best effort: failures are
// logged, never surfaced.
func (s *Service) notifyConfirmed(apt *model.Appointment) {
	s.notify(apt, func(ctx context.Context, to string, doctorName string) error {
		return s.emailSvc.SendBookingConfirmation(ctx, to, apt, doctorName)
	})
}

func (s *Service) notifyCancelled(apt *model.Appointment) {
	s.notify(apt, func(ctx context.Context, to string, doctorName string) error {
		return s.emailSvc.SendBookingCancelled(ctx, to, apt, doctorName)
	})
}

func (s *Service) notify(apt *model.Appointment, send func(ctx context.Context, to, doctorName string) error) {
	if s.emailSvc == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		user, err := s.userRepo.Get(ctx, apt.UserID)
		if err != nil || user == nil {
			s.logger.Warn(err, "skipping booking email, user lookup failed", "user_id", apt.UserID.String())
			return
		}

		doctorName := "your doctor"
		if doctor, err := s.doctorRepo.Get(ctx, apt.DoctorID); err == nil && doctor != nil {
			doctorName = doctor.Name
		}

		if err := send(ctx, user.Email, doctorName); err != nil {
			s.logger.Warn(err, "failed to send booking email", "appointment_id", apt.ID.String())
		}
	}()
}

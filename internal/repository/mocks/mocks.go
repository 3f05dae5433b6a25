// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/clinic-api/internal/model"
)

type AppointmentRepository struct {
	mock.Mock
}

func (m *AppointmentRepository) Create(ctx context.Context, apt *model.Appointment, event *model.OutboxEvent) error {
	return m.Called(ctx, apt, event).Error(0)
}

func (m *AppointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	args := m.Called(ctx, id)
	apt, _ := args.Get(0).(*model.Appointment)
	return apt, args.Error(1)
}

func (m *AppointmentRepository) Update(ctx context.Context, apt *model.Appointment, event *model.OutboxEvent) error {
	return m.Called(ctx, apt, event).Error(0)
}

func (m *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID, event *model.OutboxEvent) error {
	return m.Called(ctx, id, event).Error(0)
}

func (m *AppointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	args := m.Called(ctx)
	apts, _ := args.Get(0).([]*model.Appointment)
	return apts, args.Error(1)
}

func (m *AppointmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	args := m.Called(ctx, userID)
	apts, _ := args.Get(0).([]*model.Appointment)
	return apts, args.Error(1)
}

func (m *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	args := m.Called(ctx, doctorID)
	apts, _ := args.Get(0).([]*model.Appointment)
	return apts, args.Error(1)
}

func (m *AppointmentRepository) FindBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, excludeID *uuid.UUID) (*model.Appointment, error) {
	args := m.Called(ctx, doctorID, date, excludeID)
	apt, _ := args.Get(0).(*model.Appointment)
	return apt, args.Error(1)
}

func (m *AppointmentRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	args := m.Called(ctx, from, to)
	apts, _ := args.Get(0).([]*model.Appointment)
	return apts, args.Error(1)
}

func (m *AppointmentRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *AppointmentRepository) CountByStatus(ctx context.Context, status model.AppointmentStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *AppointmentRepository) CountScheduledBetween(ctx context.Context, start, end time.Time, doctorID *uuid.UUID) (int, error) {
	args := m.Called(ctx, start, end, doctorID)
	return args.Int(0), args.Error(1)
}

func (m *AppointmentRepository) RevenueTotal(ctx context.Context, doctorID *uuid.UUID) (*model.RevenueTotal, error) {
	args := m.Called(ctx, doctorID)
	total, _ := args.Get(0).(*model.RevenueTotal)
	return total, args.Error(1)
}

func (m *AppointmentRepository) CountByDoctor(ctx context.Context, limit int) ([]*model.DoctorSlice, error) {
	args := m.Called(ctx, limit)
	slices, _ := args.Get(0).([]*model.DoctorSlice)
	return slices, args.Error(1)
}

func (m *AppointmentRepository) TopDoctors(ctx context.Context, limit int) ([]*model.TopDoctor, error) {
	args := m.Called(ctx, limit)
	top, _ := args.Get(0).([]*model.TopDoctor)
	return top, args.Error(1)
}

func (m *AppointmentRepository) CountForDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	args := m.Called(ctx, doctorID)
	return args.Int(0), args.Error(1)
}

type DoctorRepository struct {
	mock.Mock
}

func (m *DoctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *DoctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*model.Doctor)
	return doc, args.Error(1)
}

func (m *DoctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	args := m.Called(ctx, userID)
	doc, _ := args.Get(0).(*model.Doctor)
	return doc, args.Error(1)
}

func (m *DoctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *DoctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *DoctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	args := m.Called(ctx)
	docs, _ := args.Get(0).([]*model.Doctor)
	return docs, args.Error(1)
}

func (m *DoctorRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*model.User)
	return users, args.Error(1)
}

type OutboxRepository struct {
	mock.Mock
}

func (m *OutboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	events, _ := args.Get(0).([]*model.OutboxEvent)
	return events, args.Error(1)
}

func (m *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return m.Called(ctx, id, errMsg).Error(0)
}

func (m *OutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

package report

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
	"github.com/jwalitptl/clinic-api/internal/repository/mocks"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func fixedNow() time.Time {
	// A Wednesday.
	return time.Date(2026, 8, 26, 14, 30, 0, 0, time.UTC)
}

func newTestService(repo *mocks.AppointmentRepository, doctorRepo *mocks.DoctorRepository) *Service {
	return NewService(repo, doctorRepo, testLogger(), WithClock(fixedNow))
}

func TestResolveRange(t *testing.T) {
	now := fixedNow()
	endOfToday := time.Date(2026, 8, 26, 23, 59, 59, 999e6, time.UTC)

	tests := []struct {
		name     string
		rng      model.ReportRange
		start    string
		end      string
		wantFrom time.Time
		wantTo   time.Time
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "week is the trailing seven days",
			rng:      model.RangeWeek,
			wantFrom: now.AddDate(0, 0, -7),
			wantTo:   endOfToday,
		},
		{
			name:     "month starts on the first",
			rng:      model.RangeMonth,
			wantFrom: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   endOfToday,
		},
		{
			name:     "year starts january first",
			rng:      model.RangeYear,
			wantFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   endOfToday,
		},
		{
			name:     "all anchors at the epoch date",
			rng:      model.RangeAll,
			wantFrom: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   endOfToday,
		},
		{
			name:     "custom closes at end of its final day",
			rng:      model.RangeCustom,
			start:    "2026-03-01",
			end:      "2026-03-15",
			wantFrom: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 3, 15, 23, 59, 59, 999e6, time.UTC),
		},
		{
			name:     "custom without start",
			rng:      model.RangeCustom,
			end:      "2026-03-15",
			wantCode: apperrors.ErrMissingParameter,
		},
		{
			name:     "custom without end",
			rng:      model.RangeCustom,
			start:    "2026-03-01",
			wantCode: apperrors.ErrMissingParameter,
		},
		{
			name:     "custom with malformed bound",
			rng:      model.RangeCustom,
			start:    "not-a-date",
			end:      "2026-03-15",
			wantCode: apperrors.ErrInvalidInput,
		},
		{
			name:     "unknown token",
			rng:      model.ReportRange("fortnight"),
			wantCode: apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := ResolveRange(tt.rng, tt.start, tt.end, now)
			if tt.wantCode != "" {
				assert.True(t, apperrors.IsCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

func TestGetAppointmentReport_LenientRevenue(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	svc := newTestService(repo, new(mocks.DoctorRepository))

	// Prices parsed leniently at write time: junk became zero, not an error.
	appointments := []*model.Appointment{
		{Price: model.ParsePrice("10")},
		{Price: model.ParsePrice("garbage")},
		{Price: model.ParsePrice("")},
		{Price: model.ParsePrice("5.5")},
	}
	repo.On("ListCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(appointments, nil)

	result, err := svc.GetAppointmentReport(context.Background(), model.RangeWeek, "", "")
	require.NoError(t, err)
	assert.Equal(t, 4, result.Count)
	assert.InDelta(t, 15.5, result.TotalRevenue, 1e-9)
}

func TestGetAppointmentReport_InvalidRange(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	svc := newTestService(repo, new(mocks.DoctorRepository))

	_, err := svc.GetAppointmentReport(context.Background(), "decade", "", "")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
	repo.AssertNotCalled(t, "ListCreatedBetween", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetDashboard_ComposesAllSections(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	doctorRepo := new(mocks.DoctorRepository)
	svc := newTestService(repo, doctorRepo)

	repo.On("Count", mock.Anything).Return(42, nil)
	doctorRepo.On("Count", mock.Anything).Return(7, nil)
	repo.On("RevenueTotal", mock.Anything, (*uuid.UUID)(nil)).Return(&model.RevenueTotal{Total: 1200.5, Count: 30}, nil)
	repo.On("CountByStatus", mock.Anything, model.AppointmentStatusPending).Return(3, nil)
	repo.On("CountByDoctor", mock.Anything, pieChartLimit).Return([]*model.DoctorSlice{
		{Name: "Dr. Ayan", Count: 12},
		{Name: "Unknown Doctor", Count: 4},
	}, nil)
	repo.On("CountScheduledBetween", mock.Anything, mock.Anything, mock.Anything, (*uuid.UUID)(nil)).Return(5, nil)
	repo.On("TopDoctors", mock.Anything, topDoctorsLimit).Return([]*model.TopDoctor{{Name: "Dr. Ayan", Count: 12}}, nil)

	dashboard, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 42, dashboard.Summary.TotalAppointments)
	assert.Equal(t, 7, dashboard.Summary.TotalDoctors)
	assert.Equal(t, 3, dashboard.Summary.PendingAppointments)
	assert.Equal(t, []string{"Dr. Ayan", "Unknown Doctor"}, dashboard.PieChartData.Labels)
	assert.Equal(t, []int{12, 4}, dashboard.PieChartData.Values)
	assert.Equal(t, []string{"Today", "This Week", "This Month", "This Year", "All Time"}, dashboard.BarChartData.Labels)
	assert.Len(t, dashboard.TopDoctors, 1)
}

func TestGetDashboard_SubQueryFailureDegrades(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	doctorRepo := new(mocks.DoctorRepository)
	svc := newTestService(repo, doctorRepo)

	// Summary path fails outright; everything else succeeds.
	repo.On("Count", mock.Anything).Return(0, assert.AnError)
	doctorRepo.On("Count", mock.Anything).Return(7, nil)
	repo.On("RevenueTotal", mock.Anything, (*uuid.UUID)(nil)).Return(&model.RevenueTotal{}, nil)
	repo.On("CountByStatus", mock.Anything, model.AppointmentStatusPending).Return(0, nil)
	repo.On("CountByDoctor", mock.Anything, pieChartLimit).Return([]*model.DoctorSlice{{Name: "Dr. Ayan", Count: 2}}, nil)
	repo.On("CountScheduledBetween", mock.Anything, mock.Anything, mock.Anything, (*uuid.UUID)(nil)).Return(1, nil)
	repo.On("TopDoctors", mock.Anything, topDoctorsLimit).Return(nil, assert.AnError)

	dashboard, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	// Failed sections serve zero values, successful ones real data.
	assert.Equal(t, 0, dashboard.Summary.TotalAppointments)
	assert.Empty(t, dashboard.TopDoctors)
	assert.Equal(t, []int{2}, dashboard.PieChartData.Values)
}

func TestGetDashboard_CachesResult(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	doctorRepo := new(mocks.DoctorRepository)
	svc := newTestService(repo, doctorRepo)

	repo.On("Count", mock.Anything).Return(1, nil).Once()
	doctorRepo.On("Count", mock.Anything).Return(1, nil).Once()
	repo.On("RevenueTotal", mock.Anything, (*uuid.UUID)(nil)).Return(&model.RevenueTotal{}, nil).Once()
	repo.On("CountByStatus", mock.Anything, model.AppointmentStatusPending).Return(0, nil).Once()
	repo.On("CountByDoctor", mock.Anything, pieChartLimit).Return(nil, nil).Once()
	repo.On("CountScheduledBetween", mock.Anything, mock.Anything, mock.Anything, (*uuid.UUID)(nil)).Return(0, nil).Times(5)
	repo.On("TopDoctors", mock.Anything, topDoctorsLimit).Return(nil, nil).Once()

	first, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	// Second call inside the TTL is served from cache; the mocks would fail
	// the test if the sub-queries ran again.
	second, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestGetDoctorDashboard_UnlinkedUser(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	doctorRepo := new(mocks.DoctorRepository)
	svc := newTestService(repo, doctorRepo)

	userID := uuid.New()
	doctorRepo.On("GetByUserID", mock.Anything, userID).Return(nil, nil)

	_, err := svc.GetDoctorDashboard(context.Background(), userID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestGetDoctorDashboard_ScopedToDoctor(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	doctorRepo := new(mocks.DoctorRepository)
	svc := newTestService(repo, doctorRepo)

	userID := uuid.New()
	doctorID := uuid.New()
	doctorRepo.On("GetByUserID", mock.Anything, userID).
		Return(&model.Doctor{Base: model.Base{ID: doctorID}, UserID: userID}, nil)
	repo.On("CountForDoctor", mock.Anything, doctorID).Return(9, nil)
	repo.On("RevenueTotal", mock.Anything, &doctorID).Return(&model.RevenueTotal{Total: 90, Count: 9}, nil)
	repo.On("CountScheduledBetween", mock.Anything, mock.Anything, mock.Anything, &doctorID).Return(2, nil)

	dashboard, err := svc.GetDoctorDashboard(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 9, dashboard.Summary.TotalAppointments)
	assert.InDelta(t, 90, dashboard.Summary.TotalRevenue, 1e-9)
	assert.Len(t, dashboard.BarChartData.Values, 5)
}

func TestBarChartBucketsAreCumulative(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	svc := newTestService(repo, new(mocks.DoctorRepository))

	now := fixedNow()
	expected := map[time.Time]int{
		startOfDay(now):   1,
		startOfWeek(now):  3,
		startOfMonth(now): 5,
		startOfYear(now):  8,
		time.Unix(0, 0):   13,
	}
	for start, count := range expected {
		repo.On("CountScheduledBetween", mock.Anything, start, now, (*uuid.UUID)(nil)).Return(count, nil)
	}

	bar, err := svc.getBarChart(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5, 8, 13}, bar.Values)

	// Sunday start: 2026-08-26 is a Wednesday, so the week bucket opens on
	// the 23rd.
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), bar.Ranges[1].Start)
}

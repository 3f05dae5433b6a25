// Package report computes time-windowed appointment reports and composes
// the clinic-wide and per-doctor dashboards.
package report

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

const (
	pieChartLimit   = 8
	topDoctorsLimit = 20

	dashboardCacheKey = "dashboard"
	dashboardCacheTTL = 30 * time.Second

	// allTimeEpoch anchors the "all" report range.
	allTimeEpoch = "2000-01-01"
)

var customRangeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

type Service struct {
	repo       repository.AppointmentRepository
	doctorRepo repository.DoctorRepository
	logger     *logger.Logger
	metrics    *metrics.Metrics
	cache      *gocache.Cache

	// now is swappable so range resolution is testable.
	now func() time.Time
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo repository.AppointmentRepository, doctorRepo repository.DoctorRepository, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		doctorRepo: doctorRepo,
		logger:     log,
		cache:      gocache.New(dashboardCacheTTL, time.Minute),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveRange turns a range token into [from, to] bounds relative to now.
// The window always closes at the end of today; a custom range closes at
// the end of its final day.
func ResolveRange(rng model.ReportRange, start, end string, now time.Time) (time.Time, time.Time, error) {
	to := endOfDay(now)

	var from time.Time
	switch rng {
	case model.RangeWeek:
		from = now.AddDate(0, 0, -7)
	case model.RangeMonth:
		from = startOfMonth(now)
	case model.RangeYear:
		from = startOfYear(now)
	case model.RangeAll:
		from, _ = time.ParseInLocation("2006-01-02", allTimeEpoch, now.Location())
	case model.RangeCustom:
		if start == "" {
			return time.Time{}, time.Time{}, apperrors.MissingParameter("start")
		}
		if end == "" {
			return time.Time{}, time.Time{}, apperrors.MissingParameter("end")
		}
		var err error
		from, err = parseRangeBound(start, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid start date", err)
		}
		to, err = parseRangeBound(end, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid end date", err)
		}
		to = endOfDay(to)
	default:
		return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid range type", nil)
	}

	return from, to, nil
}

// GetAppointmentReport reports over the record-creation window, not the
// scheduled slot: a booking made yesterday for next month counts yesterday.
func (s *Service) GetAppointmentReport(ctx context.Context, rng model.ReportRange, start, end string) (*model.AppointmentReport, error) {
	defer s.observe("report")()

	from, to, err := ResolveRange(rng, start, end, s.now())
	if err != nil {
		return nil, err
	}

	appointments, err := s.repo.ListCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var revenue float64
	for _, apt := range appointments {
		revenue += apt.Price.Float()
	}

	return &model.AppointmentReport{
		Count:        len(appointments),
		TotalRevenue: revenue,
		FromDate:     from,
		ToDate:       to,
		Appointments: appointments,
	}, nil
}

// GetDashboard composes the clinic-wide view. The four sub-aggregations run
// concurrently and degrade independently: a failed sub-query yields its
// zero section and a log line, never a failed response.
func (s *Service) GetDashboard(ctx context.Context) (*model.Dashboard, error) {
	defer s.observe("dashboard")()

	if cached, ok := s.cache.Get(dashboardCacheKey); ok {
		return cached.(*model.Dashboard), nil
	}

	dashboard := &model.Dashboard{
		Summary:      &model.DashboardSummary{},
		PieChartData: emptyPie(),
		BarChartData: emptyBar(),
		TopDoctors:   []*model.TopDoctor{},
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		if summary, err := s.getSummary(ctx); err != nil {
			s.logger.Error(err, "dashboard summary failed, serving zeros")
		} else {
			dashboard.Summary = summary
		}
	}()

	go func() {
		defer wg.Done()
		if pie, err := s.getDoctorPie(ctx); err != nil {
			s.logger.Error(err, "doctor pie chart failed, serving empty")
		} else {
			dashboard.PieChartData = pie
		}
	}()

	go func() {
		defer wg.Done()
		if bar, err := s.getBarChart(ctx, nil); err != nil {
			s.logger.Error(err, "bar chart failed, serving empty")
		} else {
			dashboard.BarChartData = bar
		}
	}()

	go func() {
		defer wg.Done()
		if top, err := s.repo.TopDoctors(ctx, topDoctorsLimit); err != nil {
			s.logger.Error(err, "top doctors failed, serving empty")
		} else if top != nil {
			dashboard.TopDoctors = top
		}
	}()

	wg.Wait()

	s.cache.Set(dashboardCacheKey, dashboard, dashboardCacheTTL)
	return dashboard, nil
}

// GetDoctorDashboard scopes the summary and bar chart to the doctor linked
// to userID.
func (s *Service) GetDoctorDashboard(ctx context.Context, userID uuid.UUID) (*model.DoctorDashboard, error) {
	defer s.observe("doctor_dashboard")()

	doctor, err := s.doctorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if doctor == nil {
		return nil, apperrors.NotFound("doctor")
	}

	dashboard := &model.DoctorDashboard{
		Summary:      &model.DoctorSummary{},
		BarChartData: emptyBar(),
	}

	if count, err := s.repo.CountForDoctor(ctx, doctor.ID); err != nil {
		s.logger.Error(err, "doctor appointment count failed, serving zero")
	} else {
		dashboard.Summary.TotalAppointments = count
	}

	if revenue, err := s.repo.RevenueTotal(ctx, &doctor.ID); err != nil {
		s.logger.Error(err, "doctor revenue failed, serving zero")
	} else {
		dashboard.Summary.TotalRevenue = revenue.Total
		dashboard.Summary.PaidAppointments = revenue.Count
	}

	if bar, err := s.getBarChart(ctx, &doctor.ID); err != nil {
		s.logger.Error(err, "doctor bar chart failed, serving empty")
	} else {
		dashboard.BarChartData = bar
	}

	return dashboard, nil
}

func (s *Service) getSummary(ctx context.Context) (*model.DashboardSummary, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	doctors, err := s.doctorRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.RevenueTotal(ctx, nil)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.CountByStatus(ctx, model.AppointmentStatusPending)
	if err != nil {
		return nil, err
	}

	return &model.DashboardSummary{
		TotalAppointments:   total,
		TotalDoctors:        doctors,
		TotalRevenue:        revenue.Total,
		PaidAppointments:    revenue.Count,
		PendingAppointments: pending,
	}, nil
}

func (s *Service) getDoctorPie(ctx context.Context) (*model.PieChartData, error) {
	slices, err := s.repo.CountByDoctor(ctx, pieChartLimit)
	if err != nil {
		return nil, err
	}

	pie := emptyPie()
	for _, slice := range slices {
		pie.Labels = append(pie.Labels, slice.Name)
		pie.Values = append(pie.Values, slice.Count)
	}
	pie.Doctors = slices
	return pie, nil
}

// getBarChart counts scheduled appointments per cumulative bucket. Buckets
// share one "now" so This Year >= This Month >= Today always holds.
func (s *Service) getBarChart(ctx context.Context, doctorID *uuid.UUID) (*model.BarChartData, error) {
	now := s.now()
	buckets := []model.TimeBucket{
		{Name: "Today", Start: startOfDay(now)},
		{Name: "This Week", Start: startOfWeek(now)},
		{Name: "This Month", Start: startOfMonth(now)},
		{Name: "This Year", Start: startOfYear(now)},
		{Name: "All Time", Start: time.Unix(0, 0)},
	}

	bar := emptyBar()
	for _, bucket := range buckets {
		count, err := s.repo.CountScheduledBetween(ctx, bucket.Start, now, doctorID)
		if err != nil {
			return nil, err
		}
		bar.Labels = append(bar.Labels, bucket.Name)
		bar.Values = append(bar.Values, count)
	}
	bar.Ranges = buckets
	return bar, nil
}

func (s *Service) observe(kind string) func() {
	if s.metrics == nil {
		return func() {}
	}
	s.metrics.ReportRequests.WithLabelValues(kind).Inc()
	start := time.Now()
	return func() {
		s.metrics.ReportLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}

func emptyPie() *model.PieChartData {
	return &model.PieChartData{Labels: []string{}, Values: []int{}, Doctors: []*model.DoctorSlice{}}
}

func emptyBar() *model.BarChartData {
	return &model.BarChartData{Labels: []string{}, Values: []int{}, Ranges: []model.TimeBucket{}}
}

func parseRangeBound(value string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range customRangeLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999e6, t.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Sunday at midnight.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

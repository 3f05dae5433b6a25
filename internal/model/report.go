package model

import (
	"time"

	"github.com/google/uuid"
)

// ReportRange names a reporting window resolved relative to "now".
type ReportRange string

const (
	RangeWeek   ReportRange = "week"
	RangeMonth  ReportRange = "month"
	RangeYear   ReportRange = "year"
	RangeAll    ReportRange = "all"
	RangeCustom ReportRange = "custom"
)

// AppointmentReport is the ranged report over record creation time.
type AppointmentReport struct {
	Count        int            `json:"count"`
	TotalRevenue float64        `json:"totalRevenue"`
	FromDate     time.Time      `json:"fromDate"`
	ToDate       time.Time      `json:"toDate"`
	Appointments []*Appointment `json:"appointments"`
}

// DashboardSummary holds live clinic-wide totals, not time-windowed.
type DashboardSummary struct {
	TotalAppointments   int     `json:"totalAppointments"`
	TotalDoctors        int     `json:"totalDoctors"`
	TotalRevenue        float64 `json:"totalRevenue"`
	PaidAppointments    int     `json:"paidAppointments"`
	PendingAppointments int     `json:"pendingAppointments"`
}

// DoctorSlice is one pie segment: appointments grouped by doctor.
type DoctorSlice struct {
	DoctorID uuid.UUID `json:"doctorId" db:"doctor_id"`
	Name     string    `json:"name" db:"name"`
	Count    int       `json:"count" db:"count"`
}

// PieChartData carries parallel label/value arrays plus raw per-doctor rows.
type PieChartData struct {
	Labels  []string       `json:"labels"`
	Values  []int          `json:"values"`
	Doctors []*DoctorSlice `json:"doctors"`
}

// TimeBucket is a named cumulative window: everything scheduled at or after
// Start counts, so buckets overlap by construction.
type TimeBucket struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
}

type BarChartData struct {
	Labels []string     `json:"labels"`
	Values []int        `json:"values"`
	Ranges []TimeBucket `json:"ranges"`
}

// TopDoctor is one ranking row with display fields joined in.
type TopDoctor struct {
	DoctorID       uuid.UUID `json:"doctorId" db:"doctor_id"`
	Name           string    `json:"name" db:"name"`
	Specialization string    `json:"specialization" db:"specialization"`
	Image          string    `json:"image,omitempty" db:"image"`
	Count          int       `json:"count" db:"count"`
	TotalRevenue   float64   `json:"totalRevenue" db:"total_revenue"`
}

// Dashboard is the clinic-wide composite view.
type Dashboard struct {
	Summary      *DashboardSummary `json:"summary"`
	PieChartData *PieChartData     `json:"pieChartData"`
	BarChartData *BarChartData     `json:"barChartData"`
	TopDoctors   []*TopDoctor      `json:"topDoctors"`
}

// DoctorDashboard is the single-doctor view resolved from a user id.
type DoctorDashboard struct {
	Summary      *DoctorSummary `json:"summary"`
	BarChartData *BarChartData  `json:"barChartData"`
}

type DoctorSummary struct {
	TotalAppointments int     `json:"totalAppointments"`
	TotalRevenue      float64 `json:"totalRevenue"`
	PaidAppointments  int     `json:"paidAppointments"`
}

// RevenueTotal is an aggregation row: summed revenue plus the number of
// priced rows that contributed.
type RevenueTotal struct {
	Total float64 `json:"total" db:"total"`
	Count int     `json:"count" db:"count"`
}

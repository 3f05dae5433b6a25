package appointment

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/booking"
	"github.com/jwalitptl/clinic-api/internal/service/report"
	"github.com/jwalitptl/clinic-api/pkg/httputil"
)

// msisdnPattern matches international mobile numbers with an optional
// leading plus, the shape the payment gateway expects.
var msisdnPattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
			return msisdnPattern.MatchString(fl.Field().String())
		})
	}
}

// HeaderIdempotencyKey is forwarded to the payment gateway as the invoice
// reference so client retries of the same booking don't double-charge.
const HeaderIdempotencyKey = "Idempotency-Key"

type Handler struct {
	service   *booking.Service
	reportSvc *report.Service
}

func NewHandler(service *booking.Service, reportSvc *report.Service) *Handler {
	return &Handler{service: service, reportSvc: reportSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/report/:range", h.GetReport)
		appointments.GET("/user/:userId", h.ListByUser)
		appointments.GET("/doctor/user/:userId", h.ListByDoctorUser)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	apt, err := h.service.CreateAppointment(c.Request.Context(), &req, c.GetHeader(HeaderIdempotencyKey))
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.Created(c, apt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.service.ListAppointments(c.Request.Context())
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, appointments)
}

func (h *Handler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httputil.BadRequest(c, "invalid user ID")
		return
	}

	appointments, err := h.service.ListAppointmentsByUser(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, appointments)
}

// ListByDoctorUser lists the appointments of the doctor linked to the given
// user account, which is how a logged-in doctor fetches their own schedule.
func (h *Handler) ListByDoctorUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httputil.BadRequest(c, "invalid user ID")
		return
	}

	appointments, err := h.service.ListAppointmentsByDoctorUser(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, appointments)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	apt, err := h.service.UpdateAppointment(c.Request.Context(), id, &req)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, apt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, gin.H{"deleted": id})
}

// GetReport serves the ranged appointment report. Custom ranges take start
// and end query parameters as YYYY-MM-DD.
func (h *Handler) GetReport(c *gin.Context) {
	rng := model.ReportRange(c.Param("range"))

	result, err := h.reportSvc.GetAppointmentReport(c.Request.Context(), rng, c.Query("start"), c.Query("end"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, result)
}

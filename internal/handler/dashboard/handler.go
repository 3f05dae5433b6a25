package dashboard

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/service/report"
	"github.com/jwalitptl/clinic-api/pkg/httputil"
)

type Handler struct {
	service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("", h.GetDashboard)
		dashboard.GET("/doctor", h.GetDoctorDashboard)
	}
}

func (h *Handler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, dashboard)
}

// GetDoctorDashboard scopes the dashboard to the doctor linked to the
// userId query parameter.
func (h *Handler) GetDoctorDashboard(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		httputil.BadRequest(c, "invalid user ID")
		return
	}

	dashboard, err := h.service.GetDoctorDashboard(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, dashboard)
}

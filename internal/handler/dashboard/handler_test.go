package dashboard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository/mocks"
	"github.com/jwalitptl/clinic-api/internal/service/report"
	"github.com/jwalitptl/clinic-api/pkg/logger"
)

func newTestRouter(repo *mocks.AppointmentRepository, doctorRepo *mocks.DoctorRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})

	engine := gin.New()
	NewHandler(report.NewService(repo, doctorRepo, log)).RegisterRoutes(engine.Group("/api"))
	return engine
}

func stubDashboardQueries(repo *mocks.AppointmentRepository, doctorRepo *mocks.DoctorRepository) {
	repo.On("Count", mock.Anything).Return(10, nil)
	doctorRepo.On("Count", mock.Anything).Return(2, nil)
	repo.On("RevenueTotal", mock.Anything, (*uuid.UUID)(nil)).Return(&model.RevenueTotal{Total: 100, Count: 8}, nil)
	repo.On("CountByStatus", mock.Anything, model.AppointmentStatusPending).Return(1, nil)
	repo.On("CountByDoctor", mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("CountScheduledBetween", mock.Anything, mock.Anything, mock.Anything, (*uuid.UUID)(nil)).Return(0, nil)
	repo.On("TopDoctors", mock.Anything, mock.Anything).Return(nil, nil)
}

func TestGetDashboard_OK(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	doctorRepo := new(mocks.DoctorRepository)
	stubDashboardQueries(repo, doctorRepo)
	router := newTestRouter(repo, doctorRepo)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.Dashboard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Data.Summary.TotalAppointments)
	assert.Equal(t, 2, resp.Data.Summary.TotalDoctors)
}

func TestGetDoctorDashboard_BadUserID(t *testing.T) {
	router := newTestRouter(new(mocks.AppointmentRepository), new(mocks.DoctorRepository))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/doctor?userId=nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDoctorDashboard_OK(t *testing.T) {
	repo := new(mocks.AppointmentRepository)
	doctorRepo := new(mocks.DoctorRepository)
	router := newTestRouter(repo, doctorRepo)

	userID := uuid.New()
	doctorID := uuid.New()
	doctorRepo.On("GetByUserID", mock.Anything, userID).
		Return(&model.Doctor{Base: model.Base{ID: doctorID}, UserID: userID}, nil)
	repo.On("CountForDoctor", mock.Anything, doctorID).Return(4, nil)
	repo.On("RevenueTotal", mock.Anything, &doctorID).Return(&model.RevenueTotal{Total: 40, Count: 4}, nil)
	repo.On("CountScheduledBetween", mock.Anything, mock.Anything, mock.Anything, &doctorID).Return(1, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/doctor?userId="+userID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.DoctorDashboard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Data.Summary.TotalAppointments)
}

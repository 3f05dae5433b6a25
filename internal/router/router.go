package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/pkg/logger"
)

// Handler mounts a route group under /api.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// AdminHandler additionally mounts routes gated to the admin role.
type AdminHandler interface {
	Handler
	RegisterAdminRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitRPS float64
	RateBurst    int
	CORS         middleware.CORSConfig
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	appointmentH Handler
	dashboardH   Handler
	doctorH      AdminHandler
	userH        AdminHandler
	healthH      interface{ RegisterRoutes(*gin.Engine) }
}

func NewRouter(
	log *logger.Logger,
	auth *middleware.AuthMiddleware,
	appointmentH Handler,
	dashboardH Handler,
	doctorH AdminHandler,
	userH AdminHandler,
	healthH interface{ RegisterRoutes(*gin.Engine) },
	cfg Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORS),
		middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateBurst).RateLimit(),
	)

	return &Router{
		engine:       engine,
		auth:         auth,
		appointmentH: appointmentH,
		dashboardH:   dashboardH,
		doctorH:      doctorH,
		userH:        userH,
		healthH:      healthH,
	}
}

// Setup mounts all routes. Booking and directory reads are public like the
// original app's routes; directory writes and the user admin surface require
// an admin token.
func (r *Router) Setup() {
	r.healthH.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api")
	{
		r.appointmentH.RegisterRoutes(api)
		r.dashboardH.RegisterRoutes(api)
		r.doctorH.RegisterRoutes(api)
		r.userH.RegisterRoutes(api)
	}

	admin := r.engine.Group("/api")
	admin.Use(r.auth.Authenticate(), r.auth.RequireRole(model.UserRoleAdmin))
	{
		r.doctorH.RegisterAdminRoutes(admin)
		r.userH.RegisterAdminRoutes(admin)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

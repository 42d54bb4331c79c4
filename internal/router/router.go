package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sped-tracker-api/internal/handler"
	"github.com/noah-isme/sped-tracker-api/internal/middleware"
	"github.com/noah-isme/sped-tracker-api/internal/service"
	"github.com/noah-isme/sped-tracker-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sped-tracker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sped-tracker-api/pkg/middleware/requestid"
)

// Options configures the HTTP surface.
type Options struct {
	APIPrefix      string
	MetricsEnabled bool
	MetricsPath    string
	AllowedOrigins []string
	EnableDocs     bool
}

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Auth             *handler.AuthHandler
	Students         *handler.StudentHandler
	Services         *handler.ServiceRecordHandler
	ServiceInstances *handler.ServiceInstanceHandler
	Schedules        *handler.ScheduleHandler
	Teachers         *handler.TeacherHandler
	Dashboard        *handler.DashboardHandler
	Metrics          *handler.MetricsHandler
}

// New builds the gin engine. Read routes are staff-only and write routes
// need a logged-in caller; the services repeat both checks.
func New(opts Options, h Handlers, tokens middleware.TokenValidator, metrics *service.MetricsService, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if opts.MetricsEnabled {
		metricsPath := opts.MetricsPath
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, h.Metrics.Prometheus)
	}
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.Authenticate(tokens), middleware.Audit(log))

	staff := middleware.RequireStaff()
	login := middleware.RequireLogin()

	secured.GET("/dashboard", login, h.Dashboard.Summary)

	students := secured.Group("/students")
	students.GET("", staff, h.Students.List)
	students.GET("/:id", staff, h.Students.Get)
	students.POST("", login, h.Students.Create)
	students.PUT("/:id", login, h.Students.Update)
	students.DELETE("/:id", login, h.Students.Delete)

	services := secured.Group("/services")
	services.GET("", staff, h.Services.List)
	services.GET("/:id", staff, h.Services.Get)
	services.POST("", login, h.Services.Create)
	services.PUT("/:id", login, h.Services.Update)
	services.DELETE("/:id", login, h.Services.Delete)

	instances := secured.Group("/service-instances")
	instances.GET("/:id", staff, h.ServiceInstances.Get)
	instances.POST("", login, h.ServiceInstances.Create)
	instances.PUT("/:id", login, h.ServiceInstances.Update)
	instances.DELETE("/:id", login, h.ServiceInstances.Delete)

	schedules := secured.Group("/schedules")
	schedules.GET("", staff, h.Schedules.List)
	schedules.GET("/active", staff, h.Schedules.Active)
	schedules.GET("/:id", staff, h.Schedules.Get)
	schedules.GET("/:id/week", staff, h.Schedules.Week)
	schedules.GET("/:id/slots", staff, h.Schedules.Slots)
	schedules.GET("/:id/export", staff, h.Schedules.Export)
	schedules.POST("", login, h.Schedules.Create)
	schedules.PUT("/:id", login, h.Schedules.Update)
	schedules.POST("/:id/activate", login, h.Schedules.Activate)
	schedules.DELETE("/:id", login, h.Schedules.Delete)

	teachers := secured.Group("/teachers")
	teachers.GET("", staff, h.Teachers.List)
	teachers.DELETE("/:id", staff, h.Teachers.Delete)

	return r
}

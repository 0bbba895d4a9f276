package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/planify-api/internal/handler"
	internalmiddleware "github.com/noah-isme/planify-api/internal/middleware"
	"github.com/noah-isme/planify-api/internal/service"
	appErrors "github.com/noah-isme/planify-api/pkg/errors"
	"github.com/noah-isme/planify-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/planify-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/planify-api/pkg/middleware/requestid"
	"github.com/noah-isme/planify-api/pkg/response"
)

// Deps carries everything the router mounts. Events may be nil when the event store is disabled.
type Deps struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	RateLimiter    *internalmiddleware.RateLimiter

	Planner *handler.ScheduleGeneratorHandler
	Export  *handler.ExportHandler
	Events  *handler.EventHandler
	Ops     *handler.MetricsHandler
}

// New builds the gin engine with the shared middleware chain and every route.
func New(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.Logger))
	r.Use(corsmiddleware.New(d.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(d.Metrics))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	r.GET("/health", d.Ops.Health)
	r.GET("/ready", d.Ops.Ready)
	r.GET("/metrics", d.Ops.Prometheus)
	if d.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(d.APIPrefix, "/")
	if prefix == "/" {
		prefix = "/api"
	}
	api := r.Group(prefix)

	limited := api.Group("")
	limited.Use(d.RateLimiter.Middleware())
	limited.POST("/generate", d.Planner.Generate)
	limited.POST("/voice-parse", d.Planner.VoiceParse)

	api.GET("/schedules/:id", d.Planner.GetSchedule)
	api.GET("/task-types", d.Planner.TaskTypes)
	api.POST("/export", d.Export.Export)
	api.GET("/export/:token", d.Export.Download)

	if d.Events != nil {
		events := api.Group("/events")
		events.GET("", d.Events.List)
		events.POST("", d.Events.Create)
		events.GET("/:id", d.Events.Get)
		events.PUT("/:id", d.Events.Update)
		events.DELETE("/:id", d.Events.Delete)
		api.GET("/analytics", d.Events.Analytics)
	} else {
		disabled := func(c *gin.Context) {
			response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "event store is disabled"))
		}
		api.Any("/events", disabled)
		api.Any("/events/*path", disabled)
		api.GET("/analytics", disabled)
	}
	return r
}

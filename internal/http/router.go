package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mycoach-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mycoach-backend/internal/http/middleware"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	TracingEnabled bool

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler         *httpH.AuthHandler
	ActivityHandler     *httpH.ActivityHandler
	HealthHandler       *httpH.HealthHandler
	SourcesHandler      *httpH.SourcesHandler
	CoachingHandler     *httpH.CoachingHandler
	ProfileHandler      *httpH.ProfileHandler
	PlanHandler         *httpH.PlanHandler
	AvailabilityHandler *httpH.AvailabilityHandler
	MesocycleHandler    *httpH.MesocycleHandler
	SystemHandler       *httpH.SystemHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware("mycoach-backend"))
	}
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Liveness (no auth)
	if cfg.SystemHandler != nil {
		r.GET("/healthz", cfg.SystemHandler.Healthz)
	}

	api := r.Group("/api")
	{
		// Token exchange (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/token", cfg.AuthHandler.ExchangeToken)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.ActivityHandler != nil {
			protected.GET("/activities", cfg.ActivityHandler.ListActivities)
			protected.GET("/activities/:id", cfg.ActivityHandler.GetActivity)
			protected.DELETE("/activities/:id", cfg.ActivityHandler.DeleteActivity)
		}

		if cfg.HealthHandler != nil {
			protected.GET("/health/daily", cfg.HealthHandler.ListDaily)
			protected.GET("/health/daily/:date", cfg.HealthHandler.GetDaily)
		}

		if cfg.SourcesHandler != nil {
			protected.POST("/sources/import/hevy", cfg.SourcesHandler.ImportHevyCSV)
			protected.POST("/sources/sync/garmin", cfg.SourcesHandler.SyncGarmin)
			protected.GET("/sources/status", cfg.SourcesHandler.Status)
			protected.GET("/sources/events", cfg.SourcesHandler.StreamEvents)
			protected.PUT("/sources/garmin/credentials", cfg.SourcesHandler.PutGarminCredentials)
		}

		if cfg.CoachingHandler != nil {
			protected.GET("/coaching/today", cfg.CoachingHandler.GetTodayBriefing)
			protected.POST("/coaching/today/generate", cfg.CoachingHandler.GenerateTodayBriefing)
			protected.GET("/coaching/sleep", cfg.CoachingHandler.GetSleepCoaching)
			protected.POST("/coaching/sleep/generate", cfg.CoachingHandler.GenerateSleepCoaching)
			protected.POST("/coaching/activities/:id/analyze", cfg.CoachingHandler.AnalyzeActivity)
			protected.GET("/coaching/insights", cfg.CoachingHandler.ListInsights)
		}

		if cfg.ProfileHandler != nil {
			protected.GET("/profile/sports", cfg.ProfileHandler.ListSportProfiles)
			protected.PUT("/profile/sports/:sport", cfg.ProfileHandler.PutSportProfile)
		}

		if cfg.PlanHandler != nil {
			protected.POST("/plans/generate", cfg.PlanHandler.GeneratePlan)
			protected.GET("/plans/current", cfg.PlanHandler.GetCurrentPlan)
			protected.GET("/plans/:id", cfg.PlanHandler.GetPlan)
			protected.GET("/plans/:id/sessions", cfg.PlanHandler.ListPlanSessions)
			protected.PATCH("/plans/:id/sessions/:sid", cfg.PlanHandler.PatchSession)
			protected.GET("/plans/:id/adherence", cfg.PlanHandler.GetAdherence)
			protected.GET("/plans/:id/card.png", cfg.PlanHandler.GetPlanCard)
		}

		if cfg.AvailabilityHandler != nil {
			protected.POST("/availability", cfg.AvailabilityHandler.ReplaceWeek)
			protected.GET("/availability/next-week", cfg.AvailabilityHandler.GetNextWeek)
			protected.GET("/availability/:week_start", cfg.AvailabilityHandler.GetWeek)
			protected.PUT("/availability/slots/:id", cfg.AvailabilityHandler.UpdateSlot)
			protected.DELETE("/availability/slots/:id", cfg.AvailabilityHandler.DeleteSlot)
		}

		if cfg.MesocycleHandler != nil {
			protected.GET("/mesocycles", cfg.MesocycleHandler.ListMesocycles)
			protected.POST("/mesocycles", cfg.MesocycleHandler.CreateMesocycle)
			protected.GET("/mesocycles/:sport", cfg.MesocycleHandler.GetMesocycle)
			protected.PUT("/mesocycles/:sport", cfg.MesocycleHandler.PutMesocycle)
			protected.DELETE("/mesocycles/:sport", cfg.MesocycleHandler.DeleteMesocycle)
		}

		if cfg.SystemHandler != nil {
			protected.GET("/system/status", cfg.SystemHandler.Status)
		}
	}

	return r
}

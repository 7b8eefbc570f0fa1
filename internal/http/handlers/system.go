package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	"github.com/yungbote/mycoach-backend/internal/http/response"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type SystemHandler struct {
	log     *logger.Logger
	db      *gorm.DB
	version string

	configRepo    repos.DataSourceConfigRepo
	insightRepo   repos.CoachingInsightRepo
	promptLogRepo repos.PromptLogRepo
}

func NewSystemHandler(
	log *logger.Logger,
	db *gorm.DB,
	version string,
	configRepo repos.DataSourceConfigRepo,
	insightRepo repos.CoachingInsightRepo,
	promptLogRepo repos.PromptLogRepo,
) *SystemHandler {
	return &SystemHandler{
		log:           log.With("handler", "SystemHandler"),
		db:            db,
		version:       version,
		configRepo:    configRepo,
		insightRepo:   insightRepo,
		promptLogRepo: promptLogRepo,
	}
}

// GET /healthz
func (h *SystemHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/system/status
func (h *SystemHandler) Status(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	dbOK := true
	if sqlDB, err := h.db.DB(); err != nil {
		dbOK = false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbOK = false
	}

	sources := map[string]any{}
	configs, err := h.configRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		h.log.Warn("Source config listing failed", "error", err)
	} else {
		for _, cfg := range configs {
			sources[cfg.SourceType] = gin.H{
				"enabled":      cfg.Enabled,
				"sync_status":  cfg.SyncStatus,
				"last_sync_at": cfg.LastSyncAt,
			}
		}
	}

	insightCounts, err := h.insightRepo.CountByType(ctx, nil, userID)
	if err != nil {
		h.log.Warn("Insight count failed", "error", err)
		insightCounts = map[string]int64{}
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthlySpend, err := h.promptLogRepo.MonthlyCostUSD(ctx, nil, monthStart)
	if err != nil {
		h.log.Warn("Monthly spend lookup failed", "error", err)
	}

	response.RespondOK(c, gin.H{
		"version":               h.version,
		"database_ok":           dbOK,
		"sources":               sources,
		"insight_counts":        insightCounts,
		"llm_month_start":       monthStart.Format("2006-01-02"),
		"llm_monthly_spend_usd": monthlySpend,
	})
}

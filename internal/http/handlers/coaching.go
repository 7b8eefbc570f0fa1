package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mycoach-backend/internal/coaching"
	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/http/response"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type CoachingHandler struct {
	log      *logger.Logger
	engine   *coaching.Engine
	insights repos.CoachingInsightRepo
}

func NewCoachingHandler(log *logger.Logger, engine *coaching.Engine, insights repos.CoachingInsightRepo) *CoachingHandler {
	return &CoachingHandler{
		log:      log.With("handler", "CoachingHandler"),
		engine:   engine,
		insights: insights,
	}
}

// insightPayload inlines the stored JSON content instead of returning it as
// an escaped string.
type insightPayload struct {
	*types.CoachingInsight
	Content json.RawMessage `json:"content"`
}

func presentInsight(in *types.CoachingInsight) insightPayload {
	return insightPayload{CoachingInsight: in, Content: json.RawMessage(in.Content)}
}

func (h *CoachingHandler) getByDateType(c *gin.Context, insightType string) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	date := time.Now().UTC()
	if q, err := parseDateQuery(c, "date"); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	} else if q != nil {
		date = *q
	}

	insight, err := h.insights.GetByUserDateType(c.Request.Context(), nil, userID, date, insightType)
	if err != nil {
		h.log.Error("Insight lookup failed", "type", insightType, "error", err)
		response.RespondAppError(c, err)
		return
	}
	if insight == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	response.RespondOK(c, presentInsight(insight))
}

// GET /api/coaching/today
func (h *CoachingHandler) GetTodayBriefing(c *gin.Context) {
	h.getByDateType(c, types.InsightDailyBriefing)
}

// POST /api/coaching/today/generate
func (h *CoachingHandler) GenerateTodayBriefing(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	insight, err := h.engine.GenerateDailyBriefing(c.Request.Context(), nil, userID, time.Now().UTC())
	if err != nil {
		h.log.Warn("Daily briefing generation failed", "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, presentInsight(insight))
}

// GET /api/coaching/sleep
func (h *CoachingHandler) GetSleepCoaching(c *gin.Context) {
	h.getByDateType(c, types.InsightSleep)
}

// POST /api/coaching/sleep/generate
func (h *CoachingHandler) GenerateSleepCoaching(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	insight, err := h.engine.GenerateSleepCoaching(c.Request.Context(), nil, userID, time.Now().UTC())
	if err != nil {
		h.log.Warn("Sleep coaching generation failed", "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, presentInsight(insight))
}

// POST /api/coaching/activities/:id/analyze
func (h *CoachingHandler) AnalyzeActivity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	activityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	insight, err := h.engine.GeneratePostWorkout(c.Request.Context(), nil, userID, activityID)
	if err != nil {
		h.log.Warn("Post-workout analysis failed", "activity_id", activityID, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, presentInsight(insight))
}

// GET /api/coaching/insights
func (h *CoachingHandler) ListInsights(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	filter := repos.InsightFilter{InsightType: c.Query("type")}
	from, err := parseDateQuery(c, "from")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	filter.From = from
	filter.To = to
	if raw := c.Query("limit"); raw != "" {
		if n, convErr := strconv.Atoi(raw); convErr == nil && n > 0 {
			filter.Limit = n
		}
	}

	rows, err := h.insights.List(c.Request.Context(), nil, userID, filter)
	if err != nil {
		h.log.Error("ListInsights failed", "error", err)
		response.RespondAppError(c, err)
		return
	}

	out := make([]insightPayload, 0, len(rows))
	for _, row := range rows {
		out = append(out, presentInsight(row))
	}
	response.RespondOK(c, gin.H{"insights": out, "count": len(out)})
}

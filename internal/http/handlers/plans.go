package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mycoach-backend/internal/coaching"
	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/http/response"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
	"github.com/yungbote/mycoach-backend/internal/services"
)

type PlanHandler struct {
	log      *logger.Logger
	engine   *coaching.Engine
	plans    repos.WeeklyPlanRepo
	sessions repos.PlannedSessionRepo
	cards    services.PlanCardService // nil when no font is configured
}

func NewPlanHandler(
	log *logger.Logger,
	engine *coaching.Engine,
	plans repos.WeeklyPlanRepo,
	sessions repos.PlannedSessionRepo,
	cards services.PlanCardService,
) *PlanHandler {
	return &PlanHandler{
		log:      log.With("handler", "PlanHandler"),
		engine:   engine,
		plans:    plans,
		sessions: sessions,
		cards:    cards,
	}
}

// POST /api/plans/generate
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	weekStart := coaching.MondayOf(time.Now().UTC()).AddDate(0, 0, 7)
	if q, err := parseDateQuery(c, "week_start"); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	} else if q != nil {
		weekStart = *q
	}

	plan, err := h.engine.GenerateWeeklyPlan(c.Request.Context(), nil, userID, weekStart)
	if err != nil {
		h.log.Warn("Weekly plan generation failed", "week_start", weekStart.Format("2006-01-02"), "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, plan)
}

// GET /api/plans/current
func (h *PlanHandler) GetCurrentPlan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	weekStart := coaching.MondayOf(time.Now().UTC())
	plan, err := h.plans.GetActiveForWeek(c.Request.Context(), nil, userID, weekStart)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if plan == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("no active plan for week of %s", weekStart.Format("2006-01-02")))
		return
	}
	h.respondPlanWithSessions(c, plan)
}

// GET /api/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, ok := h.loadUserPlan(c)
	if !ok {
		return
	}
	h.respondPlanWithSessions(c, plan)
}

// GET /api/plans/:id/sessions
func (h *PlanHandler) ListPlanSessions(c *gin.Context) {
	plan, ok := h.loadUserPlan(c)
	if !ok {
		return
	}

	sessions, err := h.sessions.ListByPlan(c.Request.Context(), nil, plan.ID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions, "count": len(sessions)})
}

type patchSessionRequest struct {
	Completed  *bool      `json:"completed"`
	ActivityID *uuid.UUID `json:"activity_id"`
}

// PATCH /api/plans/:id/sessions/:sid
func (h *PlanHandler) PatchSession(c *gin.Context) {
	plan, ok := h.loadUserPlan(c)
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "sid")
	if !ok {
		return
	}

	var req patchSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	session, err := h.sessions.GetByID(c.Request.Context(), nil, sessionID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if session == nil || session.PlanID != plan.ID {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}

	if req.Completed != nil {
		session.Completed = *req.Completed
	}
	if req.ActivityID != nil {
		session.ActivityID = req.ActivityID
	}
	if err := h.sessions.Update(c.Request.Context(), nil, session); err != nil {
		h.log.Error("PatchSession failed", "session_id", sessionID, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, session)
}

// GET /api/plans/:id/adherence
func (h *PlanHandler) GetAdherence(c *gin.Context) {
	plan, ok := h.loadUserPlan(c)
	if !ok {
		return
	}

	sessions, err := h.sessions.ListByPlan(c.Request.Context(), nil, plan.ID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	summary := services.ComputeAdherence(sessions)
	response.RespondOK(c, gin.H{
		"plan_id":            plan.ID,
		"week_start":         plan.WeekStart.Format("2006-01-02"),
		"total_sessions":     summary.TotalSessions,
		"completed_sessions": summary.CompletedSessions,
		"adherence_pct":      summary.AdherencePct,
	})
}

// GET /api/plans/:id/card.png
func (h *PlanHandler) GetPlanCard(c *gin.Context) {
	if h.cards == nil {
		response.RespondError(c, http.StatusNotImplemented, "cards_disabled", fmt.Errorf("plan card rendering is not configured"))
		return
	}
	plan, ok := h.loadUserPlan(c)
	if !ok {
		return
	}

	sessions, err := h.sessions.ListByPlan(c.Request.Context(), nil, plan.ID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}

	buf, err := h.cards.Render(plan, sessions)
	if err != nil {
		h.log.Error("Plan card render failed", "plan_id", plan.ID, "error", err)
		response.RespondAppError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *PlanHandler) loadUserPlan(c *gin.Context) (*types.WeeklyPlan, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return nil, false
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	plan, err := h.plans.GetByID(c.Request.Context(), nil, planID)
	if err != nil {
		response.RespondAppError(c, err)
		return nil, false
	}
	if plan == nil || plan.UserID != userID {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return nil, false
	}
	return plan, true
}

func (h *PlanHandler) respondPlanWithSessions(c *gin.Context, plan *types.WeeklyPlan) {
	sessions, err := h.sessions.ListByPlan(c.Request.Context(), nil, plan.ID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": plan, "sessions": sessions})
}

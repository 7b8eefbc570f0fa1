package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mycoach-backend/internal/coaching"
	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/http/response"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

var startTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type AvailabilityHandler struct {
	log          *logger.Logger
	availability repos.AvailabilityRepo
}

func NewAvailabilityHandler(log *logger.Logger, availability repos.AvailabilityRepo) *AvailabilityHandler {
	return &AvailabilityHandler{
		log:          log.With("handler", "AvailabilityHandler"),
		availability: availability,
	}
}

type availabilitySlotRequest struct {
	DayOfWeek       int    `json:"day_of_week"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	PreferredSport  string `json:"preferred_sport"`
}

type replaceWeekRequest struct {
	WeekStart string                    `json:"week_start" binding:"required"`
	Slots     []availabilitySlotRequest `json:"slots"`
}

func (r availabilitySlotRequest) validate() error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be 0..6")
	}
	if !startTimeRe.MatchString(r.StartTime) {
		return fmt.Errorf("start_time must be HH:MM")
	}
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("duration_minutes must be positive")
	}
	return nil
}

// POST /api/availability
func (h *AvailabilityHandler) ReplaceWeek(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req replaceWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	weekStart, err := parseDate(req.WeekStart)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_week_start", err)
		return
	}
	if coaching.MondayIndexedWeekday(weekStart) != 0 {
		response.RespondError(c, http.StatusUnprocessableEntity, "week_start_not_monday",
			fmt.Errorf("week_start %s is not a Monday", req.WeekStart))
		return
	}

	rows := make([]*types.WeeklyAvailability, 0, len(req.Slots))
	for i, slot := range req.Slots {
		if err := slot.validate(); err != nil {
			response.RespondError(c, http.StatusUnprocessableEntity, "invalid_slot", fmt.Errorf("slot %d: %w", i, err))
			return
		}
		rows = append(rows, &types.WeeklyAvailability{
			UserID:          userID,
			WeekStart:       weekStart,
			DayOfWeek:       slot.DayOfWeek,
			StartTime:       slot.StartTime,
			DurationMinutes: slot.DurationMinutes,
			PreferredSport:  slot.PreferredSport,
		})
	}

	saved, err := h.availability.ReplaceWeek(c.Request.Context(), nil, userID, weekStart, rows)
	if err != nil {
		h.log.Error("ReplaceWeek failed", "week_start", req.WeekStart, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"week_start": req.WeekStart, "slots": saved})
}

// GET /api/availability/next-week
func (h *AvailabilityHandler) GetNextWeek(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	weekStart := coaching.MondayOf(time.Now().UTC()).AddDate(0, 0, 7)
	h.listWeek(c, userID, weekStart)
}

// GET /api/availability/:week_start
func (h *AvailabilityHandler) GetWeek(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	weekStart, err := parseDate(c.Param("week_start"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_week_start", err)
		return
	}
	h.listWeek(c, userID, weekStart)
}

func (h *AvailabilityHandler) listWeek(c *gin.Context, userID uuid.UUID, weekStart time.Time) {
	slots, err := h.availability.ListForWeek(c.Request.Context(), nil, userID, weekStart)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"week_start": weekStart.Format("2006-01-02"), "slots": slots})
}

// PUT /api/availability/slots/:id
func (h *AvailabilityHandler) UpdateSlot(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	slotID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req availabilitySlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := req.validate(); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "invalid_slot", err)
		return
	}

	slot, err := h.availability.GetByID(c.Request.Context(), nil, slotID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if slot == nil || slot.UserID != userID {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}

	slot.DayOfWeek = req.DayOfWeek
	slot.StartTime = req.StartTime
	slot.DurationMinutes = req.DurationMinutes
	slot.PreferredSport = req.PreferredSport
	if err := h.availability.Update(c.Request.Context(), nil, slot); err != nil {
		h.log.Error("UpdateSlot failed", "slot_id", slotID, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, slot)
}

// DELETE /api/availability/slots/:id
func (h *AvailabilityHandler) DeleteSlot(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	slotID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	slot, err := h.availability.GetByID(c.Request.Context(), nil, slotID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if slot == nil || slot.UserID != userID {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}

	if err := h.availability.DeleteByID(c.Request.Context(), nil, slotID); err != nil {
		h.log.Error("DeleteSlot failed", "slot_id", slotID, "error", err)
		response.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

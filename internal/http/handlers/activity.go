package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/http/response"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type ActivityHandler struct {
	log        *logger.Logger
	db         *gorm.DB
	activities repos.ActivityRepo
	details    repos.GymWorkoutDetailRepo
}

func NewActivityHandler(log *logger.Logger, db *gorm.DB, activities repos.ActivityRepo, details repos.GymWorkoutDetailRepo) *ActivityHandler {
	return &ActivityHandler{
		log:        log.With("handler", "ActivityHandler"),
		db:         db,
		activities: activities,
		details:    details,
	}
}

// GET /api/activities
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	filter := repos.ActivityFilter{
		Sport:      c.Query("sport"),
		DataSource: c.Query("source"),
	}
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

	rows, err := h.activities.List(c.Request.Context(), nil, userID, filter)
	if err != nil {
		h.log.Error("ListActivities failed", "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activities": rows, "count": len(rows)})
}

type activityDetailResponse struct {
	Activity   *types.Activity           `json:"activity"`
	GymDetails []*types.GymWorkoutDetail `json:"gym_details,omitempty"`
}

// GET /api/activities/:id
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	activityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	act, err := h.activities.GetByID(c.Request.Context(), nil, activityID)
	if err != nil {
		h.log.Error("GetActivity failed", "error", err, "activity_id", activityID)
		response.RespondAppError(c, err)
		return
	}
	if act == nil || act.UserID != userID {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}

	out := activityDetailResponse{Activity: act}
	if act.Sport == types.SportGym {
		details, err := h.details.ListByActivity(c.Request.Context(), nil, act.ID)
		if err != nil {
			h.log.Error("GetActivity failed (load details)", "error", err, "activity_id", activityID)
			response.RespondAppError(c, err)
			return
		}
		out.GymDetails = details
	}
	response.RespondOK(c, out)
}

// DELETE /api/activities/:id
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	activityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	act, err := h.activities.GetByID(c.Request.Context(), nil, activityID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if act == nil || act.UserID != userID {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}

	// Detail rows go in the same transaction; FK enforcement is disabled at
	// the gorm level, so the cascade happens here.
	err = h.db.Transaction(func(t *gorm.DB) error {
		if err := h.details.DeleteByActivity(c.Request.Context(), t, activityID); err != nil {
			return err
		}
		return h.activities.DeleteByID(c.Request.Context(), t, activityID)
	})
	if err != nil {
		h.log.Error("DeleteActivity failed", "error", err, "activity_id", activityID)
		response.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

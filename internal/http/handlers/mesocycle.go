package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/http/response"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type MesocycleHandler struct {
	log        *logger.Logger
	mesocycles repos.MesocycleRepo
}

func NewMesocycleHandler(log *logger.Logger, mesocycles repos.MesocycleRepo) *MesocycleHandler {
	return &MesocycleHandler{
		log:        log.With("handler", "MesocycleHandler"),
		mesocycles: mesocycles,
	}
}

type mesocycleRequest struct {
	Sport            string `json:"sport" binding:"required"`
	BlockLengthWeeks int    `json:"block_length_weeks"`
	CurrentWeek      int    `json:"current_week"`
	Phase            string `json:"phase"`
	StartDate        string `json:"start_date"`
	ProgressionRules string `json:"progression_rules"`
}

func (r mesocycleRequest) validate() (time.Time, error) {
	switch r.Phase {
	case "", types.PhaseBuild, types.PhasePeak, types.PhaseDeload:
	default:
		return time.Time{}, fmt.Errorf("phase must be build, peak or deload")
	}
	if r.BlockLengthWeeks < 0 || r.CurrentWeek < 0 {
		return time.Time{}, fmt.Errorf("week counts must be non-negative")
	}
	if r.StartDate == "" {
		return time.Now().UTC(), nil
	}
	start, err := parseDate(r.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_date: %w", err)
	}
	return start, nil
}

func (r mesocycleRequest) apply(row *types.MesocycleConfig, start time.Time) {
	if r.BlockLengthWeeks > 0 {
		row.BlockLengthWeeks = r.BlockLengthWeeks
	}
	if r.CurrentWeek > 0 {
		row.CurrentWeek = r.CurrentWeek
	}
	if r.Phase != "" {
		row.Phase = r.Phase
	}
	row.StartDate = start
	row.ProgressionRules = r.ProgressionRules
}

// GET /api/mesocycles
func (h *MesocycleHandler) ListMesocycles(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	rows, err := h.mesocycles.ListByUser(c.Request.Context(), nil, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mesocycles": rows, "count": len(rows)})
}

// POST /api/mesocycles
func (h *MesocycleHandler) CreateMesocycle(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req mesocycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	start, err := req.validate()
	if err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "invalid_mesocycle", err)
		return
	}

	existing, err := h.mesocycles.GetBySport(c.Request.Context(), nil, userID, req.Sport)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if existing != nil {
		response.RespondError(c, http.StatusConflict, "conflict",
			fmt.Errorf("mesocycle for sport %q already exists", req.Sport))
		return
	}

	row := &types.MesocycleConfig{
		UserID:           userID,
		Sport:            req.Sport,
		BlockLengthWeeks: 4,
		CurrentWeek:      1,
		Phase:            types.PhaseBuild,
	}
	req.apply(row, start)

	created, err := h.mesocycles.Create(c.Request.Context(), nil, []*types.MesocycleConfig{row})
	if err != nil {
		h.log.Error("CreateMesocycle failed", "sport", req.Sport, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, created[0])
}

// GET /api/mesocycles/:sport
func (h *MesocycleHandler) GetMesocycle(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	row, err := h.mesocycles.GetBySport(c.Request.Context(), nil, userID, c.Param("sport"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if row == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	response.RespondOK(c, row)
}

// PUT /api/mesocycles/:sport
func (h *MesocycleHandler) PutMesocycle(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sport := c.Param("sport")

	var req mesocycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	req.Sport = sport
	start, err := req.validate()
	if err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "invalid_mesocycle", err)
		return
	}

	row, err := h.mesocycles.GetBySport(c.Request.Context(), nil, userID, sport)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if row == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}

	req.apply(row, start)
	if err := h.mesocycles.Update(c.Request.Context(), nil, row); err != nil {
		h.log.Error("PutMesocycle failed", "sport", sport, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, row)
}

// DELETE /api/mesocycles/:sport
func (h *MesocycleHandler) DeleteMesocycle(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sport := c.Param("sport")

	row, err := h.mesocycles.GetBySport(c.Request.Context(), nil, userID, sport)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if row == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}

	if err := h.mesocycles.DeleteBySport(c.Request.Context(), nil, userID, sport); err != nil {
		h.log.Error("DeleteMesocycle failed", "sport", sport, "error", err)
		response.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

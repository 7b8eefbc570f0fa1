package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/http/response"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type ProfileHandler struct {
	log      *logger.Logger
	profiles repos.SportProfileRepo
}

func NewProfileHandler(log *logger.Logger, profiles repos.SportProfileRepo) *ProfileHandler {
	return &ProfileHandler{
		log:      log.With("handler", "ProfileHandler"),
		profiles: profiles,
	}
}

type sportProfileRequest struct {
	SkillLevel  string          `json:"skill_level"`
	Goals       string          `json:"goals"`
	Preferences json.RawMessage `json:"preferences"`
	Benchmarks  json.RawMessage `json:"benchmarks"`
}

func (r sportProfileRequest) validate() error {
	switch r.SkillLevel {
	case "", "beginner", "intermediate", "advanced":
		return nil
	}
	return fmt.Errorf("skill_level must be beginner, intermediate or advanced")
}

func (r sportProfileRequest) apply(row *types.SportProfile) {
	if r.SkillLevel != "" {
		row.SkillLevel = r.SkillLevel
	}
	row.Goals = r.Goals
	if len(r.Preferences) > 0 {
		row.Preferences = datatypes.JSON(r.Preferences)
	}
	if len(r.Benchmarks) > 0 {
		row.Benchmarks = datatypes.JSON(r.Benchmarks)
	}
}

// GET /api/profile/sports
func (h *ProfileHandler) ListSportProfiles(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	rows, err := h.profiles.ListByUser(c.Request.Context(), nil, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profiles": rows, "count": len(rows)})
}

// PUT /api/profile/sports/:sport
func (h *ProfileHandler) PutSportProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sport := c.Param("sport")

	var req sportProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := req.validate(); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "invalid_profile", err)
		return
	}

	row, err := h.profiles.GetBySport(c.Request.Context(), nil, userID, sport)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	created := row == nil
	if created {
		row = &types.SportProfile{
			UserID:     userID,
			Sport:      sport,
			SkillLevel: "intermediate",
		}
	}
	req.apply(row)

	if created {
		rows, err := h.profiles.Create(c.Request.Context(), nil, []*types.SportProfile{row})
		if err != nil {
			h.log.Error("PutSportProfile create failed", "sport", sport, "error", err)
			response.RespondAppError(c, err)
			return
		}
		response.RespondCreated(c, rows[0])
		return
	}

	if err := h.profiles.Update(c.Request.Context(), nil, row); err != nil {
		h.log.Error("PutSportProfile update failed", "sport", sport, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, row)
}

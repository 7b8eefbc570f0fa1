package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	"github.com/yungbote/mycoach-backend/internal/http/response"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type HealthHandler struct {
	log       *logger.Logger
	snapshots repos.HealthSnapshotRepo
}

func NewHealthHandler(log *logger.Logger, snapshots repos.HealthSnapshotRepo) *HealthHandler {
	return &HealthHandler{
		log:       log.With("handler", "HealthHandler"),
		snapshots: snapshots,
	}
}

// GET /api/health/daily
func (h *HealthHandler) ListDaily(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	if q, err := parseDateQuery(c, "from"); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	} else if q != nil {
		from = *q
	}
	if q, err := parseDateQuery(c, "to"); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	} else if q != nil {
		to = *q
	}

	rows, err := h.snapshots.ListRange(c.Request.Context(), nil, userID, from, to, true)
	if err != nil {
		h.log.Error("ListDaily failed", "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"snapshots": rows, "count": len(rows)})
}

// GET /api/health/daily/:date
func (h *HealthHandler) GetDaily(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	date, err := parseDate(c.Param("date"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_date", err)
		return
	}

	snapshot, err := h.snapshots.GetByDate(c.Request.Context(), nil, userID, date)
	if err != nil {
		h.log.Error("GetDaily failed", "error", err, "date", c.Param("date"))
		response.RespondAppError(c, err)
		return
	}
	if snapshot == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	response.RespondOK(c, snapshot)
}

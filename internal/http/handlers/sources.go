package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/mycoach-backend/internal/clients/gcp"
	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/http/response"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
	"github.com/yungbote/mycoach-backend/internal/realtime"
	"github.com/yungbote/mycoach-backend/internal/services"
	"github.com/yungbote/mycoach-backend/internal/sources"
	"github.com/yungbote/mycoach-backend/internal/sources/hevy"
	"github.com/yungbote/mycoach-backend/internal/sources/merge"
)

const maxCSVUploadBytes = 20 << 20

type SourcesHandler struct {
	log *logger.Logger
	db  *gorm.DB

	garmin       sources.DataSource
	hevyImporter *hevy.Importer
	merger       *merge.Merger

	configRepo  repos.DataSourceConfigRepo
	syncRunRepo repos.SyncRunRepo

	sealer services.CredentialSealer
	hub    *realtime.SSEHub
	bucket gcp.BucketService // nil when archiving is not configured
}

func NewSourcesHandler(
	log *logger.Logger,
	db *gorm.DB,
	garmin sources.DataSource,
	hevyImporter *hevy.Importer,
	merger *merge.Merger,
	configRepo repos.DataSourceConfigRepo,
	syncRunRepo repos.SyncRunRepo,
	sealer services.CredentialSealer,
	hub *realtime.SSEHub,
	bucket gcp.BucketService,
) *SourcesHandler {
	return &SourcesHandler{
		log:          log.With("handler", "SourcesHandler"),
		db:           db,
		garmin:       garmin,
		hevyImporter: hevyImporter,
		merger:       merger,
		configRepo:   configRepo,
		syncRunRepo:  syncRunRepo,
		sealer:       sealer,
		hub:          hub,
		bucket:       bucket,
	}
}

// POST /api/sources/import/hevy
func (h *SourcesHandler) ImportHevyCSV(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("multipart field 'file' required"))
		return
	}
	if fileHeader.Size > maxCSVUploadBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("max upload is %d bytes", maxCSVUploadBytes))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxCSVUploadBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}

	parsed := hevy.ParseCSV(string(raw))

	var result *sources.ImportResult
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		var importErr error
		result, importErr = h.hevyImporter.Import(c.Request.Context(), tx, userID, parsed)
		if importErr != nil {
			return importErr
		}
		mergeResult, mergeErr := h.merger.Run(c.Request.Context(), tx, userID)
		if mergeErr != nil {
			return mergeErr
		}
		result.ActivitiesMerged = mergeResult.Merged
		return nil
	})
	if txErr != nil {
		h.log.Error("Hevy import failed", "error", txErr)
		response.RespondAppError(c, txErr)
		return
	}
	result.Errors = append(result.Errors, parsed.Errors...)

	h.archiveCSV(c, userID.String(), raw)

	response.RespondOK(c, result)
}

// archiveCSV keeps the raw upload when a bucket is configured. Best-effort;
// never fails the import.
func (h *SourcesHandler) archiveCSV(c *gin.Context, userID string, raw []byte) {
	if h.bucket == nil {
		return
	}
	key := fmt.Sprintf("hevy_imports/%s/%d.csv", userID, time.Now().UnixNano())
	if err := h.bucket.UploadFile(c.Request.Context(), key, bytes.NewReader(raw)); err != nil {
		h.log.Warn("CSV archive upload failed", "key", key, "error", err)
		return
	}
	h.log.Info("Archived Hevy CSV", "key", key)
}

type garminSyncRequest struct {
	Days int `json:"days"`
}

// POST /api/sources/sync/garmin
func (h *SourcesHandler) SyncGarmin(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req garminSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	result, err := h.garmin.Sync(c.Request.Context(), userID, req.Days)
	if err != nil {
		h.log.Error("Garmin sync failed", "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, result)
}

type sourceStatus struct {
	Config  *types.DataSourceConfig `json:"config"`
	LastRun *types.SyncRun          `json:"last_run,omitempty"`
}

// GET /api/sources/status
func (h *SourcesHandler) Status(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	configs, err := h.configRepo.ListByUser(c.Request.Context(), nil, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}

	out := make([]sourceStatus, 0, len(configs))
	for _, cfg := range configs {
		run, runErr := h.syncRunRepo.LatestByType(c.Request.Context(), nil, userID, cfg.SourceType)
		if runErr != nil {
			h.log.Warn("Latest sync run lookup failed", "source", cfg.SourceType, "error", runErr)
		}
		out = append(out, sourceStatus{Config: cfg, LastRun: run})
	}
	response.RespondOK(c, gin.H{"sources": out})
}

// GET /api/sources/events
func (h *SourcesHandler) StreamEvents(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	client := h.hub.NewSSEClient(userID)
	h.hub.AddChannel(client, realtime.ChannelSync)
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

type garminCredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PUT /api/sources/garmin/credentials
func (h *SourcesHandler) PutGarminCredentials(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req garminCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("email and password required"))
		return
	}

	sealed, err := h.sealer.Seal(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		h.log.Error("Credential sealing failed", "error", err)
		response.RespondAppError(c, err)
		return
	}

	cfg, err := h.configRepo.Upsert(c.Request.Context(), nil, &types.DataSourceConfig{
		UserID:               userID,
		SourceType:           types.SourceGarmin,
		CredentialsEncrypted: sealed,
		Enabled:              true,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, cfg)
}

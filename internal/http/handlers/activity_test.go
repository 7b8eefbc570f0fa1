package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	"github.com/yungbote/mycoach-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/ctxutil"
)

func authedContext(t *testing.T, w *httptest.ResponseRecorder, userID uuid.UUID, method, path string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, nil)
	c.Request = req.WithContext(ctxutil.WithRequestData(req.Context(), &ctxutil.RequestData{UserID: userID}))
	return c
}

func TestDeleteActivityRemovesGymDetails(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "delete-activity@test.local")
	start := time.Date(2025, 7, 2, 18, 0, 0, 0, time.UTC)
	act := testutil.SeedActivity(t, ctx, tx, user.ID, types.SportGym, types.SourceHevy, "Push Day", start, 60)
	testutil.SeedGymSet(t, ctx, tx, act.ID, "Bench Press", 0, 80, 10)
	testutil.SeedGymSet(t, ctx, tx, act.ID, "Bench Press", 1, 85, 8)

	activityRepo := repos.NewActivityRepo(tx, log)
	detailRepo := repos.NewGymWorkoutDetailRepo(tx, log)
	h := NewActivityHandler(log, tx, activityRepo, detailRepo)

	w := httptest.NewRecorder()
	c := authedContext(t, w, user.ID, http.MethodDelete, "/api/activities/"+act.ID.String())
	c.Params = gin.Params{{Key: "id", Value: act.ID.String()}}

	h.DeleteActivity(c)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d (%s)", w.Code, w.Body.String())
	}

	gone, err := activityRepo.GetByID(ctx, tx, act.ID)
	if err != nil || gone != nil {
		t.Fatalf("expected activity deleted, got %v err %v", gone, err)
	}
	details, err := detailRepo.ListByActivity(ctx, tx, act.ID)
	if err != nil {
		t.Fatalf("list details: %v", err)
	}
	if len(details) != 0 {
		t.Fatalf("expected detail rows deleted with parent, %d left", len(details))
	}
}

func TestDeleteActivityRejectsForeignOwner(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, tx, "delete-owner@test.local")
	start := time.Date(2025, 7, 2, 18, 0, 0, 0, time.UTC)
	act := testutil.SeedActivity(t, ctx, tx, owner.ID, types.SportGym, types.SourceHevy, "Push Day", start, 60)

	activityRepo := repos.NewActivityRepo(tx, log)
	detailRepo := repos.NewGymWorkoutDetailRepo(tx, log)
	h := NewActivityHandler(log, tx, activityRepo, detailRepo)

	w := httptest.NewRecorder()
	c := authedContext(t, w, uuid.New(), http.MethodDelete, "/api/activities/"+act.ID.String())
	c.Params = gin.Params{{Key: "id", Value: act.ID.String()}}

	h.DeleteActivity(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	still, err := activityRepo.GetByID(ctx, tx, act.ID)
	if err != nil || still == nil {
		t.Fatalf("expected activity untouched, got %v err %v", still, err)
	}
}

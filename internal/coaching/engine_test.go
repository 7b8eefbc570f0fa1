package coaching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mycoach-backend/internal/coaching/prompts"
	"github.com/yungbote/mycoach-backend/internal/data/repos"
	"github.com/yungbote/mycoach-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	apperrors "github.com/yungbote/mycoach-backend/internal/pkg/errors"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
	"github.com/yungbote/mycoach-backend/internal/services"
)

func TestMain(m *testing.M) {
	prompts.RegisterAll()
	m.Run()
}

type llmCall struct {
	user  string
	model string
}

// stubLLM is a function-typed fake; tests swap the call function per case.
type stubLLM struct {
	calls []llmCall
	call  func(user string, n int) (*services.LLMResponse, error)
}

func (s *stubLLM) Call(_ context.Context, _, user, model string, _ int) (*services.LLMResponse, error) {
	s.calls = append(s.calls, llmCall{user: user, model: model})
	return s.call(user, len(s.calls))
}

func (s *stubLLM) DailyModel() string  { return "claude-sonnet-4-5-20250929" }
func (s *stubLLM) WeeklyModel() string { return "claude-opus-4-6" }

func respond(content string) func(string, int) (*services.LLMResponse, error) {
	return func(string, int) (*services.LLMResponse, error) {
		return &services.LLMResponse{
			Content:          content,
			Model:            "claude-sonnet-4-5-20250929",
			InputTokens:      600,
			OutputTokens:     250,
			LatencyMS:        1100,
			EstimatedCostUSD: 0.005,
		}, nil
	}
}

const validPlanJSON = `{
  "summary": "One strength day, built around the single slot.",
  "sessions": [
    {"day_of_week": 0, "sport": "gym", "title": "Upper Body", "duration_minutes": 60,
     "details": {"exercises": ["bench press", "rows"]}, "notes": "Controlled tempo."}
  ]
}`

const validPostWorkoutJSON = `{
  "performance_summary": "Solid session.",
  "planned_vs_actual": "Matched planned workout.",
  "performance_trends": "Improving steadily.",
  "hr_analysis": "Average HR in zone 2-3.",
  "training_effect_assessment": "Good aerobic stimulus.",
  "key_highlights": ["PR on bench press"],
  "areas_for_improvement": ["Rest times"],
  "next_session_recommendations": "Add 2.5kg.",
  "recovery_notes": "Sleep 7+ hours."
}`

const validSleepJSON = `{
  "sleep_quality_summary": "Good quality overall.",
  "consistency_analysis": "Consistent bedtime.",
  "sleep_architecture": "Healthy deep/REM split.",
  "performance_correlation": "Sleep tracks readiness.",
  "recommended_bedtime": "22:30",
  "recommended_wake_time": "06:00",
  "sleep_debt_assessment": "No significant debt.",
  "hygiene_tips": ["No screens after 21:30", "Keep the room cool"],
  "key_concern": "None"
}`

func newTestEngine(db *gorm.DB, log *logger.Logger, llm LLMClient) *Engine {
	snapshotRepo := repos.NewHealthSnapshotRepo(db, log)
	activityRepo := repos.NewActivityRepo(db, log)
	detailRepo := repos.NewGymWorkoutDetailRepo(db, log)
	availabilityRepo := repos.NewAvailabilityRepo(db, log)
	mesocycleRepo := repos.NewMesocycleRepo(db, log)
	planRepo := repos.NewWeeklyPlanRepo(db, log)
	sessionRepo := repos.NewPlannedSessionRepo(db, log)

	assembler := NewContextAssembler(log, snapshotRepo, activityRepo, detailRepo,
		availabilityRepo, mesocycleRepo, planRepo, sessionRepo,
		repos.NewSportProfileRepo(db, log))
	return NewEngine(db, log, llm, assembler,
		repos.NewCoachingInsightRepo(db, log),
		repos.NewPromptLogRepo(db, log),
		planRepo, sessionRepo)
}

func promptLogs(t *testing.T, tx *gorm.DB) []*types.PromptLog {
	t.Helper()
	var logs []*types.PromptLog
	if err := tx.Order("created_at ASC").Find(&logs).Error; err != nil {
		t.Fatalf("load prompt logs: %v", err)
	}
	return logs
}

func TestGenerateDailyBriefingSuccessAndConflict(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "briefing@test.local")
	today := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	testutil.SeedSnapshot(t, ctx, tx, user.ID, today)

	llm := &stubLLM{call: respond(validBriefingJSON)}
	engine := newTestEngine(db, log, llm)

	insight, err := engine.GenerateDailyBriefing(ctx, tx, user.ID, today)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if insight.InsightType != types.InsightDailyBriefing {
		t.Fatalf("unexpected type %s", insight.InsightType)
	}
	if !strings.Contains(insight.Content, "go_hard") {
		t.Fatalf("verdict missing from content: %s", insight.Content)
	}
	if len(llm.calls) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(llm.calls))
	}

	logs := promptLogs(t, tx)
	if len(logs) != 1 || !logs[0].Success || logs[0].PromptType != "daily_briefing" {
		t.Fatalf("unexpected prompt logs %+v", logs)
	}
	if logs[0].EstimatedCostUSD == nil || *logs[0].EstimatedCostUSD != 0.005 {
		t.Fatal("expected cost recorded")
	}

	_, err = engine.GenerateDailyBriefing(ctx, tx, user.ID, today)
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(llm.calls) != 1 {
		t.Fatal("conflict must not reach the model")
	}
}

func TestGenerateDailyBriefingRetriesOnceOnParseFailure(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "briefing-retry@test.local")
	today := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)

	llm := &stubLLM{}
	llm.call = func(_ string, n int) (*services.LLMResponse, error) {
		content := "Sorry, I cannot do that."
		if n == 2 {
			content = validBriefingJSON
		}
		return &services.LLMResponse{Content: content, Model: "claude-sonnet-4-5-20250929"}, nil
	}
	engine := newTestEngine(db, log, llm)

	if _, err := engine.GenerateDailyBriefing(ctx, tx, user.ID, today); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(llm.calls) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(llm.calls))
	}
	if !strings.Contains(llm.calls[1].user, "Respond ONLY with valid JSON") {
		t.Fatal("retry missing JSON-only reminder")
	}

	logs := promptLogs(t, tx)
	if len(logs) != 1 || !logs[0].Success {
		t.Fatalf("expected one successful prompt log, got %+v", logs)
	}
}

func TestGenerateDailyBriefingTerminalFailureStillLogs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "briefing-fail@test.local")
	today := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)

	llm := &stubLLM{call: func(string, int) (*services.LLMResponse, error) {
		return nil, fmt.Errorf("api timeout")
	}}
	engine := newTestEngine(db, log, llm)

	_, err := engine.GenerateDailyBriefing(ctx, tx, user.ID, today)
	if !errors.Is(err, apperrors.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	// A transport failure gets no retry.
	if len(llm.calls) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(llm.calls))
	}

	logs := promptLogs(t, tx)
	if len(logs) != 1 || logs[0].Success {
		t.Fatalf("expected one failed prompt log, got %+v", logs)
	}
	if !strings.Contains(logs[0].Error, "api timeout") {
		t.Fatalf("expected error recorded, got %q", logs[0].Error)
	}
	if logs[0].ResponseText != "" {
		t.Fatal("no-call failure must have no response text")
	}
}

func TestGenerateWeeklyPlanGuards(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "plan-guards@test.local")
	llm := &stubLLM{call: respond(validPlanJSON)}
	engine := newTestEngine(db, log, llm)

	tuesday := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if _, err := engine.GenerateWeeklyPlan(ctx, tx, user.ID, tuesday); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for non-Monday, got %v", err)
	}

	monday := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)
	if _, err := engine.GenerateWeeklyPlan(ctx, tx, user.ID, monday); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument without availability, got %v", err)
	}

	if len(llm.calls) != 0 {
		t.Fatal("guards must fire before any model call")
	}
	if len(promptLogs(t, tx)) != 0 {
		t.Fatal("guard failures must not write prompt logs")
	}
}

func TestGenerateWeeklyPlanSuccessAndConflict(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "plan@test.local")
	monday := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)
	testutil.SeedAvailability(t, ctx, tx, user.ID, monday, 0, "07:00", 60)

	llm := &stubLLM{call: respond(validPlanJSON)}
	engine := newTestEngine(db, log, llm)

	plan, err := engine.GenerateWeeklyPlan(ctx, tx, user.ID, monday)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if plan.Status != types.PlanStatusActive {
		t.Fatalf("unexpected status %s", plan.Status)
	}
	if plan.Summary == "" || plan.RawLLMOutput == "" {
		t.Fatal("expected summary and raw output persisted")
	}
	if llm.calls[0].model != "claude-opus-4-6" {
		t.Fatalf("expected weekly model, got %s", llm.calls[0].model)
	}

	sessionRepo := repos.NewPlannedSessionRepo(db, log)
	sessions, err := sessionRepo.ListByPlan(ctx, tx, plan.ID)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Sport != types.SportGym || sessions[0].DayOfWeek != 0 {
		t.Fatalf("unexpected sessions %+v", sessions)
	}
	if len(sessions[0].Details) == 0 {
		t.Fatal("expected session details persisted")
	}

	if _, err := engine.GenerateWeeklyPlan(ctx, tx, user.ID, monday); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict for second active plan, got %v", err)
	}
}

func TestGeneratePostWorkoutLinksPlannedSession(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "postworkout@test.local")
	// Wednesday 2025-07-02, week starts Monday 2025-06-30.
	start := time.Date(2025, 7, 2, 18, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	act := testutil.SeedActivity(t, ctx, tx, user.ID, types.SportGym, types.SourceHevy, "Push Day", start, 60)
	testutil.SeedGymSet(t, ctx, tx, act.ID, "Bench Press", 1, 80, 8)
	plan := testutil.SeedPlan(t, ctx, tx, user.ID, monday)
	planned := testutil.SeedPlannedSession(t, ctx, tx, plan.ID, 2, types.SportGym, "Upper Body")

	llm := &stubLLM{call: respond(validPostWorkoutJSON)}
	engine := newTestEngine(db, log, llm)

	insight, err := engine.GeneratePostWorkout(ctx, tx, user.ID, act.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if insight.ActivityID == nil || *insight.ActivityID != act.ID {
		t.Fatal("expected insight linked to activity")
	}
	if insight.InsightDate.Format("2006-01-02") != "2025-07-02" {
		t.Fatalf("unexpected insight date %v", insight.InsightDate)
	}
	if !strings.Contains(llm.calls[0].user, "Bench Press") {
		t.Fatal("expected set rows rendered in prompt")
	}

	sessionRepo := repos.NewPlannedSessionRepo(db, log)
	got, err := sessionRepo.GetByID(ctx, tx, planned.ID)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if !got.Completed || got.ActivityID == nil || *got.ActivityID != act.ID {
		t.Fatalf("expected session linked, got %+v", got)
	}

	if _, err := engine.GeneratePostWorkout(ctx, tx, user.ID, act.ID); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict for repeat analysis, got %v", err)
	}
}

func TestGeneratePostWorkoutUnknownActivity(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "postworkout-missing@test.local")
	llm := &stubLLM{call: respond(validPostWorkoutJSON)}
	engine := newTestEngine(db, log, llm)

	_, err := engine.GeneratePostWorkout(ctx, tx, user.ID, uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGenerateSleepCoaching(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "sleep@test.local")
	today := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	testutil.SeedSnapshot(t, ctx, tx, user.ID, today.AddDate(0, 0, -1))

	llm := &stubLLM{call: respond(validSleepJSON)}
	engine := newTestEngine(db, log, llm)

	insight, err := engine.GenerateSleepCoaching(ctx, tx, user.ID, today)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if insight.InsightType != types.InsightSleep {
		t.Fatalf("unexpected type %s", insight.InsightType)
	}
	if !strings.Contains(insight.Content, "22:30") {
		t.Fatal("expected bedtime in content")
	}

	logs := promptLogs(t, tx)
	if len(logs) != 1 || logs[0].PromptType != "sleep" {
		t.Fatalf("unexpected prompt logs %+v", logs)
	}
}

func TestBudgetGuardRefusesWithoutCalling(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "budget@test.local")
	today := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)

	spent := 999.0
	over := &types.PromptLog{
		ID:               uuid.New(),
		PromptType:       "daily_briefing",
		PromptVersion:    "v1",
		Model:            "claude-opus-4-6",
		EstimatedCostUSD: &spent,
		Success:          true,
	}
	if err := tx.WithContext(ctx).Create(over).Error; err != nil {
		t.Fatalf("seed prompt log: %v", err)
	}

	llm := &stubLLM{call: respond(validBriefingJSON)}
	engine := newTestEngine(db, log, llm)

	_, err := engine.GenerateDailyBriefing(ctx, tx, user.ID, today)
	if !errors.Is(err, apperrors.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if len(llm.calls) != 0 {
		t.Fatal("budget refusal must not reach the model")
	}
	if got := promptLogs(t, tx); len(got) != 1 {
		t.Fatalf("refused call must not add a prompt log, got %d rows", len(got))
	}
}

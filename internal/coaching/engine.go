// Package coaching turns reconciled health and activity data into
// persisted model-generated artifacts: daily briefings, weekly plans,
// post-workout analyses, and sleep coaching.
package coaching

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/mycoach-backend/internal/coaching/prompts"
	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	apperrors "github.com/yungbote/mycoach-backend/internal/pkg/errors"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
	"github.com/yungbote/mycoach-backend/internal/services"
)

const PromptVersion = "v1"

// Appended to the user message on the single parse-failure retry.
const jsonOnlyReminder = "\n\nIMPORTANT: Respond ONLY with valid JSON."

// LLMClient is the slice of services.AnthropicClient the engine consumes.
type LLMClient interface {
	Call(ctx context.Context, system, userMessage, model string, maxTokens int) (*services.LLMResponse, error)
	DailyModel() string
	WeeklyModel() string
}

type Engine struct {
	db        *gorm.DB
	log       *logger.Logger
	llm       LLMClient
	assembler *ContextAssembler

	insightRepo   repos.CoachingInsightRepo
	promptLogRepo repos.PromptLogRepo
	planRepo      repos.WeeklyPlanRepo
	sessionRepo   repos.PlannedSessionRepo

	monthlyBudgetUSD float64
}

func NewEngine(
	db *gorm.DB,
	baseLog *logger.Logger,
	llm LLMClient,
	assembler *ContextAssembler,
	insightRepo repos.CoachingInsightRepo,
	promptLogRepo repos.PromptLogRepo,
	planRepo repos.WeeklyPlanRepo,
	sessionRepo repos.PlannedSessionRepo,
) *Engine {
	budget := 30.0
	if v := os.Getenv("LLM_MONTHLY_BUDGET_USD"); v != "" {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && parsed > 0 {
			budget = parsed
		}
	}
	return &Engine{
		db:               db,
		log:              baseLog.With("service", "CoachingEngine"),
		llm:              llm,
		assembler:        assembler,
		insightRepo:      insightRepo,
		promptLogRepo:    promptLogRepo,
		planRepo:         planRepo,
		sessionRepo:      sessionRepo,
		monthlyBudgetUSD: budget,
	}
}

// checkBudget refuses before any API call once the current month's logged
// spend reaches the cap. No PromptLog row is written for a refused call.
func (e *Engine) checkBudget(ctx context.Context, tx *gorm.DB) error {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	spent, err := e.promptLogRepo.MonthlyCostUSD(ctx, tx, monthStart)
	if err != nil {
		return err
	}
	if spent >= e.monthlyBudgetUSD {
		e.log.Warn("Monthly LLM budget exhausted", "spent_usd", spent, "budget_usd", e.monthlyBudgetUSD)
		return fmt.Errorf("monthly LLM budget of $%.2f exhausted ($%.2f spent): %w",
			e.monthlyBudgetUSD, spent, apperrors.ErrUnavailable)
	}
	return nil
}

// callAndParse runs the call → parse → retry-once state machine and writes
// the PromptLog row for the attempt, success or terminal failure. The retry
// fires only when the HTTP call itself succeeded but parsing failed.
func (e *Engine) callAndParse(
	ctx context.Context,
	tx *gorm.DB,
	model string,
	maxTokens int,
	p prompts.Prompt,
	parse func(string) error,
) (*services.LLMResponse, error) {
	promptType := p.Name
	var (
		resp     *services.LLMResponse
		errMsg   string
		parsedOK bool
	)

	resp, err := e.llm.Call(ctx, p.System, p.User, model, maxTokens)
	if err != nil {
		errMsg = err.Error()
		e.log.Error("Model call failed", "prompt_type", promptType, "error", errMsg)
	} else if parseErr := parse(resp.Content); parseErr != nil {
		errMsg = parseErr.Error()
		e.log.Error("Model response rejected, retrying once", "prompt_type", promptType, "error", errMsg)

		retryResp, retryErr := e.llm.Call(ctx, p.System, p.User+jsonOnlyReminder, model, maxTokens)
		if retryErr != nil {
			errMsg = fmt.Sprintf("retry also failed: %v", retryErr)
			e.log.Error("Model retry failed", "prompt_type", promptType, "error", retryErr.Error())
		} else {
			resp = retryResp
			if parseErr := parse(resp.Content); parseErr != nil {
				errMsg = fmt.Sprintf("retry also failed: %v", parseErr)
				e.log.Error("Model retry rejected", "prompt_type", promptType, "error", parseErr.Error())
			} else {
				errMsg = ""
				parsedOK = true
			}
		}
	} else {
		parsedOK = true
	}

	row := &types.PromptLog{
		PromptType:    promptType,
		PromptVersion: p.VersionTag(),
		Model:         model,
		PromptText:    p.User,
		Success:       parsedOK,
		Error:         errMsg,
	}
	if resp != nil {
		row.Model = resp.Model
		row.InputTokens = &resp.InputTokens
		row.OutputTokens = &resp.OutputTokens
		row.LatencyMS = &resp.LatencyMS
		row.EstimatedCostUSD = &resp.EstimatedCostUSD
		row.ResponseText = resp.Content
	}
	if _, logErr := e.promptLogRepo.Create(ctx, tx, []*types.PromptLog{row}); logErr != nil {
		e.log.Error("Failed to write prompt log", "prompt_type", promptType, "error", logErr.Error())
	}

	if !parsedOK {
		return nil, fmt.Errorf("failed to generate %s: %s: %w", promptType, errMsg, apperrors.ErrUnavailable)
	}
	return resp, nil
}

// GenerateDailyBriefing produces and stores today's briefing. At most one
// exists per (user, date).
func (e *Engine) GenerateDailyBriefing(ctx context.Context, tx *gorm.DB, userID uuid.UUID, today time.Time) (*types.CoachingInsight, error) {
	existing, err := e.insightRepo.GetByUserDateType(ctx, tx, userID, today, types.InsightDailyBriefing)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("daily briefing already exists for %s: %w",
			today.Format("2006-01-02"), apperrors.ErrConflict)
	}

	if err := e.checkBudget(ctx, tx); err != nil {
		return nil, err
	}

	healthToday, err := e.assembler.TodayHealth(ctx, tx, userID, today)
	if err != nil {
		return nil, err
	}
	trends, err := e.assembler.HealthTrends(ctx, tx, userID, 3, today)
	if err != nil {
		return nil, err
	}
	recent, err := e.assembler.RecentActivities(ctx, tx, userID, 3, today)
	if err != nil {
		return nil, err
	}
	planned, err := e.assembler.PlannedWorkoutText(ctx, tx, userID, today, "No planned workout for today.")
	if err != nil {
		return nil, err
	}

	p, err := prompts.Build(prompts.PromptDailyBriefing, prompts.Input{
		HealthToday:      healthToday,
		HealthTrends:     trends,
		RecentActivities: recent,
		PlannedWorkout:   planned,
	})
	if err != nil {
		return nil, err
	}

	var parsed *DailyBriefingResponse
	if _, err := e.callAndParse(ctx, tx, e.llm.DailyModel(), 0, p,
		func(text string) error {
			out, parseErr := ParseDailyBriefing(text)
			if parseErr != nil {
				return parseErr
			}
			parsed = out
			return nil
		}); err != nil {
		return nil, err
	}

	return e.storeInsight(ctx, tx, userID, today, types.InsightDailyBriefing, parsed, nil)
}

// GenerateWeeklyPlan produces and stores a plan for the week starting at
// weekStart (must be a Monday). Hard-fails before any model work when the
// anchor is wrong or no availability exists.
func (e *Engine) GenerateWeeklyPlan(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time) (*types.WeeklyPlan, error) {
	if MondayIndexedWeekday(weekStart) != 0 {
		return nil, fmt.Errorf("week_start must be a Monday: %w", apperrors.ErrInvalidArgument)
	}

	existing, err := e.planRepo.GetActiveForWeek(ctx, tx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("active plan already exists for week of %s: %w",
			weekStart.Format("2006-01-02"), apperrors.ErrConflict)
	}

	slots, availability, err := e.assembler.AvailabilityForWeek(ctx, tx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("no availability slots set for week of %s: %w",
			weekStart.Format("2006-01-02"), apperrors.ErrInvalidArgument)
	}

	if err := e.checkBudget(ctx, tx); err != nil {
		return nil, err
	}

	trends, err := e.assembler.HealthTrends(ctx, tx, userID, 7, weekStart)
	if err != nil {
		return nil, err
	}
	recent, err := e.assembler.RecentActivities(ctx, tx, userID, 14, weekStart)
	if err != nil {
		return nil, err
	}
	meso, err := e.assembler.MesocycleContext(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	profiles, err := e.assembler.SportProfiles(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	p, err := prompts.Build(prompts.PromptWeeklyPlan, prompts.Input{
		Availability:     availability,
		SportProfiles:    profiles,
		HealthTrends:     trends,
		RecentActivities: recent,
		MesocycleContext: meso,
	})
	if err != nil {
		return nil, err
	}

	var parsed *WeeklyPlanResponse
	resp, err := e.callAndParse(ctx, tx, e.llm.WeeklyModel(), 8192, p,
		func(text string) error {
			out, parseErr := ParseWeeklyPlan(text)
			if parseErr != nil {
				return parseErr
			}
			parsed = out
			return nil
		})
	if err != nil {
		return nil, err
	}

	plan := &types.WeeklyPlan{
		UserID:        userID,
		WeekStart:     weekStart,
		PromptVersion: p.VersionTag(),
		Status:        types.PlanStatusActive,
		Summary:       parsed.Summary,
		RawLLMOutput:  resp.Content,
	}
	if _, err := e.planRepo.Create(ctx, tx, []*types.WeeklyPlan{plan}); err != nil {
		return nil, err
	}

	rows := make([]*types.PlannedSession, 0, len(parsed.Sessions))
	for _, s := range parsed.Sessions {
		row := &types.PlannedSession{
			PlanID:          plan.ID,
			DayOfWeek:       s.DayOfWeek,
			Sport:           s.Sport,
			Title:           s.Title,
			DurationMinutes: s.DurationMinutes,
			Notes:           s.Notes,
		}
		if len(s.Details) > 0 {
			if data, mErr := json.Marshal(s.Details); mErr == nil {
				row.Details = datatypes.JSON(data)
			}
		}
		rows = append(rows, row)
	}
	if _, err := e.sessionRepo.Create(ctx, tx, rows); err != nil {
		return nil, err
	}

	e.log.Info("Weekly plan generated",
		"plan_id", plan.ID.String(),
		"week_start", weekStart.Format("2006-01-02"),
		"sessions", len(rows),
	)
	return plan, nil
}

// GeneratePostWorkout produces and stores the analysis for one completed
// activity, and best-effort links the matching planned session.
func (e *Engine) GeneratePostWorkout(ctx context.Context, tx *gorm.DB, userID, activityID uuid.UUID) (*types.CoachingInsight, error) {
	existing, err := e.insightRepo.GetByUserActivityType(ctx, tx, userID, activityID, types.InsightPostWorkout)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("post-workout analysis already exists for activity %s: %w",
			activityID, apperrors.ErrConflict)
	}

	act, details, err := e.assembler.ActivityWithDetails(ctx, tx, userID, activityID)
	if err != nil {
		return nil, err
	}

	if err := e.checkBudget(ctx, tx); err != nil {
		return nil, err
	}

	matched, err := e.assembler.FindMatchingPlannedSession(ctx, tx, userID, act)
	if err != nil {
		e.log.Warn("Planned session lookup failed", "activity_id", activityID.String(), "error", err.Error())
		matched = nil
	}
	similar, err := e.assembler.SimilarActivities(ctx, tx, userID, act.Sport, activityID)
	if err != nil {
		return nil, err
	}
	healthCtx, err := e.assembler.TodayHealth(ctx, tx, userID, act.StartTime)
	if err != nil {
		return nil, err
	}

	p, err := prompts.Build(prompts.PromptPostWorkout, prompts.Input{
		ActivityDetail:    formatActivityDetail(act),
		GymDetails:        formatGymDetails(details),
		PlannedSession:    formatPlannedSession(matched),
		SimilarActivities: similar,
		HealthContext:     healthCtx,
	})
	if err != nil {
		return nil, err
	}

	var parsed *PostWorkoutResponse
	if _, err := e.callAndParse(ctx, tx, e.llm.DailyModel(), 0, p,
		func(text string) error {
			out, parseErr := ParsePostWorkout(text)
			if parseErr != nil {
				return parseErr
			}
			parsed = out
			return nil
		}); err != nil {
		return nil, err
	}

	// Linkage must never block insight persistence.
	if matched != nil {
		matched.Completed = true
		matched.ActivityID = &act.ID
		if linkErr := e.sessionRepo.Update(ctx, tx, matched); linkErr != nil {
			e.log.Warn("Failed to link planned session",
				"session_id", matched.ID.String(),
				"activity_id", act.ID.String(),
				"error", linkErr.Error(),
			)
		}
	}

	return e.storeInsight(ctx, tx, userID, act.StartTime, types.InsightPostWorkout, parsed, &act.ID)
}

// GenerateSleepCoaching produces and stores today's sleep review. At most
// one exists per (user, date).
func (e *Engine) GenerateSleepCoaching(ctx context.Context, tx *gorm.DB, userID uuid.UUID, today time.Time) (*types.CoachingInsight, error) {
	existing, err := e.insightRepo.GetByUserDateType(ctx, tx, userID, today, types.InsightSleep)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("sleep coaching already exists for %s: %w",
			today.Format("2006-01-02"), apperrors.ErrConflict)
	}

	if err := e.checkBudget(ctx, tx); err != nil {
		return nil, err
	}

	sleepTrends, err := e.assembler.SleepTrends(ctx, tx, userID, 14, today)
	if err != nil {
		return nil, err
	}
	recent, err := e.assembler.RecentActivities(ctx, tx, userID, 7, today)
	if err != nil {
		return nil, err
	}
	tomorrow, err := e.assembler.PlannedWorkoutText(ctx, tx, userID, today.AddDate(0, 0, 1), "No workout planned for tomorrow.")
	if err != nil {
		return nil, err
	}

	p, err := prompts.Build(prompts.PromptSleepCoaching, prompts.Input{
		SleepTrends:      sleepTrends,
		RecentActivities: recent,
		TomorrowWorkout:  tomorrow,
	})
	if err != nil {
		return nil, err
	}

	var parsed *SleepCoachingResponse
	if _, err := e.callAndParse(ctx, tx, e.llm.DailyModel(), 0, p,
		func(text string) error {
			out, parseErr := ParseSleepCoaching(text)
			if parseErr != nil {
				return parseErr
			}
			parsed = out
			return nil
		}); err != nil {
		return nil, err
	}

	return e.storeInsight(ctx, tx, userID, today, types.InsightSleep, parsed, nil)
}

func (e *Engine) storeInsight(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time, insightType string, content any, activityID *uuid.UUID) (*types.CoachingInsight, error) {
	data, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	insight := &types.CoachingInsight{
		UserID:        userID,
		InsightDate:   date,
		InsightType:   insightType,
		Content:       string(data),
		PromptVersion: PromptVersion,
		ActivityID:    activityID,
	}
	if _, err := e.insightRepo.Create(ctx, tx, []*types.CoachingInsight{insight}); err != nil {
		return nil, err
	}
	e.log.Info("Coaching insight stored",
		"insight_type", insightType,
		"insight_date", date.Format("2006-01-02"),
		"insight_id", insight.ID.String(),
	)
	return insight, nil
}

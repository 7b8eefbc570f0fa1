package coaching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	apperrors "github.com/yungbote/mycoach-backend/internal/pkg/errors"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

// ContextAssembler gathers and formats the data blocks prompts are built
// from. Every block has an explicit "no data" sentence so the model never
// sees a silently empty section.
type ContextAssembler struct {
	log *logger.Logger

	snapshotRepo     repos.HealthSnapshotRepo
	activityRepo     repos.ActivityRepo
	detailRepo       repos.GymWorkoutDetailRepo
	availabilityRepo repos.AvailabilityRepo
	mesocycleRepo    repos.MesocycleRepo
	planRepo         repos.WeeklyPlanRepo
	sessionRepo      repos.PlannedSessionRepo
	profileRepo      repos.SportProfileRepo
}

func NewContextAssembler(
	baseLog *logger.Logger,
	snapshotRepo repos.HealthSnapshotRepo,
	activityRepo repos.ActivityRepo,
	detailRepo repos.GymWorkoutDetailRepo,
	availabilityRepo repos.AvailabilityRepo,
	mesocycleRepo repos.MesocycleRepo,
	planRepo repos.WeeklyPlanRepo,
	sessionRepo repos.PlannedSessionRepo,
	profileRepo repos.SportProfileRepo,
) *ContextAssembler {
	return &ContextAssembler{
		log:              baseLog.With("service", "CoachingContext"),
		snapshotRepo:     snapshotRepo,
		activityRepo:     activityRepo,
		detailRepo:       detailRepo,
		availabilityRepo: availabilityRepo,
		mesocycleRepo:    mesocycleRepo,
		planRepo:         planRepo,
		sessionRepo:      sessionRepo,
		profileRepo:      profileRepo,
	}
}

// TodayHealth formats the snapshot for one date.
func (c *ContextAssembler) TodayHealth(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (string, error) {
	snap, err := c.snapshotRepo.GetByDate(ctx, tx, userID, date)
	if err != nil {
		return "", err
	}
	return formatHealth(snap), nil
}

// HealthTrends formats the last `days` days of snapshots, excluding today,
// newest first.
func (c *ContextAssembler) HealthTrends(ctx context.Context, tx *gorm.DB, userID uuid.UUID, days int, today time.Time) (string, error) {
	from := today.AddDate(0, 0, -days-1)
	to := today.AddDate(0, 0, -1)
	snaps, err := c.snapshotRepo.ListRange(ctx, tx, userID, from, to, true)
	if err != nil {
		return "", err
	}
	if len(snaps) == 0 {
		return "No recent health data.", nil
	}
	parts := make([]string, 0, len(snaps))
	for _, s := range snaps {
		parts = append(parts, "### "+s.SnapshotDate.Format("2006-01-02")+"\n"+formatHealth(s))
	}
	return strings.Join(parts, "\n\n"), nil
}

// RecentActivities formats activities from the last `days` days, newest
// first.
func (c *ContextAssembler) RecentActivities(ctx context.Context, tx *gorm.DB, userID uuid.UUID, days int, today time.Time) (string, error) {
	since := today.AddDate(0, 0, -days)
	acts, err := c.activityRepo.ListRecent(ctx, tx, userID, since, 0)
	if err != nil {
		return "", err
	}
	return formatActivities(acts), nil
}

// SleepTrends formats sleep-centric snapshot fields for the last `days`
// days, newest first.
func (c *ContextAssembler) SleepTrends(ctx context.Context, tx *gorm.DB, userID uuid.UUID, days int, today time.Time) (string, error) {
	from := today.AddDate(0, 0, -days-1)
	to := today.AddDate(0, 0, -1)
	snaps, err := c.snapshotRepo.ListRange(ctx, tx, userID, from, to, true)
	if err != nil {
		return "", err
	}
	return formatSleepTrends(snaps), nil
}

// AvailabilityForWeek returns a week's slots plus their formatted block.
func (c *ContextAssembler) AvailabilityForWeek(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time) ([]*types.WeeklyAvailability, string, error) {
	slots, err := c.availabilityRepo.ListForWeek(ctx, tx, userID, weekStart)
	if err != nil {
		return nil, "", err
	}
	return slots, formatAvailability(slots), nil
}

// SportProfiles summarizes the user's per-sport experience and goals.
func (c *ContextAssembler) SportProfiles(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (string, error) {
	profiles, err := c.profileRepo.ListByUser(ctx, tx, userID)
	if err != nil {
		return "", err
	}
	return formatSportProfiles(profiles), nil
}

// MesocycleContext summarizes the user's configured training blocks.
func (c *ContextAssembler) MesocycleContext(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (string, error) {
	configs, err := c.mesocycleRepo.ListByUser(ctx, tx, userID)
	if err != nil {
		return "", err
	}
	return formatMesocycles(configs), nil
}

// ActivityWithDetails loads one activity (scoped to the user) and its gym
// set rows. Returns ErrNotFound when the activity does not exist or belongs
// to another user.
func (c *ContextAssembler) ActivityWithDetails(ctx context.Context, tx *gorm.DB, userID, activityID uuid.UUID) (*types.Activity, []*types.GymWorkoutDetail, error) {
	act, err := c.activityRepo.GetByID(ctx, tx, activityID)
	if err != nil {
		return nil, nil, err
	}
	if act == nil || act.UserID != userID {
		return nil, nil, fmt.Errorf("activity %s: %w", activityID, apperrors.ErrNotFound)
	}
	if act.Sport != types.SportGym {
		return act, nil, nil
	}
	details, err := c.detailRepo.ListByActivity(ctx, tx, activityID)
	if err != nil {
		return nil, nil, err
	}
	return act, details, nil
}

// SimilarActivities formats recent same-sport activities, excluding the one
// under analysis.
func (c *ContextAssembler) SimilarActivities(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sport string, excludeID uuid.UUID) (string, error) {
	acts, err := c.activityRepo.ListSimilar(ctx, tx, userID, sport, excludeID, 5)
	if err != nil {
		return "", err
	}
	return formatActivities(acts), nil
}

// FindMatchingPlannedSession locates the planned session a finished workout
// corresponds to: the active plan covering the workout's week, matching
// weekday and sport.
func (c *ContextAssembler) FindMatchingPlannedSession(ctx context.Context, tx *gorm.DB, userID uuid.UUID, act *types.Activity) (*types.PlannedSession, error) {
	weekStart := MondayOf(act.StartTime)
	return c.sessionRepo.FindMatch(ctx, tx, userID, weekStart, MondayIndexedWeekday(act.StartTime), act.Sport)
}

// PlannedWorkoutText formats the planned session for one date, or returns
// the given empty-state sentence.
func (c *ContextAssembler) PlannedWorkoutText(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time, empty string) (string, error) {
	s, err := c.sessionRepo.FindMatchAnySport(ctx, tx, userID, MondayOf(date), MondayIndexedWeekday(date))
	if err != nil {
		return "", err
	}
	if s == nil {
		return empty, nil
	}
	return formatPlannedSession(s), nil
}

// MondayOf truncates to the Monday of t's week.
func MondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -MondayIndexedWeekday(t))
}

// MondayIndexedWeekday maps time.Weekday onto the 0=Monday convention the
// plan rows use.
func MondayIndexedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func formatHealth(s *types.DailyHealthSnapshot) string {
	if s == nil {
		return "No health data available for today."
	}
	var lines []string
	add := func(label string, v any, ok bool) {
		if ok {
			lines = append(lines, fmt.Sprintf("- %s: %v", label, v))
		}
	}
	addInt := func(label string, v *int) {
		if v != nil {
			add(label, *v, true)
		}
	}
	addFloat := func(label string, v *float64) {
		if v != nil {
			add(label, *v, true)
		}
	}
	addInt("Resting HR", s.RestingHR)
	addInt("Avg HR", s.AvgHR)
	addInt("Max HR", s.MaxHR)
	addFloat("HRV", s.HRVStatus)
	addFloat("HRV 7-day avg", s.HRV7DayAvg)
	addInt("Sleep duration (min)", s.SleepDurationMinutes)
	addInt("Sleep score", s.SleepScore)
	addInt("Deep sleep (min)", s.SleepDeepMinutes)
	addInt("REM sleep (min)", s.SleepREMMinutes)
	addInt("Body Battery high", s.BodyBatteryHigh)
	addInt("Body Battery low", s.BodyBatteryLow)
	addInt("Avg stress", s.AvgStress)
	addInt("Training readiness", s.TrainingReadiness)
	addFloat("Training load", s.TrainingLoad)
	add("Training status", s.TrainingStatus, s.TrainingStatus != "")
	addFloat("VO2 max", s.VO2Max)
	addInt("Steps", s.Steps)

	if len(lines) == 0 {
		return "No health data available for today."
	}
	return strings.Join(lines, "\n")
}

func formatActivities(acts []*types.Activity) string {
	if len(acts) == 0 {
		return "No recent activities."
	}
	lines := make([]string, 0, len(acts))
	for _, a := range acts {
		dur := ""
		if a.DurationMinutes != nil {
			dur = fmt.Sprintf(" (%d min)", *a.DurationMinutes)
		}
		lines = append(lines, fmt.Sprintf("- %s: %s [%s]%s",
			a.StartTime.Format("2006-01-02 15:04"), a.Title, a.Sport, dur))
	}
	return strings.Join(lines, "\n")
}

func formatAvailability(slots []*types.WeeklyAvailability) string {
	if len(slots) == 0 {
		return "No availability slots set."
	}
	lines := make([]string, 0, len(slots))
	for _, s := range slots {
		day := fmt.Sprintf("Day %d", s.DayOfWeek)
		if s.DayOfWeek >= 0 && s.DayOfWeek < len(dayNames) {
			day = dayNames[s.DayOfWeek]
		}
		sport := s.PreferredSport
		if sport == "" {
			sport = "any"
		}
		lines = append(lines, fmt.Sprintf("- %s at %s (%d min) - %s", day, s.StartTime, s.DurationMinutes, sport))
	}
	return strings.Join(lines, "\n")
}

func formatMesocycles(configs []*types.MesocycleConfig) string {
	if len(configs) == 0 {
		return "No mesocycle configured. Use general progressive programming."
	}
	lines := make([]string, 0, len(configs))
	for _, m := range configs {
		line := fmt.Sprintf("- %s: week %d of %d, %s phase, started %s",
			m.Sport, m.CurrentWeek, m.BlockLengthWeeks, m.Phase, m.StartDate.Format("2006-01-02"))
		if m.ProgressionRules != "" {
			line += ", progression rules: " + m.ProgressionRules
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatSportProfiles(profiles []*types.SportProfile) string {
	if len(profiles) == 0 {
		return "No sport profiles set."
	}
	lines := make([]string, 0, len(profiles))
	for _, p := range profiles {
		line := fmt.Sprintf("- %s: %s", p.Sport, p.SkillLevel)
		if p.Goals != "" {
			line += ", goals: " + p.Goals
		}
		if len(p.Benchmarks) > 0 {
			line += ", benchmarks: " + string(p.Benchmarks)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatActivityDetail(a *types.Activity) string {
	if a == nil {
		return "No activity data."
	}
	lines := []string{
		fmt.Sprintf("- Title: %s", a.Title),
		fmt.Sprintf("- Sport: %s", a.Sport),
		fmt.Sprintf("- Start: %s", a.StartTime.Format("2006-01-02 15:04")),
	}
	addInt := func(label string, v *int) {
		if v != nil {
			lines = append(lines, fmt.Sprintf("- %s: %d", label, *v))
		}
	}
	addInt("Duration (min)", a.DurationMinutes)
	addInt("Avg HR", a.AvgHR)
	addInt("Max HR", a.MaxHR)
	addInt("Calories", a.Calories)
	if a.TrainingEffectAerobic != nil {
		lines = append(lines, fmt.Sprintf("- Aerobic training effect: %.1f", *a.TrainingEffectAerobic))
	}
	if a.TrainingEffectAnaerobic != nil {
		lines = append(lines, fmt.Sprintf("- Anaerobic training effect: %.1f", *a.TrainingEffectAnaerobic))
	}
	return strings.Join(lines, "\n")
}

func formatGymDetails(details []*types.GymWorkoutDetail) string {
	if len(details) == 0 {
		return "No gym workout details recorded."
	}
	var b strings.Builder
	var current string
	for _, d := range details {
		if d.ExerciseTitle != current {
			if current != "" {
				b.WriteString("\n")
			}
			current = d.ExerciseTitle
			b.WriteString("**" + current + "**\n")
		}
		b.WriteString(fmt.Sprintf("  - Set %d:", d.SetIndex))
		if d.WeightKG != nil {
			b.WriteString(fmt.Sprintf(" %.1fkg", *d.WeightKG))
		}
		if d.Reps != nil {
			b.WriteString(fmt.Sprintf(" x%d", *d.Reps))
		}
		if d.DistanceMeters != nil {
			b.WriteString(fmt.Sprintf(" %.1fm", *d.DistanceMeters))
		}
		if d.DurationSeconds != nil {
			b.WriteString(fmt.Sprintf(" %ds", *d.DurationSeconds))
		}
		if d.RPE != nil {
			b.WriteString(fmt.Sprintf(" RPE %.1f", *d.RPE))
		}
		if d.SetType != "" && d.SetType != "normal" {
			b.WriteString(" (" + d.SetType + ")")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPlannedSession(s *types.PlannedSession) string {
	if s == nil {
		return "No planned session matched this workout."
	}
	lines := []string{
		fmt.Sprintf("- Title: %s", s.Title),
		fmt.Sprintf("- Sport: %s", s.Sport),
	}
	if s.DurationMinutes != nil {
		lines = append(lines, fmt.Sprintf("- Duration (min): %d", *s.DurationMinutes))
	}
	if len(s.Details) > 0 {
		lines = append(lines, "- Details: "+string(s.Details))
	}
	if s.Notes != "" {
		lines = append(lines, "- Notes: "+s.Notes)
	}
	return strings.Join(lines, "\n")
}

func formatSleepTrends(snaps []*types.DailyHealthSnapshot) string {
	if len(snaps) == 0 {
		return "No sleep data available."
	}
	parts := make([]string, 0, len(snaps))
	for _, s := range snaps {
		var lines []string
		addInt := func(label string, v *int) {
			if v != nil {
				lines = append(lines, fmt.Sprintf("- %s: %d", label, *v))
			}
		}
		addInt("Sleep duration (min)", s.SleepDurationMinutes)
		addInt("Sleep score", s.SleepScore)
		addInt("Deep sleep (min)", s.SleepDeepMinutes)
		addInt("REM sleep (min)", s.SleepREMMinutes)
		addInt("Light sleep (min)", s.SleepLightMinutes)
		addInt("Awake (min)", s.SleepAwakeMinutes)
		addInt("Resting HR", s.RestingHR)
		if s.HRVStatus != nil {
			lines = append(lines, fmt.Sprintf("- HRV: %v", *s.HRVStatus))
		}
		addInt("Body Battery high", s.BodyBatteryHigh)
		if len(lines) == 0 {
			continue
		}
		parts = append(parts, "### "+s.SnapshotDate.Format("2006-01-02")+"\n"+strings.Join(lines, "\n"))
	}
	if len(parts) == 0 {
		return "No sleep data available."
	}
	return strings.Join(parts, "\n\n")
}

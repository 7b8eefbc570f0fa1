package coaching

import (
	"fmt"
)

// Structured response contracts. The model is asked for exactly these
// shapes; Validate enforces the parts encoding/json cannot.

type DailyBriefingKeyMetrics struct {
	BodyBattery       *int     `json:"body_battery,omitempty"`
	HRVStatus         *float64 `json:"hrv_status,omitempty"`
	SleepScore        *int     `json:"sleep_score,omitempty"`
	TrainingReadiness *int     `json:"training_readiness,omitempty"`
	RestingHR         *int     `json:"resting_hr,omitempty"`
}

type DailyBriefingResponse struct {
	SleepAssessment      string                  `json:"sleep_assessment"`
	RecoveryStatus       string                  `json:"recovery_status"`
	ReadinessVerdict     string                  `json:"readiness_verdict"`
	ReadinessExplanation string                  `json:"readiness_explanation"`
	WorkoutAdjustments   string                  `json:"workout_adjustments"`
	SleepRecommendation  string                  `json:"sleep_recommendation"`
	KeyMetrics           DailyBriefingKeyMetrics `json:"key_metrics"`
}

var readinessVerdicts = map[string]bool{
	"go_hard":         true,
	"moderate":        true,
	"active_recovery": true,
	"rest":            true,
}

func (r *DailyBriefingResponse) Validate() error {
	for field, v := range map[string]string{
		"sleep_assessment":      r.SleepAssessment,
		"recovery_status":       r.RecoveryStatus,
		"readiness_explanation": r.ReadinessExplanation,
		"workout_adjustments":   r.WorkoutAdjustments,
		"sleep_recommendation":  r.SleepRecommendation,
	} {
		if v == "" {
			return fmt.Errorf("%s is required", field)
		}
	}
	if !readinessVerdicts[r.ReadinessVerdict] {
		return fmt.Errorf("readiness_verdict %q not one of go_hard|moderate|active_recovery|rest", r.ReadinessVerdict)
	}
	return nil
}

type WeeklyPlanSessionResponse struct {
	DayOfWeek       int            `json:"day_of_week"`
	Sport           string         `json:"sport"`
	Title           string         `json:"title"`
	DurationMinutes *int           `json:"duration_minutes,omitempty"`
	Details         map[string]any `json:"details,omitempty"`
	Notes           string         `json:"notes,omitempty"`
}

type WeeklyPlanResponse struct {
	Summary  string                      `json:"summary"`
	Sessions []WeeklyPlanSessionResponse `json:"sessions"`
}

func (r *WeeklyPlanResponse) Validate() error {
	if r.Summary == "" {
		return fmt.Errorf("summary is required")
	}
	if len(r.Sessions) == 0 {
		return fmt.Errorf("sessions must contain at least one entry")
	}
	for i, s := range r.Sessions {
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
			return fmt.Errorf("sessions[%d].day_of_week %d out of range 0-6", i, s.DayOfWeek)
		}
		if s.Sport == "" {
			return fmt.Errorf("sessions[%d].sport is required", i)
		}
		if s.Title == "" {
			return fmt.Errorf("sessions[%d].title is required", i)
		}
	}
	return nil
}

type PostWorkoutResponse struct {
	PerformanceSummary         string   `json:"performance_summary"`
	PlannedVsActual            string   `json:"planned_vs_actual"`
	PerformanceTrends          string   `json:"performance_trends"`
	HRAnalysis                 string   `json:"hr_analysis"`
	TrainingEffectAssessment   string   `json:"training_effect_assessment"`
	KeyHighlights              []string `json:"key_highlights"`
	AreasForImprovement        []string `json:"areas_for_improvement"`
	NextSessionRecommendations string   `json:"next_session_recommendations"`
	RecoveryNotes              string   `json:"recovery_notes"`
}

func (r *PostWorkoutResponse) Validate() error {
	for field, v := range map[string]string{
		"performance_summary":          r.PerformanceSummary,
		"planned_vs_actual":            r.PlannedVsActual,
		"performance_trends":           r.PerformanceTrends,
		"hr_analysis":                  r.HRAnalysis,
		"training_effect_assessment":   r.TrainingEffectAssessment,
		"next_session_recommendations": r.NextSessionRecommendations,
		"recovery_notes":               r.RecoveryNotes,
	} {
		if v == "" {
			return fmt.Errorf("%s is required", field)
		}
	}
	if len(r.KeyHighlights) == 0 {
		return fmt.Errorf("key_highlights must contain at least one entry")
	}
	return nil
}

type SleepCoachingResponse struct {
	SleepQualitySummary    string   `json:"sleep_quality_summary"`
	ConsistencyAnalysis    string   `json:"consistency_analysis"`
	SleepArchitecture      string   `json:"sleep_architecture"`
	PerformanceCorrelation string   `json:"performance_correlation"`
	RecommendedBedtime     string   `json:"recommended_bedtime"`
	RecommendedWakeTime    string   `json:"recommended_wake_time"`
	SleepDebtAssessment    string   `json:"sleep_debt_assessment"`
	HygieneTips            []string `json:"hygiene_tips"`
	KeyConcern             string   `json:"key_concern"`
}

func (r *SleepCoachingResponse) Validate() error {
	for field, v := range map[string]string{
		"sleep_quality_summary":   r.SleepQualitySummary,
		"consistency_analysis":    r.ConsistencyAnalysis,
		"sleep_architecture":      r.SleepArchitecture,
		"performance_correlation": r.PerformanceCorrelation,
		"recommended_bedtime":     r.RecommendedBedtime,
		"recommended_wake_time":   r.RecommendedWakeTime,
		"sleep_debt_assessment":   r.SleepDebtAssessment,
		"key_concern":             r.KeyConcern,
	} {
		if v == "" {
			return fmt.Errorf("%s is required", field)
		}
	}
	if len(r.HygieneTips) < 2 {
		return fmt.Errorf("hygiene_tips must contain at least two entries")
	}
	return nil
}

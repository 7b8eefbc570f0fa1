package prompts

const systemPrompt = `
You are an experienced endurance and strength coach. You advise one athlete
using their wearable health data, logged workouts, and training plan.
Be direct and specific. Ground every claim in the data you are given; if a
metric is missing, say so instead of guessing. Use metric units.
Always respond with a single JSON object and nothing else.`

func RegisterAll() {
	RegisterSpec(Spec{
		Name:    PromptDailyBriefing,
		Version: 1,
		System:  systemPrompt,
		User: `
Generate today's training briefing.

## Today's health data
{{.HealthToday}}

## Recent health trends
{{.HealthTrends}}

## Recent activities
{{.RecentActivities}}

## Planned workout
{{.PlannedWorkout}}

Respond with a JSON object with exactly these fields:
- sleep_assessment: 2-3 sentences on last night's sleep.
- recovery_status: 2-3 sentences on recovery (HRV, body battery, stress).
- readiness_verdict: one of go_hard | moderate | active_recovery | rest.
- readiness_explanation: why that verdict, citing the metrics.
- workout_adjustments: concrete changes to today's planned workout.
- sleep_recommendation: one actionable tip for tonight.
- key_metrics: object with body_battery, hrv_status, sleep_score,
  training_readiness, resting_hr (numbers, omit what is unknown).`,
	})

	RegisterSpec(Spec{
		Name:    PromptWeeklyPlan,
		Version: 1,
		System:  systemPrompt,
		User: `
Build a training plan for the coming week.

## Availability
{{.Availability}}

## Athlete profile
{{.SportProfiles}}

## Recent health trends
{{.HealthTrends}}

## Recent activities
{{.RecentActivities}}

## Mesocycle
{{.MesocycleContext}}

Rules:
- Schedule one session per availability slot, never outside a slot.
- Respect the slot's preferred sport and duration.
- Balance intensity across the week; hard days need easy days after.
- day_of_week: 0 is Monday, 6 is Sunday.

Respond with a JSON object with exactly these fields:
- summary: 2-4 sentence overview of the week's intent.
- sessions: array (at least one) of objects with day_of_week (0-6),
  sport, title, duration_minutes, details (object, e.g. exercises or
  intervals), notes.`,
		Validators: []Validator{
			RequireNonEmpty("Availability", func(in Input) string { return in.Availability }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptPostWorkout,
		Version: 1,
		System:  systemPrompt,
		User: `
Analyze this completed workout.

## Activity
{{.ActivityDetail}}

## Sets
{{.GymDetails}}

## Planned session
{{.PlannedSession}}

## Similar recent workouts
{{.SimilarActivities}}

## Health that day
{{.HealthContext}}

Respond with a JSON object with exactly these fields:
- performance_summary: 2-3 sentences on how the session went.
- planned_vs_actual: how it compared to the planned session, if any.
- performance_trends: trend versus the similar workouts.
- hr_analysis: heart-rate and zone commentary, if HR data exists.
- training_effect_assessment: aerobic/anaerobic stimulus assessment.
- key_highlights: array (at least one) of standout observations.
- areas_for_improvement: array of things to fix.
- next_session_recommendations: what to change next time.
- recovery_notes: recovery guidance given the health data.`,
		Validators: []Validator{
			RequireNonEmpty("ActivityDetail", func(in Input) string { return in.ActivityDetail }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptSleepCoaching,
		Version: 1,
		System:  systemPrompt,
		User: `
Review this athlete's recent sleep and advise.

## Sleep trends (most recent first)
{{.SleepTrends}}

## Recent activities
{{.RecentActivities}}

## Tomorrow
{{.TomorrowWorkout}}

Respond with a JSON object with exactly these fields:
- sleep_quality_summary: 2-3 sentences on overall sleep quality.
- consistency_analysis: bedtime/wake consistency.
- sleep_architecture: deep/REM/light balance.
- performance_correlation: how sleep has tracked training readiness.
- recommended_bedtime: "HH:MM".
- recommended_wake_time: "HH:MM".
- sleep_debt_assessment: accumulated debt, if any.
- hygiene_tips: array of at least two concrete tips.
- key_concern: the single biggest issue, or "None".`,
	})
}

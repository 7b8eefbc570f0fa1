package prompts

type PromptName string

const (
	PromptDailyBriefing PromptName = "daily_briefing"
	PromptWeeklyPlan    PromptName = "weekly_plan"
	PromptPostWorkout   PromptName = "post_workout"
	PromptSleepCoaching PromptName = "sleep"
)

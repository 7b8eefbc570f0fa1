package prompts

// Input is a superset of all fields any prompt might need. Every field is a
// pre-formatted text block; missing fields render empty strings (templates
// use missingkey=zero).
type Input struct {
	// Daily briefing
	HealthToday      string
	HealthTrends     string
	RecentActivities string
	PlannedWorkout   string
	// Weekly plan
	Availability     string
	SportProfiles    string
	MesocycleContext string
	// Post-workout
	ActivityDetail    string
	GymDetails        string
	PlannedSession    string
	SimilarActivities string
	HealthContext     string
	// Sleep coaching
	SleepTrends     string
	TomorrowWorkout string
}

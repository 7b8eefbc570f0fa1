package garmin

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/mycoach-backend/internal/domain"
)

// Garmin activity type key -> sport classification.
var garminSportMap = map[string]string{
	"swimming":            types.SportSwimming,
	"lap_swimming":        types.SportSwimming,
	"open_water_swimming": types.SportSwimming,
	"pool_swimming":       types.SportSwimming,
	"strength_training":   types.SportGym,
	"cardio":              types.SportCardio,
	"running":             types.SportCardio,
	"cycling":             types.SportCardio,
	"walking":             types.SportCardio,
	"hiking":              types.SportCardio,
	"indoor_cardio":       types.SportCardio,
	"elliptical":          types.SportCardio,
	"other":               types.SportOther,
}

func safeInt(v any) *int {
	switch n := v.(type) {
	case nil:
		return nil
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	case json.Number:
		if f, err := n.Float64(); err == nil {
			i := int(f)
			return &i
		}
		return nil
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			i := int(f)
			return &i
		}
		return nil
	default:
		return nil
	}
}

func safeFloat(v any) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f
		}
		return nil
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}

func classifySport(activityType string) string {
	normalized := strings.ReplaceAll(strings.ToLower(activityType), " ", "_")
	if sport, ok := garminSportMap[normalized]; ok {
		return sport
	}
	return types.SportOther
}

// parseGarminTimestamp accepts epoch millis or one of Garmin's ISO shapes.
func parseGarminTimestamp(v any) *time.Time {
	switch ts := v.(type) {
	case nil:
		return nil
	case float64:
		t := time.UnixMilli(int64(ts)).UTC()
		return &t
	case int64:
		t := time.UnixMilli(ts).UTC()
		return &t
	case string:
		s := strings.TrimSpace(ts)
		if s == "" {
			return nil
		}
		for _, layout := range []string{
			time.RFC3339,
			"2006-01-02T15:04:05.000",
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
		} {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
		return nil
	default:
		return nil
	}
}

func dig(m map[string]any, keys ...string) any {
	cur := any(m)
	for _, k := range keys {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = mm[k]
	}
	return cur
}

// SnapshotBundle carries the raw per-day provider payloads. Any member may
// be nil when its endpoint failed; the mapper degrades field by field.
type SnapshotBundle struct {
	Stats             map[string]any
	Sleep             map[string]any
	HRV               map[string]any
	Stress            map[string]any
	BodyBattery       []map[string]any
	TrainingReadiness map[string]any
	TrainingStatus    map[string]any
	MaxMetrics        map[string]any
	Respiration       map[string]any
	SpO2              map[string]any
}

func secondsToMinutes(secs *int) *int {
	if secs == nil || *secs == 0 {
		return nil
	}
	m := *secs / 60
	return &m
}

// MapHealthSnapshot builds a snapshot row from raw provider payloads.
func MapHealthSnapshot(userID uuid.UUID, snapshotDate time.Time, b SnapshotBundle) *types.DailyHealthSnapshot {
	stats := b.Stats
	if stats == nil {
		stats = map[string]any{}
	}

	snap := &types.DailyHealthSnapshot{
		UserID:       userID,
		SnapshotDate: snapshotDate,
		RestingHR:    safeInt(stats["restingHeartRate"]),
		MaxHR:        safeInt(stats["maxHeartRate"]),
		AvgHR:        safeInt(stats["averageHeartRate"]),
		Steps:        safeInt(stats["totalSteps"]),
		DataSource:   types.SourceGarmin,
	}

	if b.HRV != nil {
		summary := b.HRV
		if s, ok := b.HRV["hrvSummary"].(map[string]any); ok {
			summary = s
		}
		snap.HRVStatus = safeFloat(summary["lastNightAvg"])
		snap.HRV7DayAvg = safeFloat(summary["weeklyAvg"])
	}

	if b.Sleep != nil {
		daily := b.Sleep
		if d, ok := b.Sleep["dailySleepDTO"].(map[string]any); ok {
			daily = d
		}
		snap.SleepDurationMinutes = secondsToMinutes(safeInt(daily["sleepTimeSeconds"]))
		snap.SleepScore = safeInt(dig(daily, "sleepScores", "overall", "value"))
		snap.SleepDeepMinutes = secondsToMinutes(safeInt(daily["deepSleepSeconds"]))
		snap.SleepLightMinutes = secondsToMinutes(safeInt(daily["lightSleepSeconds"]))
		snap.SleepREMMinutes = secondsToMinutes(safeInt(daily["remSleepSeconds"]))
		snap.SleepAwakeMinutes = secondsToMinutes(safeInt(daily["awakeSleepSeconds"]))
	}

	if len(b.BodyBattery) > 0 {
		var high, low *int
		for _, entry := range b.BodyBattery {
			if v := safeInt(entry["charged"]); v != nil && *v != 0 {
				if high == nil || *v > *high {
					high = v
				}
			}
			if v := safeInt(entry["drained"]); v != nil && *v != 0 {
				if low == nil || *v < *low {
					low = v
				}
			}
		}
		snap.BodyBatteryHigh = high
		snap.BodyBatteryLow = low
	}

	if b.Stress != nil {
		snap.AvgStress = safeInt(b.Stress["overallStressLevel"])
	}

	if b.TrainingReadiness != nil {
		snap.TrainingReadiness = safeInt(b.TrainingReadiness["score"])
	}

	if b.TrainingStatus != nil {
		snap.TrainingLoad = safeFloat(b.TrainingStatus["trainingLoad"])
		if s, ok := b.TrainingStatus["trainingStatus"].(string); ok {
			snap.TrainingStatus = s
		}
	}

	if b.MaxMetrics != nil {
		switch generic := b.MaxMetrics["generic"].(type) {
		case map[string]any:
			snap.VO2Max = safeFloat(generic["vo2MaxValue"])
		case []any:
			if len(generic) > 0 {
				if first, ok := generic[0].(map[string]any); ok {
					snap.VO2Max = safeFloat(first["vo2MaxValue"])
				}
			}
		default:
			snap.VO2Max = safeFloat(b.MaxMetrics["vo2MaxValue"])
		}
	}

	if b.Respiration != nil {
		snap.RespirationAvg = safeFloat(b.Respiration["avgWakingRespirationValue"])
	}

	if b.SpO2 != nil {
		snap.SpO2Avg = safeFloat(b.SpO2["averageSpo2"])
	}

	if v, ok := stats["intensityMinutes"]; ok && v != nil {
		snap.IntensityMinutes = safeInt(v)
	} else if v, ok := stats["moderateIntensityMinutes"]; ok && v != nil {
		snap.IntensityMinutes = safeInt(v)
	}

	raw := map[string]any{
		"stats":              b.Stats,
		"sleep":              b.Sleep,
		"hrv":                b.HRV,
		"stress":             b.Stress,
		"body_battery":       b.BodyBattery,
		"training_readiness": b.TrainingReadiness,
		"training_status":    b.TrainingStatus,
		"max_metrics":        b.MaxMetrics,
		"respiration":        b.Respiration,
		"spo2":               b.SpO2,
	}
	if data, err := json.Marshal(raw); err == nil {
		snap.RawData = datatypes.JSON(data)
	}

	return snap
}

// MapActivity maps one raw Garmin activity dict to an Activity row.
func MapActivity(userID uuid.UUID, raw map[string]any) *types.Activity {
	typeKey := ""
	if at, ok := raw["activityType"].(map[string]any); ok {
		if tk, ok := at["typeKey"].(string); ok {
			typeKey = tk
		}
	}
	sport := classifySport(typeKey)

	start := parseGarminTimestamp(raw["startTimeLocal"])
	if start == nil {
		start = parseGarminTimestamp(raw["startTimeGMT"])
	}

	durationSecs := safeFloat(raw["duration"])
	var durationMins *int
	var end *time.Time
	if durationSecs != nil && *durationSecs != 0 {
		m := int(*durationSecs / 60)
		durationMins = &m
		if start != nil {
			e := start.Add(time.Duration(*durationSecs) * time.Second)
			end = &e
		}
	}

	title := typeKey
	if name, ok := raw["activityName"].(string); ok && name != "" {
		title = name
	}
	if title == "" {
		title = "Unknown"
	}

	startTime := time.Now().UTC()
	if start != nil {
		startTime = *start
	}

	activity := &types.Activity{
		UserID:                  userID,
		Sport:                   sport,
		Title:                   title,
		StartTime:               startTime,
		EndTime:                 end,
		DurationMinutes:         durationMins,
		AvgHR:                   safeInt(raw["averageHR"]),
		MaxHR:                   safeInt(raw["maxHR"]),
		Calories:                safeInt(raw["calories"]),
		TrainingEffectAerobic:   safeFloat(raw["aerobicTrainingEffect"]),
		TrainingEffectAnaerobic: safeFloat(raw["anaerobicTrainingEffect"]),
		DataSource:              types.SourceGarmin,
	}

	if zones, ok := raw["heartRateZones"]; ok && zones != nil {
		if data, err := json.Marshal(zones); err == nil {
			activity.HRZones = datatypes.JSON(data)
		}
	}

	if id, ok := raw["activityId"]; ok && id != nil {
		var s string
		switch v := id.(type) {
		case float64:
			s = strconv.FormatInt(int64(v), 10)
		case string:
			s = v
		default:
			s = ""
		}
		if s != "" {
			activity.GarminActivityID = &s
		}
	}

	return activity
}

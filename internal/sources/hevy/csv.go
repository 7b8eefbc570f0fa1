// Package hevy parses Hevy CSV workout exports and imports them as gym
// activities with per-set detail rows.
package hevy

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	lbsToKG       = 0.45359237
	milesToMeters = 1609.344
)

var requiredColumns = []string{
	"title",
	"start_time",
	"end_time",
	"exercise_title",
	"set_index",
	"set_type",
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// Set is a single parsed CSV row. Weights arrive in lbs and distances in
// miles; they are stored converted (kg rounded to 2dp, meters to 1dp).
type Set struct {
	ExerciseTitle   string
	SetIndex        int
	SetType         string
	SupersetID      *int
	ExerciseNotes   string
	WeightKG        *float64
	Reps            *int
	DistanceMeters  *float64
	DurationSeconds *int
	RPE             *float64
}

// Workout groups the rows sharing one (title, raw start_time) pair.
type Workout struct {
	Title     string
	StartTime time.Time
	EndTime   *time.Time
	Sets      []Set
}

type ParseResult struct {
	Workouts    []*Workout
	Errors      []string
	RowsParsed  int
	RowsSkipped int
}

func parseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseOptionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	if f := parseOptionalFloat(s); f != nil {
		v := int(*f)
		return &v
	}
	return nil
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// ParseCSV parses a raw Hevy export. Malformed rows are reported and
// skipped; they never abort the parse.
func ParseCSV(content string) *ParseResult {
	result := &ParseResult{}

	// BOM shows up in Windows exports.
	content = strings.TrimPrefix(content, "\ufeff")

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, "CSV file is empty or has no header row")
		return result
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		result.Errors = append(result.Errors,
			fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")))
		return result
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	type workoutKey struct {
		title    string
		startRaw string
	}
	workoutsMap := make(map[workoutKey]*Workout)
	var order []workoutKey

	rowNum := 1 // header
	for {
		rowNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			result.RowsSkipped++
			continue
		}

		title := strings.TrimSpace(field(record, "title"))
		startRaw := strings.TrimSpace(field(record, "start_time"))
		exerciseTitle := strings.TrimSpace(field(record, "exercise_title"))

		if title == "" || startRaw == "" || exerciseTitle == "" {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: missing title, start_time, or exercise_title", rowNum))
			result.RowsSkipped++
			continue
		}

		startTime, ok := parseTimestamp(startRaw)
		if !ok {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: invalid start_time '%s'", rowNum, startRaw))
			result.RowsSkipped++
			continue
		}

		setIndex := parseOptionalInt(field(record, "set_index"))
		if setIndex == nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: invalid or missing set_index", rowNum))
			result.RowsSkipped++
			continue
		}

		setType := strings.ToLower(strings.TrimSpace(field(record, "set_type")))
		switch setType {
		case "normal", "warmup", "dropset", "failure":
		default:
			setType = "normal"
		}

		var weightKG *float64
		if lbs := parseOptionalFloat(field(record, "weight_lbs")); lbs != nil {
			v := round(*lbs*lbsToKG, 2)
			weightKG = &v
		}

		var distanceMeters *float64
		if miles := parseOptionalFloat(field(record, "distance_miles")); miles != nil {
			v := round(*miles*milesToMeters, 1)
			distanceMeters = &v
		}

		rpe := parseOptionalFloat(field(record, "rpe"))
		if rpe != nil && (*rpe < 1 || *rpe > 10) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: RPE %v out of range 1-10, ignoring", rowNum, *rpe))
			rpe = nil
		}

		set := Set{
			ExerciseTitle:   exerciseTitle,
			SetIndex:        *setIndex,
			SetType:         setType,
			SupersetID:      parseOptionalInt(field(record, "superset_id")),
			ExerciseNotes:   strings.TrimSpace(field(record, "exercise_notes")),
			WeightKG:        weightKG,
			Reps:            parseOptionalInt(field(record, "reps")),
			DistanceMeters:  distanceMeters,
			DurationSeconds: parseOptionalInt(field(record, "duration_seconds")),
			RPE:             rpe,
		}

		key := workoutKey{title: title, startRaw: startRaw}
		w, exists := workoutsMap[key]
		if !exists {
			w = &Workout{
				Title:     title,
				StartTime: startTime,
			}
			if endTime, ok := parseTimestamp(field(record, "end_time")); ok {
				w.EndTime = &endTime
			}
			workoutsMap[key] = w
			order = append(order, key)
		}

		w.Sets = append(w.Sets, set)
		result.RowsParsed++
	}

	for _, key := range order {
		result.Workouts = append(result.Workouts, workoutsMap[key])
	}
	return result
}

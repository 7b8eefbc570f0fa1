package coaching

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")
	braceSpanRe   = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON pulls the JSON payload out of a model response that may wrap
// it in a fenced code block or surrounding prose. Tried in order: fenced
// block contents, first brace-delimited span, the raw text.
func ExtractJSON(text string) string {
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := braceSpanRe.FindString(text); m != "" {
		return m
	}
	return strings.TrimSpace(text)
}

type validatable interface {
	Validate() error
}

func parseInto(text string, out validatable) error {
	raw := ExtractJSON(text)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("failed to parse JSON from model response: %w", err)
	}
	if err := out.Validate(); err != nil {
		return fmt.Errorf("model response failed validation: %w", err)
	}
	return nil
}

func ParseDailyBriefing(text string) (*DailyBriefingResponse, error) {
	var out DailyBriefingResponse
	if err := parseInto(text, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func ParseWeeklyPlan(text string) (*WeeklyPlanResponse, error) {
	var out WeeklyPlanResponse
	if err := parseInto(text, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func ParsePostWorkout(text string) (*PostWorkoutResponse, error) {
	var out PostWorkoutResponse
	if err := parseInto(text, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func ParseSleepCoaching(text string) (*SleepCoachingResponse, error) {
	var out SleepCoachingResponse
	if err := parseInto(text, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

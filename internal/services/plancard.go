package services

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

// AdherenceSummary reports how much of a plan was completed. Pct is rounded
// to one decimal and 0.0 for an empty plan.
type AdherenceSummary struct {
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	AdherencePct      float64 `json:"adherence_pct"`
}

func ComputeAdherence(sessions []*types.PlannedSession) AdherenceSummary {
	out := AdherenceSummary{TotalSessions: len(sessions)}
	for _, s := range sessions {
		if s.Completed {
			out.CompletedSessions++
		}
	}
	if out.TotalSessions > 0 {
		pct := float64(out.CompletedSessions) / float64(out.TotalSessions) * 100
		out.AdherencePct = math.Round(pct*10) / 10
	}
	return out
}

// PlanCardService renders a weekly plan as a shareable PNG: one column per
// day, sessions in their day slots, completed sessions marked.
type PlanCardService interface {
	Render(plan *types.WeeklyPlan, sessions []*types.PlannedSession) (bytes.Buffer, error)
}

type planCardService struct {
	log       *logger.Logger
	titleFace font.Face
	bodyFace  font.Face
	smallFace font.Face
}

const (
	cardWidth  = 1120
	cardHeight = 680
	cardMargin = 40.0
	headerH    = 120.0
)

var (
	cardBG        = color.NRGBA{R: 0x12, G: 0x16, B: 0x1E, A: 0xFF}
	cardPanel     = color.NRGBA{R: 0x1C, G: 0x22, B: 0x2E, A: 0xFF}
	cardAccent    = color.NRGBA{R: 0x3D, G: 0xDC, B: 0x97, A: 0xFF}
	cardText      = color.NRGBA{R: 0xEA, G: 0xEE, B: 0xF4, A: 0xFF}
	cardMutedText = color.NRGBA{R: 0x8A, G: 0x94, B: 0xA6, A: 0xFF}
)

func NewPlanCardService(baseLog *logger.Logger) (PlanCardService, error) {
	serviceLog := baseLog.With("service", "PlanCardService")

	fontPath := os.Getenv("PLAN_CARD_FONT")
	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("Env var PLAN_CARD_FONT is empty")
	}
	serviceLog.Info("Loading plan card font", "font", fontPath)

	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}

	face := func(size float64) font.Face {
		return truetype.NewFace(parsed, &truetype.Options{Size: size})
	}

	return &planCardService{
		log:       serviceLog,
		titleFace: face(34),
		bodyFace:  face(19),
		smallFace: face(15),
	}, nil
}

func (ps *planCardService) Render(plan *types.WeeklyPlan, sessions []*types.PlannedSession) (bytes.Buffer, error) {
	var buf bytes.Buffer
	if plan == nil {
		return buf, fmt.Errorf("plan required")
	}

	dc := gg.NewContext(cardWidth, cardHeight)
	dc.SetColor(cardBG)
	dc.DrawRectangle(0, 0, cardWidth, cardHeight)
	dc.Fill()

	ps.drawHeader(dc, plan, sessions)
	ps.drawWeekGrid(dc, sessions)

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func (ps *planCardService) drawHeader(dc *gg.Context, plan *types.WeeklyPlan, sessions []*types.PlannedSession) {
	dc.SetFontFace(ps.titleFace)
	dc.SetColor(cardText)
	title := fmt.Sprintf("Training week of %s", plan.WeekStart.Format("Jan 2, 2006"))
	dc.DrawString(title, cardMargin, cardMargin+28)

	adherence := ComputeAdherence(sessions)
	dc.SetFontFace(ps.bodyFace)
	dc.SetColor(cardAccent)
	status := fmt.Sprintf("%d/%d sessions completed (%.1f%%)",
		adherence.CompletedSessions, adherence.TotalSessions, adherence.AdherencePct)
	dc.DrawString(status, cardMargin, cardMargin+62)

	if summary := strings.TrimSpace(plan.Summary); summary != "" {
		dc.SetFontFace(ps.smallFace)
		dc.SetColor(cardMutedText)
		dc.DrawString(truncateLine(summary, 120), cardMargin, cardMargin+88)
	}
}

func (ps *planCardService) drawWeekGrid(dc *gg.Context, sessions []*types.PlannedSession) {
	byDay := make(map[int][]*types.PlannedSession)
	for _, s := range sessions {
		byDay[s.DayOfWeek] = append(byDay[s.DayOfWeek], s)
	}
	for _, day := range byDay {
		sort.Slice(day, func(i, j int) bool { return day[i].Title < day[j].Title })
	}

	dayLabels := [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	gridTop := cardMargin + headerH
	gridH := float64(cardHeight) - gridTop - cardMargin
	colW := (float64(cardWidth) - 2*cardMargin - 6*12) / 7

	for day := 0; day < 7; day++ {
		x := cardMargin + float64(day)*(colW+12)

		dc.SetColor(cardPanel)
		dc.DrawRoundedRectangle(x, gridTop, colW, gridH, 10)
		dc.Fill()

		dc.SetFontFace(ps.bodyFace)
		dc.SetColor(cardMutedText)
		dc.DrawString(dayLabels[day], x+14, gridTop+30)

		y := gridTop + 64.0
		for _, s := range byDay[day] {
			ps.drawSession(dc, s, x, y, colW)
			y += 96
		}
		if len(byDay[day]) == 0 {
			dc.SetFontFace(ps.smallFace)
			dc.SetColor(cardMutedText)
			dc.DrawString("rest", x+14, gridTop+gridH/2)
		}
	}
}

func (ps *planCardService) drawSession(dc *gg.Context, s *types.PlannedSession, x, y, colW float64) {
	marker := cardMutedText
	if s.Completed {
		marker = cardAccent
	}
	dc.SetColor(marker)
	dc.DrawCircle(x+18, y-5, 5)
	dc.Fill()

	dc.SetFontFace(ps.smallFace)
	dc.SetColor(cardText)
	for i, line := range wrapLine(s.Title, 16) {
		if i == 3 {
			break
		}
		dc.DrawString(line, x+32, y+float64(i)*18)
	}

	meta := s.Sport
	if s.DurationMinutes != nil {
		meta = fmt.Sprintf("%s, %d min", s.Sport, *s.DurationMinutes)
	}
	dc.SetColor(cardMutedText)
	dc.DrawString(meta, x+32, y+58)
}

func truncateLine(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func wrapLine(s string, maxChars int) []string {
	words := strings.Fields(s)
	var lines []string
	var cur string
	for _, w := range words {
		if cur == "" {
			cur = w
			continue
		}
		if len(cur)+1+len(w) > maxChars {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

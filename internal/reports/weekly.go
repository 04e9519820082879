package reports

import (
	"fmt"
	"time"

	"tinysteps/domain/session"
	"tinysteps/domain/stats"

	mstats "github.com/montanaflynn/stats"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/stat"
)

const (
	sheetWeek    = "Week"
	sheetSummary = "Summary"
)

// WeeklySummary is the computed portion of the report, exposed separately so
// the numbers can be asserted without parsing a workbook.
type WeeklySummary struct {
	Sessions           int
	Minutes            int
	MeanMinutes        float64
	MedianMinutes      float64
	QualityCorrelation *float64 // duration vs quality, nil when under 2 rated sessions
}

// Summarize computes the weekly summary from the trailing seven days.
func Summarize(sessions []session.CompletedSession, now time.Time) WeeklySummary {
	week := stats.WeeklyProgress(sessions, now)

	inWindow := make(map[string]bool, len(week))
	for _, day := range week {
		inWindow[day.Date.String()] = true
	}

	var (
		summary   WeeklySummary
		durations []float64
		ratedDur  []float64
		ratings   []float64
	)
	for _, s := range sessions {
		if !inWindow[s.Day().String()] {
			continue
		}
		summary.Sessions++
		summary.Minutes += s.DurationMinutes
		durations = append(durations, float64(s.DurationMinutes))
		if s.QualityRating != nil {
			ratedDur = append(ratedDur, float64(s.DurationMinutes))
			ratings = append(ratings, float64(*s.QualityRating))
		}
	}

	if len(durations) > 0 {
		// Mean and median of a non-empty slice cannot fail
		summary.MeanMinutes, _ = mstats.Mean(durations)
		summary.MedianMinutes, _ = mstats.Median(durations)
	}
	if len(ratedDur) >= 2 {
		r := stat.Correlation(ratedDur, ratings, nil)
		summary.QualityCorrelation = &r
	}

	return summary
}

// BuildWeekly renders the weekly report workbook: one sheet with per-day
// aggregates, one with summary statistics.
func BuildWeekly(sessions []session.CompletedSession, us stats.UserStats, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeWeekSheet(f, sessions, now); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummarySheet(f, sessions, us, now); err != nil {
		f.Close()
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func writeWeekSheet(f *excelize.File, sessions []session.CompletedSession, now time.Time) error {
	if _, err := f.NewSheet(sheetWeek); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetWeek, err)
	}

	headers := []interface{}{"Date", "Day", "Sessions", "Minutes"}
	if err := f.SetSheetRow(sheetWeek, "A1", &headers); err != nil {
		return err
	}

	for i, day := range stats.WeeklyProgress(sessions, now) {
		row := []interface{}{day.Date.String(), day.DayLabel, day.SessionCount, day.Minutes}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetWeek, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sessions []session.CompletedSession, us stats.UserStats, now time.Time) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetSummary, err)
	}

	summary := Summarize(sessions, now)

	correlation := "n/a"
	if summary.QualityCorrelation != nil {
		correlation = fmt.Sprintf("%.3f", *summary.QualityCorrelation)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Sessions this week", summary.Sessions},
		{"Minutes this week", summary.Minutes},
		{"Mean session minutes", summary.MeanMinutes},
		{"Median session minutes", summary.MedianMinutes},
		{"Duration/quality correlation", correlation},
		{"Current streak", us.CurrentStreak},
		{"Longest streak", us.LongestStreak},
		{"Total points", us.TotalPoints},
		{"Level", us.Level()},
		{"Weekly goal (points)", us.WeeklyGoal},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

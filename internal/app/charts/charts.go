// Package charts derives chart-ready series from a user's progress for the
// dashboard: cumulative XP over the last 30 days, a material breakdown,
// and weekly/monthly bars. Projections are deterministic: the same
// progress and the same reference time always produce the same output.
package charts

import (
	"fmt"
	"time"

	"github.com/recircle-app/recircle/internal/app/gamify"
	"github.com/recircle-app/recircle/internal/domain"
)

const recentWindow = 30 * 24 * time.Hour

// Point is one sample on the cumulative XP line, labeled "M/D".
type Point struct {
	Date string `json:"date"`
	XP   int    `json:"xp"`
}

// MaterialCount is one slice of the material breakdown.
type MaterialCount struct {
	Material string `json:"material"`
	Count    int    `json:"count"`
}

// MaterialBreakdown is the material series. Synthetic marks a proportional
// estimate generated for empty-state presentation — not measured data.
type MaterialBreakdown struct {
	Counts    []MaterialCount `json:"counts"`
	Synthetic bool            `json:"synthetic"`
}

// Dashboard bundles all four projections.
type Dashboard struct {
	XPSeries  []Point           `json:"xpSeries"`
	Materials MaterialBreakdown `json:"materials"`
	Weekly    []int             `json:"weekly"`  // Monday = 0
	Monthly   []int             `json:"monthly"` // January = 0
}

// Project produces the full dashboard for one user.
func Project(p domain.UserProgress, now time.Time) Dashboard {
	p = gamify.EnsureDefaults(p)
	return Dashboard{
		XPSeries:  XPSeries(p, now),
		Materials: MaterialSeries(p),
		Weekly:    WeeklySeries(p, now),
		Monthly:   MonthlySeries(p),
	}
}

// XPSeries buckets the last 30 days of activity by calendar date and emits
// a cumulative running total starting from the XP held before the window.
// With no recent activity it emits a single point: today, current XP.
func XPSeries(p domain.UserProgress, now time.Time) []Point {
	cutoff := now.Add(-recentWindow).UnixMilli()
	var recent []domain.ActivityRecord
	recentXP := 0
	for _, a := range p.ActivityLog {
		if a.Timestamp >= cutoff {
			recent = append(recent, a)
			recentXP += a.XPGained
		}
	}

	if len(recent) == 0 {
		return []Point{{Date: dateLabel(now), XP: p.XP}}
	}

	// Bucket by date, preserving first-seen (chronological) order.
	var order []string
	gains := make(map[string]int)
	for _, a := range recent {
		key := dateLabel(a.Time().In(now.Location()))
		if _, seen := gains[key]; !seen {
			order = append(order, key)
		}
		gains[key] += a.XPGained
	}

	cumulative := p.XP - recentXP
	points := make([]Point, 0, len(order))
	for _, key := range order {
		cumulative += gains[key]
		points = append(points, Point{Date: key, XP: cumulative})
	}
	return points
}

// Synthetic material mix applied to totalReports when no real recycling
// counts exist: 40% plastic, 25% paper, 15% glass, 10% metal, 10% electronic.
var syntheticShares = map[string]float64{
	"plastic":    0.40,
	"paper":      0.25,
	"glass":      0.15,
	"metal":      0.10,
	"electronic": 0.10,
}

// MaterialSeries emits recorded recycling counts in the fixed category
// order, or a clearly-flagged proportional estimate from totalReports when
// nothing has been recorded yet.
func MaterialSeries(p domain.UserProgress) MaterialBreakdown {
	counts := make([]MaterialCount, len(domain.Materials))
	hasData := false
	for i, m := range domain.Materials {
		n := p.TotalRecyclingTypes[m]
		counts[i] = MaterialCount{Material: m, Count: n}
		if n > 0 {
			hasData = true
		}
	}
	if hasData {
		return MaterialBreakdown{Counts: counts}
	}

	if p.TotalReports > 0 {
		for i, m := range domain.Materials {
			counts[i].Count = int(float64(p.TotalReports) * syntheticShares[m])
		}
		return MaterialBreakdown{Counts: counts, Synthetic: true}
	}

	return MaterialBreakdown{Counts: counts}
}

// WeeklySeries returns the stored weekly buckets when any are nonzero, or
// recomputes them from the last 7 days of the activity log: today lands in
// index 6, seven days ago in index 0.
func WeeklySeries(p domain.UserProgress, now time.Time) []int {
	for _, v := range p.WeeklyActivity {
		if v > 0 {
			return append([]int(nil), p.WeeklyActivity...)
		}
	}

	week := make([]int, 7)
	if len(p.ActivityLog) == 0 {
		return week
	}
	cutoff := now.Add(-7 * 24 * time.Hour).UnixMilli()
	for _, a := range p.ActivityLog {
		if a.Timestamp < cutoff {
			continue
		}
		daysAgo := int(now.Sub(a.Time()) / (24 * time.Hour))
		idx := 6 - daysAgo
		if idx >= 0 && idx < 7 {
			week[idx] += a.XPGained
		}
	}
	return week
}

// MonthlySeries returns the stored monthly buckets when any are nonzero,
// or recomputes them by bucketing the full activity log by calendar month.
func MonthlySeries(p domain.UserProgress) []int {
	for _, v := range p.MonthlyXP {
		if v > 0 {
			return append([]int(nil), p.MonthlyXP...)
		}
	}

	months := make([]int, 12)
	for _, a := range p.ActivityLog {
		months[int(a.Time().Month())-1] += a.XPGained
	}
	return months
}

// dateLabel formats a time as "M/D", the dashboard's axis label format.
func dateLabel(t time.Time) string {
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
}

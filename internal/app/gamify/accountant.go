// Package gamify implements the ReCircle gamification engine: the pure XP
// accounting rules and the service that applies them against the store.
// Design rule: accounting never reads a wall clock — every transition takes
// an explicit time so replays are deterministic.
package gamify

import (
	"fmt"
	"time"

	"github.com/recircle-app/recircle/internal/domain"
)

// XP awards. Login XP additionally carries the streak bonus.
const (
	LoginBaseXP = 10
	ReportXP    = 15
	VisitXP     = 20
	RecycleXP   = 10

	// Streak bonus: 5 XP per completed 7-day block, capped.
	streakBlockDays = 7
	streakBlockXP   = 5
	streakBonusCap  = 50

	xpPerLevel = 100
)

// Event is one XP-earning occurrence fed to Apply.
type Event struct {
	Kind     domain.ActivityKind
	Amount   int    // ignored for logins; the streak rule computes login XP
	Material string // recycle only
	Quantity int    // recycle only; 0 means 1
	Details  string
	Now      time.Time
}

// Apply computes the successor state for one event. Pure: the input progress
// is never mutated. The second return is false when the event was accepted
// but changed nothing (a repeated same-day login).
func Apply(p domain.UserProgress, ev Event) (domain.UserProgress, bool, error) {
	if !ev.Kind.Valid() || ev.Amount < 0 {
		return p, false, fmt.Errorf("%w: kind=%q amount=%d", domain.ErrInvalidEvent, ev.Kind, ev.Amount)
	}

	next := EnsureDefaults(p)

	switch ev.Kind {
	case domain.KindLogin:
		return applyLogin(next, ev.Now)

	case domain.KindReport:
		next.TotalReports++

	case domain.KindVisit:
		next.TotalVisits++

	case domain.KindRecycle:
		qty := ev.Quantity
		if qty <= 0 {
			qty = 1
		}
		if ev.Material == "" {
			return p, false, fmt.Errorf("%w: empty material", domain.ErrUnknownMaterial)
		}
		next.TotalRecyclingTypes[ev.Material] += qty
	}

	credit(&next, ev.Amount, ev.Kind, ev.Details, ev.Now)
	return next, true, nil
}

// applyLogin runs the daily-login streak state machine. Calling it twice on
// the same calendar day is a no-op — that check is the idempotence
// enforcement, not an external lock.
func applyLogin(p domain.UserProgress, now time.Time) (domain.UserProgress, bool, error) {
	today := calendarDay(now)

	if p.LastLoginDate != 0 {
		lastDay := calendarDay(time.UnixMilli(p.LastLoginDate).In(now.Location()))
		if today.Equal(lastDay) {
			return p, false, nil // already credited today
		}
		if today.Equal(lastDay.AddDate(0, 0, 1)) {
			p.LoginStreak++ // consecutive day
		} else {
			p.LoginStreak = 1 // gap — streak resets
		}
	} else {
		p.LoginStreak = 1 // first login ever
	}

	if p.LoginStreak > p.LongestStreak {
		p.LongestStreak = p.LoginStreak
	}
	p.LastLoginDate = now.UnixMilli()

	xp := LoginBaseXP + StreakBonus(p.LoginStreak)
	details := fmt.Sprintf("Login streak: %d days", p.LoginStreak)
	credit(&p, xp, domain.KindLogin, details, now)
	return p, true, nil
}

// credit adds XP, recomputes the level, appends the activity record, and
// updates the weekly and monthly buckets.
func credit(p *domain.UserProgress, amount int, kind domain.ActivityKind, details string, now time.Time) {
	p.XP += amount
	p.Level = LevelForXP(p.XP)

	p.ActivityLog = append(p.ActivityLog, domain.ActivityRecord{
		Kind:      kind,
		XPGained:  amount,
		Timestamp: now.UnixMilli(),
		Details:   details,
	})

	p.WeeklyActivity[WeekdayIndex(now)] += amount
	// 12 calendar buckets with no year dimension: January this year and
	// January last year share a bucket. Kept for stored-record compatibility.
	p.MonthlyXP[int(now.Month())-1] += amount
}

// StreakBonus returns the login bonus for a streak length: 5 XP per
// completed 7-day block, capped at 50.
func StreakBonus(streak int) int {
	bonus := streak / streakBlockDays * streakBlockXP
	if bonus > streakBonusCap {
		return streakBonusCap
	}
	return bonus
}

// LevelForXP derives the level from total XP. The level is never stored
// independently of this rule.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp / xpPerLevel
}

// XPToNextLevel returns XP remaining until the next level boundary.
func XPToNextLevel(xp int) int {
	return (LevelForXP(xp)+1)*xpPerLevel - xp
}

// ProgressPct returns progress through the current level (0.0–100.0).
func ProgressPct(xp int) float64 {
	pct := float64(xp%xpPerLevel) / float64(xpPerLevel) * 100.0
	if pct < 0 {
		return 0
	}
	return pct
}

// EnsureDefaults backfills zero-values for fields missing from legacy
// stored records. One explicit migration step, run before every transition
// and on first read; idempotent.
func EnsureDefaults(p domain.UserProgress) domain.UserProgress {
	next := p.Clone()
	// Clone always yields a non-nil map, so seed per key rather than
	// testing the map itself. Legacy records may also hold partial maps.
	for _, m := range domain.Materials {
		if _, ok := next.TotalRecyclingTypes[m]; !ok {
			next.TotalRecyclingTypes[m] = 0
		}
	}
	if next.ActivityLog == nil {
		next.ActivityLog = []domain.ActivityRecord{}
	}
	if len(next.WeeklyActivity) != 7 {
		week := make([]int, 7)
		copy(week, next.WeeklyActivity)
		next.WeeklyActivity = week
	}
	if len(next.MonthlyXP) != 12 {
		months := make([]int, 12)
		copy(months, next.MonthlyXP)
		next.MonthlyXP = months
	}
	next.Level = LevelForXP(next.XP)
	return next
}

// WeekdayIndex maps a time to its weekly-activity bucket, Monday = 0.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// calendarDay truncates t to midnight in its own location.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

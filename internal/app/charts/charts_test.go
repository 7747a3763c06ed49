package charts_test

import (
	"testing"
	"time"

	"github.com/recircle-app/recircle/internal/app/charts"
	"github.com/recircle-app/recircle/internal/app/gamify"
	"github.com/recircle-app/recircle/internal/domain"
)

var noon = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) // a Monday

func record(kind domain.ActivityKind, xp int, at time.Time) domain.ActivityRecord {
	return domain.ActivityRecord{Kind: kind, XPGained: xp, Timestamp: at.UnixMilli()}
}

// ═══════════════════════════════════════════════════════════════════════════
// XP Series
// ═══════════════════════════════════════════════════════════════════════════

func TestXPSeries_EmptyLogFallsBackToSinglePoint(t *testing.T) {
	p := gamify.EnsureDefaults(domain.UserProgress{XP: 120})
	points := charts.XPSeries(p, noon)
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1", len(points))
	}
	if points[0].XP != 120 {
		t.Errorf("xp = %d, want 120", points[0].XP)
	}
	if points[0].Date != "3/2" {
		t.Errorf("date = %q, want 3/2", points[0].Date)
	}
}

func TestXPSeries_CumulativeByDay(t *testing.T) {
	p := gamify.EnsureDefaults(domain.UserProgress{
		XP: 145, // 100 earned before the window plus 45 inside it
		ActivityLog: []domain.ActivityRecord{
			record(domain.KindLogin, 10, noon.AddDate(0, 0, -2)),
			record(domain.KindReport, 15, noon.AddDate(0, 0, -1)),
			record(domain.KindVisit, 20, noon.AddDate(0, 0, -1)),
		},
	})

	points := charts.XPSeries(p, noon)
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2 (two distinct days)", len(points))
	}
	if points[0].XP != 110 { // 100 base + 10 login
		t.Errorf("first point xp = %d, want 110", points[0].XP)
	}
	if points[1].XP != 145 { // ends at current total
		t.Errorf("last point xp = %d, want 145", points[1].XP)
	}
	if points[0].Date != "2/28" || points[1].Date != "3/1" {
		t.Errorf("dates = %q, %q", points[0].Date, points[1].Date)
	}
}

func TestXPSeries_IgnoresActivityOutsideWindow(t *testing.T) {
	p := gamify.EnsureDefaults(domain.UserProgress{
		XP: 500,
		ActivityLog: []domain.ActivityRecord{
			record(domain.KindVisit, 20, noon.AddDate(0, 0, -60)),
			record(domain.KindVisit, 20, noon.AddDate(0, 0, -3)),
		},
	})

	points := charts.XPSeries(p, noon)
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1 (one day inside the window)", len(points))
	}
	if points[0].XP != 500 {
		t.Errorf("xp = %d, want 500", points[0].XP)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Material Breakdown
// ═══════════════════════════════════════════════════════════════════════════

func TestMaterialSeries_RealCounts(t *testing.T) {
	p := gamify.EnsureDefaults(domain.UserProgress{})
	p.TotalRecyclingTypes["plastic"] = 7
	p.TotalRecyclingTypes["glass"] = 2

	b := charts.MaterialSeries(p)
	if b.Synthetic {
		t.Error("real counts must not be flagged synthetic")
	}
	if len(b.Counts) != len(domain.Materials) {
		t.Fatalf("counts = %d, want %d", len(b.Counts), len(domain.Materials))
	}
	// Fixed category order
	for i, m := range domain.Materials {
		if b.Counts[i].Material != m {
			t.Errorf("counts[%d] = %s, want %s", i, b.Counts[i].Material, m)
		}
	}
	if b.Counts[0].Count != 7 { // plastic
		t.Errorf("plastic = %d, want 7", b.Counts[0].Count)
	}
}

func TestMaterialSeries_SyntheticFromReports(t *testing.T) {
	p := gamify.EnsureDefaults(domain.UserProgress{TotalReports: 10})

	b := charts.MaterialSeries(p)
	if !b.Synthetic {
		t.Fatal("estimate from totalReports must be flagged synthetic")
	}
	want := map[string]int{"plastic": 4, "paper": 2, "glass": 1, "metal": 1, "electronic": 1}
	for _, c := range b.Counts {
		if c.Count != want[c.Material] {
			t.Errorf("%s = %d, want %d", c.Material, c.Count, want[c.Material])
		}
	}
}

func TestMaterialSeries_NoDataAtAll(t *testing.T) {
	b := charts.MaterialSeries(gamify.EnsureDefaults(domain.UserProgress{}))
	if b.Synthetic {
		t.Error("zero state must not be synthetic")
	}
	for _, c := range b.Counts {
		if c.Count != 0 {
			t.Errorf("%s = %d, want 0", c.Material, c.Count)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Weekly & Monthly
// ═══════════════════════════════════════════════════════════════════════════

func TestWeeklySeries_PrefersStoredBuckets(t *testing.T) {
	p := gamify.EnsureDefaults(domain.UserProgress{})
	p.WeeklyActivity[3] = 45

	week := charts.WeeklySeries(p, noon)
	if week[3] != 45 {
		t.Errorf("week = %v", week)
	}
}

func TestWeeklySeries_FallbackFromLog(t *testing.T) {
	p := gamify.EnsureDefaults(domain.UserProgress{
		ActivityLog: []domain.ActivityRecord{
			record(domain.KindVisit, 20, noon),                  // today → index 6
			record(domain.KindLogin, 10, noon.AddDate(0, 0, -2)), // → index 4
			record(domain.KindVisit, 20, noon.AddDate(0, 0, -9)), // outside window
		},
	})
	p.WeeklyActivity = make([]int, 7) // stored buckets all zero

	week := charts.WeeklySeries(p, noon)
	if week[6] != 20 {
		t.Errorf("today bucket = %d, want 20", week[6])
	}
	if week[4] != 10 {
		t.Errorf("two-days-ago bucket = %d, want 10", week[4])
	}
	sum := 0
	for _, v := range week {
		sum += v
	}
	if sum != 30 {
		t.Errorf("week total = %d, want 30 (stale entry leaked in)", sum)
	}
}

func TestMonthlySeries_FallbackFromLog(t *testing.T) {
	p := gamify.EnsureDefaults(domain.UserProgress{
		ActivityLog: []domain.ActivityRecord{
			record(domain.KindVisit, 20, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)),
			record(domain.KindVisit, 20, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)),
		},
	})
	p.MonthlyXP = make([]int, 12)

	months := charts.MonthlySeries(p)
	if months[0] != 20 || months[2] != 20 {
		t.Errorf("months = %v", months)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Full Projection
// ═══════════════════════════════════════════════════════════════════════════

func TestProject_Deterministic(t *testing.T) {
	p := gamify.EnsureDefaults(domain.UserProgress{
		XP:           145,
		TotalReports: 3,
		ActivityLog: []domain.ActivityRecord{
			record(domain.KindLogin, 10, noon.AddDate(0, 0, -1)),
		},
	})

	first := charts.Project(p, noon)
	second := charts.Project(p, noon)
	if len(first.XPSeries) != len(second.XPSeries) ||
		first.XPSeries[0] != second.XPSeries[0] {
		t.Error("projection not deterministic")
	}
	if len(first.Weekly) != 7 || len(first.Monthly) != 12 {
		t.Errorf("bucket lengths = %d/%d", len(first.Weekly), len(first.Monthly))
	}
}

func TestProject_ZeroValueProgress(t *testing.T) {
	d := charts.Project(domain.UserProgress{}, noon)
	if len(d.XPSeries) != 1 || d.XPSeries[0].XP != 0 {
		t.Errorf("xp series = %+v", d.XPSeries)
	}
	if len(d.Materials.Counts) != len(domain.Materials) {
		t.Errorf("material counts = %d", len(d.Materials.Counts))
	}
}

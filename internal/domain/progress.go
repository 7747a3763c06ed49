// Package domain holds the pure data model for the ReCircle gamification
// engine: activity records, per-user progress, reports, and the derived
// global statistics. No infrastructure dependencies.
package domain

import "time"

// ─── Activity Types ─────────────────────────────────────────────────────────

// ActivityKind identifies how a user earned XP.
type ActivityKind string

const (
	KindLogin   ActivityKind = "login"
	KindVisit   ActivityKind = "visit"
	KindReport  ActivityKind = "report"
	KindRecycle ActivityKind = "recycle"
)

// Valid reports whether k is a known activity kind.
func (k ActivityKind) Valid() bool {
	switch k {
	case KindLogin, KindVisit, KindReport, KindRecycle:
		return true
	}
	return false
}

// ActivityRecord is one immutable entry in a user's activity log.
// The JSON keys are the stable stored-record schema and must not change.
type ActivityRecord struct {
	Kind      ActivityKind `json:"type"`
	XPGained  int          `json:"xpGained"`
	Timestamp int64        `json:"timestamp"` // milliseconds since epoch
	Details   string       `json:"details,omitempty"`
}

// Time returns the record's creation time.
func (a ActivityRecord) Time() time.Time {
	return time.UnixMilli(a.Timestamp)
}

// ─── User Progress ──────────────────────────────────────────────────────────

// Materials is the fixed recycling category order used everywhere a
// material breakdown is produced (charts, global stats).
var Materials = []string{"plastic", "paper", "glass", "metal", "electronic"}

// UserProgress is the aggregate gamification state of one user, keyed by
// email. The JSON keys match the records written by earlier deployments
// and are the compatibility contract for stored data.
type UserProgress struct {
	XP                  int              `json:"xp"`
	Level               int              `json:"level"`
	LoginStreak         int              `json:"loginStreak"`
	LongestStreak       int              `json:"longestStreak"`
	LastLoginDate       int64            `json:"lastLoginDate"` // ms epoch; 0 = never
	TotalReports        int              `json:"totalReports"`
	TotalVisits         int              `json:"totalVisits"`
	TotalRecyclingTypes map[string]int   `json:"totalRecyclingTypes"`
	ActivityLog         []ActivityRecord `json:"activityLog"`
	WeeklyActivity      []int            `json:"weeklyActivity"` // 7 buckets, Monday = 0
	MonthlyXP           []int            `json:"monthlyXP"`      // 12 buckets, January = 0
}

// Clone returns a deep copy so pure transitions never alias caller state.
func (p UserProgress) Clone() UserProgress {
	c := p
	c.TotalRecyclingTypes = make(map[string]int, len(p.TotalRecyclingTypes))
	for k, v := range p.TotalRecyclingTypes {
		c.TotalRecyclingTypes[k] = v
	}
	c.ActivityLog = append([]ActivityRecord(nil), p.ActivityLog...)
	c.WeeklyActivity = append([]int(nil), p.WeeklyActivity...)
	c.MonthlyXP = append([]int(nil), p.MonthlyXP...)
	return c
}

// ProgressEntry pairs a user's identity with their progress, as returned
// by a full store scan.
type ProgressEntry struct {
	Email    string       `json:"email"`
	Username string       `json:"username"`
	Progress UserProgress `json:"progress"`
}

// ─── Global Statistics ──────────────────────────────────────────────────────

// TopUser is one leaderboard row.
type TopUser struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	XP           int    `json:"xp"`
	Level        int    `json:"level"`
	TotalReports int    `json:"totalReports"`
}

// GlobalStats is a derived cross-user snapshot. Never persisted.
type GlobalStats struct {
	TotalUsers    int            `json:"totalUsers"`
	TotalReports  int            `json:"totalReports"`
	TotalVisits   int            `json:"totalVisits"`
	TotalXP       int            `json:"totalXP"`
	TopUsers      []TopUser      `json:"topUsers"`
	MaterialStats map[string]int `json:"materialStats"`
}

// ─── Reports ────────────────────────────────────────────────────────────────

// Report is a user-filed note about a collection point. Owned by the
// filing user; deletable only by its owner.
type Report struct {
	ID           string  `json:"id,omitempty"`
	LocationID   string  `json:"locationId"`
	LocationName string  `json:"locationName"`
	Message      string  `json:"message"`
	UserEmail    string  `json:"userEmail"`
	UserName     string  `json:"userName"`
	Timestamp    int64   `json:"timestamp"` // ms epoch
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// ─── Collection Points ──────────────────────────────────────────────────────

// Location is a recycling collection point shown on the map.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Materials string  `json:"materials,omitempty"` // comma-separated hint
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ─── Accounts ───────────────────────────────────────────────────────────────

// Account is the identity half of a stored user record. Progress is kept
// separately (see UserProgress) so the accounting core never touches
// credentials.
type Account struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"createdAt"` // ms epoch
}

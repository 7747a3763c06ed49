package gamify

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/recircle-app/recircle/internal/domain"
	"github.com/recircle-app/recircle/internal/infra/metrics"
)

// lockStripes is the size of the write-lock pool. Memory stays fixed
// regardless of user count; users hashing to the same stripe serialize
// together, which costs contention, never correctness.
const lockStripes = 64

// Service orchestrates event accounting: fetch current state, run the pure
// transition, persist, return. Writes to the same user are serialized
// through a striped lock so concurrent awards cannot lose updates;
// operations on different users proceed independently.
type Service struct {
	users   domain.ProgressStore
	reports domain.ReportStore

	locks [lockStripes]sync.Mutex
}

// NewService creates a gamification service over the given stores.
func NewService(users domain.ProgressStore, reports domain.ReportStore) *Service {
	return &Service{
		users:   users,
		reports: reports,
	}
}

// userLock returns the single-writer lock for one user key.
func (s *Service) userLock(email string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(email))
	return &s.locks[h.Sum32()%lockStripes]
}

// RecordLogin credits the daily login: legacy backfill, streak rule, login
// XP. Repeated calls on the same calendar day persist the backfill only.
func (s *Service) RecordLogin(email string, now time.Time) (domain.UserProgress, error) {
	progress, err := s.apply(email, Event{Kind: domain.KindLogin, Now: now})
	if err == nil {
		metrics.Logins.Inc()
	}
	return progress, err
}

// RecordReport credits a filed report: a 15 XP report event plus a 20 XP
// visit event (two activity log entries), one read and one write.
func (s *Service) RecordReport(email, locationName string, now time.Time) (domain.UserProgress, error) {
	lock := s.userLock(email)
	lock.Lock()
	defer lock.Unlock()

	progress, err := s.fetch(email)
	if err != nil {
		return domain.UserProgress{}, err
	}

	progress, _, err = Apply(progress, Event{
		Kind:    domain.KindReport,
		Amount:  ReportXP,
		Details: "Report at " + locationName,
		Now:     now,
	})
	if err != nil {
		return domain.UserProgress{}, err
	}
	progress, _, err = Apply(progress, Event{
		Kind:    domain.KindVisit,
		Amount:  VisitXP,
		Details: "Visited " + locationName,
		Now:     now,
	})
	if err != nil {
		return domain.UserProgress{}, err
	}

	if err := s.persist(email, progress); err != nil {
		return domain.UserProgress{}, err
	}
	metrics.XPAwarded.WithLabelValues(string(domain.KindReport)).Add(ReportXP)
	metrics.XPAwarded.WithLabelValues(string(domain.KindVisit)).Add(VisitXP)
	metrics.ReportsFiled.Inc()
	return progress, nil
}

// RecordVisit credits a collection-point visit.
func (s *Service) RecordVisit(email, locationName string, now time.Time) (domain.UserProgress, error) {
	return s.apply(email, Event{
		Kind:    domain.KindVisit,
		Amount:  VisitXP,
		Details: "Visited " + locationName,
		Now:     now,
	})
}

// RecordRecycle credits recycled items of one material (count defaults to 1).
// The material must be one of the fixed categories.
func (s *Service) RecordRecycle(email, material string, count int, now time.Time) (domain.UserProgress, error) {
	if !slices.Contains(domain.Materials, material) {
		return domain.UserProgress{}, fmt.Errorf("%w: %q", domain.ErrUnknownMaterial, material)
	}
	progress, err := s.apply(email, Event{
		Kind:     domain.KindRecycle,
		Amount:   RecycleXP,
		Material: material,
		Quantity: count,
		Details:  fmt.Sprintf("Recycled %s", material),
		Now:      now,
	})
	if err == nil {
		if count <= 0 {
			count = 1
		}
		metrics.ItemsRecycled.WithLabelValues(material).Add(float64(count))
	}
	return progress, err
}

// Progress returns a user's current state with legacy defaults applied.
func (s *Service) Progress(email string) (domain.UserProgress, error) {
	return s.fetch(email)
}

// apply runs one event under the user's write lock.
func (s *Service) apply(email string, ev Event) (domain.UserProgress, error) {
	lock := s.userLock(email)
	lock.Lock()
	defer lock.Unlock()

	progress, err := s.fetch(email)
	if err != nil {
		return domain.UserProgress{}, err
	}

	next, applied, err := Apply(progress, ev)
	if err != nil {
		return domain.UserProgress{}, err
	}

	if err := s.persist(email, next); err != nil {
		return domain.UserProgress{}, err
	}
	if applied && ev.Kind != domain.KindLogin {
		metrics.XPAwarded.WithLabelValues(string(ev.Kind)).Add(float64(ev.Amount))
	}
	return next, nil
}

// fetch reads and backfills one user record, mapping store failures into
// the domain taxonomy.
func (s *Service) fetch(email string) (domain.UserProgress, error) {
	progress, err := s.users.GetProgress(email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.UserProgress{}, err
	}
	if err != nil {
		log.Printf("[gamify] read %s: %v", email, err)
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return domain.UserProgress{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return EnsureDefaults(progress), nil
}

func (s *Service) persist(email string, p domain.UserProgress) error {
	if err := s.users.PutProgress(email, p); err != nil {
		log.Printf("[gamify] write %s: %v", email, err)
		metrics.StoreErrors.WithLabelValues("put").Inc()
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// ─── Global Statistics ──────────────────────────────────────────────────────

// topUserCount bounds the leaderboard size.
const topUserCount = 5

// GlobalStats scans every user and report record and aggregates them. A
// full scan — acceptable at this deployment's scale. Store failures yield
// a zero-value snapshot rather than an error so dashboards keep rendering.
func (s *Service) GlobalStats() domain.GlobalStats {
	stats := domain.GlobalStats{
		TopUsers:      []domain.TopUser{},
		MaterialStats: make(map[string]int, len(domain.Materials)),
	}
	for _, m := range domain.Materials {
		stats.MaterialStats[m] = 0
	}

	entries, err := s.users.ScanProgress()
	if err != nil {
		log.Printf("[gamify] global stats scan: %v", err)
		return stats
	}

	ranked := make([]domain.TopUser, 0, len(entries))
	for _, e := range entries {
		p := e.Progress
		stats.TotalXP += p.XP
		for _, a := range p.ActivityLog {
			if a.Kind == domain.KindVisit {
				stats.TotalVisits++
			}
		}
		for _, m := range domain.Materials {
			stats.MaterialStats[m] += p.TotalRecyclingTypes[m]
		}
		ranked = append(ranked, domain.TopUser{
			Email:        e.Email,
			Username:     e.Username,
			XP:           p.XP,
			Level:        p.Level,
			TotalReports: p.TotalReports,
		})
	}
	stats.TotalUsers = len(entries)

	// Stable sort keeps ties in scan order.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].XP > ranked[j].XP })
	if len(ranked) > topUserCount {
		ranked = ranked[:topUserCount]
	}
	stats.TopUsers = ranked

	reports, err := s.reports.ListReports()
	if err != nil {
		log.Printf("[gamify] global stats reports: %v", err)
		return stats
	}
	stats.TotalReports = len(reports)

	return stats
}

// ─── Reports ────────────────────────────────────────────────────────────────

// FileReport appends a report record and credits the filing user with the
// report and visit awards. The report append and the XP write are two
// separate store updates; on XP failure the report stands and the caller
// may retry the award.
func (s *Service) FileReport(r domain.Report, now time.Time) (string, domain.UserProgress, error) {
	if r.Message == "" {
		return "", domain.UserProgress{}, domain.ErrEmptyReport
	}
	if _, err := s.fetch(r.UserEmail); err != nil {
		return "", domain.UserProgress{}, err
	}

	r.Timestamp = now.UnixMilli()
	id, err := s.reports.AppendReport(r)
	if err != nil {
		log.Printf("[gamify] append report: %v", err)
		return "", domain.UserProgress{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	progress, err := s.RecordReport(r.UserEmail, r.LocationName, now)
	if err != nil {
		return id, domain.UserProgress{}, err
	}
	return id, progress, nil
}

// DeleteReport removes a report after verifying ownership.
func (s *Service) DeleteReport(id, requesterEmail string) error {
	reports, err := s.reports.ListReports()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	for _, r := range reports {
		if r.ID != id {
			continue
		}
		if r.UserEmail != requesterEmail {
			return domain.ErrNotReportOwner
		}
		if err := s.reports.RemoveReport(id); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		return nil
	}
	return domain.ErrReportNotFound
}

// AllReports lists every filed report.
func (s *Service) AllReports() ([]domain.Report, error) {
	reports, err := s.reports.ListReports()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return reports, nil
}

// ReportsByUser lists one user's filed reports.
func (s *Service) ReportsByUser(email string) ([]domain.Report, error) {
	reports, err := s.reports.ListReportsByUser(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return reports, nil
}

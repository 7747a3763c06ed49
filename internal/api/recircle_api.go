package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/recircle-app/recircle/internal/app/charts"
	"github.com/recircle-app/recircle/internal/app/gamify"
	"github.com/recircle-app/recircle/internal/domain"
)

// ─── Auth ───────────────────────────────────────────────────────────────────

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody(err))
		return
	}

	account, err := s.accounts.Register(req.Email, req.Username, req.Password, req.Role, s.now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin verifies credentials and credits the daily login. Repeated
// logins on the same day authenticate but award nothing.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody(err))
		return
	}

	account, err := s.accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	progress, err := s.gamify.RecordLogin(account.Email, s.now())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profilePayload(account, progress))
}

// ─── Profile & Charts ───────────────────────────────────────────────────────

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	email := pathEmail(r)
	account, err := s.accounts.Lookup(email)
	if err != nil {
		writeError(w, err)
		return
	}
	progress, err := s.gamify.Progress(email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profilePayload(account, progress))
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	progress, err := s.gamify.Progress(pathEmail(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, charts.Project(progress, s.now()))
}

// activityLimit bounds the recent-activity feed.
const activityLimit = 20

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	progress, err := s.gamify.Progress(pathEmail(r))
	if err != nil {
		writeError(w, err)
		return
	}

	type entry struct {
		domain.ActivityRecord
		Ago string `json:"ago"`
	}

	log := progress.ActivityLog
	entries := make([]entry, 0, activityLimit)
	for i := len(log) - 1; i >= 0 && len(entries) < activityLimit; i-- {
		entries = append(entries, entry{
			ActivityRecord: log[i],
			Ago:            timeAgo(log[i].Time(), s.now()),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": entries})
}

// ─── Events ─────────────────────────────────────────────────────────────────

type visitRequest struct {
	LocationName string `json:"locationName"`
}

func (s *Server) handleVisit(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody(err))
		return
	}
	progress, err := s.gamify.RecordVisit(pathEmail(r), req.LocationName, s.now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

type recycleRequest struct {
	Material string `json:"material"`
	Count    int    `json:"count"`
}

func (s *Server) handleRecycle(w http.ResponseWriter, r *http.Request) {
	var req recycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody(err))
		return
	}
	progress, err := s.gamify.RecordRecycle(pathEmail(r), req.Material, req.Count, s.now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// ─── Reports ────────────────────────────────────────────────────────────────

func (s *Server) handleFileReport(w http.ResponseWriter, r *http.Request) {
	var report domain.Report
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody(err))
		return
	}

	// Fill the display name from the stored collection point if only the
	// ID was supplied.
	if report.LocationName == "" && report.LocationID != "" {
		if loc, err := s.locations.GetLocation(report.LocationID); err == nil {
			report.LocationName = loc.Name
			report.Latitude = loc.Latitude
			report.Longitude = loc.Longitude
		}
	}

	id, progress, err := s.gamify.FileReport(report, s.now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       id,
		"progress": progress,
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	var (
		reports []domain.Report
		err     error
	)
	if user != "" {
		reports, err = s.gamify.ReportsByUser(user)
	} else {
		reports, err = s.gamify.AllReports()
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Server) handleUserReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.gamify.ReportsByUser(pathEmail(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

// handleDeleteReport removes a report; only the owner may delete. The
// requester identifies itself via the email query parameter — session
// transport is outside this service.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	requester := r.URL.Query().Get("email")
	if err := s.gamify.DeleteReport(chi.URLParam(r, "id"), requester); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ─── Stats & Leaderboard ────────────────────────────────────────────────────

func (s *Server) handleGlobalStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gamify.GlobalStats())
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	stats := s.gamify.GlobalStats()
	writeJSON(w, http.StatusOK, map[string]any{"topUsers": stats.TopUsers})
}

// ─── Locations ──────────────────────────────────────────────────────────────

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.locations.ListLocations()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": locations})
}

func (s *Server) handleAddLocation(w http.ResponseWriter, r *http.Request) {
	var loc domain.Location
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody(err))
		return
	}
	if loc.Name == "" {
		writeJSON(w, http.StatusBadRequest, errBody(fmt.Errorf("location name required")))
		return
	}
	id, err := s.locations.AddLocation(loc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// ─── Shared ─────────────────────────────────────────────────────────────────

// profilePayload bundles a user's state with the derived dashboard numbers.
func profilePayload(account domain.Account, p domain.UserProgress) map[string]any {
	return map[string]any{
		"email":         account.Email,
		"username":      account.Username,
		"role":          account.Role,
		"progress":      p,
		"rank":          domain.RankForLevel(p.Level),
		"xpToNextLevel": gamify.XPToNextLevel(p.XP),
		"progressPct":   gamify.ProgressPct(p.XP),
	}
}

func pathEmail(r *http.Request) string {
	email := chi.URLParam(r, "email")
	if decoded, err := url.PathUnescape(email); err == nil {
		return decoded
	}
	return email
}

func errBody(err error) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"message": err.Error(),
			"type":    "error",
		},
	}
}

// timeAgo renders a relative timestamp for the activity feed.
func timeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

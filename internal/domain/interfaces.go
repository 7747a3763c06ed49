package domain

// ProgressStore reads and writes per-user gamification state. The keys are
// user emails. Implementations must return ErrUserNotFound for unknown
// emails on Get.
type ProgressStore interface {
	GetProgress(email string) (UserProgress, error)
	PutProgress(email string, p UserProgress) error
	ScanProgress() ([]ProgressEntry, error)
}

// ReportStore is the append-only report log with per-user queries.
type ReportStore interface {
	AppendReport(r Report) (string, error)
	ListReports() ([]Report, error)
	ListReportsByUser(email string) ([]Report, error)
	RemoveReport(id string) error
}

// LocationStore holds the recycling collection points reports refer to.
type LocationStore interface {
	AddLocation(l Location) (string, error)
	ListLocations() ([]Location, error)
	GetLocation(id string) (Location, error)
}

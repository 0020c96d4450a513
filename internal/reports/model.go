package reports

import "time"

// Report types.
const (
	ReportTypeLinesByGroup      = "lines_by_group"
	ReportTypeExpiringGroups    = "expiring_groups"
	ReportTypeWorkerDelays      = "worker_delays"
	ReportTypeAssignmentHistory = "assignment_history"
)

// Export formats.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// Dashboard is the summary block shown on the main screen.
type Dashboard struct {
	TotalOperators     int64            `json:"total_operators"`
	TotalGroups        int64            `json:"total_groups"`
	TotalLines         int64            `json:"total_lines"`
	LinesByStatus      map[string]int64 `json:"lines_by_status"`
	PendingAssignments int64            `json:"pending_assignments"`
	OverdueLines       int64            `json:"overdue_lines"`
	ExpiringGroups     int64            `json:"expiring_groups"`
	ExpiredGroups      int64            `json:"expired_groups"`
}

// LinesByGroupRow is one group with its fill level.
type LinesByGroupRow struct {
	GroupID       uint   `json:"group_id"`
	GroupName     string `json:"group_name"`
	OperatorName  string `json:"operator_name"`
	GroupType     string `json:"group_type"`
	LinesCount    int    `json:"lines_count"`
	MaxLinesCount int    `json:"max_lines_count"`
}

// ExpiringGroupRow is one cash-wallet group inside its alert window.
type ExpiringGroupRow struct {
	GroupID       uint      `json:"group_id"`
	GroupName     string    `json:"group_name"`
	OperatorName  string    `json:"operator_name"`
	ValidityDate  time.Time `json:"validity_date"`
	DaysRemaining int       `json:"days_remaining"`
}

// WorkerDelayRow aggregates one worker's overdue lines.
type WorkerDelayRow struct {
	WorkerID       uint       `json:"worker_id"`
	WorkerName     string     `json:"worker_name"`
	OverdueCount   int        `json:"overdue_count"`
	OldestExpected *time.Time `json:"oldest_expected"`
	MaxDaysOverdue int        `json:"max_days_overdue"`
}

// AssignmentHistoryRow is one assignment cycle flattened for export.
type AssignmentHistoryRow struct {
	ID                 uint       `json:"id"`
	PhoneNumber        string     `json:"phone_number"`
	GroupName          string     `json:"group_name"`
	WorkerName         string     `json:"worker_name"`
	AssignedAt         time.Time  `json:"assigned_at"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	ReturnedAt         *time.Time `json:"returned_at"`
	Status             string     `json:"status"`
}

// ReportData carries whichever rows the requested report needs.
type ReportData struct {
	LinesByGroup      []LinesByGroupRow
	ExpiringGroups    []ExpiringGroupRow
	WorkerDelays      []WorkerDelayRow
	AssignmentHistory []AssignmentHistoryRow
}

// Filter narrows report queries. WorkerID and the date bounds apply to the
// assignment history; DaysAhead widens the expiring-groups window beyond each
// group's own alert lead time.
type Filter struct {
	WorkerID  *uint      `form:"worker_id"`
	FromDate  *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"to_date" time_format:"2006-01-02"`
	DaysAhead *int       `form:"days_ahead"`
}

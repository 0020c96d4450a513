package auditlog

import "time"

// Entity types referenced by audit entries.
const (
	EntityOperator   = "Operator"
	EntityGroup      = "Group"
	EntityLine       = "Line"
	EntityUser       = "User"
	EntityAssignment = "AssignmentLog"
	EntityDatabase   = "Database"
)

// Audit actions.
const (
	ActionCreate           = "Create"
	ActionUpdate           = "Update"
	ActionDelete           = "Delete"
	ActionAssignLine       = "AssignLine"
	ActionReturnLine       = "ReturnLine"
	ActionCancelAssignment = "CancelAssignment"
	ActionReactivateLine   = "ReactivateLine"
	ActionSetLineStatus    = "SetLineStatus"
	ActionRenewValidity    = "RenewValidity"
	ActionImport           = "Import"
	ActionBackup           = "Backup"
	ActionRestore          = "Restore"
	ActionLogin            = "Login"
)

// AuditTrail is the append-only log of administrative actions. Rows are only
// ever inserted; nothing in the application updates or deletes them.
type AuditTrail struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityType string    `gorm:"size:50;not null;index" json:"entity_type"`
	EntityID   uint      `gorm:"index" json:"entity_id"`
	Action     string    `gorm:"size:50;not null;index" json:"action"`
	UserID     *uint     `gorm:"index" json:"user_id"`
	Details    string    `gorm:"size:1000" json:"details"`
	IPAddress  string    `gorm:"size:45" json:"ip_address"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditTrail) TableName() string {
	return "audit_trails"
}

// Filter narrows the audit listing.
type Filter struct {
	EntityType string     `form:"entity_type"`
	EntityID   *uint      `form:"entity_id"`
	Action     string     `form:"action"`
	UserID     *uint      `form:"user_id"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	Limit      int        `form:"limit"`
}

// Page is one page of audit entries.
type Page struct {
	Data       []AuditTrail `json:"data"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
}

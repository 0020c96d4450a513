package assignment

import (
	"time"

	"github.com/AbduDark/MobileLinesManager/internal/auth"
	"github.com/AbduDark/MobileLinesManager/internal/line"
)

// Assignment statuses. Pending is the only open state; the others are
// terminal for a given log entry.
const (
	StatusPending   = "Pending"
	StatusReturned  = "Returned"
	StatusOverdue   = "Overdue"
	StatusCancelled = "Cancelled"
)

// AssignmentLog is one hand-over of a line to a worker. Entries are history:
// a line accumulates one log per assignment cycle and none are ever deleted.
type AssignmentLog struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	LineID uint `gorm:"not null;index" json:"line_id"`

	FromUserID *uint `gorm:"index" json:"from_user_id"`
	ToUserID   uint  `gorm:"not null;index" json:"to_user_id"`

	AssignedAt         time.Time  `gorm:"not null" json:"assigned_at"`
	ExpectedReturnDate *time.Time `gorm:"index" json:"expected_return_date"`
	ReturnedAt         *time.Time `json:"returned_at"`

	Status string `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	Notes  string `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Line     *line.Line `gorm:"foreignKey:LineID" json:"line,omitempty"`
	FromUser *auth.User `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUser   *auth.User `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`
}

func (AssignmentLog) TableName() string {
	return "assignment_logs"
}

// IsOpen reports whether the assignment still holds the line.
func (a AssignmentLog) IsOpen() bool {
	return a.Status == StatusPending
}

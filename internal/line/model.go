package line

import (
	"time"

	"github.com/AbduDark/MobileLinesManager/internal/auth"
	"github.com/AbduDark/MobileLinesManager/internal/group"
)

// Line statuses. Available/Assigned/Returned form the assignment cycle;
// Blocked and Expired are set by explicit admin action only.
const (
	StatusAvailable = "Available"
	StatusAssigned  = "Assigned"
	StatusReturned  = "Returned"
	StatusBlocked   = "Blocked"
	StatusExpired   = "Expired"
)

// Line is one phone-number/SIM record belonging to exactly one group,
// optionally assigned to one worker at a time.
type Line struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID uint `gorm:"not null;index" json:"group_id"`

	PhoneNumber    string `gorm:"size:20;not null;uniqueIndex" json:"phone_number"`
	SerialNumber   string `gorm:"size:50" json:"serial_number"`
	AssociatedName string `gorm:"size:200" json:"associated_name"`
	NationalID     string `gorm:"size:30;index" json:"national_id"`
	CashWalletID   string `gorm:"size:50" json:"cash_wallet_id"`

	Status             string     `gorm:"size:20;not null;default:'Available'" json:"status"`
	AssignedToID       *uint      `gorm:"index" json:"assigned_to_id"`
	AssignedAt         *time.Time `json:"assigned_at"`
	ExpectedReturnDate *time.Time `gorm:"index" json:"expected_return_date"`

	Notes string `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Group      *group.Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	AssignedTo *auth.User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}

func (Line) TableName() string {
	return "lines"
}

// IsAssigned mirrors the status/assignee invariant.
func (l Line) IsAssigned() bool {
	return l.Status == StatusAssigned
}

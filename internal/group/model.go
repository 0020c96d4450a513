package group

import (
	"time"

	"github.com/AbduDark/MobileLinesManager/internal/operator"
)

// Group types.
const (
	TypeWithCashWallet    = "WithCashWallet"
	TypeWithoutCashWallet = "WithoutCashWallet"
	TypeSuspended         = "Suspended"
	TypeInMail            = "InMail"
)

// Group statuses.
const (
	StatusActive             = "Active"
	StatusDeliveredToClient  = "DeliveredToClient"
	StatusReturnedFromClient = "ReturnedFromClient"
	StatusSuspended          = "Suspended"
)

// Group is a named batch of SIM lines belonging to one operator. Cash-wallet
// groups carry a renewable validity window; delivered groups carry delivery
// tracking fields.
type Group struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OperatorID uint   `gorm:"not null;index" json:"operator_id"`
	Name       string `gorm:"size:100;not null" json:"name"`
	Type       string `gorm:"size:30;not null;default:'WithoutCashWallet'" json:"type"`
	Status     string `gorm:"size:30;not null;default:'Active'" json:"status"`

	MaxLinesCount int `gorm:"not null;default:50" json:"max_lines_count"`

	// Validity window, meaningful only for cash-wallet groups
	ValidityDate          *time.Time `gorm:"index" json:"validity_date"`
	LastRenewalDate       *time.Time `json:"last_renewal_date"`
	ValidityDays          *int       `json:"validity_days"`
	AlertDaysBeforeExpiry int        `gorm:"not null;default:7" json:"alert_days_before_expiry"`

	// Client delivery tracking
	DeliveredToClientName *string    `gorm:"size:200" json:"delivered_to_client_name"`
	DeliveryDate          *time.Time `json:"delivery_date"`
	ExpectedReturnDate    *time.Time `gorm:"index" json:"expected_return_date"`

	Notes string `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Operator *operator.Operator `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`

	// Filled by repository queries, not a column.
	CurrentLinesCount int `gorm:"-" json:"current_lines_count"`
}

func (Group) TableName() string {
	return "groups"
}

// AlertRule is an optional override of the validity alert lead time. A row
// with a nil GroupID acts as the global default; a group-specific enabled
// rule wins over both the global rule and the group's own lead-time field.
type AlertRule struct {
	ID               uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID          *uint  `gorm:"index" json:"group_id"`
	DaysBeforeExpiry int    `gorm:"not null;default:30" json:"days_before_expiry"`
	Enabled          bool   `gorm:"not null" json:"enabled"`
	AlertType        string `gorm:"size:30;not null;default:'Expiry'" json:"alert_type"`
}

func (AlertRule) TableName() string {
	return "alert_rules"
}

// Snapshot is a group plus its date-derived flags, computed against an
// explicit "today" so the API output is deterministic for a given date.
type Snapshot struct {
	Group
	IsFull            bool `json:"is_full"`
	HasCashWallet     bool `json:"has_cash_wallet"`
	IsExpiringSoon    bool `json:"is_expiring_soon"`
	IsExpired         bool `json:"is_expired"`
	IsDeliveryOverdue bool `json:"is_delivery_overdue"`
	DaysUntilExpiry   int  `json:"days_until_expiry"`
}

package group

import (
	"time"

	"github.com/AbduDark/MobileLinesManager/utils"
)

// Pure predicates over a group snapshot and an explicit "today". None of
// these read the system clock; all day arithmetic is calendar-day truncated.

// IsFull reports whether the group has reached its line capacity.
func (g Group) IsFull() bool {
	return g.CurrentLinesCount >= g.MaxLinesCount
}

// HasCashWallet reports whether the group carries a renewable validity window.
func (g Group) HasCashWallet() bool {
	return g.Type == TypeWithCashWallet
}

// IsExpiringSoon reports whether the validity date falls within the alert
// lead window, today and the lead-day boundary both inclusive.
func (g Group) IsExpiringSoon(today time.Time) bool {
	if !g.HasCashWallet() || g.ValidityDate == nil {
		return false
	}
	days := utils.DaysBetween(today, *g.ValidityDate)
	return days >= 0 && days <= g.AlertDaysBeforeExpiry
}

// IsExpired reports whether the validity date is strictly in the past. A
// group expiring today is "expiring soon", never "expired".
func (g Group) IsExpired(today time.Time) bool {
	if !g.HasCashWallet() || g.ValidityDate == nil {
		return false
	}
	return utils.DaysBetween(today, *g.ValidityDate) < 0
}

// IsDeliveryOverdue reports whether a group delivered to a client has passed
// its expected return date.
func (g Group) IsDeliveryOverdue(today time.Time) bool {
	if g.Status != StatusDeliveredToClient || g.ExpectedReturnDate == nil {
		return false
	}
	return utils.DaysBetween(today, *g.ExpectedReturnDate) < 0
}

// DaysUntilExpiry returns the whole days left in the validity window,
// clamped at zero. Zero for groups without a cash wallet.
func (g Group) DaysUntilExpiry(today time.Time) int {
	if !g.HasCashWallet() || g.ValidityDate == nil {
		return 0
	}
	days := utils.DaysBetween(today, *g.ValidityDate)
	if days < 0 {
		return 0
	}
	return days
}

// SnapshotAt bundles the group with every derived flag evaluated at "today".
func (g Group) SnapshotAt(today time.Time) Snapshot {
	return Snapshot{
		Group:             g,
		IsFull:            g.IsFull(),
		HasCashWallet:     g.HasCashWallet(),
		IsExpiringSoon:    g.IsExpiringSoon(today),
		IsExpired:         g.IsExpired(today),
		IsDeliveryOverdue: g.IsDeliveryOverdue(today),
		DaysUntilExpiry:   g.DaysUntilExpiry(today),
	}
}

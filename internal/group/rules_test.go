package group

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cashWalletGroup(validity time.Time, leadDays int) Group {
	return Group{
		Type:                  TypeWithCashWallet,
		ValidityDate:          &validity,
		AlertDaysBeforeExpiry: leadDays,
	}
}

func TestIsExpiringSoonBoundaries(t *testing.T) {
	today := date(2025, 3, 10)

	tests := []struct {
		name     string
		validity time.Time
		expiring bool
	}{
		{"expires today", date(2025, 3, 10), true},
		{"expires tomorrow", date(2025, 3, 11), true},
		{"expires exactly at lead boundary", date(2025, 3, 17), true},
		{"expires one day past lead", date(2025, 3, 18), false},
		{"expired yesterday", date(2025, 3, 9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := cashWalletGroup(tt.validity, 7)
			assert.Equal(t, tt.expiring, g.IsExpiringSoon(today))
		})
	}
}

func TestIsExpiredBoundaries(t *testing.T) {
	today := date(2025, 3, 10)

	g := cashWalletGroup(date(2025, 3, 9), 7)
	assert.True(t, g.IsExpired(today))

	// A group expiring today is still "expiring soon", not expired.
	g = cashWalletGroup(date(2025, 3, 10), 7)
	assert.False(t, g.IsExpired(today))
	assert.True(t, g.IsExpiringSoon(today))
}

func TestValidityRulesIgnoreGroupsWithoutCashWallet(t *testing.T) {
	today := date(2025, 3, 10)
	validity := date(2025, 3, 5)

	g := Group{
		Type:                  TypeWithoutCashWallet,
		ValidityDate:          &validity,
		AlertDaysBeforeExpiry: 7,
	}

	assert.False(t, g.IsExpired(today))
	assert.False(t, g.IsExpiringSoon(today))
	assert.Equal(t, 0, g.DaysUntilExpiry(today))
}

func TestValidityRulesNilValidityDate(t *testing.T) {
	today := date(2025, 3, 10)
	g := Group{Type: TypeWithCashWallet, AlertDaysBeforeExpiry: 7}

	assert.False(t, g.IsExpired(today))
	assert.False(t, g.IsExpiringSoon(today))
}

func TestDaysUntilExpiryClampedAtZero(t *testing.T) {
	today := date(2025, 3, 10)

	g := cashWalletGroup(date(2025, 3, 15), 7)
	assert.Equal(t, 5, g.DaysUntilExpiry(today))

	g = cashWalletGroup(date(2025, 3, 1), 7)
	assert.Equal(t, 0, g.DaysUntilExpiry(today))
}

func TestIsFull(t *testing.T) {
	g := Group{MaxLinesCount: 2, CurrentLinesCount: 1}
	assert.False(t, g.IsFull())

	g.CurrentLinesCount = 2
	assert.True(t, g.IsFull())
}

func TestIsDeliveryOverdue(t *testing.T) {
	today := date(2025, 3, 10)
	expected := date(2025, 3, 8)

	g := Group{Status: StatusDeliveredToClient, ExpectedReturnDate: &expected}
	assert.True(t, g.IsDeliveryOverdue(today))

	// Due today is not overdue.
	dueToday := date(2025, 3, 10)
	g.ExpectedReturnDate = &dueToday
	assert.False(t, g.IsDeliveryOverdue(today))

	// Only delivered groups count.
	g.Status = StatusActive
	g.ExpectedReturnDate = &expected
	assert.False(t, g.IsDeliveryOverdue(today))
}

func TestSnapshotAt(t *testing.T) {
	today := date(2025, 3, 10)
	g := cashWalletGroup(date(2025, 3, 12), 7)
	g.MaxLinesCount = 10
	g.CurrentLinesCount = 10

	snap := g.SnapshotAt(today)
	assert.True(t, snap.IsFull)
	assert.True(t, snap.HasCashWallet)
	assert.True(t, snap.IsExpiringSoon)
	assert.False(t, snap.IsExpired)
	assert.Equal(t, 2, snap.DaysUntilExpiry)
}

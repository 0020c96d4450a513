package alert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
	"github.com/AbduDark/MobileLinesManager/internal/auth"
	"github.com/AbduDark/MobileLinesManager/internal/group"
	"github.com/AbduDark/MobileLinesManager/internal/line"
	"github.com/AbduDark/MobileLinesManager/internal/operator"
	"github.com/AbduDark/MobileLinesManager/utils"
)

var testToday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&auth.User{},
		&operator.Operator{},
		&group.Group{},
		&group.AlertRule{},
		&line.Line{},
		&auditlog.AuditTrail{},
	))
	return db
}

func newEvaluator(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	clock := utils.FixedClock{T: testToday}
	return NewService(group.NewRepository(db), line.NewRepository(db), clock)
}

func seedOperator(t *testing.T, db *gorm.DB) operator.Operator {
	t.Helper()
	op := operator.Operator{Name: "Orange"}
	require.NoError(t, db.Create(&op).Error)
	return op
}

func seedCashWalletGroup(t *testing.T, db *gorm.DB, opID uint, name string, validity time.Time, lead int) group.Group {
	t.Helper()
	g := group.Group{
		OperatorID:            opID,
		Name:                  name,
		Type:                  group.TypeWithCashWallet,
		Status:                group.StatusActive,
		MaxLinesCount:         10,
		ValidityDate:          &validity,
		AlertDaysBeforeExpiry: lead,
	}
	require.NoError(t, db.Create(&g).Error)
	return g
}

func TestCheckAllValidityBoundaries(t *testing.T) {
	db := newTestDB(t)
	op := seedOperator(t, db)

	seedCashWalletGroup(t, db, op.ID, "expires-today", testToday, 7)
	seedCashWalletGroup(t, db, op.ID, "at-lead-boundary", testToday.AddDate(0, 0, 7), 7)
	seedCashWalletGroup(t, db, op.ID, "past-lead", testToday.AddDate(0, 0, 8), 7)
	seedCashWalletGroup(t, db, op.ID, "expired-yesterday", testToday.AddDate(0, 0, -1), 7)

	svc := newEvaluator(t, db)
	result, err := svc.CheckAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Counts[TypeGroupValidityExpiring])
	assert.Equal(t, 1, result.Counts[TypeGroupValidityExpired])
	assert.Zero(t, result.Counts[TypeGroupNotReturned])
	assert.Zero(t, result.Counts[TypeLineNotReturned])
}

func TestCheckAllAppliesRuleOverride(t *testing.T) {
	db := newTestDB(t)
	op := seedOperator(t, db)

	// Expires in 5 days with a 7-day lead: normally expiring. A rule
	// tightening the lead to 3 days drops it from the window.
	g := seedCashWalletGroup(t, db, op.ID, "ruled", testToday.AddDate(0, 0, 5), 7)
	require.NoError(t, db.Create(&group.AlertRule{GroupID: &g.ID, DaysBeforeExpiry: 3, Enabled: true}).Error)

	svc := newEvaluator(t, db)
	result, err := svc.CheckAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Counts[TypeGroupValidityExpiring])

	// A global rule widening the lead pulls a distant group in.
	seedCashWalletGroup(t, db, op.ID, "distant", testToday.AddDate(0, 0, 20), 7)
	require.NoError(t, db.Create(&group.AlertRule{GroupID: nil, DaysBeforeExpiry: 30, Enabled: true}).Error)

	result, err = svc.CheckAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Counts[TypeGroupValidityExpiring])
}

func TestCheckAllGroupDeliveries(t *testing.T) {
	db := newTestDB(t)
	op := seedOperator(t, db)

	client := "ACME"
	overdueDate := testToday.AddDate(0, 0, -2)
	dueDate := testToday

	overdue := group.Group{
		OperatorID: op.ID, Name: "delivered-overdue", Type: group.TypeWithoutCashWallet,
		Status: group.StatusDeliveredToClient, MaxLinesCount: 10,
		DeliveredToClientName: &client, ExpectedReturnDate: &overdueDate,
	}
	require.NoError(t, db.Create(&overdue).Error)

	onTime := group.Group{
		OperatorID: op.ID, Name: "delivered-due-today", Type: group.TypeWithoutCashWallet,
		Status: group.StatusDeliveredToClient, MaxLinesCount: 10,
		DeliveredToClientName: &client, ExpectedReturnDate: &dueDate,
	}
	require.NoError(t, db.Create(&onTime).Error)

	svc := newEvaluator(t, db)
	result, err := svc.CheckAll(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, result.Counts[TypeGroupNotReturned])
	item := result.Items[0]
	assert.Equal(t, TypeGroupNotReturned, item.Type)
	assert.Equal(t, 2, item.Days)
}

func TestCheckAllOverdueLines(t *testing.T) {
	db := newTestDB(t)
	op := seedOperator(t, db)
	g := seedCashWalletGroup(t, db, op.ID, "batch", testToday.AddDate(0, 0, 60), 7)

	worker := auth.User{Username: "w", PasswordHash: "x", FullName: "Worker", Role: auth.RoleWorker, IsActive: true}
	require.NoError(t, db.Create(&worker).Error)

	past := testToday.AddDate(0, 0, -3)
	held := line.Line{
		GroupID: g.ID, PhoneNumber: "0100000001", Status: line.StatusAssigned,
		AssignedToID: &worker.ID, ExpectedReturnDate: &past,
	}
	require.NoError(t, db.Create(&held).Error)

	// Already returned lines never alert, even when the date has passed.
	returned := line.Line{GroupID: g.ID, PhoneNumber: "0100000002", Status: line.StatusReturned, ExpectedReturnDate: &past}
	require.NoError(t, db.Create(&returned).Error)

	svc := newEvaluator(t, db)
	result, err := svc.CheckAll(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, result.Counts[TypeLineNotReturned])
	var found *Item
	for i := range result.Items {
		if result.Items[i].Type == TypeLineNotReturned {
			found = &result.Items[i]
		}
	}
	require.NotNil(t, found)
	require.NotNil(t, found.LineID)
	assert.Equal(t, held.ID, *found.LineID)
	assert.Equal(t, 3, found.Days)
}

func TestCheckAllIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	op := seedOperator(t, db)
	seedCashWalletGroup(t, db, op.ID, "g1", testToday.AddDate(0, 0, 2), 7)
	seedCashWalletGroup(t, db, op.ID, "g2", testToday.AddDate(0, 0, -5), 7)

	svc := newEvaluator(t, db)
	first, err := svc.CheckAll(context.Background())
	require.NoError(t, err)
	second, err := svc.CheckAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Counts, second.Counts)
	assert.Len(t, second.Items, len(first.Items))
}

func TestLatestHoldsMostRecentResult(t *testing.T) {
	db := newTestDB(t)
	svc := newEvaluator(t, db)

	assert.Nil(t, svc.Latest())

	result, err := svc.CheckAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result, svc.Latest())
}

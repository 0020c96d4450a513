package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AbduDark/MobileLinesManager/internal/assignment"
	"github.com/AbduDark/MobileLinesManager/internal/auth"
	"github.com/AbduDark/MobileLinesManager/internal/group"
	"github.com/AbduDark/MobileLinesManager/internal/line"
	"github.com/AbduDark/MobileLinesManager/internal/operator"
	"github.com/AbduDark/MobileLinesManager/utils"
)

var reportToday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type seeded struct {
	db     *gorm.DB
	svc    Service
	worker auth.User
}

func newSeeded(t *testing.T) *seeded {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&auth.User{},
		&operator.Operator{},
		&group.Group{},
		&line.Line{},
		&assignment.AssignmentLog{},
	))

	op := operator.Operator{Name: "Vodafone"}
	require.NoError(t, db.Create(&op).Error)

	expSoon := reportToday.AddDate(0, 0, 3)
	expired := reportToday.AddDate(0, 0, -2)
	g1 := group.Group{OperatorID: op.ID, Name: "Wallet A", Type: group.TypeWithCashWallet, Status: group.StatusActive, MaxLinesCount: 10, ValidityDate: &expSoon, AlertDaysBeforeExpiry: 7}
	g2 := group.Group{OperatorID: op.ID, Name: "Wallet B", Type: group.TypeWithCashWallet, Status: group.StatusActive, MaxLinesCount: 10, ValidityDate: &expired, AlertDaysBeforeExpiry: 7}
	g3 := group.Group{OperatorID: op.ID, Name: "Plain", Type: group.TypeWithoutCashWallet, Status: group.StatusActive, MaxLinesCount: 10}
	require.NoError(t, db.Create(&g1).Error)
	require.NoError(t, db.Create(&g2).Error)
	require.NoError(t, db.Create(&g3).Error)

	worker := auth.User{Username: "w1", PasswordHash: "x", FullName: "Worker One", Role: auth.RoleWorker, IsActive: true}
	require.NoError(t, db.Create(&worker).Error)

	past := reportToday.AddDate(0, 0, -4)
	l1 := line.Line{GroupID: g1.ID, PhoneNumber: "0101", Status: line.StatusAssigned, AssignedToID: &worker.ID, ExpectedReturnDate: &past}
	l2 := line.Line{GroupID: g1.ID, PhoneNumber: "0102", Status: line.StatusAvailable}
	l3 := line.Line{GroupID: g3.ID, PhoneNumber: "0103", Status: line.StatusReturned}
	require.NoError(t, db.Create(&l1).Error)
	require.NoError(t, db.Create(&l2).Error)
	require.NoError(t, db.Create(&l3).Error)

	assignedAt := reportToday.AddDate(0, 0, -10)
	log := assignment.AssignmentLog{LineID: l1.ID, ToUserID: worker.ID, AssignedAt: assignedAt, ExpectedReturnDate: &past, Status: assignment.StatusPending}
	require.NoError(t, db.Create(&log).Error)

	clock := utils.FixedClock{T: reportToday}
	svc := NewService(NewRepository(db), NewExporter(), clock)
	return &seeded{db: db, svc: svc, worker: worker}
}

func TestDashboard(t *testing.T) {
	s := newSeeded(t)

	d, err := s.svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), d.TotalOperators)
	assert.Equal(t, int64(3), d.TotalGroups)
	assert.Equal(t, int64(3), d.TotalLines)
	assert.Equal(t, int64(1), d.LinesByStatus[line.StatusAssigned])
	assert.Equal(t, int64(1), d.LinesByStatus[line.StatusAvailable])
	assert.Equal(t, int64(1), d.PendingAssignments)
	assert.Equal(t, int64(1), d.OverdueLines)
	assert.Equal(t, int64(1), d.ExpiringGroups)
	assert.Equal(t, int64(1), d.ExpiredGroups)
}

func TestLinesByGroup(t *testing.T) {
	s := newSeeded(t)

	rows, err := s.svc.LinesByGroup(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byName := map[string]LinesByGroupRow{}
	for _, r := range rows {
		byName[r.GroupName] = r
	}
	assert.Equal(t, 2, byName["Wallet A"].LinesCount)
	assert.Equal(t, 0, byName["Wallet B"].LinesCount)
	assert.Equal(t, 1, byName["Plain"].LinesCount)
	assert.Equal(t, "Vodafone", byName["Wallet A"].OperatorName)
}

func TestExpiringGroupsReport(t *testing.T) {
	s := newSeeded(t)

	rows, err := s.svc.ExpiringGroups(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by validity date: expired first.
	assert.Equal(t, "Wallet B", rows[0].GroupName)
	assert.Equal(t, -2, rows[0].DaysRemaining)
	assert.Equal(t, "Wallet A", rows[1].GroupName)
	assert.Equal(t, 3, rows[1].DaysRemaining)
}

func TestExpiringGroupsDaysAhead(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	// A group well outside its own 7-day lead window.
	far := reportToday.AddDate(0, 0, 20)
	var op operator.Operator
	require.NoError(t, s.db.First(&op).Error)
	g := group.Group{OperatorID: op.ID, Name: "Wallet C", Type: group.TypeWithCashWallet, Status: group.StatusActive, MaxLinesCount: 10, ValidityDate: &far, AlertDaysBeforeExpiry: 7}
	require.NoError(t, s.db.Create(&g).Error)

	// Tight window: only the already-expired group survives.
	narrow := 2
	rows, err := s.svc.ExpiringGroups(ctx, &narrow)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Wallet B", rows[0].GroupName)

	// Wide window: pulls in groups beyond their own lead time.
	wide := 30
	rows, err = s.svc.ExpiringGroups(ctx, &wide)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Wallet C", rows[2].GroupName)
	assert.Equal(t, 20, rows[2].DaysRemaining)

	// Absent parameter keeps the per-group lead behavior.
	rows, err = s.svc.ExpiringGroups(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestWorkerDelays(t *testing.T) {
	s := newSeeded(t)

	rows, err := s.svc.WorkerDelays(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, s.worker.ID, rows[0].WorkerID)
	assert.Equal(t, "Worker One", rows[0].WorkerName)
	assert.Equal(t, 1, rows[0].OverdueCount)
	assert.Equal(t, 4, rows[0].MaxDaysOverdue)
	require.NotNil(t, rows[0].OldestExpected)
	assert.True(t, rows[0].OldestExpected.Equal(reportToday.AddDate(0, 0, -4)))
}

func TestAssignmentHistoryFilter(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	rows, err := s.svc.AssignmentHistory(ctx, Filter{WorkerID: &s.worker.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "0101", rows[0].PhoneNumber)
	assert.Equal(t, "Wallet A", rows[0].GroupName)

	cutoff := reportToday.AddDate(0, 0, -20)
	none, err := s.svc.AssignmentHistory(ctx, Filter{ToDate: &cutoff})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestExportFormats(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	data, filename, contentType, err := s.svc.Export(ctx, ReportTypeLinesByGroup, FormatCSV, Filter{})
	require.NoError(t, err)
	assert.Contains(t, filename, "lines_by_group_report_")
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(data), "Wallet A")

	data, filename, contentType, err = s.svc.Export(ctx, ReportTypeExpiringGroups, FormatExcel, Filter{})
	require.NoError(t, err)
	assert.Contains(t, filename, ".xlsx")
	assert.Equal(t, excelContentType, contentType)
	assert.NotEmpty(t, data)

	data, _, contentType, err = s.svc.Export(ctx, ReportTypeWorkerDelays, FormatPDF, Filter{})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, _, _, err = s.svc.Export(ctx, "bogus", FormatCSV, Filter{})
	assert.Error(t, err)
}

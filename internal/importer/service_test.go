package importer

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
	"github.com/AbduDark/MobileLinesManager/internal/auth"
	"github.com/AbduDark/MobileLinesManager/internal/group"
	"github.com/AbduDark/MobileLinesManager/internal/line"
	"github.com/AbduDark/MobileLinesManager/internal/operator"
)

func newTestService(t *testing.T, maxLines int) (Service, *gorm.DB, group.Group) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&auth.User{},
		&operator.Operator{},
		&group.Group{},
		&line.Line{},
		&auditlog.AuditTrail{},
	))

	op := operator.Operator{Name: "Etisalat"}
	require.NoError(t, db.Create(&op).Error)

	g := group.Group{OperatorID: op.ID, Name: "Import Batch", Type: group.TypeWithoutCashWallet, Status: group.StatusActive, MaxLinesCount: maxLines}
	require.NoError(t, db.Create(&g).Error)

	lineRepo := line.NewRepository(db)
	groupRepo := group.NewRepository(db)
	auditSvc := auditlog.NewService(auditlog.NewRepository(db))
	return NewService(lineRepo, groupRepo, auditSvc), db, g
}

func TestImportCSVBestEffort(t *testing.T) {
	svc, db, g := newTestService(t, 50)

	// Row 2 duplicates row 1's phone; rows 1 and 3 must still land.
	csvData := strings.Join([]string{
		"01001111111,SN1,Ali,29901011234567,CW1",
		"01001111111,SN2,Omar,29901011234568,CW2",
		"01002222222,SN3,Mona,29901011234569,CW3",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), g.ID, strings.NewReader(csvData), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.SuccessCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 2, result.Failures[0].Row)
	assert.Equal(t, apperr.ErrDuplicatePhone.Error(), result.Failures[0].Message)
	assert.NotEmpty(t, result.BatchID)

	var count int64
	require.NoError(t, db.Model(&line.Line{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestImportCSVFullColumnSet(t *testing.T) {
	svc, db, g := newTestService(t, 50)

	csvData := strings.Join([]string{
		"PhoneNumber,SerialNumber,AssociatedName,NationalId,CashWalletId,Notes",
		"01008888881,SN10,Laila,29901011234571,CW10,vip client",
		"01008888882,SN11,Karim,29901011234572,CW11,",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), g.ID, strings.NewReader(csvData), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Empty(t, result.Failures)

	var l line.Line
	require.NoError(t, db.Where("phone_number = ?", "01008888881").First(&l).Error)
	assert.Equal(t, "SN10", l.SerialNumber)
	assert.Equal(t, "Laila", l.AssociatedName)
	assert.Equal(t, "CW10", l.CashWalletID)
	assert.Equal(t, "vip client", l.Notes)
}

func TestImportCSVSkipsHeaderRow(t *testing.T) {
	svc, db, g := newTestService(t, 50)

	csvData := "phone,serial,name,national_id,wallet\n01003333333,SN9,Hany,299,CW9\n"
	result, err := svc.ImportCSV(context.Background(), g.ID, strings.NewReader(csvData), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalProcessed)
	assert.Equal(t, 1, result.SuccessCount)

	var l line.Line
	require.NoError(t, db.First(&l).Error)
	assert.Equal(t, "01003333333", l.PhoneNumber)
	assert.Equal(t, line.StatusAvailable, l.Status)
}

func TestImportCSVEnforcesCapacityAcrossBatch(t *testing.T) {
	svc, _, g := newTestService(t, 2)

	csvData := strings.Join([]string{
		"01004444441,,,,",
		"01004444442,,,,",
		"01004444443,,,,",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), g.ID, strings.NewReader(csvData), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, apperr.ErrGroupFull.Error(), result.Failures[0].Message)
}

func TestImportCSVRejectsRowsWithoutPhone(t *testing.T) {
	svc, _, g := newTestService(t, 50)

	result, err := svc.ImportCSV(context.Background(), g.ID, strings.NewReader(",SN1,Name,299,CW1\n"), nil, "")
	require.NoError(t, err)

	assert.Zero(t, result.SuccessCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, apperr.ErrPhoneRequired.Error(), result.Failures[0].Message)
}

func TestImportCSVUnknownGroup(t *testing.T) {
	svc, _, _ := newTestService(t, 50)

	_, err := svc.ImportCSV(context.Background(), 9999, strings.NewReader("01005555555,,,,\n"), nil, "")
	assert.ErrorIs(t, err, apperr.ErrGroupNotFound)
}

func TestImportQRPayload(t *testing.T) {
	svc, db, g := newTestService(t, 50)

	payload := "01006666666|SN42|" + itoa(g.ID) + "|CW42|Sara|29901011234570"
	l, err := svc.ImportQRPayload(context.Background(), payload, nil, "")
	require.NoError(t, err)

	assert.Equal(t, "01006666666", l.PhoneNumber)
	assert.Equal(t, "SN42", l.SerialNumber)
	assert.Equal(t, g.ID, l.GroupID)
	assert.Equal(t, "CW42", l.CashWalletID)
	assert.Equal(t, "Sara", l.AssociatedName)
	assert.Equal(t, "29901011234570", l.NationalID)
	assert.Equal(t, line.StatusAvailable, l.Status)

	var stored line.Line
	require.NoError(t, db.First(&stored, l.ID).Error)
	assert.Equal(t, l.PhoneNumber, stored.PhoneNumber)
}

func TestImportQRPayloadRejectsMalformed(t *testing.T) {
	svc, _, g := newTestService(t, 50)

	_, err := svc.ImportQRPayload(context.Background(), "only|three|fields", nil, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidQRPayload)

	_, err = svc.ImportQRPayload(context.Background(), "|SN|"+itoa(g.ID)+"|CW|Name|NID", nil, "")
	assert.ErrorIs(t, err, apperr.ErrPhoneRequired)

	_, err = svc.ImportQRPayload(context.Background(), "0100|SN|not-a-number|CW|Name|NID", nil, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidQRPayload)
}

func TestImportQRPayloadDuplicatePhone(t *testing.T) {
	svc, _, g := newTestService(t, 50)

	payload := "01007777777|SN|" + itoa(g.ID) + "|CW|Name|NID"
	_, err := svc.ImportQRPayload(context.Background(), payload, nil, "")
	require.NoError(t, err)

	_, err = svc.ImportQRPayload(context.Background(), payload, nil, "")
	assert.ErrorIs(t, err, apperr.ErrDuplicatePhone)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

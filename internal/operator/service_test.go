package operator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
)

type groupRow struct {
	ID         uint
	OperatorID uint
	Name       string
}

func (groupRow) TableName() string { return "groups" }

type lineRow struct {
	ID      uint
	GroupID uint
}

func (lineRow) TableName() string { return "lines" }

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Operator{}, &groupRow{}, &lineRow{}, &auditlog.AuditTrail{}))

	return NewService(NewRepository(db), auditlog.NewService(auditlog.NewRepository(db))), db
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Create(context.Background(), &Operator{Name: "  "}, nil, "")
	assert.ErrorIs(t, err, apperr.ErrNameRequired)
}

func TestDeleteGuardedByGroups(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	op := &Operator{Name: "Vodafone"}
	require.NoError(t, svc.Create(ctx, op, nil, ""))
	require.NoError(t, db.Create(&groupRow{OperatorID: op.ID, Name: "Batch"}).Error)

	err := svc.Delete(ctx, op.ID, nil, "")
	assert.ErrorIs(t, err, apperr.ErrOperatorHasGroups)

	require.NoError(t, db.Where("operator_id = ?", op.ID).Delete(&groupRow{}).Error)
	require.NoError(t, svc.Delete(ctx, op.ID, nil, ""))

	_, err = svc.Get(ctx, op.ID)
	assert.ErrorIs(t, err, apperr.ErrOperatorNotFound)
}

func TestListIncludesCounts(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	op := &Operator{Name: "Orange"}
	require.NoError(t, svc.Create(ctx, op, nil, ""))

	g := groupRow{OperatorID: op.ID, Name: "Batch A"}
	require.NoError(t, db.Create(&g).Error)
	require.NoError(t, db.Create(&lineRow{GroupID: g.ID}).Error)
	require.NoError(t, db.Create(&lineRow{GroupID: g.ID}).Error)

	stats, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(1), stats[0].GroupsCount)
	assert.Equal(t, int64(2), stats[0].LinesCount)
}

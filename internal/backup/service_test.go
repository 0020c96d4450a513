package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AbduDark/MobileLinesManager/config"
	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
	"github.com/AbduDark/MobileLinesManager/internal/operator"
	"github.com/AbduDark/MobileLinesManager/utils"
)

func newTestSetup(t *testing.T) (Service, *gorm.DB, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DBPath:    filepath.Join(dir, "test.db"),
		BackupDir: filepath.Join(dir, "backups"),
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&operator.Operator{}, &auditlog.AuditTrail{}))

	clock := utils.FixedClock{T: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)}
	svc := NewService(db, cfg, auditlog.NewService(auditlog.NewRepository(db)), clock)
	return svc, db, cfg
}

func TestBackupCreatesSnapshotFile(t *testing.T) {
	svc, db, _ := newTestSetup(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&operator.Operator{Name: "Vodafone"}).Error)

	info, err := svc.Backup(ctx, nil, "")
	require.NoError(t, err)

	assert.Equal(t, "mobile_lines_backup_20250310_143000.db", info.Filename)
	assert.Greater(t, info.SizeBytes, int64(0))

	infos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, info.Filename, infos[0].Filename)
}

func TestBackupSnapshotIsReadable(t *testing.T) {
	svc, db, cfg := newTestSetup(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&operator.Operator{Name: "Orange"}).Error)

	info, err := svc.Backup(ctx, nil, "")
	require.NoError(t, err)

	snapshot, err := gorm.Open(sqlite.Open(filepath.Join(cfg.BackupDir, info.Filename)), &gorm.Config{})
	require.NoError(t, err)

	var count int64
	require.NoError(t, snapshot.Model(&operator.Operator{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRestoreRejectsUnknownOrBogusFile(t *testing.T) {
	svc, _, cfg := newTestSetup(t)
	ctx := context.Background()

	err := svc.Restore(ctx, "no-such-backup.db", nil, "")
	assert.ErrorIs(t, err, apperr.ErrBackupNotFound)

	// Path traversal is treated as not-found, never resolved.
	err = svc.Restore(ctx, "../test.db", nil, "")
	assert.ErrorIs(t, err, apperr.ErrBackupNotFound)

	// A non-sqlite file in the backup dir is refused before any copying.
	bogus := filepath.Join(cfg.BackupDir, "bogus.db")
	require.NoError(t, writeFile(bogus, []byte("not a database")))
	err = svc.Restore(ctx, "bogus.db", nil, "")
	assert.ErrorIs(t, err, apperr.ErrBackupNotFound)
}

func TestRestoreBringsBackOldData(t *testing.T) {
	svc, db, cfg := newTestSetup(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&operator.Operator{Name: "Original"}).Error)
	info, err := svc.Backup(ctx, nil, "")
	require.NoError(t, err)

	require.NoError(t, db.Create(&operator.Operator{Name: "AddedAfterBackup"}).Error)

	require.NoError(t, svc.Restore(ctx, info.Filename, nil, ""))

	// The restored file must contain only the pre-backup data.
	restored, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	require.NoError(t, err)

	var names []string
	require.NoError(t, restored.Model(&operator.Operator{}).Pluck("name", &names).Error)
	assert.Equal(t, []string{"Original"}, names)

	// A safety copy of the replaced database sits next to it.
	matches, err := filepath.Glob(cfg.DBPath + ".pre-restore-*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

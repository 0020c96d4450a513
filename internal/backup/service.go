package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/AbduDark/MobileLinesManager/config"
	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
	"github.com/AbduDark/MobileLinesManager/utils"
)

// sqlite database files start with this 16-byte header.
var sqliteHeader = []byte("SQLite format 3\x00")

// Info describes one backup file on disk.
type Info struct {
	Filename  string    `json:"filename"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

type Service interface {
	Backup(ctx context.Context, actorID *uint, ip string) (*Info, error)
	Restore(ctx context.Context, filename string, actorID *uint, ip string) error
	List(ctx context.Context) ([]Info, error)
}

type service struct {
	db    *gorm.DB
	cfg   *config.Config
	audit auditlog.Service
	clock utils.Clock
}

func NewService(db *gorm.DB, cfg *config.Config, audit auditlog.Service, clock utils.Clock) Service {
	return &service{db: db, cfg: cfg, audit: audit, clock: clock}
}

// Backup writes a consistent snapshot of the database into the backup
// directory. VACUUM INTO produces a complete copy regardless of in-flight
// readers.
func (s *service) Backup(ctx context.Context, actorID *uint, ip string) (*Info, error) {
	if err := os.MkdirAll(s.cfg.BackupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	filename := fmt.Sprintf("mobile_lines_backup_%s.db", s.clock.Now().Format("20060102_150405"))
	path := filepath.Join(s.cfg.BackupDir, filename)

	if err := s.db.WithContext(ctx).Exec("VACUUM INTO ?", path).Error; err != nil {
		return nil, fmt.Errorf("backup database: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat backup: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityDatabase, 0, auditlog.ActionBackup,
		fmt.Sprintf("database backed up to %s (%d bytes)", filename, stat.Size()), ip)

	return &Info{Filename: filename, SizeBytes: stat.Size(), CreatedAt: stat.ModTime()}, nil
}

// Restore replaces the live database with a backup. The current database is
// copied aside first; if the replacement fails the copy is rolled back so the
// system never ends up with a half-written file.
func (s *service) Restore(ctx context.Context, filename string, actorID *uint, ip string) error {
	if filename == "" || filename != filepath.Base(filename) {
		return apperr.ErrBackupNotFound
	}

	backupPath := filepath.Join(s.cfg.BackupDir, filename)
	if err := verifySQLiteFile(backupPath); err != nil {
		return err
	}

	// Flush pending pages so the on-disk file is current before copying.
	if err := s.db.WithContext(ctx).Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return fmt.Errorf("checkpoint database: %w", err)
	}

	safetyPath := s.cfg.DBPath + ".pre-restore-" + s.clock.Now().Format("20060102_150405")
	if err := copyFile(s.cfg.DBPath, safetyPath); err != nil {
		return fmt.Errorf("create safety copy: %w", err)
	}

	if err := copyFile(backupPath, s.cfg.DBPath); err != nil {
		if rbErr := copyFile(safetyPath, s.cfg.DBPath); rbErr != nil {
			return fmt.Errorf("restore failed (%v) and rollback failed: %w", err, rbErr)
		}
		return fmt.Errorf("restore database: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityDatabase, 0, auditlog.ActionRestore,
		fmt.Sprintf("database restored from %s (safety copy %s)", filename, filepath.Base(safetyPath)), ip)
	return nil
}

func (s *service) List(ctx context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.cfg.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Filename:  entry.Name(),
			SizeBytes: fi.Size(),
			CreatedAt: fi.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

func verifySQLiteFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return apperr.ErrBackupNotFound
		}
		return err
	}
	defer f.Close()

	header := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, header); err != nil || !bytes.Equal(header, sqliteHeader) {
		return apperr.ErrBackupNotFound
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

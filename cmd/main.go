package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/AbduDark/MobileLinesManager/config"
	"github.com/AbduDark/MobileLinesManager/database"
	"github.com/AbduDark/MobileLinesManager/internal/alert"
	"github.com/AbduDark/MobileLinesManager/internal/assignment"
	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
	"github.com/AbduDark/MobileLinesManager/internal/auth"
	"github.com/AbduDark/MobileLinesManager/internal/backup"
	"github.com/AbduDark/MobileLinesManager/internal/group"
	"github.com/AbduDark/MobileLinesManager/internal/importer"
	"github.com/AbduDark/MobileLinesManager/internal/line"
	"github.com/AbduDark/MobileLinesManager/internal/operator"
	"github.com/AbduDark/MobileLinesManager/internal/reports"
	"github.com/AbduDark/MobileLinesManager/routes"
	"github.com/AbduDark/MobileLinesManager/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)
	clock := utils.SystemClock()

	log.Println("running database migrations...")
	if err := db.AutoMigrate(
		&auth.User{},
		&operator.Operator{},
		&group.Group{},
		&group.AlertRule{},
		&line.Line{},
		&assignment.AssignmentLog{},
		&auditlog.AuditTrail{},
	); err != nil {
		log.Fatalf("auto-migrate failed: %v", err)
	}

	if err := auth.SeedAdminUser(db, cfg); err != nil {
		log.Fatalf("seed admin user failed: %v", err)
	}

	// Repositories
	auditRepo := auditlog.NewRepository(db)
	operatorRepo := operator.NewRepository(db)
	groupRepo := group.NewRepository(db)
	lineRepo := line.NewRepository(db)
	assignmentRepo := assignment.NewRepository(db)
	authRepo := auth.NewRepository(db)
	reportsRepo := reports.NewRepository(db)

	// Services
	auditSvc := auditlog.NewService(auditRepo)
	operatorSvc := operator.NewService(operatorRepo, auditSvc)
	groupSvc := group.NewService(groupRepo, operatorRepo, auditSvc, clock, group.Defaults{
		ValidityDays:          cfg.DefaultValidityDays,
		AlertDaysBeforeExpiry: cfg.DefaultAlertDaysBeforeExpiry,
	})
	lineSvc := line.NewService(lineRepo, groupRepo, auditSvc)
	assignmentSvc := assignment.NewService(assignmentRepo, clock)
	authSvc := auth.NewService(authRepo, auditSvc, cfg)
	alertSvc := alert.NewService(groupRepo, lineRepo, clock)
	importSvc := importer.NewService(lineRepo, groupRepo, auditSvc)
	reportsSvc := reports.NewService(reportsRepo, reports.NewExporter(), clock)
	backupSvc := backup.NewService(db, cfg, auditSvc, clock)

	// Background alert scan
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := alert.NewScheduler(alertSvc, time.Duration(cfg.AlertScanIntervalMinutes)*time.Minute)
	stopScheduler := scheduler.Start(ctx)
	defer stopScheduler()

	router := routes.Setup(cfg, routes.Handlers{
		Auth:        auth.NewHandler(authSvc),
		Operators:   operator.NewHandler(operatorSvc),
		Groups:      group.NewHandler(groupSvc),
		Lines:       line.NewHandler(lineSvc),
		Assignments: assignment.NewHandler(assignmentSvc),
		AuditLogs:   auditlog.NewHandler(auditSvc),
		Alerts:      alert.NewHandler(alertSvc),
		Importer:    importer.NewHandler(importSvc),
		Reports:     reports.NewHandler(reportsSvc),
		Backups:     backup.NewHandler(backupSvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

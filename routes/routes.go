package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/AbduDark/MobileLinesManager/config"
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
	"github.com/AbduDark/MobileLinesManager/middleware"
)

// Handlers bundles every route handler for Setup.
type Handlers struct {
	Auth        *auth.Handler
	Operators   *operator.Handler
	Groups      *group.Handler
	Lines       *line.Handler
	Assignments *assignment.Handler
	AuditLogs   *auditlog.Handler
	Alerts      *alert.Handler
	Importer    *importer.Handler
	Reports     *reports.Handler
	Backups     *backup.Handler
}

// Setup builds the router. Write operations need Admin or Manager; user
// management and backup/restore are Admin only; reads need any valid login.
func Setup(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(cfg))

	manage := authed.Group("")
	manage.Use(middleware.RequireRoles(auth.RoleAdmin, auth.RoleManager))

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(auth.RoleAdmin))

	// Auth / users
	authed.GET("/auth/me", h.Auth.Me)
	authed.GET("/users/workers", h.Auth.ListWorkers)
	admin.POST("/users", h.Auth.CreateUser)
	admin.PUT("/users/:id/active", h.Auth.SetActive)
	admin.GET("/users", h.Auth.List)
	admin.GET("/users/:id", h.Auth.Get)

	// Operators
	authed.GET("/operators", h.Operators.List)
	authed.GET("/operators/:id", h.Operators.Get)
	manage.POST("/operators", h.Operators.Create)
	manage.PUT("/operators/:id", h.Operators.Update)
	manage.DELETE("/operators/:id", h.Operators.Delete)

	// Groups
	authed.GET("/groups", h.Groups.List)
	authed.GET("/groups/:id", h.Groups.Get)
	manage.POST("/groups", h.Groups.Create)
	manage.PUT("/groups/:id", h.Groups.Update)
	manage.DELETE("/groups/:id", h.Groups.Delete)
	manage.POST("/groups/:id/renew", h.Groups.Renew)

	// Lines
	authed.GET("/lines", h.Lines.List)
	authed.GET("/lines/:id", h.Lines.Get)
	manage.POST("/lines", h.Lines.Create)
	manage.PUT("/lines/:id", h.Lines.Update)
	manage.DELETE("/lines/:id", h.Lines.Delete)
	manage.POST("/lines/:id/reactivate", h.Lines.Reactivate)
	manage.PUT("/lines/:id/status", h.Lines.SetStatus)

	// Assignments
	authed.GET("/assignments", h.Assignments.List)
	authed.GET("/assignments/:id", h.Assignments.Get)
	manage.POST("/assignments", h.Assignments.Assign)
	manage.POST("/assignments/:id/return", h.Assignments.Return)
	manage.POST("/assignments/:id/cancel", h.Assignments.Cancel)

	// Alerts
	authed.GET("/alerts", h.Alerts.Check)
	authed.GET("/alerts/latest", h.Alerts.Latest)

	// Import
	manage.POST("/import/csv", h.Importer.ImportCSV)
	manage.POST("/import/qr", h.Importer.ImportQR)

	// Reports
	authed.GET("/reports/dashboard", h.Reports.Dashboard)
	authed.GET("/reports/lines-by-group", h.Reports.LinesByGroup)
	authed.GET("/reports/expiring-groups", h.Reports.ExpiringGroups)
	authed.GET("/reports/worker-delays", h.Reports.WorkerDelays)
	authed.GET("/reports/assignment-history", h.Reports.AssignmentHistory)
	authed.GET("/reports/:type/export", h.Reports.Export)

	// Audit trail
	admin.GET("/audit-logs", h.AuditLogs.List)

	// Backups
	admin.GET("/backups", h.Backups.List)
	admin.POST("/backups", h.Backups.Backup)
	admin.POST("/backups/restore", h.Backups.Restore)

	return r
}

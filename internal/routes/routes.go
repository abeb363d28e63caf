package routes

import (
	"github.com/gin-gonic/gin"

	"luxera/internal/authz"
	"luxera/internal/handlers"
	"luxera/internal/middleware"
	"luxera/internal/session"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	sessions *session.Manager,
	users middleware.AccountLookup,
	authHandler *handlers.AuthHandler,
	resetHandler *handlers.PasswordResetHandler,
	userHandler *handlers.UserHandler,
	reportHandler *handlers.ReportHandler,
	systemHandler *handlers.SystemHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", systemHandler.Health)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/reactivate", authHandler.Reactivate)
	}

	// ---- session (cookie) based
	withSession := r.Group("/", sessions.Middleware())
	{
		withSession.GET("/flash", systemHandler.Flash)

		pw := withSession.Group("/password")
		pw.GET("/state", resetHandler.State)
		pw.POST("/forgot", resetHandler.Forgot)
		pw.POST("/verify", resetHandler.Verify)
		pw.POST("/reset", resetHandler.Reset)
		pw.POST("/restart", resetHandler.Restart)
	}

	// ---- protected
	protected := r.Group("/", middleware.AuthMiddleware(jwtSecret), middleware.ActiveAccount(users))
	{
		protected.GET("/me", userHandler.Me)
		protected.PUT("/me/password", userHandler.ChangePassword)
	}

	// ADMIN
	admin := protected.Group("/admin", middleware.RequireRoles(authz.RoleAdmin))
	{
		admin.GET("/users", userHandler.ListUsers)
		admin.POST("/users/:id/block", userHandler.Block)
		admin.POST("/users/:id/unblock", userHandler.Unblock)
		admin.POST("/users/:id/delete", userHandler.Delete)
		admin.POST("/users/:id/restore", userHandler.Restore)

		admin.GET("/reports/password-resets", reportHandler.ResetAudit)
		admin.GET("/reports/password-resets.pdf", reportHandler.ResetAuditPDF)
		admin.GET("/reports/password-resets.xlsx", reportHandler.ResetAuditXLSX)
	}

	return r
}

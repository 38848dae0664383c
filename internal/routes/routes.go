package routes

import (
	"prowork_backend/internal/config"
	"prowork_backend/internal/handlers"
	"prowork_backend/internal/middleware"
	"prowork_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every HTTP route.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, cfg *config.Config) {
	api := ginRouter.Group("/api/v1")

	// Public
	{
		api.POST("/auth/register", appHandlers.Auth.Register)
		api.POST("/auth/login", appHandlers.Auth.Login)

		api.GET("/professionals/:id/profile", appHandlers.Project.GetProfile)
		api.GET("/professionals/:id/reviews", appHandlers.Review.ListForProfessional)
		api.GET("/professionals/:id/trust-score", appHandlers.Trust.GetTrustScore)
		api.GET("/reviews/:id", appHandlers.Review.GetReview)
	}

	// Authenticated
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))
	{
		authed.POST("/projects", appHandlers.Project.CreateProject)
		authed.POST("/proposals", appHandlers.Project.CreateProposal)
		authed.POST("/proposals/:id/accept", appHandlers.Project.AcceptProposal)
		authed.POST("/services", appHandlers.Project.CreateService)

		authed.POST("/jobs", appHandlers.Job.CreateJob)
		authed.GET("/jobs", appHandlers.Job.ListMyJobs)
		authed.GET("/jobs/:id", appHandlers.Job.GetJob)
		authed.PATCH("/jobs/:id/status", appHandlers.Job.UpdateStatus)
		authed.GET("/jobs/:id/history", appHandlers.Job.GetStatusHistory)
		authed.POST("/jobs/:id/milestones", appHandlers.Job.CreateMilestone)
		authed.GET("/jobs/:id/milestones", appHandlers.Job.ListMilestones)
		authed.POST("/milestones/:id/complete", appHandlers.Job.CompleteMilestone)
		authed.POST("/milestones/:id/approve", appHandlers.Job.ApproveMilestone)

		authed.POST("/reviews", appHandlers.Review.CreateReview)
		authed.PUT("/reviews/:id", appHandlers.Review.UpdateReview)
		authed.DELETE("/reviews/:id", appHandlers.Review.DeleteReview)
		authed.POST("/reviews/:id/flag", appHandlers.Review.FlagReview)
		authed.POST("/reviews/:id/helpful", appHandlers.Review.VoteHelpful)

		authed.POST("/professionals/:id/trust-score/calculate", appHandlers.Trust.CalculateTrustScore)

		authed.GET("/notifications", appHandlers.Notification.ListNotifications)
		authed.POST("/notifications/:id/read", appHandlers.Notification.MarkRead)
	}

	// Moderation and administration
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleModerator))
	{
		admin.GET("/reviews/pending", appHandlers.Review.GetModerationQueue)
		admin.POST("/reviews/:id/moderate", appHandlers.Review.ModerateReview)
		admin.POST("/trust-scores/recalculate", appHandlers.Trust.RecalculateAll)
		admin.POST("/verifications/:id/review", appHandlers.Trust.ReviewVerification)
	}
}

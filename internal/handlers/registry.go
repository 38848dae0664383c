package handlers

// AppHandlers holds every HTTP handler group.
type AppHandlers struct {
	Auth         *AuthHandler
	Project      *ProjectHandler
	Job          *JobHandler
	Review       *ReviewHandler
	Trust        *TrustHandler
	Notification *NotificationHandler
}

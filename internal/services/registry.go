package services

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	ProjectService      ProjectService
	JobService          JobService
	ReviewService       ReviewService
	TrustScoreService   TrustScoreService
	VerificationService VerificationService
	NotificationService NotificationService
}

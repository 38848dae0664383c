package models

type UserStatus string
type UserRole string
type ProjectStatus string
type ProposalStatus string
type JobStatus string
type ModerationStatus string
type VerificationType string
type VerificationStatus string
type TrustEvent string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleClient       UserRole = "client"
	UserRoleProfessional UserRole = "professional"
	UserRoleModerator    UserRole = "moderator"
	UserRoleAdmin        UserRole = "admin"

	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"

	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusWithdrawn ProposalStatus = "withdrawn"

	JobStatusNotStarted      JobStatus = "not_started"
	JobStatusInProgress      JobStatus = "in_progress"
	JobStatusMilestoneReview JobStatus = "milestone_review"
	JobStatusCompleted       JobStatus = "completed"
	JobStatusCancelled       JobStatus = "cancelled"
	JobStatusDisputed        JobStatus = "disputed"

	ModerationStatusPending  ModerationStatus = "pending"
	ModerationStatusApproved ModerationStatus = "approved"
	ModerationStatusRejected ModerationStatus = "rejected"
	ModerationStatusFlagged  ModerationStatus = "flagged"

	VerificationTypeIdentity        VerificationType = "identity"
	VerificationTypeSkills          VerificationType = "skills"
	VerificationTypeBusiness        VerificationType = "business"
	VerificationTypeBackgroundCheck VerificationType = "background_check"
	VerificationTypePhone           VerificationType = "phone"
	VerificationTypeEmail           VerificationType = "email"
	VerificationTypeAddress         VerificationType = "address"

	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"

	TrustEventJobCompleted         TrustEvent = "job_completed"
	TrustEventReviewReceived       TrustEvent = "review_received"
	TrustEventVerificationApproved TrustEvent = "verification_approved"
)

// ValidJobStatuses enumerates accepted status values. No transition
// graph is enforced: any known status may follow any other (see the
// audit trail for history).
var ValidJobStatuses = map[JobStatus]bool{
	JobStatusNotStarted:      true,
	JobStatusInProgress:      true,
	JobStatusMilestoneReview: true,
	JobStatusCompleted:       true,
	JobStatusCancelled:       true,
	JobStatusDisputed:        true,
}

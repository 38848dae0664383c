package apperrors

import (
	"net/http"
)

/*
Predefined errors for the job, review and trust-score domains.
Services return these; handlers translate them via HandleError.
*/

// --- Jobs & milestones ---

var ErrProjectNotFound = New(CodeNotFound, "job", "Project not found", http.StatusNotFound)

var ErrProposalNotFound = New(CodeNotFound, "job", "Proposal not found", http.StatusNotFound)

var ErrProposalNotAccepted = New(CodeInvalidStatus, "job", "Proposal has not been accepted", http.StatusBadRequest)

var ErrProposalProjectMismatch = New(CodeInvalidOperation, "job", "Proposal does not belong to this project", http.StatusBadRequest)

var ErrProposalProfessionalMismatch = New(CodeInvalidOperation, "job", "Proposal was not submitted by this professional", http.StatusBadRequest)

var ErrJobAlreadyExists = New(CodeAlreadyExists, "job", "A job already exists for this project", http.StatusBadRequest)

var ErrJobNotFound = New(CodeNotFound, "job", "Job not found", http.StatusNotFound)

var ErrMilestoneNotFound = New(CodeNotFound, "job", "Milestone not found", http.StatusNotFound)

var ErrNotJobParticipant = New(CodeForbidden, "job", "Only the job's client or professional may perform this action", http.StatusForbidden)

var ErrNotJobProfessional = New(CodeForbidden, "job", "Only the job's professional may perform this action", http.StatusForbidden)

var ErrNotJobClient = New(CodeForbidden, "job", "Only the job's client may perform this action", http.StatusForbidden)

// --- Reviews & moderation ---

var ErrReviewNotFound = New(CodeNotFound, "review", "Review not found", http.StatusNotFound)

var ErrReviewAnchorRequired = New(CodeValidationFailed, "review", "Exactly one of service_id or job_id must be provided", http.StatusBadRequest)

var ErrDuplicateReview = New(CodeConflict, "review", "A review for this professional and anchor already exists", http.StatusConflict)

var ErrServiceNotFound = New(CodeNotFound, "review", "Service not found", http.StatusNotFound)

var ErrServiceOwnershipMismatch = New(CodeInvalidOperation, "review", "Service does not belong to the given professional", http.StatusBadRequest)

var ErrJobNotCompleted = New(CodeInvalidStatus, "review", "Job must be completed before it can be reviewed", http.StatusBadRequest)

var ErrNotReviewAuthor = New(CodeForbidden, "review", "Only the review author may perform this action", http.StatusForbidden)

var ErrSelfFlagNotAllowed = New(CodeInvalidOperation, "review", "You cannot flag your own review", http.StatusBadRequest)

var ErrDuplicateFlag = New(CodeConflict, "review", "You have already flagged this review", http.StatusConflict)

// --- Trust scores ---

var ErrTrustScoreNotFound = New(CodeNotFound, "trust", "Trust score has not been calculated yet", http.StatusNotFound)

var ErrVerificationNotFound = New(CodeNotFound, "trust", "Verification request not found", http.StatusNotFound)

// --- Auth & users ---

var ErrUserNotFound = New(CodeNotFound, "auth", "User not found", http.StatusNotFound)

var ErrEmailAlreadyExists = New(CodeAlreadyExists, "auth", "Email already in use", http.StatusConflict)

var ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)

var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

var ErrInsufficientPermissions = New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden)

package handlers

import (
	"net/http"

	"prowork_backend/internal/middleware"
	"prowork_backend/internal/models"
	"prowork_backend/internal/services"
	"prowork_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type TrustHandler struct {
	*BaseHandler
	trustService        services.TrustScoreService
	verificationService services.VerificationService
}

func NewTrustHandler(
	base *BaseHandler,
	trustService services.TrustScoreService,
	verificationService services.VerificationService,
) *TrustHandler {
	return &TrustHandler{
		BaseHandler:         base,
		trustService:        trustService,
		verificationService: verificationService,
	}
}

// GetTrustScore GET /api/v1/professionals/:id/trust-score
// Lazily computes the score on first access.
func (h *TrustHandler) GetTrustScore(c *gin.Context) {
	db := h.GetDB(c)
	userID := c.Param("id")

	resp, err := h.trustService.GetTrustScore(db, userID)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr == apperrors.ErrTrustScoreNotFound {
			resp, err = h.trustService.CalculateTrustScore(db, userID)
		}
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}

// CalculateTrustScore POST /api/v1/professionals/:id/trust-score/calculate
// Self only, unless the caller is an admin.
func (h *TrustHandler) CalculateTrustScore(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	userID := c.Param("id")
	if actorID != userID && middleware.GetUserRole(c) != models.UserRoleAdmin {
		h.HandleServiceError(c, apperrors.NewForbiddenError("trust", "You may only recalculate your own trust score"))
		return
	}

	resp, err := h.trustService.CalculateTrustScore(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RecalculateAll POST /api/v1/admin/trust-scores/recalculate
func (h *TrustHandler) RecalculateAll(c *gin.Context) {
	resp, err := h.trustService.UpdateAllTrustScores(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ReviewVerification POST /api/v1/admin/verifications/:id/review
func (h *TrustHandler) ReviewVerification(c *gin.Context) {
	reviewerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req struct {
		Approve *bool `json:"approve" validate:"required"`
	}
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.verificationService.ReviewVerification(h.GetDB(c), c.Param("id"), reviewerID, *req.Approve); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification reviewed"})
}

package handlers

import (
	"net/http"

	"prowork_backend/internal/services"
	"prowork_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

// CreateReview POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.reviewService.CreateReview(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetReview GET /api/v1/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	resp, err := h.reviewService.GetReview(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateReview PUT /api/v1/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.reviewService.UpdateReview(h.GetDB(c), c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteReview DELETE /api/v1/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(h.GetDB(c), c.Param("id"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListForProfessional GET /api/v1/professionals/:id/reviews
// Public listing: approved reviews only, with sort and pagination.
func (h *ReviewHandler) ListForProfessional(c *gin.Context) {
	page, pageSize := ParsePagination(c, 10)
	sort := c.DefaultQuery("sort", "newest")

	resp, err := h.reviewService.ListReviewsForProfessional(h.GetDB(c), c.Param("id"), sort, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FlagReview POST /api/v1/reviews/:id/flag
func (h *ReviewHandler) FlagReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.FlagReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.reviewService.FlagReview(h.GetDB(c), c.Param("id"), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review flagged"})
}

// VoteHelpful POST /api/v1/reviews/:id/helpful
func (h *ReviewHandler) VoteHelpful(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VoteHelpfulRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.reviewService.VoteHelpful(h.GetDB(c), c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ModerateReview POST /api/v1/admin/reviews/:id/moderate
func (h *ReviewHandler) ModerateReview(c *gin.Context) {
	moderatorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ModerateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.reviewService.ModerateReview(h.GetDB(c), c.Param("id"), moderatorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetModerationQueue GET /api/v1/admin/reviews/pending
func (h *ReviewHandler) GetModerationQueue(c *gin.Context) {
	page, pageSize := ParsePagination(c, 20)

	resp, err := h.reviewService.GetReviewsForModeration(h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

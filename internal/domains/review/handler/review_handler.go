package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medlink-backend/internal/domains/review"
	"medlink-backend/internal/domains/review/service"
	"medlink-backend/internal/shared/httperror"
	"medlink-backend/internal/shared/middleware"
	"medlink-backend/internal/shared/response"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		response.HandleError(c, httperror.Unauthorized())
		return uuid.Nil, false
	}
	return id, true
}

// WriteReview creates or edits the caller's review of a pharmacy
// POST /api/v1/reviews
func (h *ReviewHandler) WriteReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req review.WriteReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	rev, err := h.reviewService.WriteReview(c.Request.Context(), userID, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Review saved.", rev)
}

// ListReviews lists a pharmacy's reviews, newest first
// GET /api/v1/reviews?pharmacy_id=&count=&page=&my=
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req review.ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid query."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	reviews, err := h.reviewService.ListReviews(c.Request.Context(), userID, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Reviews.", reviews)
}

// DeleteReview removes the caller's review
// DELETE /api/v1/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, httperror.BadRequestField("Invalid id.", "id"))
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), userID, reviewID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Review deleted.", nil)
}

// WriteMedicineReview appends a message review to a medicine
// POST /api/v1/reviews/medicines
func (h *ReviewHandler) WriteMedicineReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req review.WriteMedicineReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	rev, err := h.reviewService.WriteMedicineReview(c.Request.Context(), userID, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Review added.", rev)
}

// ListMedicineReviews lists a medicine's reviews, newest first
// GET /api/v1/reviews/medicines?medicine_id=&count=&page=&my=
func (h *ReviewHandler) ListMedicineReviews(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req review.ListMedicineReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid query."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	reviews, err := h.reviewService.ListMedicineReviews(c.Request.Context(), userID, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Reviews.", reviews)
}

// DeleteMedicineReviews removes the caller's medicine reviews
// DELETE /api/v1/reviews/medicines
func (h *ReviewHandler) DeleteMedicineReviews(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}

	deleted, err := h.reviewService.DeleteMedicineReviews(c.Request.Context(), userID, req.IDs)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Reviews deleted.", gin.H{"deleted": deleted})
}

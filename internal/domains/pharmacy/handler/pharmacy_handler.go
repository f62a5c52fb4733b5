package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medlink-backend/internal/domains/pharmacy"
	"medlink-backend/internal/domains/pharmacy/service"
	"medlink-backend/internal/shared/httperror"
	"medlink-backend/internal/shared/middleware"
	"medlink-backend/internal/shared/response"
)

// =====================================================
// PHARMACY HANDLER
// =====================================================

type PharmacyHandler struct {
	pharmacyService service.ServiceInterface
}

func NewPharmacyHandler(pharmacyService service.ServiceInterface) *PharmacyHandler {
	return &PharmacyHandler{
		pharmacyService: pharmacyService,
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

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.HandleError(c, httperror.BadRequestField("Invalid id.", name))
		return uuid.Nil, false
	}
	return id, true
}

// ===== PROFILE =====

// GetProfile returns the pharmacist's profile and completion status
// GET /api/v1/pharmacies/profile
func (h *PharmacyHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status, err := h.pharmacyService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile status.", status)
}

// SetProfile creates or replaces the pharmacist's profile
// PUT /api/v1/pharmacies/profile
func (h *PharmacyHandler) SetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req pharmacy.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	profile, err := h.pharmacyService.SetProfile(c.Request.Context(), userID, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile saved.", profile)
}

// ===== DISCOVERY =====

// Find searches pharmacies with the discovery filter
// POST /api/v1/pharmacies/find
func (h *PharmacyHandler) Find(c *gin.Context) {
	var req pharmacy.FindPharmaciesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	results, err := h.pharmacyService.Find(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pharmacies found.", results)
}

// GetPharmacy returns one pharmacy by id
// GET /api/v1/pharmacies/:id
func (h *PharmacyHandler) GetPharmacy(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.pharmacyService.GetPharmacy(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pharmacy.", p)
}

// ===== MEDICINES =====

// AddMedicine adds a catalog entry for the pharmacist's pharmacy
// POST /api/v1/pharmacies/medicines
func (h *PharmacyHandler) AddMedicine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req pharmacy.MedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	m, err := h.pharmacyService.AddMedicine(c.Request.Context(), userID, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Medicine added.", m)
}

// UpdateMedicine replaces a catalog entry owned by the pharmacist
// PUT /api/v1/pharmacies/medicines/:id
func (h *PharmacyHandler) UpdateMedicine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	medicineID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req pharmacy.MedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	m, err := h.pharmacyService.UpdateMedicine(c.Request.Context(), userID, medicineID, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Medicine updated.", m)
}

// DeleteMedicines removes catalog entries owned by the pharmacist
// DELETE /api/v1/pharmacies/medicines
func (h *PharmacyHandler) DeleteMedicines(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		MedicineIDs []uuid.UUID `json:"medicine_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}

	deleted, err := h.pharmacyService.DeleteMedicines(c.Request.Context(), userID, req.MedicineIDs)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Medicines deleted.", gin.H{"deleted": deleted})
}

// GetMedicines lists a pharmacy's catalog
// GET /api/v1/pharmacies/:id/medicines?count=&page=
func (h *PharmacyHandler) GetMedicines(c *gin.Context) {
	pharmacyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	count, _ := strconv.Atoi(c.DefaultQuery("count", "5"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	medicines, err := h.pharmacyService.GetMedicines(c.Request.Context(), pharmacyID, count, page)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Medicines.", medicines)
}

// GetMedicine returns one catalog entry
// GET /api/v1/medicines/:id
func (h *PharmacyHandler) GetMedicine(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	m, err := h.pharmacyService.GetMedicine(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Medicine.", m)
}

// SearchMedicines searches the catalog across pharmacies
// POST /api/v1/medicines/search
func (h *PharmacyHandler) SearchMedicines(c *gin.Context) {
	var req pharmacy.SearchMedicinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	medicines, err := h.pharmacyService.SearchMedicines(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Medicines found.", medicines)
}

// SuggestMedicines asks the AI backend for medicine names
// POST /api/v1/medicines/ai-lookup
func (h *PharmacyHandler) SuggestMedicines(c *gin.Context) {
	var req struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Description == "" {
		response.HandleError(c, httperror.BadRequestField("Description is required.", "description"))
		return
	}

	names := h.pharmacyService.SuggestMedicines(c.Request.Context(), req.Description)
	response.Success(c, http.StatusOK, "Suggestions.", names)
}

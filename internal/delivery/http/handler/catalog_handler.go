package handler

import (
	"net/http"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
	validator      *validator.CustomValidator
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUsecase, validator *validator.CustomValidator) *CatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
		validator:      validator,
	}
}

// CreateMedicine handles medicine creation
// @Summary Create a medicine
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MedicineRequest true "Medicine"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/medicines [post]
func (h *CatalogHandler) CreateMedicine(w http.ResponseWriter, r *http.Request) {
	var req dto.MedicineRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	medicine, err := h.catalogUsecase.CreateMedicine(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create medicine")
		return
	}

	response.Success(w, http.StatusCreated, "Medicine created successfully", medicine)
}

// ListMedicines handles listing medicines
// @Summary List medicines
// @Tags Catalog
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /medicines [get]
func (h *CatalogHandler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	medicines, total, err := h.catalogUsecase.ListMedicines(r.Context(), page, limit)
	if err != nil {
		writeError(w, err, "Failed to get medicines")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Medicines retrieved successfully", medicines, response.NewMeta(page, limit, total))
}

// GetMedicine handles getting a medicine by ID
// @Summary Get medicine by ID
// @Tags Catalog
// @Produce json
// @Param id path string true "Medicine ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /medicines/{id} [get]
func (h *CatalogHandler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "medicine")
	if !ok {
		return
	}

	medicine, err := h.catalogUsecase.GetMedicine(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine retrieved successfully", medicine)
}

// UpdateMedicine handles medicine update. Saved prescription lines keep
// their price.
// @Summary Update a medicine
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Medicine ID"
// @Param request body dto.MedicineRequest true "Medicine"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/medicines/{id} [put]
func (h *CatalogHandler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "medicine")
	if !ok {
		return
	}

	var req dto.MedicineRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	medicine, err := h.catalogUsecase.UpdateMedicine(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine updated successfully", medicine)
}

// DeleteMedicine handles medicine deletion
// @Summary Delete a medicine
// @Tags Catalog
// @Security BearerAuth
// @Param id path string true "Medicine ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/medicines/{id} [delete]
func (h *CatalogHandler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "medicine")
	if !ok {
		return
	}

	if err := h.catalogUsecase.DeleteMedicine(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine deleted successfully", nil)
}

func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req dto.ClinicServiceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	service, err := h.catalogUsecase.CreateService(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create service")
		return
	}

	response.Success(w, http.StatusCreated, "Service created successfully", service)
}

func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	services, total, err := h.catalogUsecase.ListServices(r.Context(), page, limit)
	if err != nil {
		writeError(w, err, "Failed to get services")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Services retrieved successfully", services, response.NewMeta(page, limit, total))
}

func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "service")
	if !ok {
		return
	}

	service, err := h.catalogUsecase.GetService(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get service")
		return
	}

	response.Success(w, http.StatusOK, "Service retrieved successfully", service)
}

func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "service")
	if !ok {
		return
	}

	var req dto.ClinicServiceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	service, err := h.catalogUsecase.UpdateService(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update service")
		return
	}

	response.Success(w, http.StatusOK, "Service updated successfully", service)
}

func (h *CatalogHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "service")
	if !ok {
		return
	}

	if err := h.catalogUsecase.DeleteService(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete service")
		return
	}

	response.Success(w, http.StatusOK, "Service deleted successfully", nil)
}

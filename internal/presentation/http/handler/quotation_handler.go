package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/quotify-api/internal/application/service"
	"github.com/sangkips/quotify-api/internal/domain/enum"
	"github.com/sangkips/quotify-api/internal/domain/repository"
	"github.com/sangkips/quotify-api/internal/presentation/http/dto/response"
	"github.com/sangkips/quotify-api/pkg/money"
	"github.com/sangkips/quotify-api/pkg/pagination"
)

// QuotationHandler handles quotation-related HTTP requests
type QuotationHandler struct {
	quotationService *service.QuotationService
	documentService  *service.DocumentService
	exportService    *service.ExportService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(
	quotationService *service.QuotationService,
	documentService *service.DocumentService,
	exportService *service.ExportService,
) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		documentService:  documentService,
		exportService:    exportService,
	}
}

// QuotationItemRequest represents a line item in the request
type QuotationItemRequest struct {
	Description  string   `json:"description" binding:"required"`
	Quantity     int      `json:"quantity" binding:"required,min=1"`
	Unit         string   `json:"unit"`
	WeightKg     float64  `json:"weight_kg"`
	VolumeCbm    float64  `json:"volume_cbm"`
	RatePerUnit  float64  `json:"rate_per_unit" binding:"required"`
	VATPercent   *float64 `json:"vat_percent"`
	Discount     float64  `json:"discount"`
	DiscountType string   `json:"discount_type"`
	ImageRef     *string  `json:"image_ref"`
}

// CreateQuotationRequest represents the create quotation request body
type CreateQuotationRequest struct {
	CustomerID          *string                `json:"customer_id"`
	Date                string                 `json:"date" binding:"required"`
	DeliveryCharges     float64                `json:"delivery_charges"`
	InstallationCharges float64                `json:"installation_charges"`
	PickupCharges       float64                `json:"pickup_charges"`
	Discount            float64                `json:"discount"`
	DiscountType        string                 `json:"discount_type"`
	VATPercent          *float64               `json:"vat_percent"`
	Note                *string                `json:"note"`
	Terms               *string                `json:"terms"`
	Status              int                    `json:"status"`
	Items               []QuotationItemRequest `json:"items" binding:"required,min=1"`
}

func parseItems(reqItems []QuotationItemRequest) []service.QuotationItemInput {
	items := make([]service.QuotationItemInput, len(reqItems))
	for i, item := range reqItems {
		items[i] = service.QuotationItemInput{
			Description:  item.Description,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			WeightKg:     item.WeightKg,
			VolumeCbm:    item.VolumeCbm,
			RatePerUnit:  item.RatePerUnit,
			VATPercent:   item.VATPercent,
			Discount:     item.Discount,
			DiscountType: money.DiscountType(item.DiscountType),
			ImageRef:     item.ImageRef,
		}
	}
	return items
}

// List handles listing quotations
// @Summary List Quotations
// @Description Get all quotations with pagination and filtering
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search term"
// @Param status query int false "Status filter"
// @Success 200 {object} response.APIResponse
// @Router /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isAdmin := IsAdmin(c)

	page := 1
	perPage := 15
	if p := c.Query("page"); p != "" {
		if parsed, err := parsePositiveInt(p); err == nil {
			page = parsed
		}
	}
	if pp := c.Query("per_page"); pp != "" {
		if parsed, err := parsePositiveInt(pp); err == nil {
			perPage = parsed
		}
	}

	search := c.Query("search")

	var status *enum.QuotationStatus
	if s := c.Query("status"); s != "" {
		if parsed, err := parseNonNegativeInt(s); err == nil {
			st := enum.QuotationStatus(parsed)
			status = &st
		}
	}

	var customerID *uuid.UUID
	if cid := c.Query("customer_id"); cid != "" {
		if parsed, err := uuid.Parse(cid); err == nil {
			customerID = &parsed
		}
	}

	result, err := h.quotationService.ListQuotations(c.Request.Context(), &service.ListQuotationsInput{
		UserID:  *userID,
		IsAdmin: isAdmin,
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:     search,
		Status:     status,
		CustomerID: customerID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Quotations retrieved successfully", result)
}

// Get handles getting a single quotation
// @Summary Get Quotation
// @Description Get a quotation by ID with its items
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	quotation, err := h.quotationService.GetQuotation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation retrieved successfully", quotation)
}

// Create handles creating a quotation
// @Summary Create Quotation
// @Description Create a new quotation with line items
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateQuotationRequest true "Quotation data"
// @Success 201 {object} response.APIResponse
// @Router /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// Parse date
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequest(c, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	// Parse customer ID if provided
	var customerID *uuid.UUID
	if req.CustomerID != nil && *req.CustomerID != "" {
		parsed, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		customerID = &parsed
	}

	quotation, err := h.quotationService.CreateQuotation(c.Request.Context(), &service.CreateQuotationInput{
		UserID:              *userID,
		CustomerID:          customerID,
		Date:                date,
		DeliveryCharges:     req.DeliveryCharges,
		InstallationCharges: req.InstallationCharges,
		PickupCharges:       req.PickupCharges,
		Discount:            req.Discount,
		DiscountType:        money.DiscountType(req.DiscountType),
		VATPercent:          req.VATPercent,
		Note:                req.Note,
		Terms:               req.Terms,
		Status:              enum.QuotationStatus(req.Status),
		Items:               parseItems(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation created successfully", quotation)
}

// Update handles updating a quotation
// @Summary Update Quotation
// @Description Update an existing quotation, replacing its items
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body CreateQuotationRequest true "Quotation data"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isAdmin := IsAdmin(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// Parse date
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequest(c, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	// Parse customer ID if provided
	var customerID *uuid.UUID
	if req.CustomerID != nil && *req.CustomerID != "" {
		parsed, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		customerID = &parsed
	}

	quotation, err := h.quotationService.UpdateQuotation(c.Request.Context(), &service.UpdateQuotationInput{
		UserID:              *userID,
		ID:                  id,
		IsAdmin:             isAdmin,
		CustomerID:          customerID,
		Date:                date,
		DeliveryCharges:     req.DeliveryCharges,
		InstallationCharges: req.InstallationCharges,
		PickupCharges:       req.PickupCharges,
		Discount:            req.Discount,
		DiscountType:        money.DiscountType(req.DiscountType),
		VATPercent:          req.VATPercent,
		Note:                req.Note,
		Terms:               req.Terms,
		Status:              enum.QuotationStatus(req.Status),
		Items:               parseItems(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation updated successfully", quotation)
}

// Delete handles deleting a quotation
// @Summary Delete Quotation
// @Description Delete a quotation by ID
// @Tags quotations
// @Security BearerAuth
// @Param id path string true "Quotation ID"
// @Success 204
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isAdmin := IsAdmin(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	if err := h.quotationService.DeleteQuotation(c.Request.Context(), *userID, id, isAdmin); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// UpdateStatusRequest represents the status update request body
type UpdateStatusRequest struct {
	Status int `json:"status" binding:"min=0,max=4"`
}

// UpdateStatus handles updating a quotation's status
// @Summary Update Quotation Status
// @Description Update the status of a quotation
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Param id path string true "Quotation ID"
// @Param request body UpdateStatusRequest true "Status"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id}/status [patch]
func (h *QuotationHandler) UpdateStatus(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isAdmin := IsAdmin(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status := enum.QuotationStatus(req.Status)
	if !status.IsValid() {
		response.BadRequest(c, "Invalid status")
		return
	}

	if err := h.quotationService.UpdateQuotationStatus(c.Request.Context(), *userID, id, status, isAdmin); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation status updated successfully", nil)
}

// DownloadPDF handles generating and downloading the quotation PDF
// @Summary Download Quotation PDF
// @Description Generate the quotation document and return it as a PDF file
// @Tags quotations
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Quotation ID"
// @Success 200 {file} binary
// @Router /quotations/{id}/pdf [get]
func (h *QuotationHandler) DownloadPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	pdf, quotation, err := h.documentService.GeneratePDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("%s.pdf", quotation.Reference)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// EmailQuotationRequest represents the email request body
type EmailQuotationRequest struct {
	Recipient string `json:"recipient"`
}

// Email handles emailing the quotation PDF to the customer
// @Summary Email Quotation
// @Description Render the quotation to PDF and email it as an attachment
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Param id path string true "Quotation ID"
// @Param request body EmailQuotationRequest false "Recipient override"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id}/email [post]
func (h *QuotationHandler) Email(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req EmailQuotationRequest
	// Body is optional; the customer's email is used when absent
	_ = c.ShouldBindJSON(&req)

	if err := h.documentService.EmailQuotation(c.Request.Context(), id, req.Recipient); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation emailed successfully", nil)
}

// Export handles exporting the quotation to XLSX
// @Summary Export Quotation
// @Description Export the quotation's items and totals to an XLSX workbook
// @Tags quotations
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Quotation ID"
// @Success 200 {file} binary
// @Router /quotations/{id}/export [get]
func (h *QuotationHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	data, filename, err := h.exportService.ExportQuotationXLSX(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ExportList handles exporting the quotation list to XLSX
// @Summary Export Quotation List
// @Description Export quotations matching the filters to an XLSX workbook
// @Tags quotations
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Search term"
// @Param status query int false "Status filter"
// @Param customer_id query string false "Customer filter"
// @Success 200 {file} binary
// @Router /quotations/export [get]
func (h *QuotationHandler) ExportList(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var status *enum.QuotationStatus
	if s := c.Query("status"); s != "" {
		if parsed, err := parseNonNegativeInt(s); err == nil {
			st := enum.QuotationStatus(parsed)
			status = &st
		}
	}

	var customerID *uuid.UUID
	if cid := c.Query("customer_id"); cid != "" {
		if parsed, err := uuid.Parse(cid); err == nil {
			customerID = &parsed
		}
	}

	params := &repository.QuotationFilterParams{
		Search:     c.Query("search"),
		Status:     status,
		CustomerID: customerID,
	}

	data, filename, err := h.exportService.ExportQuotationListXLSX(c.Request.Context(), *userID, IsAdmin(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Helper functions for parsing query parameters
func parsePositiveInt(s string) (int, error) {
	var result int
	_, err := fmt.Sscanf(s, "%d", &result)
	if err != nil || result < 1 {
		return 1, err
	}
	return result, nil
}

func parseNonNegativeInt(s string) (int, error) {
	var result int
	_, err := fmt.Sscanf(s, "%d", &result)
	if err != nil || result < 0 {
		return 0, err
	}
	return result, nil
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/quotify-api/internal/application/service"
	"github.com/sangkips/quotify-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles company settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get handles fetching the company settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettingsRequest represents the settings update request body
type UpdateSettingsRequest struct {
	CompanyName   string  `json:"company_name" binding:"required"`
	Address       string  `json:"address"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	TRN           string  `json:"trn"`
	LogoRef       *string `json:"logo_ref"`
	AccountName   string  `json:"account_name"`
	BankName      string  `json:"bank_name"`
	AccountNumber string  `json:"account_number"`
	IBAN          string  `json:"iban"`
	SwiftCode     string  `json:"swift_code"`
	Terms         *string `json:"terms"`
	FooterText    *string `json:"footer_text"`
	CurrencyMajor string  `json:"currency_major"`
	CurrencyMinor string  `json:"currency_minor"`
	VATPercent    float64 `json:"vat_percent"`
	PageCapacity  int     `json:"page_capacity"`
}

// Update handles updating the company settings. Admin only.
func (h *SettingsHandler) Update(c *gin.Context) {
	if !IsAdmin(c) {
		response.Forbidden(c, "Admin access required")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		CompanyName:   req.CompanyName,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		TRN:           req.TRN,
		LogoRef:       req.LogoRef,
		AccountName:   req.AccountName,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		IBAN:          req.IBAN,
		SwiftCode:     req.SwiftCode,
		Terms:         req.Terms,
		FooterText:    req.FooterText,
		CurrencyMajor: req.CurrencyMajor,
		CurrencyMinor: req.CurrencyMinor,
		VATPercent:    req.VATPercent,
		PageCapacity:  req.PageCapacity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}

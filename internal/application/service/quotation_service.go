package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/quotify-api/internal/domain/entity"
	"github.com/sangkips/quotify-api/internal/domain/enum"
	"github.com/sangkips/quotify-api/internal/domain/repository"
	"github.com/sangkips/quotify-api/pkg/apperror"
	"github.com/sangkips/quotify-api/pkg/money"
	"github.com/sangkips/quotify-api/pkg/pagination"
	"github.com/sangkips/quotify-api/pkg/utils"
)

// QuotationService handles quotation-related operations
type QuotationService struct {
	quotationRepo repository.QuotationRepository
	customerRepo  repository.CustomerRepository
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	customerRepo repository.CustomerRepository,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		customerRepo:  customerRepo,
	}
}

// QuotationItemInput represents a line item input
type QuotationItemInput struct {
	Description  string
	Quantity     int
	Unit         string
	WeightKg     float64
	VolumeCbm    float64
	RatePerUnit  float64
	VATPercent   *float64
	Discount     float64
	DiscountType money.DiscountType
	ImageRef     *string
}

// CreateQuotationInput represents the input for creating a quotation
type CreateQuotationInput struct {
	UserID              uuid.UUID
	CustomerID          *uuid.UUID
	Date                time.Time
	DeliveryCharges     float64
	InstallationCharges float64
	PickupCharges       float64
	Discount            float64
	DiscountType        money.DiscountType
	VATPercent          *float64
	Note                *string
	Terms               *string
	Status              enum.QuotationStatus
	Items               []QuotationItemInput
}

// computeTotals maps the inputs into money line items, runs the totals
// calculation and returns both the document totals and the per-line amounts
// in input order.
func computeTotals(items []QuotationItemInput, charges money.DocumentCharges) (money.Totals, []money.LineAmounts, error) {
	lines := make([]money.LineItem, len(items))
	for i, item := range items {
		vat := money.DefaultVATPercent
		if item.VATPercent != nil {
			vat = *item.VATPercent
		}
		discountType := item.DiscountType
		if discountType == "" {
			discountType = money.DiscountPercentage
		}
		lines[i] = money.LineItem{
			Description:  item.Description,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			WeightKg:     item.WeightKg,
			VolumeCbm:    item.VolumeCbm,
			RatePerUnit:  item.RatePerUnit,
			VATPercent:   vat,
			Discount:     item.Discount,
			DiscountType: discountType,
		}
	}

	amounts := make([]money.LineAmounts, len(lines))
	for i := range lines {
		la, err := money.ComputeLine(lines[i])
		if err != nil {
			return money.Totals{}, nil, err
		}
		amounts[i] = la
	}

	totals, err := money.ComputeDocumentTotals(lines, charges)
	if err != nil {
		return money.Totals{}, nil, err
	}
	return totals, amounts, nil
}

func buildItems(items []QuotationItemInput, amounts []money.LineAmounts) []entity.QuotationItem {
	out := make([]entity.QuotationItem, len(items))
	for i, item := range items {
		vat := money.DefaultVATPercent
		if item.VATPercent != nil {
			vat = *item.VATPercent
		}
		discountType := item.DiscountType
		if discountType == "" {
			discountType = money.DiscountPercentage
		}
		out[i] = entity.QuotationItem{
			SortOrder:     i,
			Description:   item.Description,
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			WeightKg:      item.WeightKg,
			VolumeCbm:     item.VolumeCbm,
			RatePerUnit:   item.RatePerUnit,
			VATPercent:    vat,
			Discount:      item.Discount,
			DiscountType:  discountType,
			ImageRef:      item.ImageRef,
			TaxableAmount: amounts[i].TaxableAmount,
			VATAmount:     amounts[i].VATAmount,
			LineTotal:     amounts[i].LineTotal,
		}
	}
	return out
}

// CreateQuotation creates a new quotation with recomputed totals
func (s *QuotationService) CreateQuotation(ctx context.Context, input *CreateQuotationInput) (*entity.Quotation, error) {
	// Generate reference number
	nextNum, err := s.quotationRepo.GetNextReferenceNumber(ctx)
	if err != nil {
		return nil, err
	}
	reference := utils.FormatReference("QT", nextNum)

	// Get customer name if customer ID is provided
	var customerName string
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		customerName = customer.Name
	}

	vat := money.DefaultVATPercent
	if input.VATPercent != nil {
		vat = *input.VATPercent
	}
	discountType := input.DiscountType
	if discountType == "" {
		discountType = money.DiscountPercentage
	}
	charges := money.DocumentCharges{
		DeliveryCharges:     input.DeliveryCharges,
		InstallationCharges: input.InstallationCharges,
		PickupCharges:       input.PickupCharges,
		Discount:            input.Discount,
		DiscountType:        discountType,
		VATPercent:          vat,
	}

	totals, amounts, err := computeTotals(input.Items, charges)
	if err != nil {
		return nil, err
	}

	quotation := &entity.Quotation{
		UserID:               input.UserID,
		CustomerID:           input.CustomerID,
		Date:                 input.Date,
		Reference:            reference,
		CustomerName:         customerName,
		DeliveryCharges:      input.DeliveryCharges,
		InstallationCharges:  input.InstallationCharges,
		PickupCharges:        input.PickupCharges,
		Discount:             input.Discount,
		DiscountType:         discountType,
		VATPercent:           vat,
		ItemsSubtotal:        totals.ItemsSubtotal,
		AmountBeforeDiscount: totals.AmountBeforeDiscount,
		AmountAfterDiscount:  totals.AmountAfterDiscount,
		VATAmount:            totals.VATAmount,
		NetTotal:             totals.NetTotal,
		Status:               input.Status,
		Note:                 input.Note,
		Terms:                input.Terms,
		Items:                buildItems(input.Items, amounts),
	}

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, err
	}

	return s.quotationRepo.GetWithItems(ctx, quotation.ID)
}

// GetQuotation retrieves a quotation by ID with its items
func (s *QuotationService) GetQuotation(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	return quotation, nil
}

// ListQuotationsInput represents the input for listing quotations
type ListQuotationsInput struct {
	UserID     uuid.UUID
	IsAdmin    bool
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuotationStatus
	CustomerID *uuid.UUID
}

// ListQuotations lists quotations with filtering
func (s *QuotationService) ListQuotations(ctx context.Context, input *ListQuotationsInput) (*pagination.PaginatedResult[entity.Quotation], error) {
	params := &repository.QuotationFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		CustomerID: input.CustomerID,
	}

	var userID uuid.UUID
	if !input.IsAdmin {
		userID = input.UserID
	}

	quotations, total, err := s.quotationRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(quotations, pag), nil
}

// UpdateQuotationInput represents the input for updating a quotation
type UpdateQuotationInput struct {
	UserID              uuid.UUID
	ID                  uuid.UUID
	IsAdmin             bool
	CustomerID          *uuid.UUID
	Date                time.Time
	DeliveryCharges     float64
	InstallationCharges float64
	PickupCharges       float64
	Discount            float64
	DiscountType        money.DiscountType
	VATPercent          *float64
	Note                *string
	Terms               *string
	Status              enum.QuotationStatus
	Items               []QuotationItemInput
}

// UpdateQuotation updates an existing quotation, replacing its items and
// recomputing all totals
func (s *QuotationService) UpdateQuotation(ctx context.Context, input *UpdateQuotationInput) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}

	// Check permission
	if !input.IsAdmin && quotation.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	// Get customer name if customer ID is provided
	var customerName string
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		customerName = customer.Name
	}

	vat := money.DefaultVATPercent
	if input.VATPercent != nil {
		vat = *input.VATPercent
	}
	discountType := input.DiscountType
	if discountType == "" {
		discountType = money.DiscountPercentage
	}
	charges := money.DocumentCharges{
		DeliveryCharges:     input.DeliveryCharges,
		InstallationCharges: input.InstallationCharges,
		PickupCharges:       input.PickupCharges,
		Discount:            input.Discount,
		DiscountType:        discountType,
		VATPercent:          vat,
	}

	totals, amounts, err := computeTotals(input.Items, charges)
	if err != nil {
		return nil, err
	}

	quotation.CustomerID = input.CustomerID
	quotation.Date = input.Date
	quotation.CustomerName = customerName
	quotation.DeliveryCharges = input.DeliveryCharges
	quotation.InstallationCharges = input.InstallationCharges
	quotation.PickupCharges = input.PickupCharges
	quotation.Discount = input.Discount
	quotation.DiscountType = discountType
	quotation.VATPercent = vat
	quotation.ItemsSubtotal = totals.ItemsSubtotal
	quotation.AmountBeforeDiscount = totals.AmountBeforeDiscount
	quotation.AmountAfterDiscount = totals.AmountAfterDiscount
	quotation.VATAmount = totals.VATAmount
	quotation.NetTotal = totals.NetTotal
	quotation.Status = input.Status
	quotation.Note = input.Note
	quotation.Terms = input.Terms
	quotation.Items = nil

	if err := s.quotationRepo.Update(ctx, quotation); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.ReplaceItems(ctx, quotation.ID, buildItems(input.Items, amounts)); err != nil {
		return nil, err
	}

	return s.quotationRepo.GetWithItems(ctx, quotation.ID)
}

// DeleteQuotation deletes a quotation
func (s *QuotationService) DeleteQuotation(ctx context.Context, userID, id uuid.UUID, isAdmin bool) error {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if quotation == nil {
		return apperror.NewNotFoundError("Quotation")
	}

	// Check permission
	if !isAdmin && quotation.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.quotationRepo.Delete(ctx, id)
}

// UpdateQuotationStatus updates the status of a quotation
func (s *QuotationService) UpdateQuotationStatus(ctx context.Context, userID, id uuid.UUID, status enum.QuotationStatus, isAdmin bool) error {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if quotation == nil {
		return apperror.NewNotFoundError("Quotation")
	}

	// Check permission
	if !isAdmin && quotation.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.quotationRepo.UpdateStatus(ctx, id, status)
}

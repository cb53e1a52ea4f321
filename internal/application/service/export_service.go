package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/quotify-api/internal/domain/repository"
	"github.com/sangkips/quotify-api/pkg/apperror"
	"github.com/sangkips/quotify-api/pkg/pagination"
	"github.com/xuri/excelize/v2"
)

// ExportService exports quotations to spreadsheet files
type ExportService struct {
	quotationRepo repository.QuotationRepository
}

// NewExportService creates a new export service
func NewExportService(quotationRepo repository.QuotationRepository) *ExportService {
	return &ExportService{quotationRepo: quotationRepo}
}

var exportHeader = []string{
	"#", "Description", "Qty", "Unit", "Weight (Kg)", "Volume (Cbm)",
	"Rate", "Taxable Amount", "VAT", "Line Total",
}

// ExportQuotationXLSX writes the quotation's line items and totals to an
// XLSX workbook and returns the file bytes
func (s *ExportService) ExportQuotationXLSX(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	quotation, err := s.quotationRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if quotation == nil {
		return nil, "", apperror.NewNotFoundError("Quotation")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Quotation"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Quotation")
	f.SetCellValue(sheet, "B1", quotation.Reference)
	f.SetCellValue(sheet, "A2", "Date")
	f.SetCellValue(sheet, "B2", quotation.Date.Format("02/01/2006"))
	f.SetCellValue(sheet, "A3", "Customer")
	f.SetCellValue(sheet, "B3", quotation.CustomerName)

	headerRow := 5
	for i, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, "", err
		}
		f.SetCellValue(sheet, cell, title)
	}

	row := headerRow + 1
	for i, item := range quotation.Items {
		values := []interface{}{
			i + 1, item.Description, item.Quantity, item.Unit,
			item.WeightKg, item.VolumeCbm, item.RatePerUnit,
			item.TaxableAmount, item.VATAmount, item.LineTotal,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, "", err
			}
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	row++
	totals := [][2]interface{}{
		{"Items Subtotal", quotation.ItemsSubtotal},
		{"Delivery Charges", quotation.DeliveryCharges},
		{"Installation Charges", quotation.InstallationCharges},
		{"Pickup Charges", quotation.PickupCharges},
		{"Amount Before Discount", quotation.AmountBeforeDiscount},
		{"Amount After Discount", quotation.AmountAfterDiscount},
		{"VAT Amount", quotation.VATAmount},
		{"Net Total", quotation.NetTotal},
	}
	for _, pair := range totals {
		labelCell, _ := excelize.CoordinatesToCellName(len(exportHeader)-1, row)
		valueCell, _ := excelize.CoordinatesToCellName(len(exportHeader), row)
		f.SetCellValue(sheet, labelCell, pair[0])
		f.SetCellValue(sheet, valueCell, pair[1])
		row++
	}

	f.SetColWidth(sheet, "B", "B", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("%s.xlsx", quotation.Reference)
	return buf.Bytes(), filename, nil
}

var listExportHeader = []string{
	"Reference", "Date", "Customer", "Status",
	"Items Subtotal", "Discount", "VAT Amount", "Net Total",
}

// ExportQuotationListXLSX writes one row per quotation matching the filters
// to an XLSX workbook and returns the file bytes. Admins export everything;
// other users export their own quotations.
func (s *ExportService) ExportQuotationListXLSX(ctx context.Context, userID uuid.UUID, isAdmin bool, params *repository.QuotationFilterParams) ([]byte, string, error) {
	if !isAdmin && userID == uuid.Nil {
		return nil, "", apperror.ErrForbidden
	}
	if isAdmin {
		userID = uuid.Nil
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Quotations"
	f.SetSheetName("Sheet1", sheet)

	for i, title := range listExportHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		f.SetCellValue(sheet, cell, title)
	}

	row := 2
	page := 1
	for {
		params.Pagination = &pagination.PaginationParams{Page: page, PerPage: 100}
		quotations, total, err := s.quotationRepo.List(ctx, userID, params)
		if err != nil {
			return nil, "", err
		}

		for _, quotation := range quotations {
			values := []interface{}{
				quotation.Reference, quotation.Date.Format("02/01/2006"),
				quotation.CustomerName, quotation.Status.String(),
				quotation.ItemsSubtotal, quotation.Discount,
				quotation.VATAmount, quotation.NetTotal,
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, "", err
				}
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}

		if len(quotations) == 0 || int64(row-2) >= total {
			break
		}
		page++
	}

	f.SetColWidth(sheet, "A", "D", 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("quotations-%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

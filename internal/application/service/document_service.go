package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/quotify-api/internal/domain/entity"
	"github.com/sangkips/quotify-api/internal/domain/repository"
	"github.com/sangkips/quotify-api/pkg/apperror"
	"github.com/sangkips/quotify-api/pkg/document"
	"github.com/sangkips/quotify-api/pkg/email"
	"github.com/sangkips/quotify-api/pkg/money"
)

// DocumentService generates quotation documents and delivers them by email
type DocumentService struct {
	quotationRepo repository.QuotationRepository
	settingsRepo  repository.SettingsRepository
	resolver      document.ImageResolver
	renderer      document.Renderer
	mailer        email.Mailer
}

// NewDocumentService creates a new document service
func NewDocumentService(
	quotationRepo repository.QuotationRepository,
	settingsRepo repository.SettingsRepository,
	resolver document.ImageResolver,
	renderer document.Renderer,
	mailer email.Mailer,
) *DocumentService {
	return &DocumentService{
		quotationRepo: quotationRepo,
		settingsRepo:  settingsRepo,
		resolver:      resolver,
		renderer:      renderer,
		mailer:        mailer,
	}
}

// GeneratePDF loads the quotation, composes the document and renders it to
// PDF bytes. Rendering failures are reported as retryable.
func (s *DocumentService) GeneratePDF(ctx context.Context, id uuid.UUID) ([]byte, *entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if quotation == nil {
		return nil, nil, apperror.NewNotFoundError("Quotation")
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, nil, err
	}

	doc, err := s.compose(ctx, quotation, settings)
	if err != nil {
		return nil, nil, err
	}

	pdf, err := s.renderer.Render(ctx, doc)
	if err != nil {
		log.Printf("Warning: PDF render failed for quotation %s: %v", quotation.Reference, err)
		return nil, nil, apperror.NewUnavailableError("Document rendering failed, please retry")
	}

	return pdf, quotation, nil
}

// compose maps the stored quotation and company settings into the engine's
// input contract and runs the composer.
func (s *DocumentService) compose(ctx context.Context, quotation *entity.Quotation, settings *entity.CompanySettings) (*document.Document, error) {
	opts := document.Options{}
	if settings != nil {
		opts.PageCapacity = settings.PageCapacity
		opts.CurrencyMajor = settings.CurrencyMajor
		opts.CurrencyMinor = settings.CurrencyMinor
		opts.Header = document.HeaderBand{
			CompanyName: settings.CompanyName,
			Address:     settings.Address,
			Phone:       settings.Phone,
			Email:       settings.Email,
			TRN:         settings.TRN,
		}
		if settings.FooterText != nil && *settings.FooterText != "" {
			opts.Footer = document.FooterBand{Lines: splitLines(*settings.FooterText)}
		}
		if settings.Terms != nil && *settings.Terms != "" {
			opts.Terms = splitLines(*settings.Terms)
		}
		opts.Banking = document.BankingDetails{
			AccountName:   settings.AccountName,
			BankName:      settings.BankName,
			AccountNumber: settings.AccountNumber,
			IBAN:          settings.IBAN,
			SwiftCode:     settings.SwiftCode,
		}
		// Company logo resolves fail-soft like item images
		if settings.LogoRef != nil && *settings.LogoRef != "" && s.resolver != nil {
			logo, err := s.resolver.Resolve(ctx, document.ParseImageRef(*settings.LogoRef))
			if err != nil {
				log.Printf("Warning: failed to resolve company logo: %v", err)
			} else {
				opts.Header.Logo = logo
			}
		}
	}

	composer := document.NewComposer(s.resolver, opts)
	return composer.Compose(ctx, s.toEngineQuotation(quotation))
}

func (s *DocumentService) toEngineQuotation(quotation *entity.Quotation) *document.Quotation {
	customer := document.CustomerInfo{Name: quotation.CustomerName}
	if quotation.Customer != nil {
		customer.Name = quotation.Customer.Name
		if quotation.Customer.Address != nil {
			customer.Address = *quotation.Customer.Address
		}
		if quotation.Customer.Phone != nil {
			customer.Phone = *quotation.Customer.Phone
		}
		if quotation.Customer.Email != nil {
			customer.Email = *quotation.Customer.Email
		}
	}

	items := make([]document.Item, len(quotation.Items))
	for i, item := range quotation.Items {
		var ref document.ImageRef
		if item.ImageRef != nil {
			ref = document.ParseImageRef(*item.ImageRef)
		}
		items[i] = document.Item{
			LineItem: money.LineItem{
				Description:  item.Description,
				Quantity:     item.Quantity,
				Unit:         item.Unit,
				WeightKg:     item.WeightKg,
				VolumeCbm:    item.VolumeCbm,
				RatePerUnit:  item.RatePerUnit,
				VATPercent:   item.VATPercent,
				Discount:     item.Discount,
				DiscountType: item.DiscountType,
			},
			ImageRef: ref,
		}
	}

	q := &document.Quotation{
		Reference: quotation.Reference,
		Date:      quotation.Date,
		Customer:  customer,
		Items:     items,
		Charges: money.DocumentCharges{
			DeliveryCharges:     quotation.DeliveryCharges,
			InstallationCharges: quotation.InstallationCharges,
			PickupCharges:       quotation.PickupCharges,
			Discount:            quotation.Discount,
			DiscountType:        quotation.DiscountType,
			VATPercent:          quotation.VATPercent,
		},
	}
	if quotation.Terms != nil && *quotation.Terms != "" {
		q.Terms = splitLines(*quotation.Terms)
	}
	return q
}

// EmailQuotation renders the quotation to PDF and emails it as an attachment
func (s *DocumentService) EmailQuotation(ctx context.Context, id uuid.UUID, recipient string) error {
	pdf, quotation, err := s.GeneratePDF(ctx, id)
	if err != nil {
		return err
	}

	if recipient == "" {
		if quotation.Customer == nil || quotation.Customer.Email == nil || *quotation.Customer.Email == "" {
			return apperror.NewBadRequestError("Recipient email is required")
		}
		recipient = *quotation.Customer.Email
	}

	subject := fmt.Sprintf("Quotation %s", quotation.Reference)
	body := fmt.Sprintf(
		"Dear %s,\r\n\r\nPlease find attached quotation %s dated %s.\r\n\r\nBest regards",
		quotation.CustomerName, quotation.Reference, quotation.Date.Format("02 Jan 2006"))
	filename := fmt.Sprintf("%s.pdf", quotation.Reference)

	if err := s.mailer.SendWithAttachment(recipient, subject, body, filename, "application/pdf", pdf); err != nil {
		log.Printf("Warning: failed to email quotation %s to %s: %v", quotation.Reference, recipient, err)
		return apperror.NewUnavailableError("Failed to send email, please retry")
	}
	return nil
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

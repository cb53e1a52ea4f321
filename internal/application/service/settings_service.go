package service

import (
	"context"

	"github.com/sangkips/quotify-api/internal/config"
	"github.com/sangkips/quotify-api/internal/domain/entity"
	"github.com/sangkips/quotify-api/internal/domain/repository"
)

// SettingsService handles company settings business logic
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	cfg          *config.Config
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, cfg *config.Config) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		cfg:          cfg,
	}
}

// GetSettings retrieves the company settings, creating defaults if none exist
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.CompanySettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	// If no settings exist, create defaults from config
	if settings == nil {
		settings = &entity.CompanySettings{
			CompanyName:   s.cfg.Company.Name,
			Address:       s.cfg.Company.Address,
			Phone:         s.cfg.Company.Phone,
			Email:         s.cfg.Company.Email,
			TRN:           s.cfg.Company.TRN,
			CurrencyMajor: s.cfg.Document.CurrencyMajor,
			CurrencyMinor: s.cfg.Document.CurrencyMinor,
			VATPercent:    s.cfg.Document.VATPercent,
			PageCapacity:  s.cfg.Document.PageCapacity,
		}
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating company settings
type UpdateSettingsInput struct {
	CompanyName   string
	Address       string
	Phone         string
	Email         string
	TRN           string
	LogoRef       *string
	AccountName   string
	BankName      string
	AccountNumber string
	IBAN          string
	SwiftCode     string
	Terms         *string
	FooterText    *string
	CurrencyMajor string
	CurrencyMinor string
	VATPercent    float64
	PageCapacity  int
}

// UpdateSettings updates the company settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.CompanySettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	settings.CompanyName = input.CompanyName
	settings.Address = input.Address
	settings.Phone = input.Phone
	settings.Email = input.Email
	settings.TRN = input.TRN
	settings.LogoRef = input.LogoRef
	settings.AccountName = input.AccountName
	settings.BankName = input.BankName
	settings.AccountNumber = input.AccountNumber
	settings.IBAN = input.IBAN
	settings.SwiftCode = input.SwiftCode
	settings.Terms = input.Terms
	settings.FooterText = input.FooterText
	if input.CurrencyMajor != "" {
		settings.CurrencyMajor = input.CurrencyMajor
	}
	if input.CurrencyMinor != "" {
		settings.CurrencyMinor = input.CurrencyMinor
	}
	if input.VATPercent > 0 {
		settings.VATPercent = input.VATPercent
	}
	if input.PageCapacity > 0 {
		settings.PageCapacity = input.PageCapacity
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

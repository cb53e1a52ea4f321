package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanySettings holds the company identity, banking details and document
// defaults printed on every generated quotation. A single row is seeded at
// startup and edited through the settings endpoints.
type CompanySettings struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CompanyName string    `gorm:"size:255;not null" json:"company_name"`
	Address     string    `gorm:"type:text" json:"address"`
	Phone       string    `gorm:"size:50" json:"phone"`
	Email       string    `gorm:"size:255" json:"email"`
	TRN         string    `gorm:"size:50;column:trn" json:"trn"`
	// Bare filename under the storage path, resolved fail-soft at render time
	LogoRef *string `gorm:"size:1024" json:"logo_ref,omitempty"`

	// Banking details printed on the terms page
	AccountName   string `gorm:"size:255" json:"account_name"`
	BankName      string `gorm:"size:255" json:"bank_name"`
	AccountNumber string `gorm:"size:100" json:"account_number"`
	IBAN          string `gorm:"size:100;column:iban" json:"iban"`
	SwiftCode     string `gorm:"size:50" json:"swift_code"`

	// Document defaults
	// Newline-separated terms and conditions
	Terms         *string `gorm:"type:text" json:"terms,omitempty"`
	FooterText    *string `gorm:"type:text" json:"footer_text,omitempty"`
	CurrencyMajor string  `gorm:"size:50;default:'Dirhams'" json:"currency_major"`
	CurrencyMinor string  `gorm:"size:50;default:'Fils'" json:"currency_minor"`
	VATPercent    float64 `gorm:"type:decimal(5,2);default:5" json:"vat_percent"`
	PageCapacity  int     `gorm:"default:10" json:"page_capacity"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *CompanySettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CompanySettings model
func (CompanySettings) TableName() string {
	return "company_settings"
}

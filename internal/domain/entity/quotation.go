package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/quotify-api/internal/domain/enum"
	"github.com/sangkips/quotify-api/pkg/money"
)

// Quotation represents a price quotation for a customer, including the
// document-level charges, discount and persisted totals.
type Quotation struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID   *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Date         time.Time  `gorm:"type:date;not null" json:"date"`
	Reference    string     `gorm:"size:100;unique;not null" json:"reference"`
	CustomerName string     `gorm:"size:255" json:"customer_name"`

	// Document-level charges and discount
	DeliveryCharges     float64            `gorm:"type:decimal(15,2);default:0" json:"delivery_charges"`
	InstallationCharges float64            `gorm:"type:decimal(15,2);default:0" json:"installation_charges"`
	PickupCharges       float64            `gorm:"type:decimal(15,2);default:0" json:"pickup_charges"`
	Discount            float64            `gorm:"type:decimal(15,2);default:0" json:"discount"`
	DiscountType        money.DiscountType `gorm:"size:20;default:'percentage'" json:"discount_type"`
	VATPercent          float64            `gorm:"type:decimal(5,2);default:5" json:"vat_percent"`

	// Persisted totals, recomputed on every create/update
	ItemsSubtotal        float64 `gorm:"type:decimal(15,2);default:0" json:"items_subtotal"`
	AmountBeforeDiscount float64 `gorm:"type:decimal(15,2);default:0" json:"amount_before_discount"`
	AmountAfterDiscount  float64 `gorm:"type:decimal(15,2);default:0" json:"amount_after_discount"`
	VATAmount            float64 `gorm:"type:decimal(15,2);default:0" json:"vat_amount"`
	NetTotal             float64 `gorm:"type:decimal(15,2);default:0" json:"net_total"`

	Status enum.QuotationStatus `gorm:"default:0" json:"status"`
	Note   *string              `gorm:"type:text" json:"note,omitempty"`
	// Newline-separated override of the default terms and conditions
	Terms *string `gorm:"type:text" json:"terms,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User            `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []QuotationItem `gorm:"foreignKey:QuotationID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quotation
func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quotation model
func (Quotation) TableName() string {
	return "quotations"
}

// QuotationItem represents a line item in a quotation. SortOrder preserves
// the order the quotation was entered with; the generated document keeps
// this order exactly.
type QuotationItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuotationID uuid.UUID `gorm:"type:uuid;not null;index" json:"quotation_id"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`

	Description string  `gorm:"type:text;not null" json:"description"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	Unit        string  `gorm:"size:50" json:"unit"`
	WeightKg    float64 `gorm:"type:decimal(10,3);default:0" json:"weight_kg"`
	VolumeCbm   float64 `gorm:"type:decimal(10,3);default:0" json:"volume_cbm"`
	RatePerUnit float64 `gorm:"type:decimal(15,2);not null" json:"rate_per_unit"`
	VATPercent  float64 `gorm:"type:decimal(5,2);default:5" json:"vat_percent"`

	// Optional item-level discount
	Discount     float64            `gorm:"type:decimal(15,2);default:0" json:"discount"`
	DiscountType money.DiscountType `gorm:"size:20;default:'percentage'" json:"discount_type"`

	// Inline data URI, remote URL or bare filename under the storage path
	ImageRef *string `gorm:"size:1024" json:"image_ref,omitempty"`

	// Persisted derived amounts
	TaxableAmount float64 `gorm:"type:decimal(15,2);default:0" json:"taxable_amount"`
	VATAmount     float64 `gorm:"type:decimal(15,2);default:0" json:"vat_amount"`
	LineTotal     float64 `gorm:"type:decimal(15,2);default:0" json:"line_total"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Quotation Quotation `gorm:"foreignKey:QuotationID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new quotation item
func (qi *QuotationItem) BeforeCreate(tx *gorm.DB) error {
	if qi.ID == uuid.Nil {
		qi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuotationItem model
func (QuotationItem) TableName() string {
	return "quotation_items"
}

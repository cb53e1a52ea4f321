package money

import (
	"math"

	"github.com/sangkips/quotify-api/pkg/apperror"
)

// DiscountType determines how a discount value is applied to its base amount.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// DefaultVATPercent is the VAT rate applied when a quotation does not specify one.
const DefaultVATPercent = 5.0

// LineItem is a single quotation line as the calculator sees it.
type LineItem struct {
	Description string
	Quantity    int
	Unit        string
	WeightKg    float64
	VolumeCbm   float64
	RatePerUnit float64
	VATPercent  float64
	// Optional item-level discount, applied to the taxable amount before VAT.
	Discount     float64
	DiscountType DiscountType
}

// LineAmounts holds the derived monetary values for one line item.
type LineAmounts struct {
	TaxableAmount float64 `json:"taxable_amount"`
	VATAmount     float64 `json:"vat_amount"`
	LineTotal     float64 `json:"line_total"`
}

// DocumentCharges holds the document-level charges and discount.
type DocumentCharges struct {
	DeliveryCharges     float64      `json:"delivery_charges"`
	InstallationCharges float64      `json:"installation_charges"`
	PickupCharges       float64      `json:"pickup_charges"`
	Discount            float64      `json:"discount"`
	DiscountType        DiscountType `json:"discount_type"`
	VATPercent          float64      `json:"vat_percent"`
}

// Totals is the aggregate financial result for a quotation. It is never
// mutated after computation. AmountInWords is filled in by the document
// composer, not here.
type Totals struct {
	ItemsSubtotal        float64 `json:"items_subtotal"`
	ChargesAdded         float64 `json:"charges_added"`
	AmountBeforeDiscount float64 `json:"amount_before_discount"`
	AmountAfterDiscount  float64 `json:"amount_after_discount"`
	VATAmount            float64 `json:"vat_amount"`
	NetTotal             float64 `json:"net_total"`
	AmountInWords        string  `json:"amount_in_words"`
}

// Round2 rounds to 2 decimal places using round-half-up.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// ComputeLine derives the taxable amount, VAT and total for a single line.
// Intermediate values are carried at full precision; only presentation
// rounds them.
func ComputeLine(item LineItem) (LineAmounts, error) {
	if errs := validateLine(item); len(errs) > 0 {
		return LineAmounts{}, apperror.NewValidationError(errs)
	}

	taxable := float64(item.Quantity) * item.RatePerUnit
	if item.Discount > 0 {
		switch item.DiscountType {
		case DiscountFixed:
			taxable -= item.Discount
		default:
			taxable -= taxable * item.Discount / 100
		}
		// Item-level discount clamps at zero before VAT.
		if taxable < 0 {
			taxable = 0
		}
	}

	vat := taxable * item.VATPercent / 100
	return LineAmounts{
		TaxableAmount: taxable,
		VATAmount:     vat,
		LineTotal:     taxable + vat,
	}, nil
}

// ComputeDocumentTotals aggregates the document totals. The order of steps is
// a correctness invariant: subtotal, charges, discount on the combined base,
// then VAT on the discounted amount.
func ComputeDocumentTotals(items []LineItem, charges DocumentCharges) (Totals, error) {
	if errs := validateCharges(charges); len(errs) > 0 {
		return Totals{}, apperror.NewValidationError(errs)
	}

	var subtotal float64
	for _, item := range items {
		amounts, err := ComputeLine(item)
		if err != nil {
			return Totals{}, err
		}
		subtotal += amounts.TaxableAmount
	}

	chargesAdded := charges.DeliveryCharges + charges.InstallationCharges + charges.PickupCharges
	beforeDiscount := subtotal + chargesAdded

	afterDiscount := beforeDiscount
	if charges.Discount > 0 {
		switch charges.DiscountType {
		case DiscountFixed:
			if charges.Discount > beforeDiscount {
				return Totals{}, apperror.NewValidationError([]apperror.FieldError{
					{Field: "discount", Message: "Discount exceeds the amount it is subtracted from"},
				})
			}
			afterDiscount = beforeDiscount - charges.Discount
		default:
			if charges.Discount > 100 {
				return Totals{}, apperror.NewValidationError([]apperror.FieldError{
					{Field: "discount", Message: "Percentage discount cannot exceed 100"},
				})
			}
			afterDiscount = beforeDiscount - beforeDiscount*charges.Discount/100
		}
		if afterDiscount < 0 {
			afterDiscount = 0
		}
	}

	// VAT is the only intermediate value rounded before further arithmetic.
	vat := Round2(afterDiscount * charges.VATPercent / 100)

	return Totals{
		ItemsSubtotal:        subtotal,
		ChargesAdded:         chargesAdded,
		AmountBeforeDiscount: beforeDiscount,
		AmountAfterDiscount:  afterDiscount,
		VATAmount:            vat,
		NetTotal:             afterDiscount + vat,
	}, nil
}

func validateLine(item LineItem) []apperror.FieldError {
	var errs []apperror.FieldError
	if item.Quantity < 0 {
		errs = append(errs, apperror.FieldError{Field: "quantity", Message: "Quantity cannot be negative"})
	}
	if item.RatePerUnit < 0 {
		errs = append(errs, apperror.FieldError{Field: "rate_per_unit", Message: "Rate cannot be negative"})
	}
	if item.WeightKg < 0 {
		errs = append(errs, apperror.FieldError{Field: "weight_kg", Message: "Weight cannot be negative"})
	}
	if item.VolumeCbm < 0 {
		errs = append(errs, apperror.FieldError{Field: "volume_cbm", Message: "Volume cannot be negative"})
	}
	if item.VATPercent < 0 {
		errs = append(errs, apperror.FieldError{Field: "vat_percent", Message: "VAT percentage cannot be negative"})
	}
	if item.Discount < 0 {
		errs = append(errs, apperror.FieldError{Field: "discount", Message: "Discount cannot be negative"})
	}
	return errs
}

func validateCharges(charges DocumentCharges) []apperror.FieldError {
	var errs []apperror.FieldError
	if charges.DeliveryCharges < 0 {
		errs = append(errs, apperror.FieldError{Field: "delivery_charges", Message: "Delivery charges cannot be negative"})
	}
	if charges.InstallationCharges < 0 {
		errs = append(errs, apperror.FieldError{Field: "installation_charges", Message: "Installation charges cannot be negative"})
	}
	if charges.PickupCharges < 0 {
		errs = append(errs, apperror.FieldError{Field: "pickup_charges", Message: "Pickup charges cannot be negative"})
	}
	if charges.Discount < 0 {
		errs = append(errs, apperror.FieldError{Field: "discount", Message: "Discount cannot be negative"})
	}
	if charges.VATPercent < 0 {
		errs = append(errs, apperror.FieldError{Field: "vat_percent", Message: "VAT percentage cannot be negative"})
	}
	return errs
}

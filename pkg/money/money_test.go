package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sangkips/quotify-api/pkg/apperror"
)

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name        string
		item        LineItem
		wantTaxable float64
		wantVAT     float64
		wantTotal   float64
	}{
		{
			name:        "plain quantity times rate",
			item:        LineItem{Quantity: 4, RatePerUnit: 250, VATPercent: 5},
			wantTaxable: 1000,
			wantVAT:     50,
			wantTotal:   1050,
		},
		{
			name:        "zero quantity yields zero amounts",
			item:        LineItem{Quantity: 0, RatePerUnit: 99.5, VATPercent: 5},
			wantTaxable: 0,
			wantVAT:     0,
			wantTotal:   0,
		},
		{
			name:        "percentage item discount before VAT",
			item:        LineItem{Quantity: 2, RatePerUnit: 100, VATPercent: 5, Discount: 10, DiscountType: DiscountPercentage},
			wantTaxable: 180,
			wantVAT:     9,
			wantTotal:   189,
		},
		{
			name:        "fixed item discount before VAT",
			item:        LineItem{Quantity: 2, RatePerUnit: 100, VATPercent: 5, Discount: 50, DiscountType: DiscountFixed},
			wantTaxable: 150,
			wantVAT:     7.5,
			wantTotal:   157.5,
		},
		{
			name:        "fixed discount exceeding taxable clamps at zero",
			item:        LineItem{Quantity: 1, RatePerUnit: 30, VATPercent: 5, Discount: 100, DiscountType: DiscountFixed},
			wantTaxable: 0,
			wantVAT:     0,
			wantTotal:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amounts, err := ComputeLine(tt.item)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantTaxable, amounts.TaxableAmount, 0.001)
			assert.InDelta(t, tt.wantVAT, amounts.VATAmount, 0.001)
			assert.InDelta(t, tt.wantTotal, amounts.LineTotal, 0.001)
		})
	}
}

func TestComputeLineValidation(t *testing.T) {
	_, err := ComputeLine(LineItem{Quantity: -1, RatePerUnit: 100})
	require.Error(t, err)
	assert.True(t, apperror.IsAppError(err))

	_, err = ComputeLine(LineItem{Quantity: 1, RatePerUnit: -5})
	require.Error(t, err)

	_, err = ComputeLine(LineItem{Quantity: 1, RatePerUnit: 5, Discount: -1})
	require.Error(t, err)
}

func TestComputeDocumentTotalsOrdering(t *testing.T) {
	items := []LineItem{
		{Quantity: 10, RatePerUnit: 100, VATPercent: 5},
		{Quantity: 5, RatePerUnit: 200, VATPercent: 5},
	}
	charges := DocumentCharges{
		DeliveryCharges:     300,
		InstallationCharges: 150,
		PickupCharges:       50,
		Discount:            10,
		DiscountType:        DiscountPercentage,
		VATPercent:          5,
	}

	totals, err := ComputeDocumentTotals(items, charges)
	require.NoError(t, err)

	assert.InDelta(t, 2000, totals.ItemsSubtotal, 0.001)
	assert.InDelta(t, 500, totals.ChargesAdded, 0.001)
	assert.InDelta(t, 2500, totals.AmountBeforeDiscount, 0.001)
	assert.InDelta(t, 2250, totals.AmountAfterDiscount, 0.001)
	assert.InDelta(t, 112.5, totals.VATAmount, 0.001)
	assert.InDelta(t, 2362.5, totals.NetTotal, 0.001)
	assert.InDelta(t, totals.AmountAfterDiscount+totals.VATAmount, totals.NetTotal, 0.001)
}

// The percentage discount must apply to (subtotal + charges), never to the
// post-VAT figure. Discounting after VAT here would produce 945 instead.
func TestDiscountPrecedence(t *testing.T) {
	items := []LineItem{{Quantity: 1, RatePerUnit: 1000, VATPercent: 5}}
	charges := DocumentCharges{Discount: 10, DiscountType: DiscountPercentage, VATPercent: 5}

	totals, err := ComputeDocumentTotals(items, charges)
	require.NoError(t, err)

	// 1000 -> 900 after discount -> 45 VAT -> 945 net.
	assert.InDelta(t, 900, totals.AmountAfterDiscount, 0.001)
	assert.InDelta(t, 45, totals.VATAmount, 0.001)
	assert.InDelta(t, 945, totals.NetTotal, 0.001)

	// Misapplied ordering (VAT first, then discount) would give the same net
	// here only by coincidence of linearity; a fixed discount distinguishes it.
	fixed := DocumentCharges{Discount: 100, DiscountType: DiscountFixed, VATPercent: 5}
	totals, err = ComputeDocumentTotals(items, fixed)
	require.NoError(t, err)
	assert.InDelta(t, 900, totals.AmountAfterDiscount, 0.001)
	assert.InDelta(t, 945, totals.NetTotal, 0.001) // VAT-then-discount would yield 950
}

func TestComputeDocumentTotalsNoChargesNoDiscount(t *testing.T) {
	items := []LineItem{
		{Quantity: 3, RatePerUnit: 33.33, VATPercent: 5},
		{Quantity: 7, RatePerUnit: 12.5, VATPercent: 5},
	}
	totals, err := ComputeDocumentTotals(items, DocumentCharges{VATPercent: 5})
	require.NoError(t, err)

	expected := (3*33.33 + 7*12.5) * 1.05
	assert.InDelta(t, expected, totals.NetTotal, 0.01)
}

func TestComputeDocumentTotalsValidation(t *testing.T) {
	items := []LineItem{{Quantity: 1, RatePerUnit: 100, VATPercent: 5}}

	_, err := ComputeDocumentTotals(items, DocumentCharges{Discount: 200, DiscountType: DiscountFixed, VATPercent: 5})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)

	_, err = ComputeDocumentTotals(items, DocumentCharges{Discount: 150, DiscountType: DiscountPercentage, VATPercent: 5})
	require.Error(t, err)

	_, err = ComputeDocumentTotals(items, DocumentCharges{DeliveryCharges: -1, VATPercent: 5})
	require.Error(t, err)
}

func TestRound2HalfUp(t *testing.T) {
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, 0.12, Round2(0.124))
	assert.Equal(t, 105.0, Round2(105.0))
	assert.Equal(t, 2.68, Round2(2.675000001))
}

func TestVATRoundedOnceNotCompounded(t *testing.T) {
	// Many small lines whose individual VAT would round; the aggregate VAT is
	// computed from the unrounded base, so no compounding error appears.
	var items []LineItem
	for i := 0; i < 100; i++ {
		items = append(items, LineItem{Quantity: 1, RatePerUnit: 0.111, VATPercent: 5})
	}
	totals, err := ComputeDocumentTotals(items, DocumentCharges{VATPercent: 5})
	require.NoError(t, err)
	assert.InDelta(t, 11.1, totals.ItemsSubtotal, 0.0001)
	assert.InDelta(t, 0.56, totals.VATAmount, 0.0001) // round2(0.555)
}

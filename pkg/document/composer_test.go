package document

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sangkips/quotify-api/pkg/money"
)

// stubResolver resolves named refs to a fixed image and fails everything else.
type stubResolver struct {
	failAll bool
}

func (r *stubResolver) Resolve(_ context.Context, ref ImageRef) (*Image, error) {
	if r.failAll || ref.Kind == ImageRefRemote {
		return nil, errors.New("resolve failed")
	}
	return &Image{MIME: "image/png", Data: []byte{0x89, 0x50}}, nil
}

func testQuotation(itemCount int) *Quotation {
	items := make([]Item, itemCount)
	for i := range items {
		items[i] = Item{
			LineItem: money.LineItem{
				Description: fmt.Sprintf("Item %d", i+1),
				Quantity:    1,
				Unit:        "Pcs",
				RatePerUnit: 100,
				VATPercent:  5,
			},
		}
	}
	return &Quotation{
		Reference: "QT-000042",
		Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Customer:  CustomerInfo{Name: "Al Noor Trading LLC"},
		Items:     items,
		Charges:   money.DocumentCharges{VATPercent: 5},
	}
}

func TestComposeEndToEnd(t *testing.T) {
	c := NewComposer(nil, Options{PageCapacity: 10})
	doc, err := c.Compose(context.Background(), testQuotation(21))
	require.NoError(t, err)

	// 21 items of rate 100 at 5% VAT.
	assert.InDelta(t, 2100, doc.Totals.ItemsSubtotal, 0.001)
	assert.InDelta(t, 105, doc.Totals.VATAmount, 0.001)
	assert.InDelta(t, 2205, doc.Totals.NetTotal, 0.001)
	assert.Equal(t, "Two Thousand Two Hundred Five Dirhams And 00 Fils Only", doc.Totals.AmountInWords)

	// 3 item pages of 10/10/1; totals belong to page 3 only.
	require.Len(t, doc.Pages, 3)
	assert.Len(t, doc.Pages[0].Lines, 10)
	assert.Len(t, doc.Pages[1].Lines, 10)
	assert.Len(t, doc.Pages[2].Lines, 1)
	assert.False(t, doc.Pages[0].Final)
	assert.False(t, doc.Pages[1].Final)
	assert.True(t, doc.Pages[2].Final)

	// Terms page carries defaults and restates the net total.
	assert.Equal(t, DefaultTerms, doc.Terms.Terms)
	assert.Contains(t, doc.Terms.DepositNote, "2205.00")
}

func TestComposeIdempotent(t *testing.T) {
	c := NewComposer(&stubResolver{}, Options{PageCapacity: 10})

	q := testQuotation(13)
	q.Items[2].ImageRef = ImageRef{Kind: ImageRefNamed, Value: "chair.png"}
	q.Items[7].ImageRef = ImageRef{Kind: ImageRefNamed, Value: "table.png"}

	first, err := c.Compose(context.Background(), q)
	require.NoError(t, err)
	second, err := c.Compose(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComposeImageFailSoft(t *testing.T) {
	c := NewComposer(&stubResolver{}, Options{PageCapacity: 10})

	q := testQuotation(3)
	q.Items[0].ImageRef = ImageRef{Kind: ImageRefNamed, Value: "ok.png"}
	q.Items[1].ImageRef = ImageRef{Kind: ImageRefRemote, Value: "https://example.com/missing.png"}

	doc, err := c.Compose(context.Background(), q)
	require.NoError(t, err, "image resolution failure must not fail composition")

	assert.NotNil(t, doc.Pages[0].Lines[0].Image)
	assert.Nil(t, doc.Pages[0].Lines[1].Image, "failed resolution degrades to no image")
	assert.Nil(t, doc.Pages[0].Lines[2].Image)
}

func TestComposeZeroItems(t *testing.T) {
	c := NewComposer(nil, Options{})
	doc, err := c.Compose(context.Background(), testQuotation(0))
	require.NoError(t, err)

	require.Len(t, doc.Pages, 1)
	assert.True(t, doc.Pages[0].Final)
	assert.Empty(t, doc.Pages[0].Lines)
	assert.InDelta(t, 0, doc.Totals.NetTotal, 0.001)
	assert.Equal(t, "Zero Dirhams And 00 Fils Only", doc.Totals.AmountInWords)
}

func TestComposeOverrides(t *testing.T) {
	c := NewComposer(nil, Options{
		Banking: BankingDetails{BankName: "Default Bank"},
	})

	q := testQuotation(1)
	q.Terms = []string{"Custom term."}
	q.Banking = &BankingDetails{BankName: "Override Bank", IBAN: "AE070331234567890123456"}

	doc, err := c.Compose(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Custom term."}, doc.Terms.Terms)
	assert.Equal(t, "Override Bank", doc.Terms.Banking.BankName)
}

func TestComposeValidation(t *testing.T) {
	c := NewComposer(nil, Options{})

	q := testQuotation(2)
	q.Items[1].Description = ""
	_, err := c.Compose(context.Background(), q)
	require.Error(t, err)

	q = testQuotation(1)
	q.Items[0].Quantity = -2
	_, err = c.Compose(context.Background(), q)
	require.Error(t, err)

	q = testQuotation(1)
	q.Charges.Discount = 500
	q.Charges.DiscountType = money.DiscountFixed
	_, err = c.Compose(context.Background(), q)
	require.Error(t, err, "discount exceeding the base must be rejected before composition")

	_, err = c.Compose(context.Background(), nil)
	require.Error(t, err)
}

func TestParseImageRef(t *testing.T) {
	assert.Equal(t, ImageRefNone, ParseImageRef("").Kind)
	assert.Equal(t, ImageRefInline, ParseImageRef("data:image/png;base64,iVBOR").Kind)
	assert.Equal(t, ImageRefRemote, ParseImageRef("https://cdn.example.com/a.jpg").Kind)
	assert.Equal(t, ImageRefRemote, ParseImageRef("http://cdn.example.com/a.jpg").Kind)
	assert.Equal(t, ImageRefNamed, ParseImageRef("sofa-3seater.png").Kind)
}

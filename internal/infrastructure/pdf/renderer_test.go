package pdf

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sangkips/quotify-api/pkg/document"
	"github.com/sangkips/quotify-api/pkg/money"
)

func composedDocument(t *testing.T, itemCount int) *document.Document {
	t.Helper()

	items := make([]document.Item, itemCount)
	for i := range items {
		items[i] = document.Item{
			LineItem: money.LineItem{
				Description: fmt.Sprintf("Office chair model C-%02d with adjustable armrests", i+1),
				Quantity:    2,
				Unit:        "Pcs",
				RatePerUnit: 450,
				VATPercent:  5,
			},
		}
	}

	c := document.NewComposer(nil, document.Options{
		PageCapacity: 10,
		Header: document.HeaderBand{
			CompanyName: "Quotify Furniture LLC",
			Address:     "Industrial Area 4, Sharjah, UAE",
			Phone:       "+971 6 555 0100",
			Email:       "sales@quotify.example",
			TRN:         "100123456700003",
		},
		Footer: document.FooterBand{Lines: []string{"Thank you for your business."}},
	})
	doc, err := c.Compose(context.Background(), &document.Quotation{
		Reference: "QT-000123",
		Date:      time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		Customer:  document.CustomerInfo{Name: "Desert Rose Interiors"},
		Items:     items,
		Charges:   money.DocumentCharges{DeliveryCharges: 200, VATPercent: 5},
	})
	require.NoError(t, err)
	return doc
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer()

	pdfBytes, err := r.Render(context.Background(), composedDocument(t, 21))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")), "output must be a PDF")
	assert.Greater(t, len(pdfBytes), 1000)
}

func TestRenderEmptyDocument(t *testing.T) {
	r := NewRenderer()

	pdfBytes, err := r.Render(context.Background(), composedDocument(t, 0))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestRenderNilDocument(t *testing.T) {
	r := NewRenderer()
	_, err := r.Render(context.Background(), nil)
	assert.Error(t, err)
}

func TestRenderCancelledContext(t *testing.T) {
	r := NewRenderer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Render(ctx, composedDocument(t, 1))
	assert.Error(t, err)
}

func TestRenderSurvivesCorruptImage(t *testing.T) {
	doc := composedDocument(t, 2)
	doc.Pages[0].Lines[0].Image = &document.Image{MIME: "image/png", Data: []byte{0x00, 0x01}}

	r := NewRenderer()
	pdfBytes, err := r.Render(context.Background(), doc)
	require.NoError(t, err, "a corrupt item image degrades to no image")
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestRenderDeterministic(t *testing.T) {
	doc := composedDocument(t, 5)
	r := NewRenderer()

	first, err := r.Render(context.Background(), doc)
	require.NoError(t, err)
	second, err := r.Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

package document

import (
	"context"
	"fmt"
	"sync"

	"github.com/sangkips/quotify-api/pkg/apperror"
	"github.com/sangkips/quotify-api/pkg/money"
	"github.com/sangkips/quotify-api/pkg/numwords"
)

// DefaultTerms is printed on the terms page when the quotation supplies none.
var DefaultTerms = []string{
	"This quotation is valid for 30 days from the date of issue.",
	"Payment terms: 50% advance upon confirmation, balance due on delivery.",
	"Delivery period: 2 to 3 weeks from receipt of the confirmed purchase order.",
	"Prices are quoted in UAE Dirhams and include VAT as itemised above.",
	"Goods remain the property of the seller until paid for in full.",
}

// Options configures a Composer. Zero values fall back to sensible defaults.
type Options struct {
	PageCapacity  int
	CurrencyMajor string
	CurrencyMinor string
	Header        HeaderBand
	Footer        FooterBand
	Terms         []string
	Banking       BankingDetails
}

// Composer assembles quotations into render-ready documents.
type Composer struct {
	resolver ImageResolver
	opts     Options
}

// NewComposer creates a composer. The resolver may be nil, in which case no
// item images are resolved.
func NewComposer(resolver ImageResolver, opts Options) *Composer {
	if opts.PageCapacity == 0 {
		opts.PageCapacity = DefaultPageCapacity
	}
	if opts.CurrencyMajor == "" {
		opts.CurrencyMajor = "Dirhams"
	}
	if opts.CurrencyMinor == "" {
		opts.CurrencyMinor = "Fils"
	}
	if len(opts.Terms) == 0 {
		opts.Terms = DefaultTerms
	}
	return &Composer{resolver: resolver, opts: opts}
}

// Compose validates the quotation, computes all financial amounts, paginates
// the items, resolves images and appends the terms page. It is pure with
// respect to its input: identical quotations produce deeply equal documents.
func (c *Composer) Compose(ctx context.Context, q *Quotation) (*Document, error) {
	if q == nil {
		return nil, apperror.NewBadRequestError("Quotation is required")
	}
	if errs := validateQuotation(q); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	lines := make([]Line, len(q.Items))
	for i, item := range q.Items {
		amounts, err := money.ComputeLine(item.LineItem)
		if err != nil {
			return nil, err
		}
		lines[i] = Line{Serial: i + 1, Item: item.LineItem, Amounts: amounts}
	}

	totals, err := money.ComputeDocumentTotals(itemsOf(q), q.Charges)
	if err != nil {
		return nil, err
	}
	totals.AmountInWords, err = numwords.Amount(totals.NetTotal, c.opts.CurrencyMajor, c.opts.CurrencyMinor)
	if err != nil {
		return nil, err
	}

	c.resolveImages(ctx, q, lines)

	pages, err := Paginate(lines, c.opts.PageCapacity)
	if err != nil {
		return nil, err
	}

	terms := q.Terms
	if len(terms) == 0 {
		terms = c.opts.Terms
	}
	banking := c.opts.Banking
	if q.Banking != nil {
		banking = *q.Banking
	}

	return &Document{
		Reference: q.Reference,
		Date:      q.Date,
		Customer:  q.Customer,
		Header:    c.opts.Header,
		Footer:    c.opts.Footer,
		Pages:     pages,
		Totals:    totals,
		Terms: TermsPage{
			Terms:   terms,
			Banking: banking,
			DepositNote: fmt.Sprintf(
				"A security deposit of %.2f (%s) is payable upon order confirmation.",
				totals.NetTotal, totals.AmountInWords,
			),
		},
	}, nil
}

// resolveImages fetches every item image concurrently. Failures degrade to
// "no image"; all resolutions complete before composition continues.
func (c *Composer) resolveImages(ctx context.Context, q *Quotation, lines []Line) {
	if c.resolver == nil {
		return
	}

	var wg sync.WaitGroup
	for i := range lines {
		ref := q.Items[i].ImageRef
		if ref.Kind == ImageRefNone {
			continue
		}
		wg.Add(1)
		go func(i int, ref ImageRef) {
			defer wg.Done()
			img, err := c.resolver.Resolve(ctx, ref)
			if err != nil {
				return
			}
			lines[i].Image = img
		}(i, ref)
	}
	wg.Wait()
}

func itemsOf(q *Quotation) []money.LineItem {
	items := make([]money.LineItem, len(q.Items))
	for i, item := range q.Items {
		items[i] = item.LineItem
	}
	return items
}

func validateQuotation(q *Quotation) []apperror.FieldError {
	var errs []apperror.FieldError
	for i, item := range q.Items {
		if item.Description == "" {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].description", i),
				Message: "Description is required",
			})
		}
	}
	return errs
}

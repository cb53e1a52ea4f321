// Package document assembles a quotation into a paginated, render-ready
// document model: item pages with globally continuous serial numbers, a
// totals block on the final items page, and a trailing terms/banking page.
package document

import (
	"context"
	"strings"
	"time"

	"github.com/sangkips/quotify-api/pkg/money"
)

// ImageRefKind tags the addressing mode of an item image reference.
type ImageRefKind int

const (
	ImageRefNone   ImageRefKind = 0
	ImageRefInline ImageRefKind = 1
	ImageRefRemote ImageRefKind = 2
	ImageRefNamed  ImageRefKind = 3
)

// ImageRef is a tagged reference to an item image: inline data URI, remote
// URL, or a bare filename resolved against local storage.
type ImageRef struct {
	Kind  ImageRefKind `json:"kind"`
	Value string       `json:"value"`
}

// ParseImageRef classifies a raw reference string. An empty string means the
// item has no image.
func ParseImageRef(raw string) ImageRef {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ImageRef{Kind: ImageRefNone}
	case strings.HasPrefix(raw, "data:"):
		return ImageRef{Kind: ImageRefInline, Value: raw}
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return ImageRef{Kind: ImageRefRemote, Value: raw}
	default:
		return ImageRef{Kind: ImageRefNamed, Value: raw}
	}
}

// Image holds resolved, renderable image bytes.
type Image struct {
	MIME string `json:"mime"`
	Data []byte `json:"-"`
}

// ImageResolver turns an ImageRef into renderable bytes. Resolution failure
// is reported as an error; the composer treats it as "no image".
type ImageResolver interface {
	Resolve(ctx context.Context, ref ImageRef) (*Image, error)
}

// Item is one quotation line as the composer receives it.
type Item struct {
	money.LineItem
	ImageRef ImageRef `json:"image_ref"`
}

// CustomerInfo identifies the quotation recipient on the document.
type CustomerInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Quotation is the engine's input contract. It is a pure value; composing it
// twice yields deeply equal documents.
type Quotation struct {
	Reference string                `json:"reference"`
	Date      time.Time             `json:"date"`
	Customer  CustomerInfo          `json:"customer"`
	Items     []Item                `json:"items"`
	Charges   money.DocumentCharges `json:"charges"`
	// Optional overrides; empty/nil fall back to composer defaults.
	Terms   []string        `json:"terms,omitempty"`
	Banking *BankingDetails `json:"banking,omitempty"`
}

// Line is a fully derived item row: input fields, computed amounts, the
// document-wide serial number and the resolved image (nil when absent).
type Line struct {
	Serial  int               `json:"serial"`
	Item    money.LineItem    `json:"item"`
	Amounts money.LineAmounts `json:"amounts"`
	Image   *Image            `json:"image,omitempty"`
}

// Page is one items-table fragment. Only the page holding the final item is
// marked Final and carries the totals block.
type Page struct {
	Index       int    `json:"index"`
	StartSerial int    `json:"start_serial"`
	Lines       []Line `json:"lines"`
	Final       bool   `json:"final"`
}

// HeaderBand is repeated verbatim at the top of every page.
type HeaderBand struct {
	CompanyName string `json:"company_name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	TRN         string `json:"trn"`
	Logo        *Image `json:"logo,omitempty"`
}

// FooterBand is repeated verbatim at the bottom of every page.
type FooterBand struct {
	Lines []string `json:"lines"`
}

// BankingDetails is the payment block printed on the terms page.
type BankingDetails struct {
	AccountName   string `json:"account_name"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	IBAN          string `json:"iban"`
	SwiftCode     string `json:"swift_code"`
}

// TermsPage is the single page appended after all item pages.
type TermsPage struct {
	Terms       []string       `json:"terms"`
	Banking     BankingDetails `json:"banking"`
	DepositNote string         `json:"deposit_note"`
}

// Document is the render contract handed to a Renderer.
type Document struct {
	Reference string       `json:"reference"`
	Date      time.Time    `json:"date"`
	Customer  CustomerInfo `json:"customer"`
	Header    HeaderBand   `json:"header"`
	Footer    FooterBand   `json:"footer"`
	Pages     []Page       `json:"pages"`
	Totals    money.Totals `json:"totals"`
	Terms     TermsPage    `json:"terms_page"`
}

// Renderer turns a composed document into binary output (PDF bytes). A
// renderer failure leaves the Document valid; re-rendering is safe.
type Renderer interface {
	Render(ctx context.Context, doc *Document) ([]byte, error)
}

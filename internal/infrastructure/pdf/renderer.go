// Package pdf renders composed quotation documents to PDF bytes using fpdf.
// The layout contract: every page carries the same header and footer bands,
// item pages hold at most one table fragment each, the totals block appears
// only on the final items page, and a single terms/banking page closes the
// document.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/sangkips/quotify-api/pkg/document"
)

// Page geometry in millimetres (A4 portrait).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginX      = 10.0
	marginTop    = 10.0
	contentWidth = pageWidth - 2*marginX

	headerHeight = 40.0
	footerY      = 272.0
	rowHeight    = 16.0
	tableHeadH   = 8.0
)

// Column widths for the items table; they sum to contentWidth.
var colWidths = []float64{8, 56, 22, 10, 12, 14, 14, 18, 12, 24}

var colTitles = []string{"#", "Description", "Image", "Qty", "Unit", "Kg", "CBM", "Rate", "VAT %", "Amount"}

// Renderer implements document.Renderer on top of fpdf.
type Renderer struct{}

// NewRenderer creates a PDF renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the PDF bytes for a composed document.
func (r *Renderer) Render(ctx context.Context, doc *document.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("pdf: document is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(marginX, marginTop, marginX)
	// Pin the embedded timestamps so identical documents render to
	// identical bytes.
	pdf.SetCreationDate(doc.Date)
	pdf.SetModificationDate(doc.Date)

	totalPages := len(doc.Pages) + 1

	for _, page := range doc.Pages {
		pdf.AddPage()
		drawHeader(pdf, doc)
		drawItemsTable(pdf, doc, page)
		if page.Final {
			drawTotals(pdf, doc)
		}
		drawFooter(pdf, doc, page.Index, totalPages)
	}

	pdf.AddPage()
	drawHeader(pdf, doc)
	drawTermsPage(pdf, doc)
	drawFooter(pdf, doc, totalPages, totalPages)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: output failed: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeader paints the repeating top band: company identity on the left,
// quotation reference, date and customer on the right.
func drawHeader(pdf *fpdf.Fpdf, doc *document.Document) {
	h := doc.Header

	if h.Logo != nil {
		placeImage(pdf, "header-logo", h.Logo, marginX, marginTop, 0, 14)
	}

	nameX := marginX
	if h.Logo != nil {
		nameX += 30
	}
	pdf.SetXY(nameX, marginTop)
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(110, 7, h.CompanyName, "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(110, 4, h.Address, "", 2, "L", false, 0, "")
	contact := strings.TrimSpace(strings.Join(nonEmpty(h.Phone, h.Email), "  |  "))
	pdf.CellFormat(110, 4, contact, "", 2, "L", false, 0, "")
	if h.TRN != "" {
		pdf.CellFormat(110, 4, "TRN: "+h.TRN, "", 2, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)

	// Right column: document meta.
	pdf.SetXY(pageWidth-marginX-60, marginTop)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(60, 7, "QUOTATION", "", 2, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(60, 5, "Ref: "+doc.Reference, "", 2, "R", false, 0, "")
	pdf.CellFormat(60, 5, "Date: "+doc.Date.Format("02 Jan 2006"), "", 2, "R", false, 0, "")
	if doc.Customer.Name != "" {
		pdf.CellFormat(60, 5, "To: "+doc.Customer.Name, "", 2, "R", false, 0, "")
	}

	// Separator under the band.
	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(marginX, marginTop+headerHeight-6, pageWidth-marginX, marginTop+headerHeight-6)
	pdf.SetY(marginTop + headerHeight)
}

// drawItemsTable paints one page's table fragment at a fixed row height so
// that pagination decided upstream is honoured exactly.
func drawItemsTable(pdf *fpdf.Fpdf, doc *document.Document, page document.Page) {
	pdf.SetY(marginTop + headerHeight)

	// Head row.
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(235, 235, 235)
	for i, title := range colTitles {
		last := i == len(colTitles)-1
		ln := 0
		if last {
			ln = 1
		}
		pdf.CellFormat(colWidths[i], tableHeadH, title, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	for _, line := range page.Lines {
		drawItemRow(pdf, line)
	}
}

func drawItemRow(pdf *fpdf.Fpdf, line document.Line) {
	top := pdf.GetY()
	x := marginX

	// Cell borders first, content placed inside.
	for _, w := range colWidths {
		pdf.Rect(x, top, w, rowHeight, "D")
		x += w
	}

	x = marginX
	cellMiddle := func(w float64, txt, align string) {
		pdf.SetXY(x, top+(rowHeight-4)/2)
		pdf.CellFormat(w, 4, txt, "", 0, align, false, 0, "")
		x += w
	}

	cellMiddle(colWidths[0], fmt.Sprintf("%d", line.Serial), "C")

	// Description wraps up to three lines and truncates beyond that.
	pdf.SetXY(x, top+2)
	descLines := pdf.SplitText(line.Item.Description, colWidths[1]-2)
	if len(descLines) > 3 {
		descLines = descLines[:3]
	}
	for _, dl := range descLines {
		pdf.SetX(x + 1)
		pdf.CellFormat(colWidths[1]-2, 4, dl, "", 2, "L", false, 0, "")
	}
	x += colWidths[1]

	if line.Image != nil {
		placeImage(pdf, fmt.Sprintf("line-%d", line.Serial), line.Image,
			x+2, top+2, colWidths[2]-4, rowHeight-4)
	}
	x += colWidths[2]

	cellMiddle(colWidths[3], fmt.Sprintf("%d", line.Item.Quantity), "C")
	cellMiddle(colWidths[4], line.Item.Unit, "C")
	cellMiddle(colWidths[5], trimZero(line.Item.WeightKg), "R")
	cellMiddle(colWidths[6], trimZero(line.Item.VolumeCbm), "R")
	cellMiddle(colWidths[7], fmt.Sprintf("%.2f", line.Item.RatePerUnit), "R")
	cellMiddle(colWidths[8], fmt.Sprintf("%.1f", line.Item.VATPercent), "R")
	cellMiddle(colWidths[9], fmt.Sprintf("%.2f", line.Amounts.LineTotal), "R")

	pdf.SetXY(marginX, top+rowHeight)
}

// drawTotals paints the totals block under the table on the final items page.
func drawTotals(pdf *fpdf.Fpdf, doc *document.Document) {
	t := doc.Totals
	rows := []struct {
		label string
		value float64
		bold  bool
	}{
		{"Items Subtotal", t.ItemsSubtotal, false},
		{"Charges", t.ChargesAdded, false},
		{"Amount Before Discount", t.AmountBeforeDiscount, false},
		{"Amount After Discount", t.AmountAfterDiscount, false},
		{"VAT", t.VATAmount, false},
		{"Net Total", t.NetTotal, true},
	}

	labelW := 60.0
	valueW := 36.0
	startX := pageWidth - marginX - labelW - valueW

	pdf.Ln(3)
	for _, row := range rows {
		style := ""
		if row.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.SetX(startX)
		pdf.CellFormat(labelW, 6, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, fmt.Sprintf("%.2f", row.value), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "BI", 9)
	pdf.SetX(marginX)
	pdf.MultiCell(contentWidth, 5, "Amount in words: "+t.AmountInWords, "", "L", false)
}

// drawTermsPage paints the terms-and-conditions list, the security-deposit
// sentence and the banking details block.
func drawTermsPage(pdf *fpdf.Fpdf, doc *document.Document) {
	pdf.SetY(marginTop + headerHeight)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentWidth, 8, "Terms & Conditions", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i, term := range doc.Terms.Terms {
		pdf.SetX(marginX)
		pdf.MultiCell(contentWidth, 5, fmt.Sprintf("%d. %s", i+1, term), "", "L", false)
		pdf.Ln(1)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetX(marginX)
	pdf.MultiCell(contentWidth, 5, doc.Terms.DepositNote, "", "L", false)

	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentWidth, 8, "Banking Details", "", 1, "L", false, 0, "")

	b := doc.Terms.Banking
	details := []struct{ label, value string }{
		{"Account Name", b.AccountName},
		{"Bank Name", b.BankName},
		{"Account Number", b.AccountNumber},
		{"IBAN", b.IBAN},
		{"SWIFT Code", b.SwiftCode},
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, d := range details {
		pdf.SetX(marginX)
		pdf.CellFormat(40, 6, d.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth-40, 6, d.value, "", 1, "L", false, 0, "")
	}
}

// drawFooter paints the repeating bottom band with the page counter.
func drawFooter(pdf *fpdf.Fpdf, doc *document.Document, pageNo, totalPages int) {
	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(marginX, footerY, pageWidth-marginX, footerY)

	pdf.SetY(footerY + 2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	for _, line := range doc.Footer.Lines {
		pdf.SetX(marginX)
		pdf.CellFormat(contentWidth, 4, line, "", 1, "C", false, 0, "")
	}
	pdf.SetX(marginX)
	pdf.CellFormat(contentWidth, 4, fmt.Sprintf("Page %d of %d", pageNo, totalPages), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// placeImage registers and draws a resolved image. Unsupported formats are
// skipped so a bad image never breaks the document.
func placeImage(pdf *fpdf.Fpdf, name string, img *document.Image, x, y, w, h float64) {
	imgType := imageType(img.MIME)
	if imgType == "" || len(img.Data) == 0 {
		return
	}
	opts := fpdf.ImageOptions{ImageType: imgType}
	info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if pdf.Err() {
		// A corrupt image must not take the whole document down.
		pdf.ClearError()
		return
	}
	if info == nil {
		return
	}
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func imageType(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/png":
		return "PNG"
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}

func trimZero(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

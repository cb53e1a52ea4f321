package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/quotify-api/internal/domain/entity"
	"github.com/sangkips/quotify-api/pkg/apperror"
	"github.com/sangkips/quotify-api/pkg/document"
)

type fakeSettingsRepo struct {
	settings *entity.CompanySettings
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*entity.CompanySettings, error) {
	return r.settings, nil
}

func (r *fakeSettingsRepo) Create(_ context.Context, settings *entity.CompanySettings) error {
	r.settings = settings
	return nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, settings *entity.CompanySettings) error {
	r.settings = settings
	return nil
}

type stubRenderer struct {
	lastDoc *document.Document
	err     error
}

func (r *stubRenderer) Render(_ context.Context, doc *document.Document) ([]byte, error) {
	r.lastDoc = doc
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 stub"), nil
}

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, _ document.ImageRef) (*document.Image, error) {
	return nil, errors.New("no image backend")
}

type stubMailer struct {
	to       string
	subject  string
	filename string
	payload  []byte
	err      error
}

func (m *stubMailer) SendWithAttachment(to, subject, _, filename, _ string, attachment []byte) error {
	m.to = to
	m.subject = subject
	m.filename = filename
	m.payload = attachment
	return m.err
}

func seedQuotation(t *testing.T, qr *fakeQuotationRepo, email *string) *entity.Quotation {
	t.Helper()
	quotation := &entity.Quotation{
		UserID:       uuid.New(),
		Date:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Reference:    "QT-000042",
		CustomerName: "Gulf Interiors",
		VATPercent:   5,
		Items: []entity.QuotationItem{
			{Description: "Office desk", Quantity: 2, RatePerUnit: 100, VATPercent: 5},
		},
	}
	require.NoError(t, qr.Create(context.Background(), quotation))
	if email != nil {
		qr.quotations[quotation.ID].Customer = &entity.Customer{Name: "Gulf Interiors", Email: email}
	}
	return quotation
}

func newTestDocumentService(renderer *stubRenderer, mailer *stubMailer) (*DocumentService, *fakeQuotationRepo) {
	qr := newFakeQuotationRepo()
	sr := &fakeSettingsRepo{settings: &entity.CompanySettings{
		CompanyName:   "Quotify Trading LLC",
		CurrencyMajor: "Dirhams",
		CurrencyMinor: "Fils",
		VATPercent:    5,
		PageCapacity:  10,
	}}
	return NewDocumentService(qr, sr, stubResolver{}, renderer, mailer), qr
}

func TestGeneratePDF(t *testing.T) {
	renderer := &stubRenderer{}
	svc, qr := newTestDocumentService(renderer, &stubMailer{})
	quotation := seedQuotation(t, qr, nil)

	pdf, got, err := svc.GeneratePDF(context.Background(), quotation.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "QT-000042", got.Reference)

	require.NotNil(t, renderer.lastDoc)
	assert.Equal(t, "QT-000042", renderer.lastDoc.Reference)
	assert.Equal(t, "Quotify Trading LLC", renderer.lastDoc.Header.CompanyName)
	assert.InDelta(t, 210, renderer.lastDoc.Totals.NetTotal, 0.001)
}

func TestGeneratePDFNotFound(t *testing.T) {
	svc, _ := newTestDocumentService(&stubRenderer{}, &stubMailer{})

	_, _, err := svc.GeneratePDF(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestGeneratePDFRenderFailureIsRetryable(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("font table corrupt")}
	svc, qr := newTestDocumentService(renderer, &stubMailer{})
	quotation := seedQuotation(t, qr, nil)

	_, _, err := svc.GeneratePDF(context.Background(), quotation.ID)
	require.Error(t, err)
	assert.Equal(t, 503, apperror.GetAppError(err).Code)
}

func TestEmailQuotationExplicitRecipient(t *testing.T) {
	mailer := &stubMailer{}
	svc, qr := newTestDocumentService(&stubRenderer{}, mailer)
	quotation := seedQuotation(t, qr, nil)

	require.NoError(t, svc.EmailQuotation(context.Background(), quotation.ID, "buyer@example.com"))
	assert.Equal(t, "buyer@example.com", mailer.to)
	assert.Equal(t, "Quotation QT-000042", mailer.subject)
	assert.Equal(t, "QT-000042.pdf", mailer.filename)
	assert.NotEmpty(t, mailer.payload)
}

func TestEmailQuotationFallsBackToCustomerEmail(t *testing.T) {
	mailer := &stubMailer{}
	svc, qr := newTestDocumentService(&stubRenderer{}, mailer)
	email := "accounts@gulfinteriors.ae"
	quotation := seedQuotation(t, qr, &email)

	require.NoError(t, svc.EmailQuotation(context.Background(), quotation.ID, ""))
	assert.Equal(t, email, mailer.to)
}

func TestEmailQuotationMissingRecipient(t *testing.T) {
	svc, qr := newTestDocumentService(&stubRenderer{}, &stubMailer{})
	quotation := seedQuotation(t, qr, nil)

	err := svc.EmailQuotation(context.Background(), quotation.ID, "")
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestEmailQuotationSendFailure(t *testing.T) {
	mailer := &stubMailer{err: errors.New("smtp: connection refused")}
	svc, qr := newTestDocumentService(&stubRenderer{}, mailer)
	quotation := seedQuotation(t, qr, nil)

	err := svc.EmailQuotation(context.Background(), quotation.ID, "buyer@example.com")
	require.Error(t, err)
	assert.Equal(t, 503, apperror.GetAppError(err).Code)
}

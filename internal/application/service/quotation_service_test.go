package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/quotify-api/internal/domain/entity"
	"github.com/sangkips/quotify-api/internal/domain/enum"
	"github.com/sangkips/quotify-api/internal/domain/repository"
	"github.com/sangkips/quotify-api/pkg/apperror"
	"github.com/sangkips/quotify-api/pkg/money"
	"github.com/sangkips/quotify-api/pkg/pagination"
)

type fakeQuotationRepo struct {
	quotations map[uuid.UUID]*entity.Quotation
	items      map[uuid.UUID][]entity.QuotationItem
	nextRef    int
}

func newFakeQuotationRepo() *fakeQuotationRepo {
	return &fakeQuotationRepo{
		quotations: make(map[uuid.UUID]*entity.Quotation),
		items:      make(map[uuid.UUID][]entity.QuotationItem),
		nextRef:    1,
	}
}

func (r *fakeQuotationRepo) Create(_ context.Context, quotation *entity.Quotation) error {
	if quotation.ID == uuid.Nil {
		quotation.ID = uuid.New()
	}
	items := make([]entity.QuotationItem, len(quotation.Items))
	copy(items, quotation.Items)
	for i := range items {
		items[i].QuotationID = quotation.ID
	}
	r.items[quotation.ID] = items
	stored := *quotation
	stored.Items = nil
	r.quotations[quotation.ID] = &stored
	r.nextRef++
	return nil
}

func (r *fakeQuotationRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Quotation, error) {
	q, ok := r.quotations[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuotationRepo) GetByReference(_ context.Context, reference string) (*entity.Quotation, error) {
	for _, q := range r.quotations {
		if q.Reference == reference {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeQuotationRepo) GetWithItems(_ context.Context, id uuid.UUID) (*entity.Quotation, error) {
	q, ok := r.quotations[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	items := make([]entity.QuotationItem, len(r.items[id]))
	copy(items, r.items[id])
	sort.Slice(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
	cp.Items = items
	return &cp, nil
}

func (r *fakeQuotationRepo) Update(_ context.Context, quotation *entity.Quotation) error {
	stored := *quotation
	stored.Items = nil
	r.quotations[quotation.ID] = &stored
	return nil
}

func (r *fakeQuotationRepo) ReplaceItems(_ context.Context, quotationID uuid.UUID, items []entity.QuotationItem) error {
	replaced := make([]entity.QuotationItem, len(items))
	copy(replaced, items)
	for i := range replaced {
		replaced[i].QuotationID = quotationID
		replaced[i].SortOrder = i
	}
	r.items[quotationID] = replaced
	return nil
}

func (r *fakeQuotationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.quotations, id)
	delete(r.items, id)
	return nil
}

func (r *fakeQuotationRepo) List(_ context.Context, userID uuid.UUID, _ *repository.QuotationFilterParams) ([]entity.Quotation, int64, error) {
	var out []entity.Quotation
	for _, q := range r.quotations {
		if userID != uuid.Nil && q.UserID != userID {
			continue
		}
		out = append(out, *q)
	}
	return out, int64(len(out)), nil
}

func (r *fakeQuotationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.QuotationStatus) error {
	if q, ok := r.quotations[id]; ok {
		q.Status = status
	}
	return nil
}

func (r *fakeQuotationRepo) GetNextReferenceNumber(_ context.Context) (int, error) {
	return r.nextRef, nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *fakeCustomerRepo) GetByEmail(_ context.Context, _ string) (*entity.Customer, error) {
	return nil, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _ uuid.UUID, _ *pagination.PaginationParams, _ string) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func newTestQuotationService(t *testing.T) (*QuotationService, *fakeQuotationRepo, *fakeCustomerRepo) {
	t.Helper()
	qr := newFakeQuotationRepo()
	cr := newFakeCustomerRepo()
	return NewQuotationService(qr, cr), qr, cr
}

func TestCreateQuotationComputesTotals(t *testing.T) {
	svc, _, cr := newTestQuotationService(t)
	ctx := context.Background()

	customer := &entity.Customer{Name: "Gulf Interiors"}
	require.NoError(t, cr.Create(ctx, customer))

	quotation, err := svc.CreateQuotation(ctx, &CreateQuotationInput{
		UserID:     uuid.New(),
		CustomerID: &customer.ID,
		Date:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Discount:   10,
		Items: []QuotationItemInput{
			{Description: "Office desk", Quantity: 10, Unit: "pcs", RatePerUnit: 100},
			{Description: "Delivery crate", Quantity: 5, Unit: "pcs", RatePerUnit: 200},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "QT-000001", quotation.Reference)
	assert.Equal(t, "Gulf Interiors", quotation.CustomerName)
	assert.InDelta(t, 2000, quotation.ItemsSubtotal, 0.001)
	assert.InDelta(t, 1800, quotation.AmountAfterDiscount, 0.001)
	assert.InDelta(t, 90, quotation.VATAmount, 0.001)
	assert.InDelta(t, 1890, quotation.NetTotal, 0.001)

	require.Len(t, quotation.Items, 2)
	assert.Equal(t, 0, quotation.Items[0].SortOrder)
	assert.Equal(t, 1, quotation.Items[1].SortOrder)
	assert.InDelta(t, 1000, quotation.Items[0].TaxableAmount, 0.001)
	assert.InDelta(t, 1050, quotation.Items[0].LineTotal, 0.001)
}

func TestCreateQuotationCustomerNotFound(t *testing.T) {
	svc, _, _ := newTestQuotationService(t)

	missing := uuid.New()
	_, err := svc.CreateQuotation(context.Background(), &CreateQuotationInput{
		UserID:     uuid.New(),
		CustomerID: &missing,
		Date:       time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestCreateQuotationRejectsOverBaseDiscount(t *testing.T) {
	svc, qr, _ := newTestQuotationService(t)

	_, err := svc.CreateQuotation(context.Background(), &CreateQuotationInput{
		UserID:       uuid.New(),
		Date:         time.Now(),
		Discount:     500,
		DiscountType: money.DiscountFixed,
		Items: []QuotationItemInput{
			{Description: "Sample", Quantity: 1, RatePerUnit: 100},
		},
	})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)
	assert.Empty(t, qr.quotations)
}

func TestUpdateQuotationReplacesItems(t *testing.T) {
	svc, qr, _ := newTestQuotationService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.CreateQuotation(ctx, &CreateQuotationInput{
		UserID: userID,
		Date:   time.Now(),
		Items: []QuotationItemInput{
			{Description: "Old line A", Quantity: 1, RatePerUnit: 100},
			{Description: "Old line B", Quantity: 1, RatePerUnit: 100},
			{Description: "Old line C", Quantity: 1, RatePerUnit: 100},
		},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateQuotation(ctx, &UpdateQuotationInput{
		UserID: userID,
		ID:     created.ID,
		Date:   created.Date,
		Status: enum.QuotationStatusSent,
		Items: []QuotationItemInput{
			{Description: "New line", Quantity: 2, RatePerUnit: 50},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, "New line", updated.Items[0].Description)
	assert.InDelta(t, 100, updated.ItemsSubtotal, 0.001)
	assert.InDelta(t, 105, updated.NetTotal, 0.001)
	assert.Equal(t, enum.QuotationStatusSent, updated.Status)
	assert.Len(t, qr.items[created.ID], 1)
}

func TestUpdateQuotationForbiddenForNonOwner(t *testing.T) {
	svc, _, _ := newTestQuotationService(t)
	ctx := context.Background()

	created, err := svc.CreateQuotation(ctx, &CreateQuotationInput{
		UserID: uuid.New(),
		Date:   time.Now(),
		Items:  []QuotationItemInput{{Description: "Line", Quantity: 1, RatePerUnit: 10}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateQuotation(ctx, &UpdateQuotationInput{
		UserID: uuid.New(),
		ID:     created.ID,
		Date:   created.Date,
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = svc.DeleteQuotation(ctx, uuid.New(), created.ID, false)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeleteQuotationAsAdmin(t *testing.T) {
	svc, qr, _ := newTestQuotationService(t)
	ctx := context.Background()

	created, err := svc.CreateQuotation(ctx, &CreateQuotationInput{
		UserID: uuid.New(),
		Date:   time.Now(),
		Items:  []QuotationItemInput{{Description: "Line", Quantity: 1, RatePerUnit: 10}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuotation(ctx, uuid.New(), created.ID, true))
	assert.Empty(t, qr.quotations)
}

func TestUpdateQuotationStatus(t *testing.T) {
	svc, qr, _ := newTestQuotationService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.CreateQuotation(ctx, &CreateQuotationInput{
		UserID: userID,
		Date:   time.Now(),
		Items:  []QuotationItemInput{{Description: "Line", Quantity: 1, RatePerUnit: 10}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuotationStatus(ctx, userID, created.ID, enum.QuotationStatusAccepted, false))
	assert.Equal(t, enum.QuotationStatusAccepted, qr.quotations[created.ID].Status)
}

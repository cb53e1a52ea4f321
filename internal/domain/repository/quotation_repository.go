package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/quotify-api/internal/domain/entity"
	"github.com/sangkips/quotify-api/internal/domain/enum"
	"github.com/sangkips/quotify-api/pkg/pagination"
)

// QuotationRepository defines the interface for quotation data operations
type QuotationRepository interface {
	Create(ctx context.Context, quotation *entity.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	GetByReference(ctx context.Context, reference string) (*entity.Quotation, error)
	// GetWithItems returns the quotation with its items ordered by sort order,
	// plus the customer relation.
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	Update(ctx context.Context, quotation *entity.Quotation) error
	// ReplaceItems deletes the quotation's items and inserts the given set in
	// a single transaction.
	ReplaceItems(ctx context.Context, quotationID uuid.UUID, items []entity.QuotationItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *QuotationFilterParams) ([]entity.Quotation, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.QuotationStatus) error
	GetNextReferenceNumber(ctx context.Context) (int, error)
}

// QuotationFilterParams contains filtering parameters for quotation queries
type QuotationFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuotationStatus
	CustomerID *uuid.UUID
	SortBy     string
	SortOrder  string
}

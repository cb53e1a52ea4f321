package repository

import (
	"context"

	"github.com/sangkips/quotify-api/internal/domain/entity"
)

// SettingsRepository defines the interface for company settings operations.
// A single settings row is seeded at startup; Get returns it.
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.CompanySettings, error)
	Create(ctx context.Context, settings *entity.CompanySettings) error
	Update(ctx context.Context, settings *entity.CompanySettings) error
}

package readstore

import (
	"context"

	"deskhive/internal/domain/property"
	"deskhive/internal/infra/db"
	"deskhive/internal/infra/repository"

	"github.com/google/uuid"
)

// PropertyReadStore rebuilds the domain property for read-side
// availability checks. It reuses the command-side snapshot query so
// both sides see the same shape.
type PropertyReadStore struct {
	reads *repository.CommandReads
}

func NewPropertyReadStore(db db.DBTX) *PropertyReadStore {
	return &PropertyReadStore{reads: repository.NewCommandReads(db)}
}

func (r *PropertyReadStore) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	snap, err := r.reads.PropertyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return property.ReconstructProperty(
		snap.ID,
		snap.OwnerID,
		snap.Rates,
		snap.Discounts,
		snap.Blocked,
		snap.Hours,
		snap.Status,
	), nil
}

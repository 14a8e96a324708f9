package store

import (
	"context"
	"fmt"

	"labcheckout/internal/checkout/models"
	dErrors "labcheckout/pkg/domain-errors"
)

// InMemoryAssetStore keeps the asset registry.
type InMemoryAssetStore struct {
	registry *Registry[models.Asset]
}

// NewAssetStore creates an asset store holding at most capacity assets (0 = unbounded).
func NewAssetStore(capacity int) *InMemoryAssetStore {
	return &InMemoryAssetStore{registry: NewRegistry[models.Asset]("Asset", capacity)}
}

func (s *InMemoryAssetStore) Add(ctx context.Context, asset *models.Asset) error {
	return s.registry.Add(ctx, *asset)
}

func (s *InMemoryAssetStore) FindByID(ctx context.Context, assetID string) (*models.Asset, error) {
	asset, err := s.registry.Find(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *InMemoryAssetStore) List(ctx context.Context) ([]*models.Asset, error) {
	items := s.registry.List(ctx)
	out := make([]*models.Asset, 0, len(items))
	for i := range items {
		out = append(out, &items[i])
	}
	return out, nil
}

// MarkBorrowed flips the asset to unavailable. The check and the flip happen
// under one lock, so of two racing callers exactly one succeeds.
func (s *InMemoryAssetStore) MarkBorrowed(ctx context.Context, assetID string) (*models.Asset, error) {
	asset, err := s.registry.Update(ctx, assetID, func(a *models.Asset) error {
		if !a.Available {
			return &dErrors.Error{
				Code:    dErrors.CodeConflict,
				Reason:  dErrors.ReasonAlreadyBorrowed,
				Key:     a.ID,
				Message: fmt.Sprintf("Asset already borrowed: %s", a.ID),
			}
		}
		a.Available = false
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// Release makes the asset available again. It undoes a MarkBorrowed whose
// checkout could not be completed.
func (s *InMemoryAssetStore) Release(ctx context.Context, assetID string) error {
	_, err := s.registry.Update(ctx, assetID, func(a *models.Asset) error {
		a.Available = true
		return nil
	})
	return err
}

// Len reports how many assets are registered.
func (s *InMemoryAssetStore) Len() int {
	return s.registry.Len()
}

// Capacity is the registry's fixed size, 0 when it grows on demand.
func (s *InMemoryAssetStore) Capacity() int {
	return s.registry.Capacity()
}

// AvailableCount reports how many registered assets can be checked out.
func (s *InMemoryAssetStore) AvailableCount() int {
	n := 0
	for _, a := range s.registry.List(context.Background()) {
		if a.Available {
			n++
		}
	}
	return n
}

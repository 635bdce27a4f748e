// Package service implements the asset management operations on top of the
// persistence boundary: CRUD, cross-variant sorting, office and user scoped
// queries, and the statistics report.
package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"asset-tracking-api/internal/models"
	"asset-tracking-api/internal/store"
)

// AssetService orchestrates every asset operation. It is synchronous: each
// call completes its store interaction, including cascading association
// changes, before returning.
type AssetService struct {
	store store.Store
}

// New creates a service over the given store.
func New(st store.Store) *AssetService {
	return &AssetService{store: st}
}

// AddAsset validates and persists a new asset, returning it with its
// store-assigned identifier.
func (s *AssetService) AddAsset(ctx context.Context, a *models.Asset) (*models.Asset, error) {
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("add asset: %w", err)
	}
	id, err := s.store.InsertAsset(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("add asset: %w", err)
	}
	out := a.Clone()
	out.ID = id
	return out, nil
}

// GetAssetByID looks up an asset under its variant tag. There is no
// cross-variant lookup: the caller must know the kind.
func (s *AssetService) GetAssetByID(ctx context.Context, kind models.AssetKind, id int64) (*models.Asset, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("get asset: %w: unknown kind %q", models.ErrInvalid, kind)
	}
	a, err := s.store.GetAsset(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("get asset %d: %w", id, err)
	}
	return a, nil
}

// AllAssetsSorted returns every asset in a total order: laptops before
// phones, then ascending purchase date, then ascending identifier so ties
// are broken deterministically.
func (s *AssetService) AllAssetsSorted(ctx context.Context) ([]models.Asset, error) {
	assets, err := s.store.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	sort.SliceStable(assets, func(i, j int) bool {
		a, b := &assets[i], &assets[j]
		if a.Kind.IsPhone() != b.Kind.IsPhone() {
			return !a.Kind.IsPhone()
		}
		if !a.PurchaseDate.Equal(b.PurchaseDate) {
			return a.PurchaseDate.Before(b.PurchaseDate)
		}
		return a.ID < b.ID
	})
	return assets, nil
}

// UpdateAsset replaces the mutable fields of an existing record. The record
// is validated as a whole, so a payload that stopped matching its kind is
// rejected before the store is touched.
func (s *AssetService) UpdateAsset(ctx context.Context, a *models.Asset) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	if err := s.store.UpdateAsset(ctx, a); err != nil {
		return fmt.Errorf("update asset %d: %w", a.ID, err)
	}
	return nil
}

// DeleteAsset removes an asset together with its association rows. The
// associations go first so no orphaned pair survives even without a
// database-level cascade.
func (s *AssetService) DeleteAsset(ctx context.Context, kind models.AssetKind, id int64) error {
	if _, err := s.store.GetAsset(ctx, kind, id); err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}
	if err := s.store.RemoveAssetAssociations(ctx, id); err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}
	if err := s.store.DeleteAsset(ctx, kind, id); err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}
	return nil
}

// AssignAssetToOffice sets the asset's office reference after checking that
// both sides exist. On any miss nothing is mutated.
func (s *AssetService) AssignAssetToOffice(ctx context.Context, kind models.AssetKind, assetID, officeID int64) error {
	a, err := s.store.GetAsset(ctx, kind, assetID)
	if err != nil {
		return fmt.Errorf("assign asset %d to office %d: %w", assetID, officeID, err)
	}
	if _, err := s.store.GetOffice(ctx, officeID); err != nil {
		return fmt.Errorf("assign asset %d to office %d: %w", assetID, officeID, err)
	}
	a.OfficeID = &officeID
	if err := s.store.UpdateAsset(ctx, a); err != nil {
		return fmt.Errorf("assign asset %d to office %d: %w", assetID, officeID, err)
	}
	return nil
}

// AssignAssetToUser records that the user holds the asset.
func (s *AssetService) AssignAssetToUser(ctx context.Context, kind models.AssetKind, assetID, userID int64) error {
	if _, err := s.store.GetAsset(ctx, kind, assetID); err != nil {
		return fmt.Errorf("assign asset %d to user %d: %w", assetID, userID, err)
	}
	if err := s.store.AssignUser(ctx, assetID, userID); err != nil {
		return fmt.Errorf("assign asset %d to user %d: %w", assetID, userID, err)
	}
	return nil
}

// AssetsByOffice returns the assets referencing the office, oldest purchase
// first, the order the office report is read in.
func (s *AssetService) AssetsByOffice(ctx context.Context, officeID int64) ([]models.Asset, error) {
	assets, err := s.store.AssetsByOffice(ctx, officeID)
	if err != nil {
		return nil, fmt.Errorf("assets by office %d: %w", officeID, err)
	}
	sort.SliceStable(assets, func(i, j int) bool {
		a, b := &assets[i], &assets[j]
		if !a.PurchaseDate.Equal(b.PurchaseDate) {
			return a.PurchaseDate.Before(b.PurchaseDate)
		}
		return a.ID < b.ID
	})
	return assets, nil
}

// AssetsByUser returns the assets assigned to a user. A store failure here
// is recovered to an empty result with a diagnostic: listing assets must not
// take down an interactive session.
func (s *AssetService) AssetsByUser(ctx context.Context, userID int64) []models.Asset {
	assets, err := s.store.AssetsByUser(ctx, userID)
	if err != nil {
		log.Printf("retrieving assets for user %d: %v", userID, err)
		return []models.Asset{}
	}
	sort.SliceStable(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets
}

// Office looks up a single office.
func (s *AssetService) Office(ctx context.Context, id int64) (*models.Office, error) {
	o, err := s.store.GetOffice(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get office %d: %w", id, err)
	}
	return o, nil
}

// Offices lists all offices.
func (s *AssetService) Offices(ctx context.Context) ([]models.Office, error) {
	offices, err := s.store.ListOffices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offices: %w", err)
	}
	return offices, nil
}

// RemoveUser deletes a user and every association row referencing it. The
// held assets themselves survive.
func (s *AssetService) RemoveUser(ctx context.Context, id int64) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("remove user %d: %w", id, err)
	}
	return nil
}

// Users lists all users.
func (s *AssetService) Users(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Package store defines the persistence boundary of the asset tracker and
// provides its Postgres and in-memory backends.
package store

import (
	"context"
	"errors"

	"asset-tracking-api/internal/models"
)

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Store is the narrow interface the service layer depends on. Asset lookups
// are kind-scoped: an id only resolves together with its variant tag.
// Association cleanup on asset deletion is driven by the service, not by the
// backend, so every backend exposes it as an explicit operation.
type Store interface {
	InsertAsset(ctx context.Context, a *models.Asset) (int64, error)
	GetAsset(ctx context.Context, kind models.AssetKind, id int64) (*models.Asset, error)
	UpdateAsset(ctx context.Context, a *models.Asset) error
	DeleteAsset(ctx context.Context, kind models.AssetKind, id int64) error
	ListAssets(ctx context.Context) ([]models.Asset, error)
	AssetsByOffice(ctx context.Context, officeID int64) ([]models.Asset, error)
	AssetsByUser(ctx context.Context, userID int64) ([]models.Asset, error)

	GetOffice(ctx context.Context, id int64) (*models.Office, error)
	ListOffices(ctx context.Context) ([]models.Office, error)

	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// DeleteUser removes the user together with its association rows.
	DeleteUser(ctx context.Context, id int64) error

	AssignUser(ctx context.Context, assetID, userID int64) error
	RemoveAssetAssociations(ctx context.Context, assetID int64) error
}

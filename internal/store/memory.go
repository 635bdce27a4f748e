package store

import (
	"context"
	"fmt"
	"sync/atomic"

	memdb "github.com/hashicorp/go-memdb"

	"asset-tracking-api/internal/models"
)

const (
	tableAssets     = "assets"
	tableOffices    = "offices"
	tableUsers      = "users"
	tableAssetUsers = "asset_users"
)

var memSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableAssets: {
			Name: tableAssets,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
			},
		},
		tableOffices: {
			Name: tableOffices,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
			},
		},
		tableUsers: {
			Name: tableUsers,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
			},
		},
		tableAssetUsers: {
			Name: tableAssetUsers,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:   "id",
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.IntFieldIndex{Field: "AssetID"},
							&memdb.IntFieldIndex{Field: "UserID"},
						},
					},
				},
				"asset": {
					Name:    "asset",
					Indexer: &memdb.IntFieldIndex{Field: "AssetID"},
				},
				"user": {
					Name:    "user",
					Indexer: &memdb.IntFieldIndex{Field: "UserID"},
				},
			},
		},
	},
}

// MemoryStore is a Store backed by an in-memory database. It serves the test
// suite and DSN-less development runs. Records are cloned on the way in and
// out so callers never share memory with the store.
type MemoryStore struct {
	db      *memdb.MemDB
	assetID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() (*MemoryStore, error) {
	db, err := memdb.NewMemDB(memSchema)
	if err != nil {
		return nil, fmt.Errorf("memory store: %w", err)
	}
	return &MemoryStore{db: db}, nil
}

// Seed loads the fixture into the store. The identifier sequence continues
// after the highest seeded asset id.
func (m *MemoryStore) Seed(data *SeedData) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	for i := range data.Offices {
		o := data.Offices[i]
		if err := txn.Insert(tableOffices, &o); err != nil {
			return fmt.Errorf("seed office %d: %w", o.ID, err)
		}
	}
	for i := range data.Users {
		u := data.Users[i]
		if err := txn.Insert(tableUsers, &u); err != nil {
			return fmt.Errorf("seed user %d: %w", u.ID, err)
		}
	}
	for i := range data.Assets {
		a := data.Assets[i].Clone()
		if err := txn.Insert(tableAssets, a); err != nil {
			return fmt.Errorf("seed asset %d: %w", a.ID, err)
		}
		if a.ID > atomic.LoadInt64(&m.assetID) {
			atomic.StoreInt64(&m.assetID, a.ID)
		}
	}
	for _, p := range data.Assignments {
		pair := p
		if err := txn.Insert(tableAssetUsers, &pair); err != nil {
			return fmt.Errorf("seed assignment (%d,%d): %w", p.AssetID, p.UserID, err)
		}
	}

	txn.Commit()
	return nil
}

// InsertAsset stores a new asset under the next free identifier.
func (m *MemoryStore) InsertAsset(_ context.Context, a *models.Asset) (int64, error) {
	id := atomic.AddInt64(&m.assetID, 1)
	rec := a.Clone()
	rec.ID = id

	txn := m.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableAssets, rec); err != nil {
		return 0, fmt.Errorf("insert asset: %w", err)
	}
	txn.Commit()
	return id, nil
}

func (m *MemoryStore) GetAsset(_ context.Context, kind models.AssetKind, id int64) (*models.Asset, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()
	return getAssetTxn(txn, kind, id)
}

func getAssetTxn(txn *memdb.Txn, kind models.AssetKind, id int64) (*models.Asset, error) {
	raw, err := txn.First(tableAssets, "id", id)
	if err != nil {
		return nil, fmt.Errorf("get asset %d: %w", id, err)
	}
	a, ok := raw.(*models.Asset)
	if !ok || a.Kind != kind {
		// A hit under another variant tag is still "absent" to the caller.
		return nil, ErrNotFound
	}
	return a.Clone(), nil
}

// UpdateAsset replaces the stored record with the same kind and id.
func (m *MemoryStore) UpdateAsset(_ context.Context, a *models.Asset) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	if _, err := getAssetTxn(txn, a.Kind, a.ID); err != nil {
		return err
	}
	if err := txn.Insert(tableAssets, a.Clone()); err != nil {
		return fmt.Errorf("update asset %d: %w", a.ID, err)
	}
	txn.Commit()
	return nil
}

func (m *MemoryStore) DeleteAsset(_ context.Context, kind models.AssetKind, id int64) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	rec, err := getAssetTxn(txn, kind, id)
	if err != nil {
		return err
	}
	if err := txn.Delete(tableAssets, rec); err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}
	txn.Commit()
	return nil
}

func (m *MemoryStore) ListAssets(_ context.Context) ([]models.Asset, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableAssets, "id")
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	assets := []models.Asset{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		assets = append(assets, *raw.(*models.Asset).Clone())
	}
	return assets, nil
}

func (m *MemoryStore) AssetsByOffice(_ context.Context, officeID int64) ([]models.Asset, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableAssets, "id")
	if err != nil {
		return nil, fmt.Errorf("assets by office %d: %w", officeID, err)
	}
	assets := []models.Asset{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		a := raw.(*models.Asset)
		if a.OfficeID != nil && *a.OfficeID == officeID {
			assets = append(assets, *a.Clone())
		}
	}
	return assets, nil
}

func (m *MemoryStore) AssetsByUser(_ context.Context, userID int64) ([]models.Asset, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableAssetUsers, "user", userID)
	if err != nil {
		return nil, fmt.Errorf("assets by user %d: %w", userID, err)
	}
	assets := []models.Asset{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		pair := raw.(*models.AssetUser)
		rawAsset, err := txn.First(tableAssets, "id", pair.AssetID)
		if err != nil {
			return nil, fmt.Errorf("assets by user %d: %w", userID, err)
		}
		if rawAsset != nil {
			assets = append(assets, *rawAsset.(*models.Asset).Clone())
		}
	}
	return assets, nil
}

func (m *MemoryStore) GetOffice(_ context.Context, id int64) (*models.Office, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableOffices, "id", id)
	if err != nil {
		return nil, fmt.Errorf("get office %d: %w", id, err)
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	o := *raw.(*models.Office)
	return &o, nil
}

func (m *MemoryStore) ListOffices(_ context.Context) ([]models.Office, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableOffices, "id")
	if err != nil {
		return nil, fmt.Errorf("list offices: %w", err)
	}
	offices := []models.Office{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		offices = append(offices, *raw.(*models.Office))
	}
	return offices, nil
}

func (m *MemoryStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableUsers, "id", id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	u := *raw.(*models.User)
	return &u, nil
}

func (m *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableUsers, "id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := []models.User{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		users = append(users, *raw.(*models.User))
	}
	return users, nil
}

// DeleteUser removes the user and every association row referencing it, so
// no orphaned pair survives.
func (m *MemoryStore) DeleteUser(_ context.Context, id int64) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableUsers, "id", id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if raw == nil {
		return ErrNotFound
	}
	if _, err := txn.DeleteAll(tableAssetUsers, "user", id); err != nil {
		return fmt.Errorf("delete user %d associations: %w", id, err)
	}
	if err := txn.Delete(tableUsers, raw); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	txn.Commit()
	return nil
}

// AssignUser records that the user holds the asset. Re-assigning an existing
// pair is a no-op, preserving the at-most-once invariant.
func (m *MemoryStore) AssignUser(_ context.Context, assetID, userID int64) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	rawAsset, err := txn.First(tableAssets, "id", assetID)
	if err != nil {
		return fmt.Errorf("assign user: %w", err)
	}
	rawUser, err := txn.First(tableUsers, "id", userID)
	if err != nil {
		return fmt.Errorf("assign user: %w", err)
	}
	if rawAsset == nil || rawUser == nil {
		return ErrNotFound
	}
	existing, err := txn.First(tableAssetUsers, "id", assetID, userID)
	if err != nil {
		return fmt.Errorf("assign user: %w", err)
	}
	if existing != nil {
		return nil
	}
	if err := txn.Insert(tableAssetUsers, &models.AssetUser{AssetID: assetID, UserID: userID}); err != nil {
		return fmt.Errorf("assign user: %w", err)
	}
	txn.Commit()
	return nil
}

// RemoveAssetAssociations deletes every association row for the asset.
func (m *MemoryStore) RemoveAssetAssociations(_ context.Context, assetID int64) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(tableAssetUsers, "asset", assetID); err != nil {
		return fmt.Errorf("remove associations for asset %d: %w", assetID, err)
	}
	txn.Commit()
	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"asset-tracking-api/internal/models"
)

// PostgresStore is a Store backed by Postgres through the pgx stdlib driver.
// All six variants live in one assets table: a kind discriminator plus
// nullable variant columns, only the columns of the record's own variant are
// populated. The schema is expected to exist; migrations are handled outside
// this module.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens and pings a connection for the given DSN.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

const assetColumns = `id, kind, manufacturer, model, purchase_date, price, office_id,
	processor_type, memory_gb, storage_capacity, color`

// scanAsset reads one assets row and rebuilds the variant payload from the
// nullable columns.
func scanAsset(row interface{ Scan(...interface{}) error }) (*models.Asset, error) {
	var (
		a               models.Asset
		officeID        sql.NullInt64
		processorType   sql.NullString
		memoryGB        sql.NullInt64
		storageCapacity sql.NullString
		color           sql.NullString
	)
	err := row.Scan(&a.ID, &a.Kind, &a.Manufacturer, &a.Model, &a.PurchaseDate, &a.Price,
		&officeID, &processorType, &memoryGB, &storageCapacity, &color)
	if err != nil {
		return nil, err
	}
	if officeID.Valid {
		a.OfficeID = &officeID.Int64
	}
	if a.Kind.IsPhone() {
		a.Phone = &models.PhoneSpec{
			StorageCapacity: storageCapacity.String,
			Color:           color.String,
		}
	} else {
		a.Laptop = &models.LaptopSpec{
			ProcessorType: processorType.String,
			MemoryGB:      int(memoryGB.Int64),
		}
	}
	return &a, nil
}

// variantColumns splits the payload into the nullable column values.
func variantColumns(a *models.Asset) (processorType, storageCapacity, color interface{}, memoryGB interface{}) {
	if a.Laptop != nil {
		processorType = a.Laptop.ProcessorType
		memoryGB = a.Laptop.MemoryGB
	}
	if a.Phone != nil {
		storageCapacity = a.Phone.StorageCapacity
		color = a.Phone.Color
	}
	return processorType, storageCapacity, color, memoryGB
}

func officeIDValue(a *models.Asset) interface{} {
	if a.OfficeID == nil {
		return nil
	}
	return *a.OfficeID
}

func (s *PostgresStore) InsertAsset(ctx context.Context, a *models.Asset) (int64, error) {
	processorType, storageCapacity, color, memoryGB := variantColumns(a)
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO assets (kind, manufacturer, model, purchase_date, price, office_id,
			processor_type, memory_gb, storage_capacity, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		a.Kind, a.Manufacturer, a.Model, a.PurchaseDate, a.Price, officeIDValue(a),
		processorType, memoryGB, storageCapacity, color).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert asset: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) GetAsset(ctx context.Context, kind models.AssetKind, id int64) (*models.Asset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+assetColumns+`
		FROM assets WHERE id = $1 AND kind = $2`, id, kind)
	a, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get asset %d: %w", id, err)
	}
	return a, nil
}

func (s *PostgresStore) UpdateAsset(ctx context.Context, a *models.Asset) error {
	processorType, storageCapacity, color, memoryGB := variantColumns(a)
	res, err := s.db.ExecContext(ctx, `
		UPDATE assets
		SET manufacturer = $1, model = $2, purchase_date = $3, price = $4, office_id = $5,
			processor_type = $6, memory_gb = $7, storage_capacity = $8, color = $9
		WHERE id = $10 AND kind = $11`,
		a.Manufacturer, a.Model, a.PurchaseDate, a.Price, officeIDValue(a),
		processorType, memoryGB, storageCapacity, color, a.ID, a.Kind)
	if err != nil {
		return fmt.Errorf("update asset %d: %w", a.ID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteAsset(ctx context.Context, kind models.AssetKind, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1 AND kind = $2`, id, kind)
	if err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListAssets(ctx context.Context) ([]models.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

func (s *PostgresStore) AssetsByOffice(ctx context.Context, officeID int64) ([]models.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+assetColumns+`
		FROM assets WHERE office_id = $1 ORDER BY id`, officeID)
	if err != nil {
		return nil, fmt.Errorf("assets by office %d: %w", officeID, err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

func (s *PostgresStore) AssetsByUser(ctx context.Context, userID int64) ([]models.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.kind, a.manufacturer, a.model, a.purchase_date, a.price, a.office_id,
			a.processor_type, a.memory_gb, a.storage_capacity, a.color
		FROM assets a
		JOIN asset_users au ON au.asset_id = a.id
		WHERE au.user_id = $1 ORDER BY a.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("assets by user %d: %w", userID, err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

func collectAssets(rows *sql.Rows) ([]models.Asset, error) {
	assets := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, nil
}

func (s *PostgresStore) GetOffice(ctx context.Context, id int64) (*models.Office, error) {
	var o models.Office
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, country FROM offices WHERE id = $1`, id).
		Scan(&o.ID, &o.Name, &o.Country)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get office %d: %w", id, err)
	}
	return &o, nil
}

func (s *PostgresStore) ListOffices(ctx context.Context) ([]models.Office, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, country FROM offices ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list offices: %w", err)
	}
	defer rows.Close()

	offices := []models.Office{}
	for rows.Next() {
		var o models.Office
		if err := rows.Scan(&o.ID, &o.Name, &o.Country); err != nil {
			return nil, fmt.Errorf("scan office: %w", err)
		}
		offices = append(offices, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offices: %w", err)
	}
	return offices, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM users WHERE id = $1`, id).Scan(&u.ID, &u.Name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// DeleteUser removes the user and its association rows in one transaction.
func (s *PostgresStore) DeleteUser(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM asset_users WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete user %d associations: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// AssignUser records the pair; an existing pair is left untouched.
func (s *PostgresStore) AssignUser(ctx context.Context, assetID, userID int64) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM assets WHERE id = $1)
			AND EXISTS(SELECT 1 FROM users WHERE id = $2)`, assetID, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("assign user: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO asset_users (asset_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (asset_id, user_id) DO NOTHING`, assetID, userID)
	if err != nil {
		return fmt.Errorf("assign user: %w", err)
	}
	return nil
}

func (s *PostgresStore) RemoveAssetAssociations(ctx context.Context, assetID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM asset_users WHERE asset_id = $1`, assetID); err != nil {
		return fmt.Errorf("remove associations for asset %d: %w", assetID, err)
	}
	return nil
}

// Seed loads the fixture when the offices table is still empty, then bumps
// the assets sequence past the seeded ids.
func (s *PostgresStore) Seed(ctx context.Context, data *SeedData) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM offices`).Scan(&count); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer tx.Rollback()

	for _, o := range data.Offices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO offices (id, name, country) VALUES ($1, $2, $3)`,
			o.ID, o.Name, o.Country); err != nil {
			return fmt.Errorf("seed office %d: %w", o.ID, err)
		}
	}
	for _, u := range data.Users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, name) VALUES ($1, $2)`, u.ID, u.Name); err != nil {
			return fmt.Errorf("seed user %d: %w", u.ID, err)
		}
	}
	for i := range data.Assets {
		a := &data.Assets[i]
		processorType, storageCapacity, color, memoryGB := variantColumns(a)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO assets (id, kind, manufacturer, model, purchase_date, price, office_id,
				processor_type, memory_gb, storage_capacity, color)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			a.ID, a.Kind, a.Manufacturer, a.Model, a.PurchaseDate, a.Price, officeIDValue(a),
			processorType, memoryGB, storageCapacity, color); err != nil {
			return fmt.Errorf("seed asset %d: %w", a.ID, err)
		}
	}
	for _, p := range data.Assignments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO asset_users (asset_id, user_id) VALUES ($1, $2)`,
			p.AssetID, p.UserID); err != nil {
			return fmt.Errorf("seed assignment (%d,%d): %w", p.AssetID, p.UserID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `
		SELECT setval(pg_get_serial_sequence('assets', 'id'),
			(SELECT COALESCE(MAX(id), 1) FROM assets))`); err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return tx.Commit()
}

package models

// User represents a person assets can be assigned to.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AssetUser links one asset to one user; the pair is the identity, so a
// given (asset, user) combination appears at most once.
type AssetUser struct {
	AssetID int64 `json:"asset_id"`
	UserID  int64 `json:"user_id"`
}

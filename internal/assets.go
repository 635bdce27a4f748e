package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"asset-tracking-api/internal/models"
	"asset-tracking-api/pkg/currency"
)

// assetView is the wire shape of an asset: the stored record plus the
// derived lifecycle fields, computed against the request time and never
// persisted.
type assetView struct {
	models.Asset
	EndOfLife     time.Time `json:"end_of_life"`
	LifeStatus    string    `json:"life_status"`
	StatusLabel   string    `json:"status_label"`
	NearEndOfLife bool      `json:"near_end_of_life"`
}

func viewOf(a models.Asset, now time.Time) assetView {
	status := a.LifeStatus(now)
	return assetView{
		Asset:         a,
		EndOfLife:     a.EndOfLifeDate(),
		LifeStatus:    status.String(),
		StatusLabel:   status.Label(),
		NearEndOfLife: a.IsNearEndOfLife(now),
	}
}

func viewsOf(assets []models.Asset, now time.Time) []assetView {
	views := make([]assetView, 0, len(assets))
	for _, a := range assets {
		views = append(views, viewOf(a, now))
	}
	return views
}

// createAssetRequest carries all fields required to construct any variant.
type createAssetRequest struct {
	Kind         models.AssetKind   `json:"kind"`
	Manufacturer string             `json:"manufacturer"`
	Model        string             `json:"model"`
	PurchaseDate string             `json:"purchase_date"` // yyyy-mm-dd
	Price        string             `json:"price"`
	OfficeID     *int64             `json:"office_id,omitempty"`
	Laptop       *models.LaptopSpec `json:"laptop,omitempty"`
	Phone        *models.PhoneSpec  `json:"phone,omitempty"`
}

// updateAssetRequest carries the mutable fields: price, office reference and
// the variant payload. Base identity fields never change.
type updateAssetRequest struct {
	Price    string             `json:"price"`
	OfficeID *int64             `json:"office_id,omitempty"`
	Laptop   *models.LaptopSpec `json:"laptop,omitempty"`
	Phone    *models.PhoneSpec  `json:"phone,omitempty"`
}

// createdAssetResponse echoes the stored asset plus its price rendered in
// every supported currency.
type createdAssetResponse struct {
	assetView
	Prices map[string]string `json:"prices"`
}

// kindParam parses the {kind} route segment.
func kindParam(r *http.Request) (models.AssetKind, error) {
	kind := models.AssetKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: unknown kind %q", models.ErrInvalid, kind)
	}
	return kind, nil
}

// idParam parses the {id} route segment.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id", models.ErrInvalid)
	}
	return id, nil
}

// listAssets returns every asset in the composite sort order: laptops before
// phones, then purchase date, then id.
func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.Assets.AllAssetsSorted(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewsOf(assets, time.Now()))
}

// getAsset returns a single asset; the caller must know the variant.
func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := s.Assets.GetAssetByID(r.Context(), kind, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*a, time.Now()))
}

// createAsset handles creating a new asset of any variant.
func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	purchased, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		http.Error(w, "purchase_date must be yyyy-mm-dd", http.StatusBadRequest)
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		http.Error(w, "invalid price", http.StatusBadRequest)
		return
	}

	asset := &models.Asset{
		Kind:         req.Kind,
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		PurchaseDate: purchased,
		Price:        price,
		OfficeID:     req.OfficeID,
		Laptop:       req.Laptop,
		Phone:        req.Phone,
	}
	created, err := s.Assets.AddAsset(r.Context(), asset)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := createdAssetResponse{
		assetView: viewOf(*created, time.Now()),
		Prices: map[string]string{
			"USD": currency.Format(created.Price, models.UnitedStates),
			"EUR": currency.Format(created.Price, models.Germany),
			"SEK": currency.Format(created.Price, models.Sweden),
		},
	}
	writeJSON(w, http.StatusCreated, resp)
}

// updateAsset replaces the mutable fields of an existing asset.
func (s *Server) updateAsset(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		http.Error(w, "invalid price", http.StatusBadRequest)
		return
	}

	a, err := s.Assets.GetAssetByID(r.Context(), kind, id)
	if err != nil {
		writeError(w, err)
		return
	}
	a.Price = price
	a.OfficeID = req.OfficeID
	a.Laptop = req.Laptop
	a.Phone = req.Phone

	if err := s.Assets.UpdateAsset(r.Context(), a); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*a, time.Now()))
}

// deleteAsset removes an asset and its association rows.
func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.Assets.DeleteAsset(r.Context(), kind, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// assignOffice sets the asset's office reference.
func (s *Server) assignOffice(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		OfficeID int64 `json:"office_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := s.Assets.AssignAssetToOffice(r.Context(), kind, id, req.OfficeID); err != nil {
		writeError(w, err)
		return
	}

	a, err := s.Assets.GetAssetByID(r.Context(), kind, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*a, time.Now()))
}

// assignUser records that a user holds the asset.
func (s *Server) assignUser(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := s.Assets.AssignAssetToUser(r.Context(), kind, id, req.UserID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

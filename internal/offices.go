package internal

import (
	"net/http"
	"time"

	"asset-tracking-api/pkg/currency"
)

// officeAssetView adds the price rendered in the office's local currency.
type officeAssetView struct {
	assetView
	LocalPrice string `json:"local_price"`
}

// listOffices returns all offices.
func (s *Server) listOffices(w http.ResponseWriter, r *http.Request) {
	offices, err := s.Assets.Offices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offices)
}

// officeAssets returns the assets of one office, oldest purchase first, with
// prices converted to the office country's currency.
func (s *Server) officeAssets(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	office, err := s.Assets.Office(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	assets, err := s.Assets.AssetsByOffice(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	now := time.Now()
	views := make([]officeAssetView, 0, len(assets))
	for _, a := range assets {
		views = append(views, officeAssetView{
			assetView:  viewOf(a, now),
			LocalPrice: currency.Format(a.Price, office.Country),
		})
	}
	writeJSON(w, http.StatusOK, views)
}

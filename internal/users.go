package internal

import (
	"net/http"
	"time"

	"asset-tracking-api/internal/models"
)

// listUsers returns all users.
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Assets.Users(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// userAssets returns the assets assigned to one user. A store failure below
// the service surfaces here as an empty list, not an error.
func (s *Server) userAssets(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	assets := s.Assets.AssetsByUser(r.Context(), id)
	writeJSON(w, http.StatusOK, viewsOf(assets, time.Now()))
}

// deleteUser removes a user together with its association rows. The assets
// the user held are untouched.
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.Assets.RemoveUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// userOverview pairs a user with a short description of each held asset.
type userOverview struct {
	User   models.User `json:"user"`
	Assets []heldAsset `json:"assets"`
}

type heldAsset struct {
	ID           int64            `json:"id"`
	Kind         models.AssetKind `json:"kind"`
	Manufacturer string           `json:"manufacturer"`
	Model        string           `json:"model"`
}

// usersWithAssets returns every user together with their assigned assets.
func (s *Server) usersWithAssets(w http.ResponseWriter, r *http.Request) {
	users, err := s.Assets.Users(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	overviews := make([]userOverview, 0, len(users))
	for _, u := range users {
		held := []heldAsset{}
		for _, a := range s.Assets.AssetsByUser(r.Context(), u.ID) {
			held = append(held, heldAsset{
				ID:           a.ID,
				Kind:         a.Kind,
				Manufacturer: a.Manufacturer,
				Model:        a.Model,
			})
		}
		overviews = append(overviews, userOverview{User: u, Assets: held})
	}
	writeJSON(w, http.StatusOK, overviews)
}

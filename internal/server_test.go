package internal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-tracking-api/internal/config"
	"asset-tracking-api/internal/service"
	"asset-tracking-api/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	m, err := store.NewMemoryStore()
	require.NoError(t, err)
	data, err := store.DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, m.Seed(data))
	return NewServer(service.New(m), nil)
}

func doJSON(t *testing.T, srv *Server, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestListAssets(t *testing.T) {
	srv := testServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/assets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var views []struct {
		ID         int64  `json:"id"`
		Kind       string `json:"kind"`
		LifeStatus string `json:"life_status"`
		EndOfLife  string `json:"end_of_life"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 12)

	// Laptops first, each row carrying the derived lifecycle fields.
	for i := 0; i < 6; i++ {
		assert.NotContains(t, []string{"iphone", "samsung_phone", "nokia_phone"}, views[i].Kind)
	}
	for _, v := range views {
		assert.NotEmpty(t, v.LifeStatus)
		assert.NotEmpty(t, v.EndOfLife)
	}
}

func TestGetAsset(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/assets/macbook/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Model  string `json:"model"`
		Laptop *struct {
			ProcessorType string `json:"processor_type"`
			MemoryGB      int    `json:"memory_gb"`
		} `json:"laptop"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "MacBook Pro 16\"", view.Model)
	require.NotNil(t, view.Laptop)
	assert.Equal(t, "M1 Pro", view.Laptop.ProcessorType)

	// The wrong variant tag is a miss, not a type confusion.
	rec = doJSON(t, srv, http.MethodGet, "/assets/iphone/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/assets/toaster/1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/assets/macbook/notanumber", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAsset(t *testing.T) {
	srv := testServer(t)

	body := `{
		"kind": "samsung_phone",
		"manufacturer": "Samsung",
		"model": "Galaxy S24",
		"purchase_date": "2024-04-01",
		"price": "899.99",
		"office_id": 2,
		"phone": {"storage_capacity": "256GB", "color": "Onyx Black"}
	}`
	rec := doJSON(t, srv, http.MethodPost, "/assets", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID     int64             `json:"id"`
		Prices map[string]string `json:"prices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(13), resp.ID)
	assert.Equal(t, "$ 899.99", resp.Prices["USD"])
	assert.Equal(t, "€ 854.99", resp.Prices["EUR"])
	assert.Equal(t, "SEK 9845.89", resp.Prices["SEK"])
}

func TestCreateAssetRejectsBadInput(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{`},
		{"bad date", `{"kind":"macbook","manufacturer":"Apple","model":"Air","purchase_date":"04/01/2024","price":"1.00","laptop":{"processor_type":"M2","memory_gb":8}}`},
		{"bad price", `{"kind":"macbook","manufacturer":"Apple","model":"Air","purchase_date":"2024-04-01","price":"a lot","laptop":{"processor_type":"M2","memory_gb":8}}`},
		{"wrong payload", `{"kind":"macbook","manufacturer":"Apple","model":"Air","purchase_date":"2024-04-01","price":"1.00","phone":{"storage_capacity":"64GB","color":"Silver"}}`},
		{"unknown kind", `{"kind":"toaster","manufacturer":"Acme","model":"T1000","purchase_date":"2024-04-01","price":"1.00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/assets", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateAsset(t *testing.T) {
	srv := testServer(t)

	body := `{"price": "1999.00", "office_id": 3, "laptop": {"processor_type": "M1 Pro", "memory_gb": 32}}`
	rec := doJSON(t, srv, http.MethodPut, "/assets/macbook/1", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view struct {
		Price    string `json:"price"`
		OfficeID *int64 `json:"office_id"`
		Laptop   *struct {
			MemoryGB int `json:"memory_gb"`
		} `json:"laptop"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "1999", view.Price)
	require.NotNil(t, view.OfficeID)
	assert.Equal(t, int64(3), *view.OfficeID)
	require.NotNil(t, view.Laptop)
	assert.Equal(t, 32, view.Laptop.MemoryGB)

	rec = doJSON(t, srv, http.MethodPut, "/assets/macbook/999", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAsset(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodDelete, "/assets/macbook/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/assets/macbook/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/assets/macbook/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The previous holder of asset 1 keeps only the ThinkPad.
	rec = doJSON(t, srv, http.MethodGet, "/users/1/assets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var held []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &held))
	require.Len(t, held, 1)
	assert.Equal(t, int64(5), held[0].ID)
}

func TestAssignOffice(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/assets/iphone/7/office", `{"office_id": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view struct {
		OfficeID *int64 `json:"office_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.OfficeID)
	assert.Equal(t, int64(2), *view.OfficeID)

	rec = doJSON(t, srv, http.MethodPut, "/assets/iphone/7/office", `{"office_id": 999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignUser(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/assets/iphone/7/users", `{"user_id": 5}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/users/5/assets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var held []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &held))
	ids := []int64{}
	for _, h := range held {
		ids = append(ids, h.ID)
	}
	assert.Contains(t, ids, int64(7))

	rec = doJSON(t, srv, http.MethodPost, "/assets/iphone/999/users", `{"user_id": 5}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOffices(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/offices", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var offices []struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &offices))
	require.Len(t, offices, 3)
}

func TestOfficeAssets(t *testing.T) {
	srv := testServer(t)

	// Stockholm prices come back in kronor.
	rec := doJSON(t, srv, http.MethodGet, "/offices/3/assets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var views []struct {
		ID         int64  `json:"id"`
		LocalPrice string `json:"local_price"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 4)
	for _, v := range views {
		assert.True(t, strings.HasPrefix(v.LocalPrice, "SEK "), v.LocalPrice)
	}

	rec = doJSON(t, srv, http.MethodGet, "/offices/999/assets", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserAssets(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/users/1/assets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var held []struct {
		ID    int64  `json:"id"`
		Model string `json:"model"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &held))
	require.Len(t, held, 2)
	assert.Equal(t, "MacBook Pro 16\"", held[0].Model)
	assert.Equal(t, "ThinkPad X1", held[1].Model)

	// An unknown user has an empty list, not an error.
	rec = doJSON(t, srv, http.MethodGet, "/users/999/assets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &held))
	assert.Empty(t, held)
}

func TestDeleteUser(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The user's held assets survive the deletion.
	rec = doJSON(t, srv, http.MethodGet, "/assets/macbook/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var users []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 4)

	rec = doJSON(t, srv, http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsersWithAssets(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/users/assets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var overviews []struct {
		User struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
		Assets []struct {
			ID int64 `json:"id"`
		} `json:"assets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overviews))
	require.Len(t, overviews, 5)

	total := 0
	for _, o := range overviews {
		total += len(o.Assets)
	}
	assert.Equal(t, 12, total, "every fixture assignment appears exactly once")
}

func TestStatsEndpoint(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rep struct {
		TotalAssets int    `json:"total_assets"`
		TotalValue  string `json:"total_value"`
		ByKind      []struct {
			Kind  string `json:"kind"`
			Count int    `json:"count"`
		} `json:"by_kind"`
		ByOffice []struct {
			Name string `json:"name"`
		} `json:"by_office"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, 12, rep.TotalAssets)
	assert.Equal(t, "14549.88", rep.TotalValue)
	assert.Len(t, rep.ByKind, 6)
	assert.Len(t, rep.ByOffice, 3)
}

func TestStatsWorkbook(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/reports/statistics.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "statistics.xlsx")
	assert.NotZero(t, rec.Body.Len())
}

func TestMetricsDisabledByDefault(t *testing.T) {
	srv := testServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEnabled(t *testing.T) {
	m, err := store.NewMemoryStore()
	require.NoError(t, err)
	data, err := store.DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, m.Seed(data))
	srv := NewServer(service.New(m), &config.Config{EnableMetrics: true})

	rec := doJSON(t, srv, http.MethodGet, "/assets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "assettracker")
}

package store

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"asset-tracking-api/internal/models"
)

//go:embed seed.yaml
var seedYAML []byte

// SeedData is the fixture a fresh store is initialized with.
type SeedData struct {
	Offices     []models.Office
	Users       []models.User
	Assets      []models.Asset
	Assignments []models.AssetUser
}

type seedFile struct {
	Offices []struct {
		ID      int64  `yaml:"id"`
		Name    string `yaml:"name"`
		Country string `yaml:"country"`
	} `yaml:"offices"`
	Users []struct {
		ID   int64  `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"users"`
	Assets []struct {
		ID              int64  `yaml:"id"`
		Kind            string `yaml:"kind"`
		Manufacturer    string `yaml:"manufacturer"`
		Model           string `yaml:"model"`
		PurchaseDate    string `yaml:"purchase_date"`
		Price           string `yaml:"price"`
		OfficeID        *int64 `yaml:"office_id"`
		ProcessorType   string `yaml:"processor_type"`
		MemoryGB        int    `yaml:"memory_gb"`
		StorageCapacity string `yaml:"storage_capacity"`
		Color           string `yaml:"color"`
	} `yaml:"assets"`
	Assignments []struct {
		Asset int64 `yaml:"asset"`
		User  int64 `yaml:"user"`
	} `yaml:"assignments"`
}

// DefaultSeed parses the embedded fixture file and validates every record.
func DefaultSeed() (*SeedData, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	data := &SeedData{}
	for _, o := range f.Offices {
		country := models.Country(o.Country)
		if !country.Valid() {
			return nil, fmt.Errorf("seed: office %d: unknown country %q", o.ID, o.Country)
		}
		data.Offices = append(data.Offices, models.Office{ID: o.ID, Name: o.Name, Country: country})
	}
	for _, u := range f.Users {
		data.Users = append(data.Users, models.User{ID: u.ID, Name: u.Name})
	}
	for _, in := range f.Assets {
		purchased, err := time.Parse("2006-01-02", in.PurchaseDate)
		if err != nil {
			return nil, fmt.Errorf("seed: asset %d: %w", in.ID, err)
		}
		price, err := decimal.NewFromString(in.Price)
		if err != nil {
			return nil, fmt.Errorf("seed: asset %d: %w", in.ID, err)
		}
		a := models.Asset{
			ID:           in.ID,
			Kind:         models.AssetKind(in.Kind),
			Manufacturer: in.Manufacturer,
			Model:        in.Model,
			PurchaseDate: purchased,
			Price:        price,
			OfficeID:     in.OfficeID,
		}
		if a.Kind.IsPhone() {
			a.Phone = &models.PhoneSpec{StorageCapacity: in.StorageCapacity, Color: in.Color}
		} else {
			a.Laptop = &models.LaptopSpec{ProcessorType: in.ProcessorType, MemoryGB: in.MemoryGB}
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("seed: asset %d: %w", in.ID, err)
		}
		data.Assets = append(data.Assets, a)
	}
	for _, p := range f.Assignments {
		data.Assignments = append(data.Assignments, models.AssetUser{AssetID: p.Asset, UserID: p.User})
	}
	return data, nil
}

package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLaptop() Asset {
	return Asset{
		Kind:         KindMacBook,
		Manufacturer: "Apple",
		Model:        "MacBook Pro 16\"",
		PurchaseDate: date(2023, time.January, 15),
		Price:        decimal.RequireFromString("2499.99"),
		Laptop:       &LaptopSpec{ProcessorType: "M1 Pro", MemoryGB: 16},
	}
}

func validPhone() Asset {
	return Asset{
		Kind:         KindIphone,
		Manufacturer: "Apple",
		Model:        "iPhone 13 Pro",
		PurchaseDate: date(2021, time.August, 1),
		Price:        decimal.RequireFromString("1099.99"),
		Phone:        &PhoneSpec{StorageCapacity: "256GB", Color: "Graphite"},
	}
}

func TestAssetKindPartition(t *testing.T) {
	laptops := 0
	for _, k := range Kinds {
		assert.True(t, k.Valid())
		if !k.IsPhone() {
			laptops++
		}
	}
	assert.Equal(t, 3, laptops, "three laptop kinds, three phone kinds")
	assert.False(t, AssetKind("toaster").Valid())
	assert.False(t, AssetKind("").Valid())
}

func TestAssetValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *Asset)
		wantErr bool
	}{
		{"valid laptop", func(a *Asset) {}, false},
		{"unknown kind", func(a *Asset) { a.Kind = "toaster" }, true},
		{"missing manufacturer", func(a *Asset) { a.Manufacturer = "" }, true},
		{"missing model", func(a *Asset) { a.Model = "" }, true},
		{"zero purchase date", func(a *Asset) { a.PurchaseDate = time.Time{} }, true},
		{"negative price", func(a *Asset) { a.Price = decimal.RequireFromString("-1") }, true},
		{"zero price allowed", func(a *Asset) { a.Price = decimal.Zero }, false},
		{"laptop without laptop spec", func(a *Asset) { a.Laptop = nil }, true},
		{"laptop with phone spec", func(a *Asset) { a.Phone = &PhoneSpec{StorageCapacity: "64GB", Color: "Black"} }, true},
		{"empty processor type", func(a *Asset) { a.Laptop.ProcessorType = "" }, true},
		{"zero memory", func(a *Asset) { a.Laptop.MemoryGB = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validLaptop()
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssetValidatePhone(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *Asset)
		wantErr bool
	}{
		{"valid phone", func(a *Asset) {}, false},
		{"phone without phone spec", func(a *Asset) { a.Phone = nil }, true},
		{"phone with laptop spec", func(a *Asset) { a.Laptop = &LaptopSpec{ProcessorType: "M1", MemoryGB: 8} }, true},
		{"empty storage capacity", func(a *Asset) { a.Phone.StorageCapacity = "" }, true},
		{"empty color", func(a *Asset) { a.Phone.Color = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validPhone()
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssetClone(t *testing.T) {
	officeID := int64(2)
	a := validLaptop()
	a.ID = 7
	a.OfficeID = &officeID

	clone := a.Clone()
	require.Equal(t, &a, clone)

	clone.Laptop.MemoryGB = 64
	*clone.OfficeID = 9
	assert.Equal(t, 16, a.Laptop.MemoryGB, "clone must not share the laptop spec")
	assert.Equal(t, int64(2), *a.OfficeID, "clone must not share the office pointer")
}

func TestAssetDerivedLifecycle(t *testing.T) {
	a := validPhone() // purchased 2021-08-01, end of life 2024-08-01
	now := date(2024, time.December, 8)

	assert.True(t, date(2024, time.August, 1).Equal(a.EndOfLifeDate()))
	assert.Equal(t, StatusGrey, a.LifeStatus(now))
	assert.True(t, a.IsNearEndOfLife(now))
}

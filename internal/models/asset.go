package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AssetKind discriminates the concrete asset variants. The set is closed:
// every stored asset carries exactly one of these tags.
type AssetKind string

const (
	KindMacBook      AssetKind = "macbook"
	KindAsusLaptop   AssetKind = "asus_laptop"
	KindLenovoLaptop AssetKind = "lenovo_laptop"
	KindIphone       AssetKind = "iphone"
	KindSamsungPhone AssetKind = "samsung_phone"
	KindNokiaPhone   AssetKind = "nokia_phone"
)

// Kinds lists every valid asset kind, laptops before phones.
var Kinds = []AssetKind{
	KindMacBook,
	KindAsusLaptop,
	KindLenovoLaptop,
	KindIphone,
	KindSamsungPhone,
	KindNokiaPhone,
}

// Valid reports whether k is one of the known asset kinds.
func (k AssetKind) Valid() bool {
	switch k {
	case KindMacBook, KindAsusLaptop, KindLenovoLaptop,
		KindIphone, KindSamsungPhone, KindNokiaPhone:
		return true
	}
	return false
}

// IsPhone reports whether the kind belongs to the phone category. The
// laptop/phone partition is a property of the tag itself, not of its name.
func (k AssetKind) IsPhone() bool {
	switch k {
	case KindIphone, KindSamsungPhone, KindNokiaPhone:
		return true
	}
	return false
}

// LaptopSpec holds the attributes specific to the laptop variants.
type LaptopSpec struct {
	ProcessorType string `json:"processor_type"`
	MemoryGB      int    `json:"memory_gb"`
}

// PhoneSpec holds the attributes specific to the phone variants.
type PhoneSpec struct {
	StorageCapacity string `json:"storage_capacity"`
	Color           string `json:"color"`
}

// Asset is the core asset record. Exactly one of Laptop or Phone is set and
// it must match the kind. Prices are USD base amounts.
type Asset struct {
	ID           int64           `json:"id"`
	Kind         AssetKind       `json:"kind"`
	Manufacturer string          `json:"manufacturer"`
	Model        string          `json:"model"`
	PurchaseDate time.Time       `json:"purchase_date"`
	Price        decimal.Decimal `json:"price"`
	OfficeID     *int64          `json:"office_id,omitempty"`
	Laptop       *LaptopSpec     `json:"laptop,omitempty"`
	Phone        *PhoneSpec      `json:"phone,omitempty"`
}

// ErrInvalid is wrapped by every validation failure so callers can branch on
// malformed input without matching message text.
var ErrInvalid = errors.New("invalid asset")

// Validate checks the base fields and that the variant payload matches the
// kind. Negative prices and empty required strings are rejected here even
// though the outer layers validate input as well.
func (a *Asset) Validate() error {
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalid, a.Kind)
	}
	if a.Manufacturer == "" {
		return fmt.Errorf("%w: manufacturer is required", ErrInvalid)
	}
	if a.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalid)
	}
	if a.PurchaseDate.IsZero() {
		return fmt.Errorf("%w: purchase date is required", ErrInvalid)
	}
	if a.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalid)
	}
	if a.Kind.IsPhone() {
		if a.Phone == nil || a.Laptop != nil {
			return fmt.Errorf("%w: %s requires phone attributes only", ErrInvalid, a.Kind)
		}
		if a.Phone.StorageCapacity == "" {
			return fmt.Errorf("%w: storage capacity is required", ErrInvalid)
		}
		if a.Phone.Color == "" {
			return fmt.Errorf("%w: color is required", ErrInvalid)
		}
		return nil
	}
	if a.Laptop == nil || a.Phone != nil {
		return fmt.Errorf("%w: %s requires laptop attributes only", ErrInvalid, a.Kind)
	}
	if a.Laptop.ProcessorType == "" {
		return fmt.Errorf("%w: processor type is required", ErrInvalid)
	}
	if a.Laptop.MemoryGB <= 0 {
		return fmt.Errorf("%w: memory size must be positive", ErrInvalid)
	}
	return nil
}

// EndOfLifeDate is derived from the purchase date and never stored.
func (a *Asset) EndOfLifeDate() time.Time {
	return EndOfLife(a.PurchaseDate)
}

// LifeStatus classifies the asset as observed at now.
func (a *Asset) LifeStatus(now time.Time) LifeStatus {
	return StatusAt(a.PurchaseDate, now)
}

// IsNearEndOfLife reports whether 90 days or fewer remain before the asset's
// end-of-life date; expired assets also count.
func (a *Asset) IsNearEndOfLife(now time.Time) bool {
	return NearEndOfLife(a.PurchaseDate, now)
}

// Clone returns a deep copy of the asset.
func (a *Asset) Clone() *Asset {
	out := *a
	if a.OfficeID != nil {
		id := *a.OfficeID
		out.OfficeID = &id
	}
	if a.Laptop != nil {
		spec := *a.Laptop
		out.Laptop = &spec
	}
	if a.Phone != nil {
		spec := *a.Phone
		out.Phone = &spec
	}
	return &out
}

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"asset-tracking-api/internal/models"
)

// VariantCount is one row of the per-variant breakdown.
type VariantCount struct {
	Kind  models.AssetKind `json:"kind"`
	Count int              `json:"count"`
}

// OfficeSummary is one row of the per-office breakdown. Offices with no
// assets still appear with a zero count.
type OfficeSummary struct {
	OfficeID   int64           `json:"office_id"`
	Name       string          `json:"name"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// Report aggregates the statistics of the whole fleet as observed at a
// fixed point in time.
type Report struct {
	GeneratedAt   time.Time        `json:"generated_at"`
	TotalAssets   int              `json:"total_assets"`
	ByKind        []VariantCount   `json:"by_kind"`
	TotalValue    decimal.Decimal  `json:"total_value"`
	ByOffice      []OfficeSummary  `json:"by_office"`
	NearEndOfLife int              `json:"near_end_of_life"`
	Oldest        *models.Asset    `json:"oldest,omitempty"`
	Newest        *models.Asset    `json:"newest,omitempty"`
}

// Statistics builds the report for the fleet as observed at now. Variant and
// office breakdowns are ordered by count descending with name ascending on
// ties; oldest/newest ties go to the lowest identifier.
func (s *AssetService) Statistics(ctx context.Context, now time.Time) (*Report, error) {
	assets, err := s.store.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}
	offices, err := s.store.ListOffices(ctx)
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}

	rep := &Report{
		GeneratedAt: now,
		TotalAssets: len(assets),
		TotalValue:  decimal.Zero,
		ByKind:      []VariantCount{},
		ByOffice:    []OfficeSummary{},
	}

	byKind := map[models.AssetKind]int{}
	type officeAcc struct {
		count int
		value decimal.Decimal
	}
	byOffice := map[int64]*officeAcc{}
	for _, o := range offices {
		byOffice[o.ID] = &officeAcc{value: decimal.Zero}
	}

	var oldest, newest *models.Asset
	for i := range assets {
		a := &assets[i]
		byKind[a.Kind]++
		rep.TotalValue = rep.TotalValue.Add(a.Price)
		if a.OfficeID != nil {
			if acc, ok := byOffice[*a.OfficeID]; ok {
				acc.count++
				acc.value = acc.value.Add(a.Price)
			}
		}
		if a.IsNearEndOfLife(now) {
			rep.NearEndOfLife++
		}
		if oldest == nil || a.PurchaseDate.Before(oldest.PurchaseDate) ||
			(a.PurchaseDate.Equal(oldest.PurchaseDate) && a.ID < oldest.ID) {
			oldest = a
		}
		if newest == nil || a.PurchaseDate.After(newest.PurchaseDate) ||
			(a.PurchaseDate.Equal(newest.PurchaseDate) && a.ID < newest.ID) {
			newest = a
		}
	}
	rep.Oldest, rep.Newest = oldest, newest

	for _, k := range models.Kinds {
		if count := byKind[k]; count > 0 {
			rep.ByKind = append(rep.ByKind, VariantCount{Kind: k, Count: count})
		}
	}
	sort.SliceStable(rep.ByKind, func(i, j int) bool {
		if rep.ByKind[i].Count != rep.ByKind[j].Count {
			return rep.ByKind[i].Count > rep.ByKind[j].Count
		}
		return rep.ByKind[i].Kind < rep.ByKind[j].Kind
	})

	for _, o := range offices {
		acc := byOffice[o.ID]
		rep.ByOffice = append(rep.ByOffice, OfficeSummary{
			OfficeID:   o.ID,
			Name:       o.Name,
			Count:      acc.count,
			TotalValue: acc.value,
		})
	}
	sort.SliceStable(rep.ByOffice, func(i, j int) bool {
		if rep.ByOffice[i].Count != rep.ByOffice[j].Count {
			return rep.ByOffice[i].Count > rep.ByOffice[j].Count
		}
		return rep.ByOffice[i].Name < rep.ByOffice[j].Name
	})

	return rep, nil
}

// internal/reconcile/reconcile.go

// Package reconcile combines imported, persisted and legacy record sets into
// the current schema. All functions are pure over their inputs; callers hand
// in snapshots and receive new slices.
package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/beautyshelf/beautyshelf-backend/internal/models"
)

// Mode selects how an imported record set is applied to the current one.
type Mode string

const (
	// ModeReplace discards the current set in favor of the imported one.
	ModeReplace Mode = "replace"
	// ModeMergeByID overlays imported records onto the current set keyed by
	// id; imported records win on collision.
	ModeMergeByID Mode = "merge"
)

// ImportFormatError classifies a rejected import payload. The current record
// set is never touched when parsing fails.
type ImportFormatError struct {
	Reason string
}

func (e *ImportFormatError) Error() string {
	return "invalid import payload: " + e.Reason
}

// ParseImport decodes a raw backup file into records. The payload must be a
// JSON array of record-shaped values; anything else is rejected with an
// *ImportFormatError.
func ParseImport(raw []byte) ([]models.Product, error) {
	if !json.Valid(raw) {
		return nil, &ImportFormatError{Reason: "not valid JSON"}
	}
	// json.Unmarshal happily turns "null" into a nil slice, so the array
	// check has to look at the payload itself
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ImportFormatError{Reason: "expected an array of products"}
	}
	var records []models.Product
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &ImportFormatError{Reason: "expected an array of products"}
	}
	return records, nil
}

// Reconcile applies an imported record set to the current one according to
// mode. In merge mode the result is ordered by createdAt descending; ties
// keep a deterministic order (current set first, then imported newcomers).
func Reconcile(current, imported []models.Product, mode Mode) ([]models.Product, error) {
	switch mode {
	case ModeReplace:
		out := make([]models.Product, len(imported))
		copy(out, imported)
		return out, nil
	case ModeMergeByID:
		return mergeByID(current, imported), nil
	default:
		return nil, fmt.Errorf("unknown reconcile mode %q", mode)
	}
}

func mergeByID(current, imported []models.Product) []models.Product {
	byID := make(map[string]models.Product, len(current)+len(imported))
	order := make([]string, 0, len(current)+len(imported))

	for _, p := range current {
		if _, seen := byID[p.ID]; !seen {
			order = append(order, p.ID)
		}
		byID[p.ID] = p
	}
	for _, p := range imported {
		if _, seen := byID[p.ID]; !seen {
			order = append(order, p.ID)
		}
		byID[p.ID] = p
	}

	merged := make([]models.Product, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}

// LegacyRecord is the first-generation schema: a single flat category, no
// brand, no manufacturing date, no price.
type LegacyRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	BuyingDate  string    `json:"buyingDate"`
	ExpiryDate  string    `json:"expiryDate"`
	OpeningDate string    `json:"openingDate"`
	Weight      string    `json:"weight"`
	PAOMonths   string    `json:"paoMonths"`
	ImageData   string    `json:"imageData"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MigrateLegacy maps first-generation records into the current schema.
// Missing optional fields fall back to defaults; records are never rejected.
// newID supplies fresh identifiers for records that lack one.
func MigrateLegacy(legacy []LegacyRecord, now time.Time, newID func() string) []models.Product {
	out := make([]models.Product, 0, len(legacy))
	for _, rec := range legacy {
		main, sub := SplitLegacyCategory(rec.Category)
		p := models.Product{
			ID:           rec.ID,
			ProductName:  strings.TrimSpace(rec.Name),
			MainCategory: main,
			SubCategory:  sub,
			BuyingDate:   rec.BuyingDate,
			ExpiryDate:   rec.ExpiryDate,
			OpeningDate:  rec.OpeningDate,
			Weight:       rec.Weight,
			PAOMonths:    rec.PAOMonths,
			ImageData:    rec.ImageData,
			CreatedAt:    rec.CreatedAt,
			UpdatedAt:    rec.UpdatedAt,
		}
		if p.ProductName == "" {
			p.ProductName = models.UnnamedProduct
		}
		if p.ID == "" {
			p.ID = newID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
		out = append(out, p)
	}
	return out
}

// SplitLegacyCategory maps the flat first-generation category onto the
// main/sub pair. Unrecognized categories (including the old "other") land in
// skincare/skincare.
func SplitLegacyCategory(category string) (models.MainCategory, models.SubCategory) {
	switch category {
	case "makeup":
		return models.MainCategoryMakeup, ""
	case "skincare", "haircare", "bodycare":
		return models.MainCategorySkincare, models.SubCategory(category)
	default:
		return models.MainCategorySkincare, models.SubCategorySkincare
	}
}

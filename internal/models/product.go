// internal/models/product.go
package models

import "time"

// Product is the persisted inventory record. Calendar dates travel as
// YYYY-MM-DD strings exactly as the client entered them; empty string means
// the date was never set.
type Product struct {
	ID                string       `json:"id"`
	ProductName       string       `json:"productName"`
	BrandName         string       `json:"brandName"`
	MainCategory      MainCategory `json:"mainCategory"`
	SubCategory       SubCategory  `json:"subCategory"`
	BuyingDate        string       `json:"buyingDate"`
	ManufacturingDate string       `json:"manufacturingDate"`
	ExpiryDate        string       `json:"expiryDate"`
	OpeningDate       string       `json:"openingDate"`
	Weight            string       `json:"weight"`
	Price             string       `json:"price"`
	PAOMonths         string       `json:"paoMonths"`
	ImageData         string       `json:"imageData"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// HasExpirySignal reports whether any expiry can be resolved for the record:
// either an explicit label or the opening-date/PAO pair.
func (p Product) HasExpirySignal() bool {
	if p.ExpiryDate != "" {
		return true
	}
	return p.OpeningDate != "" && p.PAOMonths != ""
}

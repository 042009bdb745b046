// internal/services/product_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/beautyshelf/beautyshelf-backend/internal/calendar"
	"github.com/beautyshelf/beautyshelf-backend/internal/expiry"
	"github.com/beautyshelf/beautyshelf-backend/internal/models"
	"github.com/beautyshelf/beautyshelf-backend/internal/reconcile"
	"github.com/beautyshelf/beautyshelf-backend/internal/store"
	"github.com/beautyshelf/beautyshelf-backend/internal/utils"
)

var ErrProductNotFound = errors.New("product not found")

// ValidationFailedError carries the per-field validation failures for a
// rejected request.
type ValidationFailedError struct {
	Errors []utils.ValidationError
}

func (e *ValidationFailedError) Error() string {
	return "validation failed"
}

// ProductService owns the in-memory record set. Every mutation computes a
// new slice, swaps it in under the lock, then persists the whole set; the
// in-memory set stays authoritative for the session even when a write to
// the store fails.
type ProductService struct {
	mtx     sync.Mutex
	store   *store.Store
	records []models.Product

	now   func() time.Time
	newID func() string
}

type ProductRequest struct {
	ProductName       string `json:"productName"`
	BrandName         string `json:"brandName"`
	MainCategory      string `json:"mainCategory" validate:"required,maincategory"`
	SubCategory       string `json:"subCategory" validate:"omitempty,subcategory"`
	BuyingDate        string `json:"buyingDate" validate:"omitempty,dateonly"`
	ManufacturingDate string `json:"manufacturingDate" validate:"omitempty,dateonly"`
	ExpiryDate        string `json:"expiryDate" validate:"omitempty,dateonly"`
	OpeningDate       string `json:"openingDate" validate:"omitempty,dateonly"`
	Weight            string `json:"weight"`
	Price             string `json:"price"`
	PAOMonths         string `json:"paoMonths" validate:"omitempty,paomonths"`
	ImageData         string `json:"imageData"`
}

type ListParams struct {
	Query        string
	MainCategory string
	SubCategory  string
}

// ProductView is a record plus everything the client renders without doing
// date math of its own.
type ProductView struct {
	models.Product
	Detail ProductDetail `json:"detail"`
}

type ProductDetail struct {
	EffectiveExpiry        string `json:"effectiveExpiry,omitempty"` // YYYY-MM-DD
	EffectiveExpiryDisplay string `json:"effectiveExpiryDisplay"`    // DD/MM/YYYY or dash
	DaysLeft               *int   `json:"daysLeft,omitempty"`        // signed, negative is past
	Countdown              string `json:"countdown,omitempty"`       // e.g. "12d left", "3d past"
	RelativeTime           string `json:"relativeTime,omitempty"`    // e.g. "1y 2m 5d left"
	OpenedDaysAgo          *int   `json:"openedDaysAgo,omitempty"`
	PAOExpiryDisplay       string `json:"paoExpiryDisplay"`
	PAOLeftLabel           string `json:"paoLeftLabel,omitempty"` // e.g. "2m 5d left"
}

func NewProductService(st *store.Store) (*ProductService, error) {
	records, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("load product records: %w", err)
	}
	return &ProductService{
		store:   st,
		records: records,
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

// List returns the filtered record set ordered by effective expiry, each
// record carrying its computed detail.
func (s *ProductService) List(params ListParams) []ProductView {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	filtered := make([]models.Product, 0, len(s.records))
	query := strings.ToLower(strings.TrimSpace(params.Query))
	for _, p := range s.records {
		if params.MainCategory != "" && string(p.MainCategory) != params.MainCategory {
			continue
		}
		if params.SubCategory != "" && string(p.SubCategory) != params.SubCategory {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		filtered = append(filtered, p)
	}

	expiry.SortByEffectiveExpiry(filtered)

	now := s.now()
	views := make([]ProductView, 0, len(filtered))
	for _, p := range filtered {
		views = append(views, ProductView{Product: p, Detail: s.buildDetail(now, p)})
	}
	return views
}

func matchesQuery(p models.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.ProductName), query) ||
		strings.Contains(strings.ToLower(p.BrandName), query) ||
		strings.Contains(strings.ToLower(string(p.MainCategory)), query) ||
		strings.Contains(strings.ToLower(string(p.SubCategory)), query)
}

func (s *ProductService) Get(id string) (ProductView, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, p := range s.records {
		if p.ID == id {
			return ProductView{Product: p, Detail: s.buildDetail(s.now(), p)}, nil
		}
	}
	return ProductView{}, ErrProductNotFound
}

func (s *ProductService) Create(req *ProductRequest) (models.Product, error) {
	if err := validateRequest(req); err != nil {
		return models.Product{}, err
	}

	now := s.now()
	record := applyRequest(models.Product{
		ID:        s.newID(),
		CreatedAt: now,
	}, req)
	record.UpdatedAt = now

	s.mtx.Lock()
	defer s.mtx.Unlock()

	next := make([]models.Product, 0, len(s.records)+1)
	next = append(next, record)
	next = append(next, s.records...)
	s.replace(next)

	return record, nil
}

// Update replaces every field of the record wholesale while keeping its id
// and original createdAt.
func (s *ProductService) Update(id string, req *ProductRequest) (models.Product, error) {
	if err := validateRequest(req); err != nil {
		return models.Product{}, err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	for i, p := range s.records {
		if p.ID != id {
			continue
		}
		record := applyRequest(models.Product{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
		}, req)
		record.UpdatedAt = s.now()

		next := make([]models.Product, len(s.records))
		copy(next, s.records)
		next[i] = record
		s.replace(next)
		return record, nil
	}
	return models.Product{}, ErrProductNotFound
}

func (s *ProductService) Delete(id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	next := make([]models.Product, 0, len(s.records))
	found := false
	for _, p := range s.records {
		if p.ID == id {
			found = true
			continue
		}
		next = append(next, p)
	}
	if !found {
		return ErrProductNotFound
	}
	s.replace(next)
	return nil
}

// Export serializes the full record set as a backup file. Re-importing the
// payload in replace mode reproduces the set field for field.
func (s *ProductService) Export() ([]byte, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	payload, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return payload, nil
}

// Import applies a backup payload under the given reconcile mode and returns
// the resulting record count. On any failure the current set is untouched.
func (s *ProductService) Import(raw []byte, mode reconcile.Mode) (int, error) {
	imported, err := reconcile.ParseImport(raw)
	if err != nil {
		return 0, err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	merged, err := reconcile.Reconcile(s.records, imported, mode)
	if err != nil {
		return 0, err
	}
	s.replace(merged)
	return len(merged), nil
}

// replace swaps in the new record set and persists it. Callers hold the
// lock. A failed write only loses durability, not the session's state.
func (s *ProductService) replace(next []models.Product) {
	s.records = next
	if err := s.store.Save(next); err != nil {
		logrus.WithError(err).Warn("Failed to persist product records")
	}
}

func validateRequest(req *ProductRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return &ValidationFailedError{Errors: utils.GetValidationErrors(err)}
	}
	return nil
}

func applyRequest(base models.Product, req *ProductRequest) models.Product {
	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		name = models.UnnamedProduct
	}

	main := models.MainCategory(req.MainCategory)
	sub := models.SubCategory(req.SubCategory)
	if main != models.MainCategorySkincare {
		// sub-categories only exist under skincare
		sub = ""
	}

	base.ProductName = name
	base.BrandName = strings.TrimSpace(req.BrandName)
	base.MainCategory = main
	base.SubCategory = sub
	base.BuyingDate = req.BuyingDate
	base.ManufacturingDate = req.ManufacturingDate
	base.ExpiryDate = req.ExpiryDate
	base.OpeningDate = req.OpeningDate
	base.Weight = req.Weight
	base.Price = req.Price
	base.PAOMonths = req.PAOMonths
	base.ImageData = req.ImageData
	return base
}

func (s *ProductService) buildDetail(now time.Time, p models.Product) ProductDetail {
	detail := ProductDetail{
		EffectiveExpiryDisplay: calendar.DisplayPlaceholder,
		PAOExpiryDisplay:       calendar.DisplayPlaceholder,
	}

	if target, ok := expiry.EffectiveExpiry(p); ok {
		detail.EffectiveExpiry = target.Format("2006-01-02")
		detail.EffectiveExpiryDisplay = calendar.FormatDisplayDate(target)
		detail.RelativeTime = calendar.FormatRelativeDate(now, target)

		countdown, _ := expiry.ExpiryCountdown(now, p)
		days := countdown.Days
		if countdown.Past {
			days = -days
			detail.Countdown = fmt.Sprintf("%dd past", countdown.Days)
		} else {
			detail.Countdown = fmt.Sprintf("%dd left", countdown.Days)
		}
		detail.DaysLeft = &days
	}

	if opened, ok := calendar.TimeSinceOpening(now, p.OpeningDate); ok {
		detail.OpenedDaysAgo = &opened
	}

	if paoDate, ok := calendar.PAOExpiryDate(p.OpeningDate, p.PAOMonths); ok {
		detail.PAOExpiryDisplay = calendar.FormatDisplayDate(paoDate)
		remaining := calendar.MonthsDaysBetween(now, paoDate)
		detail.PAOLeftLabel = fmt.Sprintf("%dm %dd left",
			max(0, remaining.Months), max(0, remaining.Days))
	}

	return detail
}

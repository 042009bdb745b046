// internal/services/product_service_test.go
package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautyshelf/beautyshelf-backend/internal/models"
	"github.com/beautyshelf/beautyshelf-backend/internal/reconcile"
	"github.com/beautyshelf/beautyshelf-backend/internal/store"
)

func newTestService(t *testing.T) *ProductService {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "inventory.db"),
		"skincare_products_v2", "skincare_products_v1")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc, err := NewProductService(st)
	require.NoError(t, err)

	seq := 0
	svc.newID = func() string {
		seq++
		return string(rune('a' + seq - 1))
	}
	svc.now = func() time.Time {
		return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestCreateAssignsDefaults(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(&ProductRequest{
		ProductName:  "   ",
		MainCategory: "makeup",
		SubCategory:  "haircare", // meaningless outside skincare
	})
	require.NoError(t, err)

	assert.Equal(t, "a", created.ID)
	assert.Equal(t, models.UnnamedProduct, created.ProductName)
	assert.Equal(t, models.MainCategoryMakeup, created.MainCategory)
	assert.Empty(t, created.SubCategory)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(&ProductRequest{MainCategory: "groceries"})
	assert.Error(t, err)

	_, err = svc.Create(&ProductRequest{MainCategory: "skincare", ExpiryDate: "15/06/2024"})
	assert.Error(t, err)

	_, err = svc.Create(&ProductRequest{MainCategory: "skincare", SubCategory: "nailcare"})
	assert.Error(t, err)

	_, err = svc.Create(&ProductRequest{MainCategory: "skincare", PAOMonths: "0"})
	assert.Error(t, err)

	var validationErr *ValidationFailedError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "paomonths", validationErr.Errors[0].Field)

	assert.Empty(t, svc.List(ListParams{}))
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(&ProductRequest{ProductName: "Toner", MainCategory: "skincare", SubCategory: "skincare"})
	require.NoError(t, err)

	later := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return later }

	updated, err := svc.Update(created.ID, &ProductRequest{
		ProductName:  "Toner XL",
		MainCategory: "skincare",
		SubCategory:  "bodycare",
		Weight:       "250 ml",
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, "Toner XL", updated.ProductName)
	assert.Equal(t, models.SubCategoryBodycare, updated.SubCategory)
	// fields absent from the request are replaced wholesale, not merged
	assert.Empty(t, updated.BrandName)
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Update("missing", &ProductRequest{MainCategory: "perfume"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(&ProductRequest{ProductName: "Mist", MainCategory: "perfume"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))
	assert.ErrorIs(t, svc.Delete(created.ID), ErrProductNotFound)

	_, err = svc.Get(created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListOrdersByEffectiveExpiryAndFilters(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(&ProductRequest{ProductName: "No expiry", MainCategory: "perfume"})
	require.NoError(t, err)
	_, err = svc.Create(&ProductRequest{ProductName: "Lipstick", MainCategory: "makeup", ExpiryDate: "2025-02-01"})
	require.NoError(t, err)
	_, err = svc.Create(&ProductRequest{ProductName: "Serum", MainCategory: "skincare", SubCategory: "skincare",
		OpeningDate: "2024-06-01", PAOMonths: "3"}) // effective 2024-09-01
	require.NoError(t, err)

	all := svc.List(ListParams{})
	require.Len(t, all, 3)
	assert.Equal(t, "Serum", all[0].ProductName)
	assert.Equal(t, "Lipstick", all[1].ProductName)
	assert.Equal(t, "No expiry", all[2].ProductName)

	byCategory := svc.List(ListParams{MainCategory: "makeup"})
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Lipstick", byCategory[0].ProductName)

	byQuery := svc.List(ListParams{Query: "seRUM"})
	require.Len(t, byQuery, 1)
	assert.Equal(t, "Serum", byQuery[0].ProductName)
}

func TestListDetailComputation(t *testing.T) {
	svc := newTestService(t) // now = 2024-06-15

	_, err := svc.Create(&ProductRequest{ProductName: "Serum", MainCategory: "skincare", SubCategory: "skincare",
		OpeningDate: "2024-06-05", PAOMonths: "6"})
	require.NoError(t, err)

	views := svc.List(ListParams{})
	require.Len(t, views, 1)
	detail := views[0].Detail

	assert.Equal(t, "2024-12-05", detail.EffectiveExpiry)
	assert.Equal(t, "05/12/2024", detail.EffectiveExpiryDisplay)
	require.NotNil(t, detail.DaysLeft)
	assert.Equal(t, 173, *detail.DaysLeft)
	assert.Equal(t, "173d left", detail.Countdown)
	require.NotNil(t, detail.OpenedDaysAgo)
	assert.Equal(t, 10, *detail.OpenedDaysAgo)
	assert.Equal(t, "05/12/2024", detail.PAOExpiryDisplay)
	assert.Equal(t, "5m 20d left", detail.PAOLeftLabel)
}

func TestListDetailPastExpiry(t *testing.T) {
	svc := newTestService(t) // now = 2024-06-15

	_, err := svc.Create(&ProductRequest{ProductName: "Old mascara", MainCategory: "makeup",
		ExpiryDate: "2024-06-10"})
	require.NoError(t, err)

	views := svc.List(ListParams{})
	require.Len(t, views, 1)
	detail := views[0].Detail

	require.NotNil(t, detail.DaysLeft)
	assert.Equal(t, -5, *detail.DaysLeft)
	assert.Equal(t, "5d past", detail.Countdown)
}

func TestExportImportRoundTrip(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(&ProductRequest{ProductName: "Cleanser", MainCategory: "skincare", SubCategory: "skincare"})
	require.NoError(t, err)
	_, err = svc.Create(&ProductRequest{ProductName: "Lipstick", MainCategory: "makeup", ExpiryDate: "2025-05-01"})
	require.NoError(t, err)

	payload, err := svc.Export()
	require.NoError(t, err)

	before := svc.List(ListParams{})

	count, err := svc.Import(payload, reconcile.ModeReplace)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, before, svc.List(ListParams{}))
}

func TestImportMergeByID(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(&ProductRequest{ProductName: "Cleanser", MainCategory: "skincare", SubCategory: "skincare"})
	require.NoError(t, err)

	payload := []byte(`[
		{"id":"` + created.ID + `","productName":"Cleanser v2","mainCategory":"skincare","subCategory":"skincare","createdAt":"2024-06-20T00:00:00Z"},
		{"id":"zz","productName":"New arrival","mainCategory":"perfume","createdAt":"2024-06-25T00:00:00Z"}
	]`)

	count, err := svc.Import(payload, reconcile.ModeMergeByID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cleanser v2", got.ProductName)
}

func TestImportMalformedPayloadLeavesSetUntouched(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(&ProductRequest{ProductName: "Cleanser", MainCategory: "skincare", SubCategory: "skincare"})
	require.NoError(t, err)

	var formatErr *reconcile.ImportFormatError
	_, err = svc.Import([]byte(`{"oops":true}`), reconcile.ModeReplace)
	require.ErrorAs(t, err, &formatErr)

	// a bare null decodes into a nil slice, so a replace import of it would
	// silently empty the set if it were not rejected up front
	_, err = svc.Import([]byte(`null`), reconcile.ModeReplace)
	require.ErrorAs(t, err, &formatErr)

	assert.Len(t, svc.List(ListParams{}), 1)
}

// internal/models/common.go
package models

// Enums
type MainCategory string

const (
	MainCategorySkincare MainCategory = "skincare"
	MainCategoryMakeup   MainCategory = "makeup"
	MainCategoryPerfume  MainCategory = "perfume"
)

func (c MainCategory) Valid() bool {
	switch c {
	case MainCategorySkincare, MainCategoryMakeup, MainCategoryPerfume:
		return true
	}
	return false
}

type SubCategory string

const (
	SubCategorySkincare SubCategory = "skincare"
	SubCategoryHaircare SubCategory = "haircare"
	SubCategoryBodycare SubCategory = "bodycare"
)

func (s SubCategory) Valid() bool {
	switch s {
	case SubCategorySkincare, SubCategoryHaircare, SubCategoryBodycare:
		return true
	}
	return false
}

// UnnamedProduct is the display name assigned when a record is saved with a
// blank product name.
const UnnamedProduct = "(Unnamed product)"

// internal/utils/validator.go
package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/beautyshelf/beautyshelf-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("dateonly", validateDateOnly)
	validate.RegisterValidation("paomonths", validatePAOMonths)
	validate.RegisterValidation("maincategory", validateMainCategory)
	validate.RegisterValidation("subcategory", validateSubCategory)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Calendar dates cross the API as plain YYYY-MM-DD strings.
func validateDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// A PAO is a whole, strictly positive number of months.
func validatePAOMonths(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Field().String())
	return err == nil && n > 0
}

func validateMainCategory(fl validator.FieldLevel) bool {
	return models.MainCategory(fl.Field().String()).Valid()
}

func validateSubCategory(fl validator.FieldLevel) bool {
	return models.SubCategory(fl.Field().String()).Valid()
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "maincategory":
		return e.Field() + " must be one of: skincare, makeup, perfume"
	case "subcategory":
		return e.Field() + " must be one of: skincare, haircare, bodycare"
	case "dateonly":
		return e.Field() + " must be a date in YYYY-MM-DD format"
	case "paomonths":
		return e.Field() + " must be a positive whole number of months"
	default:
		return e.Field() + " is invalid"
	}
}

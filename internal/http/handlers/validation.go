package handlers

import (
	"strings"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, ProductValidationError{Field: "Title", Description: "Title is required"})
	}
	if strings.TrimSpace(p.Category) == "" {
		errs = append(errs, ProductValidationError{Field: "Category", Description: "Category is required"})
	}
	if p.OriginalPrice <= 0 {
		errs = append(errs, ProductValidationError{Field: "OriginalPrice", Description: "Price must be greater than zero"})
	}
	if p.DiscountPercentage < 0 || p.DiscountPercentage > 100 {
		errs = append(errs, ProductValidationError{Field: "DiscountPercentage", Description: "Discount must be between 0 and 100"})
	}
	if p.Rating < 0 || p.Rating > 5 {
		errs = append(errs, ProductValidationError{Field: "Rating", Description: "Rating must be between 0 and 5"})
	}
	if p.ReviewCount < 0 {
		errs = append(errs, ProductValidationError{Field: "ReviewCount", Description: "Review count cannot be negative"})
	}
	return errs
}

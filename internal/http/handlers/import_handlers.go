package handlers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	models "github.com/rogerio-castellano/storefront/internal/models"
	repo "github.com/rogerio-castellano/storefront/internal/repo"
)

type csvRow struct {
	Title              string
	Category           string
	OriginalPrice      float64
	DiscountPercentage int
	InStock            bool
}

var requiredColumns = []string{"title", "category", "original_price"}

func parseCSV(file io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		inStock := true
		if v := field(record, "in_stock"); v != "" {
			inStock, _ = strconv.ParseBool(v)
		}
		rows = append(rows, csvRow{
			Title:              field(record, "title"),
			Category:           field(record, "category"),
			OriginalPrice:      parseFloat(field(record, "original_price")),
			DiscountPercentage: parseInt(field(record, "discount_percentage")),
			InStock:            inStock,
		})
	}
	return rows, nil
}

func validateRow(r csvRow) error {
	if r.Title == "" {
		return errors.New("missing title")
	}
	if r.Category == "" {
		return errors.New("missing category")
	}
	if r.OriginalPrice <= 0 {
		return errors.New("invalid price")
	}
	if r.DiscountPercentage < 0 || r.DiscountPercentage > 100 {
		return errors.New("invalid discount")
	}
	return nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func nowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

func findByTitle(ctx context.Context, title string) (models.Product, bool, error) {
	matches, _, err := catalogSvc.Search(ctx, repo.ProductFilter{Title: title})
	if err != nil {
		return models.Product{}, false, err
	}
	for _, p := range matches {
		if strings.EqualFold(p.Title, title) {
			return p, true, nil
		}
	}
	return models.Product{}, false, nil
}

// ImportProductsHandler godoc
// @Summary Import catalog products via CSV
// @Description Columns: title, category, original_price, discount_percentage, in_stock
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 500 {string} string "Internal error"
// @Router /products/import [post]
// @Security BearerAuth
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	imported := 0
	errorsList := []ProductValidationError{}
	rowError := func(row int, format string, args ...any) {
		errorsList = append(errorsList, ProductValidationError{
			Field:       fmt.Sprintf("row %d", row),
			Description: fmt.Sprintf(format, args...),
		})
	}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		if err := validateRow(rec); err != nil {
			rowError(rowNum, "%v", err)
			continue
		}

		existing, found, err := findByTitle(ctx, rec.Title)
		if err != nil {
			rowError(rowNum, "lookup failed for '%s'", rec.Title)
			continue
		}
		if found {
			if mode == "skip" {
				rowError(rowNum, "product '%s' already exists", rec.Title)
				continue
			}
			existing.Category = rec.Category
			existing.OriginalPrice = rec.OriginalPrice
			existing.DiscountPercentage = rec.DiscountPercentage
			existing.InStock = rec.InStock
			existing.UpdatedAt = nowRFC3339()
			if _, err := catalogSvc.Update(ctx, existing); err != nil {
				rowError(rowNum, "failed to update '%s'", rec.Title)
				continue
			}
			imported++
			continue
		}

		newProduct := models.Product{
			Title:              rec.Title,
			Category:           rec.Category,
			OriginalPrice:      rec.OriginalPrice,
			DiscountPercentage: rec.DiscountPercentage,
			InStock:            rec.InStock,
			CreatedAt:          nowRFC3339(),
			UpdatedAt:          nowRFC3339(),
		}
		if _, err := catalogSvc.Create(ctx, newProduct); err != nil {
			rowError(rowNum, "%v", err)
			continue
		}
		imported++
	}

	writeJSON(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}

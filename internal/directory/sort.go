package directory

import (
	"sort"
	"strings"

	"urbanlink/internal/models"
)

// Sort strategies for a result list.
const (
	SortByRating    = "rating"
	SortByPriceAsc  = "price_asc"
	SortByPriceDesc = "price_desc"
	SortByNameAsc   = "name_asc"
)

// SortWorkers reorders a copy of the list by the given strategy. Stable, so
// ties keep their incoming order. An unknown strategy returns the copy
// untouched.
func SortWorkers(list []models.Worker, strategy string) []models.Worker {
	sorted := append([]models.Worker(nil), list...)

	switch strategy {
	case SortByRating:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Rating > sorted[j].Rating
		})
	case SortByPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].HourlyRate < sorted[j].HourlyRate
		})
	case SortByPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].HourlyRate > sorted[j].HourlyRate
		})
	case SortByNameAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
		})
	}

	return sorted
}

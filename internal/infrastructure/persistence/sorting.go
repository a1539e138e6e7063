package persistence

import (
	"strings"

	"github.com/prakruthi/storefront/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns whitelists the sort keys a listing accepts and maps each to its
// column. Both snake_case and camelCase keys are accepted.
type sortColumns map[string]string

var productSortColumns = sortColumns{
	"created_at": "created_at",
	"createdAt":  "created_at",
	"updated_at": "updated_at",
	"updatedAt":  "updated_at",
	"name":       "name",
	"category":   "category",
	"price":      "price",
	"stock":      "stock",
}

var orderSortColumns = sortColumns{
	"created_at":    "created_at",
	"createdAt":     "created_at",
	"updated_at":    "updated_at",
	"updatedAt":     "updated_at",
	"customer_name": "customer_name",
	"customerName":  "customer_name",
	"total":         "total",
	"status":        "status",
}

// column resolves key, falling back to created_at for unknown or blank keys
func (s sortColumns) column(key string) string {
	if col, ok := s[strings.TrimSpace(key)]; ok {
		return col
	}
	return "created_at"
}

// descending reports whether dir asks for descending order; anything but "asc" does
func descending(dir string) bool {
	return !strings.EqualFold(strings.TrimSpace(dir), "asc")
}

// apply orders q by the filter's sort key, then by id so pages are stable
func (s sortColumns) apply(q *gorm.DB, f shared.Filter) *gorm.DB {
	return q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: s.column(f.OrderBy)}, Desc: descending(f.OrderDir)},
		{Column: clause.Column{Name: "id"}},
	}})
}

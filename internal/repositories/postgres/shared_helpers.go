package postgres

import (
	"gorm.io/gorm"
)

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"id":         true,
		"name":       true,
		"email":      true,
		"date":       true,
		"status":     true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}

// applySearch adds a case-insensitive LIKE filter over the given columns.
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	if search == "" || len(columns) == 0 {
		return query
	}

	pattern := "%" + search + "%"
	clause := ""
	args := make([]interface{}, 0, len(columns))
	for i, col := range columns {
		if i > 0 {
			clause += " OR "
		}
		clause += col + " ILIKE ?"
		args = append(args, pattern)
	}

	return query.Where(clause, args...)
}

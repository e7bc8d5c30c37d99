package repository

import "gorm.io/gorm"

// paginate applies page-based pagination to a GORM query. A non-positive page
// or size leaves the query unbounded.
func paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || pageSize <= 0 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

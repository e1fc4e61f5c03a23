package repository

import (
	"github.com/sangkips/pharmabill-api/pkg/pagination"
	"gorm.io/gorm"
)

// EmployeeScope returns a GORM scope that limits rows to one operator.
// A non-positive id matches nothing.
func EmployeeScope(employeeID int64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if employeeID <= 0 {
			return db.Where("1 = 0")
		}
		return db.Where("employee_id = ?", employeeID)
	}
}

// Paginate returns a GORM scope applying page and per_page limits
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			params = pagination.DefaultPagination()
		}
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

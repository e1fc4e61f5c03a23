package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmabill-api/internal/domain/entity"
)

// GetOperator extracts the authenticated operator from the Gin context
func GetOperator(c *gin.Context) (entity.Operator, bool) {
	val, exists := c.Get("operator")
	if !exists {
		return entity.Operator{}, false
	}
	op, ok := val.(entity.Operator)
	if !ok || op.EmployeeID <= 0 {
		return entity.Operator{}, false
	}
	return op, true
}

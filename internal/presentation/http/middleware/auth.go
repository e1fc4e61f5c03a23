package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pharmabill-api/pkg/utils"
)

// AuthMiddleware validates the bearer token issued by the pharmacy backend
// and stores the operator in the context. The raw token is kept so it can be
// forwarded to the backend.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		tokenString := parts[1]

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("operator", entity.Operator{
			EmployeeID: claims.EmployeeID,
			Name:       claims.Name,
			Roles:      claims.Roles,
			Token:      tokenString,
		})
		c.Set("employee_id", claims.EmployeeID)
		c.Set("user_roles", claims.Roles)

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoles, exists := c.Get("user_roles")
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		userRolesList, ok := userRoles.([]string)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, userRole := range userRolesList {
			for _, requiredRole := range roles {
				if userRole == requiredRole {
					c.Next()
					return
				}
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}

// employeeID reads the operator id set by AuthMiddleware
func employeeID(c *gin.Context) int64 {
	v, ok := c.Get("employee_id")
	if !ok {
		return 0
	}
	id, _ := v.(int64)
	return id
}

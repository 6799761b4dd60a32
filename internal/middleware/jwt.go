package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/waitingroom/backend/internal/auth"
	"github.com/waitingroom/backend/pkg/response"
)

const (
	// ContextUserID is the key for the organizer's IdP subject in gin context.
	ContextUserID = "user_id"
	// ContextUserEmail is the key for the organizer's email in gin context.
	ContextUserEmail = "user_email"
)

// JWT returns a middleware that validates organizer bearer tokens and sets
// identity claims in context.
func JWT(validator *auth.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := validator.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

package middleware

import (
	"strings"

	"foodshare-service/internal/auth"
	"foodshare-service/internal/domain"
	"foodshare-service/pkg/errors"
	"foodshare-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const claimsContextKey = "claims"

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware validates JWT tokens and stores the caller's claims in the context.
func AuthMiddleware(validator TokenValidator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Debug("Missing authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			abortWith(c, errors.NewUnauthorized("missing authorization header", "Header: Authorization"))
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			abortWith(c, errors.NewUnauthorized("invalid authorization header format", "Expected: Bearer <token>"))
			return
		}

		claims, err := validator.ValidateToken(tokenString)
		if err != nil {
			if err == auth.ErrExpiredToken {
				abortWith(c, errors.NewUnauthorized("token expired", "Token has expired, please login again"))
				return
			}
			log.Warn("Invalid token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err),
			)
			abortWith(c, errors.NewUnauthorized("invalid token", ""))
			return
		}

		c.Set(claimsContextKey, claims)
		c.Set(logger.CallerIDKey, claims.UserID.String())
		c.Next()
	}
}

// RequireRole rejects callers whose role is not one of roles. It must run after AuthMiddleware.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			abortWith(c, errors.NewUnauthorized("authentication required", ""))
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		abortWith(c, errors.NewForbidden("access denied. insufficient permissions"))
	}
}

// Claims returns the authenticated caller, if any.
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// CallerID returns the authenticated caller's user id, or uuid.Nil.
func CallerID(c *gin.Context) uuid.UUID {
	if claims, ok := Claims(c); ok {
		return claims.UserID
	}
	return uuid.Nil
}

func abortWith(c *gin.Context, stdErr *errors.StandardError) {
	c.AbortWithStatusJSON(stdErr.HTTPStatus(), stdErr)
}

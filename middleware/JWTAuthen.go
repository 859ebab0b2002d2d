package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"taskboard/apperrors"
	"taskboard/dto"
	"taskboard/model"
	"taskboard/repository"
	"taskboard/services"
)

const (
	// ContextUserID holds the caller's user id (string).
	ContextUserID = "userId"
	// ContextIdentity holds the resolved services.Identity.
	ContextIdentity = "identity"
)

// IdentityResolver looks a token subject up in the user directory.
type IdentityResolver interface {
	Get(ctx context.Context, userID string) (model.User, error)
}

// AccessTokenMiddleware verifies an HMAC-signed bearer token, reads its oid
// claim and resolves it to a user.
func AccessTokenMiddleware(secret []byte, users IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthenticated(c, "authorization header is missing")
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			abortUnauthenticated(c, "authorization header must use the Bearer scheme")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil {
			abortUnauthenticated(c, "token is expired or invalid")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			abortUnauthenticated(c, "invalid token claims")
			return
		}
		oid, ok := claims["oid"].(string)
		if !ok || oid == "" {
			abortUnauthenticated(c, "token has no oid claim")
			return
		}

		user, err := users.Get(c.Request.Context(), oid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abortUnauthenticated(c, "unknown user")
				return
			}
			c.AbortWithStatusJSON(500, dto.ErrorResponse{Error: dto.ErrorBody{
				Kind:    apperrors.KindUnknown,
				Message: "failed to resolve user",
			}})
			return
		}
		c.Set(ContextUserID, user.UserID)
		c.Set(ContextIdentity, services.IdentityOf(user))
		c.Next()
	}
}

// UserID returns the authenticated caller's id, or "" outside the middleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// CurrentIdentity returns the caller resolved by AccessTokenMiddleware.
func CurrentIdentity(c *gin.Context) (services.Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return services.Identity{}, false
	}
	id, ok := v.(services.Identity)
	return id, ok
}

func abortUnauthenticated(c *gin.Context, message string) {
	err := apperrors.Unauthenticated(message)
	c.AbortWithStatusJSON(err.Kind.HTTPStatus(), dto.ErrorResponse{Error: dto.ErrorBody{
		Kind:    err.Kind,
		Message: err.Message,
	}})
}

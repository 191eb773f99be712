package middleware

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/authz"
	"storefront/internal/service"
	"storefront/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID = "userID"
	ctxRole   = "userRole"
)

// Authenticate verifies a bearer token when one is presented and stores the
// caller's identity in the request context. Requests without a token continue
// as anonymous; the guard decides whether they may proceed.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Forbidden("Invalid authorization format. Expected 'Bearer <token>'"))
				return
			}
			tokenString = parts[1]
		}
		if tokenString == "" {
			c.Next()
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Forbidden("Invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Forbidden("Invalid token claims"))
			return
		}

		userID, _ := claims["userId"].(string)
		role, _ := claims["role"].(string)
		c.Set(ctxUserID, userID)
		c.Set(ctxRole, role)

		c.Next()
	}
}

// Guard feeds the caller's role plus the request method and path to the
// authorization engine. Denies map to the forbidden envelope; everything else
// unexpected is an infrastructure failure.
func Guard(engine *authz.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := engine.Authorize(c.Request.Context(), c.GetString(ctxRole), c.Request.Method, c.Request.URL.Path)
		if err == nil {
			c.Next()
			return
		}
		if errors.Is(err, authz.ErrForbidden) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Forbidden(err.Error()))
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error("Internal server error occurred"))
	}
}

// ActorFrom rebuilds the service-layer actor from the request context. It
// returns nil for anonymous callers.
func ActorFrom(c *gin.Context) *service.Actor {
	userID := c.GetString(ctxUserID)
	role := c.GetString(ctxRole)
	if userID == "" && role == "" {
		return nil
	}
	return &service.Actor{UserID: userID, Role: role}
}

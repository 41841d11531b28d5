package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware parses an optional bearer token into the request context.
// A missing header passes through untouched; the route group decides whether
// authentication is required. Refresh tokens are never accepted here.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.Next()
			return
		}

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"kind": utils.ErrorKindAuthentication, "message": "unauthorized"}})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validate, err := utils.JwtValidate(auth)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"kind": utils.ErrorKindAuthentication, "message": "unauthorized"}})
			c.Abort()
			return
		}

		claims, ok := validate.Claims.(*utils.JwtCustomClaim)
		if !ok || claims.TokenType != utils.TokenTypeAccess {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"kind": utils.ErrorKindAuthentication, "message": "unauthorized"}})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		ctx = utils.SetTokenInContext(ctx, auth)
		ctx = utils.SetAccountIdInContext(ctx, claims.ID)
		ctx = utils.SetEmailInContext(ctx, claims.Email)
		ctx = utils.SetAccountNameInContext(ctx, claims.Name)
		ctx = utils.SetIsStaffInContext(ctx, claims.IsStaff)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AuthRequired gates a route group on a successfully parsed access token.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetAccountIdFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"kind": utils.ErrorKindAuthentication, "message": "authentication required"}})
			c.Abort()
			return
		}
		c.Next()
	}
}

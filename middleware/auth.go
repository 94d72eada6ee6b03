package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/weavewear/weavewear-backend-go/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthMiddleware guards routes with the x-auth-token JWT header.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get("x-auth-token")
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"message": "No token, authorization denied",
				})
			}

			claims, err := utils.ValidateJWT(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"message": "Token is not valid",
				})
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"message": "Token is not valid",
				})
			}

			c.Set("userID", userID)
			return next(c)
		}
	}
}

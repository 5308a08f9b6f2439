package middleware

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/streamhive/streamhive-backend/database"
	"github.com/streamhive/streamhive-backend/models"
	"github.com/streamhive/streamhive-backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const ContextUserKey = "user"

// BearerToken extracts a credential from the named cookie, falling back to
// the Authorization header. Cookie takes precedence.
func BearerToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// AuthMiddleware gates protected routes: verifies the access token and
// attaches the resolved user (minus password hash and refresh token) to the
// request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := BearerToken(c, "accessToken")
		if tokenStr == "" {
			Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		claims, err := utils.ValidateToken(tokenStr, os.Getenv("ACCESS_TOKEN_SECRET"))
		if err != nil {
			Fail(c, utils.Unauthorized(err.Error()))
			return
		}

		userID, err := bson.ObjectIDFromHex(claims.UserID)
		if err != nil {
			Fail(c, utils.Unauthorized("Invalid access token"))
			return
		}

		usersCol := database.OpenCollection("users")
		projection := bson.M{"passwordHash": 0, "refreshToken": 0}

		var user models.User
		err = usersCol.FindOne(c.Request.Context(), bson.M{"_id": userID},
			options.FindOne().SetProjection(projection)).Decode(&user)
		if err != nil {
			Fail(c, utils.Unauthorized("Invalid access token"))
			return
		}

		c.Set(ContextUserKey, &user)
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

package middleware

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/streamhive/streamhive-backend/utils"
)

// ErrorHandler renders the first error a handler pushed via c.Error as the
// JSON error envelope. Anything that is not an ApiError is wrapped into a
// 500 preserving the original message; the stack is emitted only outside
// production.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		apiErr := utils.WrapError(c.Errors[0].Err)

		errs := apiErr.Errors
		if errs == nil {
			errs = []string{}
		}
		body := gin.H{
			"message": apiErr.Message,
			"success": false,
			"errors":  errs,
		}
		if os.Getenv("APP_ENV") != "production" && apiErr.Stack != "" {
			body["stack"] = apiErr.Stack
		}

		if !c.Writer.Written() {
			c.JSON(apiErr.StatusCode, body)
		}
	}
}

// NotFoundHandler produces the 404 envelope for unmatched routes.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		Fail(c, utils.NotFound(fmt.Sprintf("Not Found - %s", c.Request.URL.Path)))
	}
}

// Fail records the error for ErrorHandler and stops the pipeline.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

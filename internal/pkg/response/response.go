// Package response is the tagged success/failure envelope every dashboard
// endpoint speaks. Handlers never let an error escape as a panic or a bare
// status; they resolve to one of these shapes and the UI decides which
// inline affordance to show.
package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

package response

import (
	"github.com/gin-gonic/gin"
)

// OK sends the payload as-is. The mobile and admin clients consume raw
// documents and arrays, not an envelope.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends the `{message}` error shape the clients expect.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// NoContent acknowledges a write with an empty 204.
func NoContent(c *gin.Context) {
	c.Status(204)
}

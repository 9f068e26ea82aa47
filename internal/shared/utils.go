package shared

import (
	"github.com/gin-gonic/gin"
)

// ParseEnabledFilter parses the enabled query parameter and returns a pointer to bool or nil
func ParseEnabledFilter(c *gin.Context) *bool {
	switch c.Query("enabled") {
	case "true":
		return boolPtr(true)
	case "false":
		return boolPtr(false)
	default:
		return nil
	}
}

func boolPtr(b bool) *bool {
	return &b
}

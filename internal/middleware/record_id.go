package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/constants"
	apierrors "github.com/maoucrm/crm/internal/errors"
)

// RequireIDParam parses the :id path parameter. Whether the record exists
// and belongs to the caller is left to the owner-scoped service call, so a
// foreign record looks the same as a missing one.
func RequireIDParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid ID")
			return
		}

		c.Set(constants.ContextKeyRecordID, id)
		c.Next()
	}
}

// GetRecordID retrieves the ID parsed by RequireIDParam
func GetRecordID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(constants.ContextKeyRecordID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

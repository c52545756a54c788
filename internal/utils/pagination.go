package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// NewPaginationParams clamps page and limit into the allowed range.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	// Keep the offset representable; such a page is simply empty.
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// GetPaginationParams extracts pagination parameters from the request.
// ok is false when the caller asked for neither page nor limit, in which
// case the full list should be returned.
func GetPaginationParams(c *gin.Context) (params PaginationParams, ok bool) {
	rawPage, hasPage := c.GetQuery("page")
	rawLimit, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return PaginationParams{}, false
	}

	page, _ := strconv.Atoi(rawPage)
	limit, _ := strconv.Atoi(rawLimit)

	return NewPaginationParams(page, limit), true
}

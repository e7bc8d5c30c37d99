package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/resource-planning-api/internal/constants"
)

// PageParams is the page window requested for a project listing.
type PageParams struct {
	Page     int
	PageSize int
}

// GetPaginationParams reads ?page= and ?page_size= (or the older ?limit=) for
// the project list. Out-of-range sizes fall back to the default page size.
func GetPaginationParams(c *gin.Context) PageParams {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	raw := c.Query("page_size")
	if raw == "" {
		raw = c.Query("limit")
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < constants.MinPageSize || size > constants.MaxPageSize {
		size = constants.DefaultPageSize
	}

	return PageParams{Page: page, PageSize: size}
}

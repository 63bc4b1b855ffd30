package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/collabhub/collabhub-api/internal/constants"
)

// ListPage is the window of a task list a request asks for. Page numbers
// start at 1.
type ListPage struct {
	Number int
	Size   int
}

// PageMeta is the pagination block carried by list responses.
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ListPageFromQuery reads the page and limit query parameters. Missing or
// unparsable values fall back to the defaults; a page below 1 floors at 1,
// and a limit outside the bounds is clamped rather than rejected.
func ListPageFromQuery(c *gin.Context) ListPage {
	page := intQuery(c, "page", constants.MinPageSize)
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}

	size := intQuery(c, "limit", constants.DefaultPageSize)
	switch {
	case size < constants.MinPageSize:
		size = constants.DefaultPageSize
	case size > constants.MaxPageSize:
		size = constants.MaxPageSize
	}

	return ListPage{Number: page, Size: size}
}

// Offset converts the page number to a row offset.
func (p ListPage) Offset() int {
	return (p.Number - 1) * p.Size
}

// Meta renders the pagination metadata for a response, given the unpaged
// total.
func (p ListPage) Meta(total int64) PageMeta {
	return PageMeta{
		Page:  p.Number,
		Limit: p.Size,
		Total: total,
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

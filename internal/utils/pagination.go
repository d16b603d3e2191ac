package utils

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds pagination parameters.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// GetPagination reads ?page= and ?limit=, falling back to the defaults for
// missing or invalid values and capping limit at maxLimit.
func GetPagination(c *fiber.Ctx, defaultPage, defaultLimit, maxLimit int) Pagination {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = 0
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = 0
	}
	return NewPagination(page, limit, defaultPage, defaultLimit, maxLimit)
}

// NewPagination normalizes page and limit. Pages are capped so that Offset
// stays within int32 range; a capped page is simply past the last item.
func NewPagination(page, limit, defaultPage, defaultLimit, maxLimit int) Pagination {
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = defaultPage
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt32/limit + 1; page > maxPage {
		page = maxPage
	}
	return Pagination{Page: page, Limit: limit}
}

// Offset is the number of items before the current page.
func (p Pagination) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

func (p *Pagination) SetTotal(total int64) {
	p.Total = total
	if p.Limit > 0 {
		p.TotalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func NewPaginatedResponse(data interface{}, pagination Pagination) PaginatedResponse {
	return PaginatedResponse{
		Data:       data,
		Pagination: pagination,
	}
}

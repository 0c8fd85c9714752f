package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 6
	MaxLimit     = 100
	// MaxPage keeps Offset within int32 for every allowed limit.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Params is a parsed ?page=&limit= pair.
type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// FromQuery reads page/limit, falling back to defaults on garbage.
func FromQuery(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return Params{Page: page, Limit: limit}
}

// Page is the list envelope returned by paginated endpoints.
type Page[T any] struct {
	Results    []T   `json:"results"`
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := int(total) / p.Limit
	if int(total)%p.Limit > 0 {
		totalPages++
	}

	return Page[T]{
		Results:    items,
		Count:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}
}

package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/finsight/pkg/common"
)

const (
	DefaultLimit  = 20
	MaxLimit      = 100
	DefaultOffset = 0
)

// Params holds pagination parameters parsed from a request
type Params struct {
	Limit  int
	Offset int
}

// ParseParams reads limit/offset from the query string. A zero-based page
// (with size as an alias of limit) is accepted when offset is absent.
func ParseParams(c *gin.Context) Params {
	params := Params{Limit: DefaultLimit, Offset: DefaultOffset}

	limitStr := c.Query("limit")
	if limitStr == "" {
		limitStr = c.Query("size")
	}
	if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
		params.Limit = limit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}

	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset >= 0 {
		params.Offset = offset
	} else if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		params.Offset = page * params.Limit
	}

	return params
}

// BuildMeta creates pagination metadata for a response
func BuildMeta(limit, offset int, total int64) *common.Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return &common.Meta{
		Limit:      limit,
		Offset:     offset,
		Total:      total,
		TotalPages: totalPages,
	}
}

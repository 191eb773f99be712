package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts and validates page/limit from query parameters
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// SortParam validates the sort query parameter against the allowed columns
// plus the timestamp columns every entity carries. The value is either
// "column" or "column desc"; anything else yields an empty sort.
func SortParam(c *gin.Context, allowed []string) string {
	raw := strings.TrimSpace(c.Query("sort"))
	if raw == "" {
		return ""
	}

	column := raw
	desc := false
	if strings.HasSuffix(raw, " desc") {
		column = strings.TrimSuffix(raw, " desc")
		desc = true
	}

	ok := column == "created_at" || column == "updated_at"
	for _, a := range allowed {
		if column == a {
			ok = true
			break
		}
	}
	if !ok {
		return ""
	}
	if desc {
		return column + " desc"
	}
	return column
}

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ctxWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		page   int
		limit  int
		offset int
	}{
		{"defaults", "", 1, DefaultLimit, 0},
		{"explicit", "page=3&limit=10", 3, 10, 20},
		{"zero page falls back", "page=0&limit=10", 1, 10, 0},
		{"negative limit falls back", "limit=-5", 1, DefaultLimit, 0},
		{"limit capped", "limit=500", 1, MaxLimit, 0},
		{"garbage falls back", "page=abc&limit=xyz", 1, DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(ctxWithQuery(tt.query))
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.offset, p.Offset)
		})
	}
}

func TestSortParam(t *testing.T) {
	allowed := []string{"name", "price"}

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"empty", "", ""},
		{"allowed column", "sort=name", "name"},
		{"allowed descending", "sort=price+desc", "price desc"},
		{"timestamp always allowed", "sort=created_at+desc", "created_at desc"},
		{"unknown column dropped", "sort=password", ""},
		{"injection attempt dropped", "sort=name%3B+DROP+TABLE+users", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SortParam(ctxWithQuery(tt.query), allowed))
		})
	}
}

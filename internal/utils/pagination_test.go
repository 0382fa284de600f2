package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNewPaginationParamsClamps(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		sort      string
		order     string
		wantPage  int
		wantLimit int
		wantSort  string
		wantOrder string
	}{
		{"defaults", 0, 0, "", "", 1, DefaultPageSize, "createdAt", "desc"},
		{"over max", 3, 500, "price", "asc", 3, MaxPageSize, "price", "asc"},
		{"unknown sort", 1, 20, "password", "sideways", 1, 20, "createdAt", "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginationParams(tt.page, tt.limit, tt.sort, tt.order, "  pizza ")
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantSort, p.Sort)
			assert.Equal(t, tt.wantOrder, p.Order)
			assert.Equal(t, "pizza", p.Search)
		})
	}
}

func TestCreatePaginationMeta(t *testing.T) {
	meta := CreatePaginationMeta(NewPaginationParams(2, 10, "", "", ""), 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.Equal(t, int64(25), meta.Total)

	last := CreatePaginationMeta(NewPaginationParams(3, 10, "", "", ""), 25)
	assert.False(t, last.HasNext)

	empty := CreatePaginationMeta(nil, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Equal(t, 1, empty.Page)
}

func TestGetSkipAndSort(t *testing.T) {
	p := NewPaginationParams(4, 25, "name", "asc", "")
	assert.Equal(t, 75, p.GetSkip())

	opts := p.GetFindOptions()
	assert.Equal(t, int64(75), *opts.Skip)
	assert.Equal(t, int64(25), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}, opts.Sort)
}

func TestGetSearchFilterEscapesPattern(t *testing.T) {
	p := NewPaginationParams(1, 10, "", "", "a+b")
	filter := p.GetSearchFilter("name", "description")

	or, ok := filter["$or"].([]bson.M)
	if assert.True(t, ok) {
		assert.Len(t, or, 2)
		assert.Equal(t, bson.M{"$regex": `a\+b`, "$options": "i"}, or[0]["name"])
	}

	assert.Empty(t, NewPaginationParams(1, 10, "", "", "").GetSearchFilter("name"))
}

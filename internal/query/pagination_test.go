package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageClamping(t *testing.T) {
	tests := []struct {
		number, limit         int
		wantNumber, wantLimit int
	}{
		{1, 10, 1, 10},
		{0, 10, 1, 10},
		{-5, 10, 1, 10},
		{3, 0, 3, 1},
		{3, -2, 3, 1},
	}

	for _, tt := range tests {
		p := NewPage(tt.number, tt.limit)
		assert.Equal(t, tt.wantNumber, p.Number, "number for input (%d,%d)", tt.number, tt.limit)
		assert.Equal(t, tt.wantLimit, p.Limit, "limit for input (%d,%d)", tt.number, tt.limit)
	}
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, NewPage(1, 10).Offset())
	assert.Equal(t, 10, NewPage(2, 10).Offset())
	assert.Equal(t, 8, NewPage(5, 2).Offset())
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		total, limit, page int
		wantPages          int
	}{
		{0, 10, 1, 0},
		{1, 10, 1, 1},
		{10, 10, 1, 1},
		{11, 10, 2, 2},
		{2, 1, 2, 2},
	}

	for _, tt := range tests {
		m := NewMeta(tt.total, NewPage(tt.page, tt.limit))
		assert.Equal(t, tt.wantPages, m.TotalPages, "totalPages for total=%d limit=%d", tt.total, tt.limit)
		assert.Equal(t, tt.total, m.Total)
		assert.Equal(t, tt.page, m.CurrentPage)
	}
}

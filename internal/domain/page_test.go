package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/eld-logbook/internal/domain"
)

func intp(v int) *int { return &v }

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		name        string
		page, limit *int
		want        domain.PaginationParams
		wantOffset  int
	}{
		{"defaults", nil, nil, domain.PaginationParams{Page: 1, Limit: 20}, 0},
		{"explicit", intp(3), intp(10), domain.PaginationParams{Page: 3, Limit: 10}, 20},
		{"non-positive falls back", intp(0), intp(-4), domain.PaginationParams{Page: 1, Limit: 20}, 0},
		{"limit clamped", intp(2), intp(500), domain.PaginationParams{Page: 2, Limit: 100}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.NewPaginationParams(tt.page, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOffset, got.Offset())
		})
	}
}

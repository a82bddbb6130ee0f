package request

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginatedRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        PaginatedRequest
		wantLimit  int
		wantOffset int
		wantPage   int
	}{
		{name: "defaults", req: PaginatedRequest{}, wantLimit: 10, wantOffset: 0, wantPage: 1},
		{name: "third page", req: PaginatedRequest{Page: 3, PerPage: 20}, wantLimit: 20, wantOffset: 40, wantPage: 3},
		{name: "per page capped", req: PaginatedRequest{Page: 2, PerPage: 500}, wantLimit: 100, wantOffset: 100, wantPage: 2},
		{name: "huge page clamped", req: PaginatedRequest{Page: math.MaxInt, PerPage: 100}, wantLimit: 100, wantOffset: 99_999_900, wantPage: MaxPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLimit, tt.req.Limit())
			assert.Equal(t, tt.wantOffset, tt.req.Offset())
			assert.Equal(t, tt.wantPage, tt.req.CurrentPage())
		})
	}
}

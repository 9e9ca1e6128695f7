package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationSetTotal(t *testing.T) {
	cases := []struct {
		limit    int
		total    int64
		lastPage int
	}{
		{10, 0, 0},
		{10, 1, 1},
		{10, 10, 1},
		{10, 11, 2},
		{10, 95, 10},
		{25, 95, 4},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("limit %d total %d", tc.limit, tc.total), func(t *testing.T) {
			p := &Pagination{Page: 1, Limit: tc.limit}
			p.SetTotal(tc.total)
			assert.Equal(t, tc.total, p.Total)
			assert.Equal(t, tc.lastPage, p.LastPage)
		})
	}
}

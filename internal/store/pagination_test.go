package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageParams_Validate(t *testing.T) {
	tests := []struct {
		name      string
		input     PageParams
		wantPage  int
		wantLimit int
	}{
		{"valid parameters", PageParams{Page: 2, Limit: 5}, 2, 5},
		{"zero values use defaults", PageParams{}, 1, DefaultBookLimit},
		{"negative page", PageParams{Page: -3, Limit: 5}, 1, 5},
		{"limit over max is capped", PageParams{Page: 1, Limit: 5000}, 1, MaxPageLimit},
		{"limit at max stays", PageParams{Page: 1, Limit: MaxPageLimit}, 1, MaxPageLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.input
			p.Validate(DefaultBookLimit)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

func TestPageParams_Offset(t *testing.T) {
	tests := []struct {
		name string
		p    PageParams
		want int
	}{
		{"first page", PageParams{Page: 1, Limit: 10}, 0},
		{"second page of five", PageParams{Page: 2, Limit: 5}, 5},
		{"third page of ten", PageParams{Page: 3, Limit: 10}, 20},
		{"saturates", PageParams{Page: math.MaxInt, Limit: 100}, math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Offset())
		})
	}
}

func TestNewPageParams_ReviewDefaults(t *testing.T) {
	p := NewPageParams(0, 0, DefaultReviewLimit)

	assert.Equal(t, PageParams{Page: 1, Limit: DefaultReviewLimit}, p)
}

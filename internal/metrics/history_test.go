package metrics

import (
	"slices"
	"testing"
)

func TestHistory(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		push     []int
		want     []int
	}{
		{"Empty", 3, nil, []int{}},
		{"Partial", 3, []int{1, 2}, []int{1, 2}},
		{"Exact", 3, []int{1, 2, 3}, []int{1, 2, 3}},
		{"Wrapped", 3, []int{1, 2, 3, 4, 5}, []int{3, 4, 5}},
		{"ZeroCapacity", 0, []int{1, 2}, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory[int](tt.capacity)
			for _, v := range tt.push {
				h.Push(v)
			}
			if got := h.Items(); !slices.Equal(got, tt.want) {
				t.Errorf("Items() = %v, want %v", got, tt.want)
			}
		})
	}
}

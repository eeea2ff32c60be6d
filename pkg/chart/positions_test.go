package chart

import (
	"slices"
	"testing"

	"github.com/matzehuels/originchart/pkg/origin"
)

func TestPositions(t *testing.T) {
	tests := []struct {
		name string
		node origin.Node
		want []int
	}{
		{"Missing", origin.Node{ID: "a"}, []int{4}},
		{"PrimaryOnly", origin.Node{ID: "a", Position: origin.IntPtr(7)}, []int{7}},
		{"PrimaryOutOfRange", origin.Node{ID: "a", Position: origin.IntPtr(12)}, []int{4}},
		{"Sorted", origin.Node{ID: "a", Positions: []int{6, 2}}, []int{2, 6}},
		{"Deduplicated", origin.Node{ID: "a", Positions: []int{5, 5, 1}}, []int{1, 5}},
		{"DropsInvalid", origin.Node{ID: "a", Positions: []int{-1, 3, 9}}, []int{3}},
		{"AllInvalid", origin.Node{ID: "a", Positions: []int{-1, 9}, Position: origin.IntPtr(2)}, []int{2}},
		{"PositionsWin", origin.Node{ID: "a", Positions: []int{1}, Position: origin.IntPtr(2)}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Positions(tt.node); !slices.Equal(got, tt.want) {
				t.Errorf("Positions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPositionsDoesNotModifyNode(t *testing.T) {
	n := origin.Node{ID: "a", Positions: []int{6, 2, 6}}
	_ = Positions(n)
	if !slices.Equal(n.Positions, []int{6, 2, 6}) {
		t.Errorf("node positions modified: %v", n.Positions)
	}
}

func TestResolvePathPositions(t *testing.T) {
	tests := []struct {
		name string
		node origin.Node
		last *origin.Selection
		want []int
	}{
		{
			name: "NoLastSelection",
			node: origin.Node{ID: "a", Positions: []int{2, 6}},
			want: []int{2, 6},
		},
		{
			name: "Intersects",
			node: origin.Node{ID: "a", Positions: []int{2, 3, 6}},
			last: &origin.Selection{ID: "x", Positions: []int{5}},
			want: []int{6},
		},
		{
			name: "IntersectsSeveral",
			node: origin.Node{ID: "a", Positions: []int{1, 2, 3, 8}},
			last: &origin.Selection{ID: "x", Positions: []int{2}},
			want: []int{1, 2, 3},
		},
		{
			name: "FallsBackToFullSet",
			node: origin.Node{ID: "a", Positions: []int{0, 1}},
			last: &origin.Selection{ID: "x", Positions: []int{7}},
			want: []int{0, 1},
		},
		{
			name: "SelectionWithoutPositionsUsesCentre",
			node: origin.Node{ID: "a", Positions: []int{0, 5}},
			last: &origin.Selection{ID: "x"},
			want: []int{5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePathPositions(tt.node, tt.last); !slices.Equal(got, tt.want) {
				t.Errorf("ResolvePathPositions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolvePathPositionsNeverEmpty(t *testing.T) {
	for p := origin.MinPosition; p <= origin.MaxPosition; p++ {
		for q := origin.MinPosition; q <= origin.MaxPosition; q++ {
			n := origin.Node{ID: "n", Positions: []int{p}}
			last := &origin.Selection{ID: "l", Positions: []int{q}}
			got := ResolvePathPositions(n, last)
			if len(got) == 0 {
				t.Fatalf("ResolvePathPositions(%d, %d) returned empty", p, q)
			}
			if !IsPositionAllowed([]int{p}, AllowedPositions([]int{q})) && !slices.Equal(got, []int{p}) {
				t.Errorf("ResolvePathPositions(%d, %d) = %v, want unfiltered [%d]", p, q, got, p)
			}
		}
	}
}

func TestPrimaryPosition(t *testing.T) {
	tests := []struct {
		name string
		node origin.Node
		want int
	}{
		{"Default", origin.Node{}, 4},
		{"Explicit", origin.Node{Position: origin.IntPtr(0)}, 0},
		{"FromPositions", origin.Node{Positions: []int{7, 3}}, 3},
		{"InvalidExplicit", origin.Node{Position: origin.IntPtr(-2), Positions: []int{6}}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.PrimaryPosition(); got != tt.want {
				t.Errorf("PrimaryPosition() = %d, want %d", got, tt.want)
			}
		})
	}
}

package core

import "testing"

func TestNewRegionNormalizes(t *testing.T) {
	r := NewRegion(GI(4, 1), GI(1, 5))
	if r.Start != GI(1, 1) || r.End != GI(4, 5) {
		t.Errorf("NewRegion = %v, expected (1,1)-(4,5)", r)
	}
	if r.Width() != 4 || r.Height() != 5 || r.Area() != 20 {
		t.Errorf("size = %dx%d area %d", r.Width(), r.Height(), r.Area())
	}
}

func TestRegionContains(t *testing.T) {
	r := NewRegion(GI(1, 1), GI(3, 2))

	tests := []struct {
		name     string
		idx      GridIndex
		expected bool
	}{
		{"start corner", GI(1, 1), true},
		{"end corner", GI(3, 2), true},
		{"interior", GI(2, 2), true},
		{"left of start", GI(0, 1), false},
		{"above start", GI(1, 0), false},
		{"right of end", GI(4, 2), false},
		{"below end", GI(3, 3), false},
		{"inside x outside y", GI(2, 5), false},
		{"inside y outside x", GI(-2, 2), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.idx); got != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.idx, got, tc.expected)
			}
		})
	}
}

func TestRegionSingleCell(t *testing.T) {
	r := NewRegion(GI(2, 2), GI(2, 2))
	if !r.Contains(GI(2, 2)) {
		t.Error("single-cell region should contain its corner")
	}
	if r.Area() != 1 {
		t.Errorf("Area() = %d, expected 1", r.Area())
	}
}

func TestRegionIntersect(t *testing.T) {
	a := NewRegion(GI(0, 0), GI(4, 4))

	got, ok := a.Intersect(NewRegion(GI(3, 3), GI(8, 8)))
	if !ok || got != NewRegion(GI(3, 3), GI(4, 4)) {
		t.Errorf("Intersect = %v %v, expected (3,3)-(4,4)", got, ok)
	}

	if _, ok := a.Intersect(NewRegion(GI(5, 0), GI(6, 6))); ok {
		t.Error("disjoint regions should not intersect")
	}
}

func TestRegionEachRowMajor(t *testing.T) {
	var got []GridIndex
	NewRegion(GI(0, 0), GI(1, 1)).Each(func(idx GridIndex) {
		got = append(got, idx)
	})
	want := []GridIndex{GI(0, 0), GI(1, 0), GI(0, 1), GI(1, 1)}
	if len(got) != len(want) {
		t.Fatalf("visited %d cells, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %v, expected %v", i, got[i], want[i])
		}
	}
}

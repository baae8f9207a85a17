package core

import "testing"

func TestCaptureStamp(t *testing.T) {
	m := NewMap(4, 4, 1)
	_ = m.Set(GI(1, 1), B(1))
	_ = m.Set(GI(2, 1), B(1))
	_ = m.Set(GI(1, 2), B(2))

	s := CaptureStamp(m, NewRegion(GI(1, 1), GI(2, 2)))
	want := Stamp{
		{Offset: GI(0, 0), Block: B(1)},
		{Offset: GI(1, 0), Block: B(1)},
		{Offset: GI(0, 1), Block: B(2)},
		{Offset: GI(1, 1), Block: EmptyBlock},
	}
	if len(s) != len(want) {
		t.Fatalf("captured %d cells, expected %d", len(s), len(want))
	}
	for i := range want {
		if s[i] != want[i] {
			t.Errorf("cell %d = %+v, expected %+v", i, s[i], want[i])
		}
	}
	if w, h := s.Size(); w != 2 || h != 2 {
		t.Errorf("Size() = %dx%d, expected 2x2", w, h)
	}
}

func TestCaptureStampClipsToMap(t *testing.T) {
	m := NewMap(2, 2, 1)
	s := CaptureStamp(m, NewRegion(GI(-1, -1), GI(0, 0)))
	if len(s) != 1 || s[0].Offset != GI(1, 1) {
		t.Errorf("CaptureStamp = %+v, expected single cell at offset (1,1)", s)
	}
}

package mathx

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertMatrix(t *testing.T, name string, got, want Mat3) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func TestTRSIdentity(t *testing.T) {
	assertMatrix(t, "identity", TRS(Vec2{}, 0, Vec2{1, 1}), Identity())
}

func TestTRSTranslation(t *testing.T) {
	got := TRS(Vec2{10, 5}, 0, Vec2{1, 1})
	assertMatrix(t, "translation", got, Mat3{1, 0, 0, 0, 1, 0, 10, 5, 1})
	if tr := got.Translation(); tr != (Vec2{10, 5}) {
		t.Errorf("Translation() = %v", tr)
	}
}

func TestTRSRotation90(t *testing.T) {
	got := TRS(Vec2{}, math.Pi/2, Vec2{1, 1})
	// x axis maps to y axis
	p := got.TransformPoint(Vec2{1, 0})
	if math.Abs(p[0]) > epsilon || math.Abs(p[1]-1) > epsilon {
		t.Errorf("rotated point = %v, want [0 1]", p)
	}
}

func TestTRSOrderScalesBeforeTranslating(t *testing.T) {
	// T * R * S applied to a point scales first, then rotates, then translates.
	m := TRS(Vec2{100, 0}, math.Pi/2, Vec2{2, 1})
	p := m.TransformPoint(Vec2{1, 0})
	if math.Abs(p[0]-100) > epsilon || math.Abs(p[1]-2) > epsilon {
		t.Errorf("point = %v, want [100 2]", p)
	}
}

func TestMultiplyComposesTranslations(t *testing.T) {
	parent := TRS(Vec2{10, 5}, 0, Vec2{1, 1})
	child := TRS(Vec2{1, 2}, 0, Vec2{1, 1})
	if got := Multiply(parent, child).Translation(); got != (Vec2{11, 7}) {
		t.Errorf("composed translation = %v, want [11 7]", got)
	}
}

func TestMultiplyParentScaleAffectsChildOffset(t *testing.T) {
	parent := TRS(Vec2{}, 0, Vec2{2, 3})
	child := TRS(Vec2{1, 1}, 0, Vec2{1, 1})
	got := Multiply(parent, child).Translation()
	if math.Abs(got[0]-2) > epsilon || math.Abs(got[1]-3) > epsilon {
		t.Errorf("translation = %v, want [2 3]", got)
	}
}

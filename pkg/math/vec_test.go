package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Clamp01(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		in, want Vec2
	}{
		{Vec2{0.25, 0.75}, Vec2{0.25, 0.75}},
		{Vec2{-1, 2}, Vec2{0, 1}},
		{Vec2{nan, 1}, Vec2{0, 1}},
	}
	for _, tt := range tests {
		if got := tt.in.Clamp01(); got != tt.want {
			t.Errorf("%v.Clamp01() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 12}.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3Mul(t *testing.T) {
	got := Vec3{1, 2, 3}.Mul(Vec3{0.5, 2, 0})
	if got != (Vec3{0.5, 4, 0}) {
		t.Errorf("Vec3.Mul() = %v", got)
	}
}

func TestVec4PerspectiveDivide(t *testing.T) {
	v, ok := Vec4{2, 4, 6, 2}.PerspectiveDivide()
	if !ok || v != (Vec3{1, 2, 3}) {
		t.Errorf("PerspectiveDivide() = %v, %v", v, ok)
	}
	if _, ok := (Vec4{1, 1, 1, 0}).PerspectiveDivide(); ok {
		t.Error("w=0 should not divide")
	}
}

func TestMat3MulVec3(t *testing.T) {
	m := Mat3{1, 0, 0, 0, 2, 0, 0, 0, 3}
	if got := m.MulVec3(Vec3{1, 1, 1}); got != (Vec3{1, 2, 3}) {
		t.Errorf("Mat3.MulVec3() = %v", got)
	}
}

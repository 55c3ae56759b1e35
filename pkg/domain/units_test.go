package domain

import "testing"

func TestScaleAreaRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		area float64
		want int64
	}{
		{"whole unit", 1.0, 10},
		{"tenth unit", 0.1, 1},
		{"fractional rounds to nearest", 1.25, 13},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleArea(tt.area); got != tt.want {
				t.Errorf("ScaleArea(%v) = %d, want %d", tt.area, got, tt.want)
			}
		})
	}
}

func TestUnscaleAreaInverse(t *testing.T) {
	if got := UnscaleArea(10); got != 1.0 {
		t.Errorf("UnscaleArea(10) = %v, want 1.0", got)
	}
	if got := UnscaleArea(25); got != 2.5 {
		t.Errorf("UnscaleArea(25) = %v, want 2.5", got)
	}
}

func TestExactRatioReducesToLowestTerms(t *testing.T) {
	tests := []struct {
		name   string
		p, q   int64
		wantP  int64
		wantQ  int64
	}{
		{"already reduced", 1, 2, 1, 2},
		{"reduces", 4, 8, 1, 2},
		{"negative denominator normalizes sign", 3, -6, -1, 2},
		{"zero denominator", 5, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotP, gotQ := ExactRatio(tt.p, tt.q)
			if gotP != tt.wantP || gotQ != tt.wantQ {
				t.Errorf("ExactRatio(%d, %d) = (%d, %d), want (%d, %d)", tt.p, tt.q, gotP, gotQ, tt.wantP, tt.wantQ)
			}
		})
	}
}

func TestRationalFromFloatExact(t *testing.T) {
	p, q := RationalFromFloat(0.25, 2)
	if p*4 != q {
		t.Errorf("RationalFromFloat(0.25, 2) = %d/%d, want a ratio equal to 1/4", p, q)
	}
}

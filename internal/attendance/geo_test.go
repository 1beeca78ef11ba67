package attendance

import (
	"math"
	"testing"
)

func TestHaversineMeters(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
		tol  float64
	}{
		{"same point", Point{12.90, 77.50}, Point{12.90, 77.50}, 0, 0.001},
		{"about 200m north", Point{12.90, 77.50}, Point{12.9018, 77.50}, 200, 5},
		{"one degree longitude at equator", Point{0, 0}, Point{0, 1}, 111195, 200},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := HaversineMeters(tc.a, tc.b)
			if math.Abs(got-tc.want) > tc.tol {
				t.Fatalf("HaversineMeters = %.2f, want %.2f ± %.2f", got, tc.want, tc.tol)
			}
			// Symmetry.
			if rev := HaversineMeters(tc.b, tc.a); math.Abs(rev-got) > 0.001 {
				t.Fatalf("distance not symmetric: %.4f vs %.4f", got, rev)
			}
		})
	}
}

func TestFenceWithin(t *testing.T) {
	fence := Fence{Center: Point{12.90, 77.50}, RadiusM: 50}
	if !fence.Within(Point{12.90, 77.50}) {
		t.Fatal("center point should pass")
	}
	if fence.Within(Point{12.9018, 77.50}) {
		t.Fatal("point ~200m away should fail a 50m fence")
	}
}

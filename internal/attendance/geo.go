package attendance

import "math"

const earthRadiusM = 6371000

// HaversineMeters computes the great-circle distance between two points in
// meters.
func HaversineMeters(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusM * c
}

// Within reports whether the point falls inside the fence.
func (f Fence) Within(p Point) bool {
	return HaversineMeters(f.Center, p) <= f.RadiusM
}

package utils

import (
	"math"
)

// BearingBetweenPoints calculates the initial great-circle bearing in degrees
// from point1 to point2 (0 = north, clockwise, [0, 360)).
func BearingBetweenPoints(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(deltaLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLon)

	theta := math.Atan2(y, x)
	bearing := math.Mod(theta*180/math.Pi+360, 360)

	return bearing
}

// HeadingBetweenPoints rounds the bearing to a whole degree in [0, 359].
func HeadingBetweenPoints(lat1, lon1, lat2, lon2 float64) int {
	return int(math.Round(BearingBetweenPoints(lat1, lon1, lat2, lon2))) % 360
}

// BearingToCompass converts a bearing (0-360°) to 8-point compass direction
func BearingToCompass(bearing float64) string {
	directions := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	index := int((bearing+22.5)/45.0) % 8
	return directions[index]
}

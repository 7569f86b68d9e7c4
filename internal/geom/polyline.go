// Package geom decodes and encodes route geometry in the standard encoded
// polyline format (1e-5 precision).
package geom

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-polyline"

	"vonatradar.hu/internal/models"
)

// ErrMalformedGeometry reports an encoded polyline that cannot be decoded,
// typically because the byte stream terminates mid-symbol. Callers treat the
// whole shape as unavailable; the error never aborts a fetch cycle.
var ErrMalformedGeometry = errors.New("malformed encoded geometry")

// DecodePolyline decodes an encoded polyline string into an ordered
// coordinate sequence. An empty input yields an empty sequence, not an error.
// The mapping is deterministic, so results are safe to cache by input string.
func DecodePolyline(encoded string) ([]models.Coordinate, error) {
	if encoded == "" {
		return []models.Coordinate{}, nil
	}

	pairs, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: %d undecodable trailing bytes", ErrMalformedGeometry, len(rest))
	}

	coords := make([]models.Coordinate, 0, len(pairs))
	for _, p := range pairs {
		coords = append(coords, models.Coordinate{Lat: p[0], Lon: p[1]})
	}
	return coords, nil
}

// EncodePolyline encodes a coordinate sequence with the same precision used
// by DecodePolyline, so decode-then-encode round-trips exactly.
func EncodePolyline(coords []models.Coordinate) string {
	pairs := make([][]float64, 0, len(coords))
	for _, c := range coords {
		pairs = append(pairs, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(pairs))
}

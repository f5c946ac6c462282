// Package geo holds the spherical helpers behind proximity search.
package geo

import (
	"math"
	"sort"
	"time"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

type Point struct {
	Lat float64
	Lng float64
}

func radians(deg float64) float64 { return deg * math.Pi / 180.0 }

func degrees(rad float64) float64 { return rad * 180.0 / math.Pi }

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	la1 := radians(a.Lat)
	la2 := radians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// BoundingBox is a lat/lng rectangle. When WrapsLng is set the box crosses
// the antimeridian or a pole and longitude must not be used as a filter.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
	WrapsLng       bool
}

// Around returns a box that contains every point within radius meters of p.
func Around(p Point, radius float64) BoundingBox {
	dLat := degrees(radius / EarthRadiusMeters)
	box := BoundingBox{
		MinLat: math.Max(p.Lat-dLat, -90),
		MaxLat: math.Min(p.Lat+dLat, 90),
	}
	if box.MinLat <= -90 || box.MaxLat >= 90 {
		box.MinLng, box.MaxLng, box.WrapsLng = -180, 180, true
		return box
	}
	dLng := degrees(radius / (EarthRadiusMeters * math.Cos(radians(p.Lat))))
	box.MinLng = p.Lng - dLng
	box.MaxLng = p.Lng + dLng
	if box.MinLng < -180 || box.MaxLng > 180 {
		box.MinLng, box.MaxLng, box.WrapsLng = -180, 180, true
	}
	return box
}

func (b BoundingBox) Contains(p Point) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	if b.WrapsLng {
		return true
	}
	return p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Hit is a candidate positioned relative to a search origin.
type Hit[T any] struct {
	Item      T
	Distance  float64
	CreatedAt time.Time
}

// SortNearest orders hits nearest first, newest first on equal distance.
func SortNearest[T any](hits []Hit[T]) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].CreatedAt.After(hits[j].CreatedAt)
	})
}

// Window slices hits to [offset, offset+limit).
func Window[T any](hits []T, offset, limit int) []T {
	if offset >= len(hits) {
		return hits[:0]
	}
	end := offset + limit
	if limit <= 0 || end > len(hits) {
		end = len(hits)
	}
	return hits[offset:end]
}

// Package maps defines the map capabilities the client core drives. The
// rendering engine itself lives outside the core; MemoryMap is the in-process
// implementation used by the console client and tests.
package maps

import "fmt"

// Point is a WGS84 location.
type Point struct {
	Lat float64
	Lon float64
}

func (p Point) String() string {
	return fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lon)
}

// Layer groups overlays so they can be cleared together.
type Layer string

const (
	// LayerLocal holds the player's own pin.
	LayerLocal Layer = "local"
	// LayerReveal holds the answer, everyone's guesses and the connecting lines.
	LayerReveal Layer = "reveal"
)

type MarkerHandle string

type LineHandle string

type MarkerKind int

const (
	MarkerLocalGuess MarkerKind = iota
	MarkerAnswer
	MarkerGuess
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerLocalGuess:
		return "local-guess"
	case MarkerAnswer:
		return "answer"
	case MarkerGuess:
		return "guess"
	}
	return "unknown"
}

type MarkerOptions struct {
	Kind      MarkerKind
	Draggable bool
	Label     string
}

// MapAdapter is the full surface the core uses to draw on the map.
type MapAdapter interface {
	PlaceMarker(layer Layer, p Point, opts MarkerOptions) MarkerHandle
	MoveMarker(h MarkerHandle, p Point)
	RemoveMarker(h MarkerHandle)
	DrawLine(layer Layer, from, to Point, label string) LineHandle
	ClearLayer(layer Layer)
	FitView(points []Point)
	SetView(p Point, zoom int)
	OnMapClick(fn func(p Point))
}

// Bounds is the smallest lat/lon box containing a set of points.
type Bounds struct {
	SouthWest Point
	NorthEast Point
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lon: (b.SouthWest.Lon + b.NorthEast.Lon) / 2,
	}
}

// BoundsOf returns the bounding box of points, or false when points is empty.
func BoundsOf(points []Point) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		b.SouthWest.Lat = min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lon = min(b.SouthWest.Lon, p.Lon)
		b.NorthEast.Lat = max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lon = max(b.NorthEast.Lon, p.Lon)
	}
	return b, true
}

package maps

import (
	"sort"
	"sync"

	"github.com/cbodonnell/geoquiz/pkg/log"
	"github.com/google/uuid"
)

const (
	DefaultZoom = 2
)

var DefaultCenter = Point{Lat: 20, Lon: 0}

type Marker struct {
	Handle  MarkerHandle
	Layer   Layer
	Point   Point
	Options MarkerOptions
}

type Line struct {
	Handle LineHandle
	Layer  Layer
	From   Point
	To     Point
	Label  string
}

// Viewport is the visible part of the map. Bounds is set when the view was
// fitted to a set of points rather than centered at a zoom level.
type Viewport struct {
	Center Point
	Zoom   int
	Bounds *Bounds
}

// State is a handle-free, ordered picture of the map used to compare renders.
type State struct {
	Markers  []Marker
	Lines    []Line
	Viewport Viewport
}

// MemoryMap keeps overlays in memory.
type MemoryMap struct {
	lock          sync.RWMutex
	markers       map[MarkerHandle]*Marker
	lines         map[LineHandle]*Line
	viewport      Viewport
	clickHandlers []func(p Point)
}

var _ MapAdapter = &MemoryMap{}

func NewMemoryMap() *MemoryMap {
	return &MemoryMap{
		markers:  make(map[MarkerHandle]*Marker),
		lines:    make(map[LineHandle]*Line),
		viewport: Viewport{Center: DefaultCenter, Zoom: DefaultZoom},
	}
}

func (m *MemoryMap) PlaceMarker(layer Layer, p Point, opts MarkerOptions) MarkerHandle {
	m.lock.Lock()
	defer m.lock.Unlock()
	h := MarkerHandle(uuid.NewString())
	m.markers[h] = &Marker{Handle: h, Layer: layer, Point: p, Options: opts}
	log.Trace("Placed %s marker %s at %s", opts.Kind, h, p)
	return h
}

func (m *MemoryMap) MoveMarker(h MarkerHandle, p Point) {
	m.lock.Lock()
	defer m.lock.Unlock()
	marker, ok := m.markers[h]
	if !ok {
		log.Warn("Cannot move unknown marker %s", h)
		return
	}
	marker.Point = p
}

func (m *MemoryMap) RemoveMarker(h MarkerHandle) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.markers, h)
}

func (m *MemoryMap) DrawLine(layer Layer, from, to Point, label string) LineHandle {
	m.lock.Lock()
	defer m.lock.Unlock()
	h := LineHandle(uuid.NewString())
	m.lines[h] = &Line{Handle: h, Layer: layer, From: from, To: to, Label: label}
	return h
}

func (m *MemoryMap) ClearLayer(layer Layer) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for h, marker := range m.markers {
		if marker.Layer == layer {
			delete(m.markers, h)
		}
	}
	for h, line := range m.lines {
		if line.Layer == layer {
			delete(m.lines, h)
		}
	}
}

func (m *MemoryMap) FitView(points []Point) {
	b, ok := BoundsOf(points)
	if !ok {
		return
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	m.viewport = Viewport{Center: b.Center(), Bounds: &b}
}

func (m *MemoryMap) SetView(p Point, zoom int) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.viewport = Viewport{Center: p, Zoom: zoom}
}

func (m *MemoryMap) OnMapClick(fn func(p Point)) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.clickHandlers = append(m.clickHandlers, fn)
}

// Click simulates a click on the map.
func (m *MemoryMap) Click(p Point) {
	m.lock.RLock()
	handlers := make([]func(p Point), len(m.clickHandlers))
	copy(handlers, m.clickHandlers)
	m.lock.RUnlock()

	for _, fn := range handlers {
		fn(p)
	}
}

// Markers returns the markers on layer, ordered by kind, label and position.
func (m *MemoryMap) Markers(layer Layer) []Marker {
	m.lock.RLock()
	defer m.lock.RUnlock()
	var out []Marker
	for _, marker := range m.markers {
		if marker.Layer == layer {
			out = append(out, *marker)
		}
	}
	sortMarkers(out)
	return out
}

// Lines returns the lines on layer, ordered by label.
func (m *MemoryMap) Lines(layer Layer) []Line {
	m.lock.RLock()
	defer m.lock.RUnlock()
	var out []Line
	for _, line := range m.lines {
		if line.Layer == layer {
			out = append(out, *line)
		}
	}
	sortLines(out)
	return out
}

func (m *MemoryMap) Viewport() Viewport {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.viewport
}

// State returns every overlay with handles stripped.
func (m *MemoryMap) State() State {
	m.lock.RLock()
	defer m.lock.RUnlock()
	s := State{Viewport: m.viewport}
	for _, marker := range m.markers {
		c := *marker
		c.Handle = ""
		s.Markers = append(s.Markers, c)
	}
	for _, line := range m.lines {
		c := *line
		c.Handle = ""
		s.Lines = append(s.Lines, c)
	}
	sortMarkers(s.Markers)
	sortLines(s.Lines)
	return s
}

func sortMarkers(markers []Marker) {
	sort.Slice(markers, func(i, j int) bool {
		a, b := markers[i], markers[j]
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		if a.Options.Kind != b.Options.Kind {
			return a.Options.Kind < b.Options.Kind
		}
		if a.Options.Label != b.Options.Label {
			return a.Options.Label < b.Options.Label
		}
		if a.Point.Lat != b.Point.Lat {
			return a.Point.Lat < b.Point.Lat
		}
		return a.Point.Lon < b.Point.Lon
	})
}

func sortLines(lines []Line) {
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		return a.Label < b.Label
	})
}

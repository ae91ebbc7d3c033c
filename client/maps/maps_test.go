package maps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsOf(t *testing.T) {
	_, ok := BoundsOf(nil)
	assert.False(t, ok)

	b, ok := BoundsOf([]Point{{Lat: 10, Lon: 20}, {Lat: -5, Lon: 40}, {Lat: 3, Lon: -7}})
	require.True(t, ok)
	assert.Equal(t, Point{Lat: -5, Lon: -7}, b.SouthWest)
	assert.Equal(t, Point{Lat: 10, Lon: 40}, b.NorthEast)
	assert.Equal(t, Point{Lat: 2.5, Lon: 16.5}, b.Center())
}

func TestMemoryMap_Layers(t *testing.T) {
	m := NewMemoryMap()
	local := m.PlaceMarker(LayerLocal, Point{Lat: 1, Lon: 1}, MarkerOptions{Kind: MarkerLocalGuess, Draggable: true})
	m.PlaceMarker(LayerReveal, Point{Lat: 2, Lon: 2}, MarkerOptions{Kind: MarkerAnswer})
	m.DrawLine(LayerReveal, Point{Lat: 1, Lon: 1}, Point{Lat: 2, Lon: 2}, "Alice → actual")

	m.MoveMarker(local, Point{Lat: 5, Lon: 6})
	require.Len(t, m.Markers(LayerLocal), 1)
	assert.Equal(t, Point{Lat: 5, Lon: 6}, m.Markers(LayerLocal)[0].Point)

	m.ClearLayer(LayerReveal)
	assert.Empty(t, m.Markers(LayerReveal))
	assert.Empty(t, m.Lines(LayerReveal))
	assert.Len(t, m.Markers(LayerLocal), 1)

	m.RemoveMarker(local)
	assert.Empty(t, m.State().Markers)
}

func TestMemoryMap_Viewport(t *testing.T) {
	m := NewMemoryMap()
	assert.Equal(t, Viewport{Center: DefaultCenter, Zoom: DefaultZoom}, m.Viewport())

	m.SetView(Point{Lat: 48.8, Lon: 2.3}, 6)
	assert.Equal(t, Viewport{Center: Point{Lat: 48.8, Lon: 2.3}, Zoom: 6}, m.Viewport())

	m.FitView([]Point{{Lat: 0, Lon: 0}, {Lat: 10, Lon: 10}})
	vp := m.Viewport()
	require.NotNil(t, vp.Bounds)
	assert.Equal(t, Point{Lat: 5, Lon: 5}, vp.Center)

	m.FitView(nil)
	assert.Equal(t, vp, m.Viewport())
}

func TestMemoryMap_Click(t *testing.T) {
	m := NewMemoryMap()
	var got []Point
	m.OnMapClick(func(p Point) { got = append(got, p) })

	m.Click(Point{Lat: 10, Lon: 20})
	assert.Equal(t, []Point{{Lat: 10, Lon: 20}}, got)
}

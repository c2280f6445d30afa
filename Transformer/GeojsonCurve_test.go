package Transformer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrainArc/PanelForge/Geometry"
)

func TestGeojsonLineString(t *testing.T) {
	data := []byte(`{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[0,0],[1,0],[1,1]]}}`)
	line, err := GeojsonToPolyline(data)
	require.NoError(t, err)
	assert.False(t, line.Cyclic)
	require.Len(t, line.Points, 3)
	assert.Equal(t, Geometry.Vec3{X: 1, Y: 1, Z: 0}, line.Points[2])
}

func TestGeojsonPolygonDropsClosingPoint(t *testing.T) {
	data := []byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}]}`)
	line, err := GeojsonToPolyline(data)
	require.NoError(t, err)
	assert.True(t, line.Cyclic)
	// GeoJSON环的重复闭合点被去掉
	assert.Len(t, line.Points, 4)
}

func TestGeojsonBareGeometry(t *testing.T) {
	data := []byte(`{"type":"LineString","coordinates":[[0,0],[2,3]]}`)
	line, err := GeojsonToPolyline(data)
	require.NoError(t, err)
	assert.Len(t, line.Points, 2)
}

func TestGeojsonZProperty(t *testing.T) {
	data := []byte(`{"type":"Feature","properties":{"z":[0.1,0.2]},"geometry":{"type":"LineString","coordinates":[[0,0],[1,0]]}}`)
	line, err := GeojsonToPolyline(data)
	require.NoError(t, err)
	assert.Equal(t, 0.1, line.Points[0].Z)
	assert.Equal(t, 0.2, line.Points[1].Z)
}

func TestGeojsonUnsupported(t *testing.T) {
	_, err := GeojsonToPolyline([]byte(`{"type":"Point","coordinates":[0,0]}`))
	assert.Error(t, err)

	_, err = GeojsonToPolyline([]byte(`not json`))
	assert.Error(t, err)
}

func TestPolylineToGeojsonRoundTrip(t *testing.T) {
	line := Geometry.Polyline{
		Points: []Geometry.Vec3{{0, 0, 0.5}, {1, 0, 0.6}, {1, 1, 0.7}},
		Cyclic: true,
	}
	fc := PolylineToGeojson(line, map[string]interface{}{"name": "toe"})
	raw, err := json.Marshal(fc)
	require.NoError(t, err)

	back, err := GeojsonToPolyline(raw)
	require.NoError(t, err)
	assert.True(t, back.Cyclic)
	require.Len(t, back.Points, 3)
	assert.InDelta(t, 0.5, back.Points[0].Z, 1e-9)
	assert.InDelta(t, 0.7, back.Points[2].Z, 1e-9)
}

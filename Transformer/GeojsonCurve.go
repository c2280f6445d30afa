package Transformer

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/GrainArc/PanelForge/Geometry"
)

// GeojsonToPolyline 解析GeoJSON曲线为点列
// LineString转开放折线；Polygon取外环并去掉重复的闭合点，标记为闭合环
// FeatureCollection取第一个Feature；坐标Z从properties里的"z"数组读取（可选）
func GeojsonToPolyline(data []byte) (Geometry.Polyline, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err == nil && len(fc.Features) > 0 {
		return geometryToPolyline(fc.Features[0].Geometry, fc.Features[0].Properties)
	}
	feature, err := geojson.UnmarshalFeature(data)
	if err == nil {
		return geometryToPolyline(feature.Geometry, feature.Properties)
	}
	geom, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return Geometry.Polyline{}, fmt.Errorf("GeoJSON解析失败: %v", err)
	}
	return geometryToPolyline(geom.Geometry(), nil)
}

func geometryToPolyline(geom orb.Geometry, props geojson.Properties) (Geometry.Polyline, error) {
	zs := propZValues(props)
	switch g := geom.(type) {
	case orb.LineString:
		return pointsToPolyline([]orb.Point(g), zs, false), nil
	case orb.MultiLineString:
		if len(g) == 0 {
			return Geometry.Polyline{}, fmt.Errorf("MultiLineString为空")
		}
		return pointsToPolyline([]orb.Point(g[0]), zs, false), nil
	case orb.Polygon:
		if len(g) == 0 {
			return Geometry.Polyline{}, fmt.Errorf("Polygon没有外环")
		}
		ring := []orb.Point(g[0])
		// 去掉GeoJSON环的重复闭合点
		if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
			ring = ring[:len(ring)-1]
		}
		return pointsToPolyline(ring, zs, true), nil
	case orb.MultiPolygon:
		if len(g) == 0 || len(g[0]) == 0 {
			return Geometry.Polyline{}, fmt.Errorf("MultiPolygon为空")
		}
		ring := []orb.Point(g[0][0])
		if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
			ring = ring[:len(ring)-1]
		}
		return pointsToPolyline(ring, zs, true), nil
	default:
		return Geometry.Polyline{}, fmt.Errorf("不支持的几何类型: %s", geom.GeoJSONType())
	}
}

func propZValues(props geojson.Properties) []float64 {
	if props == nil {
		return nil
	}
	raw, ok := props["z"].([]interface{})
	if !ok {
		return nil
	}
	zs := make([]float64, 0, len(raw))
	for _, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil
		}
		zs = append(zs, f)
	}
	return zs
}

func pointsToPolyline(pts []orb.Point, zs []float64, cyclic bool) Geometry.Polyline {
	out := Geometry.Polyline{Points: make([]Geometry.Vec3, len(pts)), Cyclic: cyclic}
	for i, p := range pts {
		z := 0.0
		if i < len(zs) {
			z = zs[i]
		}
		out.Points[i] = Geometry.Vec3{X: p[0], Y: p[1], Z: z}
	}
	return out
}

// PolylineToGeojson 点列转GeoJSON Feature
// 闭合环写成Polygon，开放折线写成LineString，Z坐标存进properties["z"]
func PolylineToGeojson(line Geometry.Polyline, props map[string]interface{}) *geojson.FeatureCollection {
	pts := make([]orb.Point, len(line.Points))
	zs := make([]float64, len(line.Points))
	hasZ := false
	for i, p := range line.Points {
		pts[i] = orb.Point{p.X, p.Y}
		zs[i] = p.Z
		if p.Z != 0 {
			hasZ = true
		}
	}

	var feature *geojson.Feature
	if line.Cyclic && len(pts) > 2 {
		ring := append(orb.Ring{}, pts...)
		ring = append(ring, pts[0])
		feature = geojson.NewFeature(orb.Polygon{ring})
	} else {
		feature = geojson.NewFeature(orb.LineString(pts))
	}
	for k, v := range props {
		feature.Properties[k] = v
	}
	if hasZ {
		feature.Properties["z"] = zs
	}

	fc := geojson.NewFeatureCollection()
	fc.Append(feature)
	return fc
}

package UVMapper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrainArc/PanelForge/Geometry"
)

func TestClosestPointOnTriangle(t *testing.T) {
	a := Geometry.Vec3{X: 0, Y: 0, Z: 0}
	b := Geometry.Vec3{X: 1, Y: 0, Z: 0}
	c := Geometry.Vec3{X: 0, Y: 1, Z: 0}

	// 内部点垂直投影
	p := ClosestPointOnTriangle(Geometry.Vec3{X: 0.2, Y: 0.2, Z: 1}, a, b, c)
	assert.InDelta(t, 0.2, p.X, 1e-9)
	assert.InDelta(t, 0.2, p.Y, 1e-9)
	assert.InDelta(t, 0, p.Z, 1e-9)

	// 顶点区域
	p = ClosestPointOnTriangle(Geometry.Vec3{X: -1, Y: -1, Z: 0}, a, b, c)
	assert.Equal(t, a, p)

	// 边区域
	p = ClosestPointOnTriangle(Geometry.Vec3{X: 0.5, Y: -1, Z: 0}, a, b, c)
	assert.InDelta(t, 0.5, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
}

func TestBVHFindNearest(t *testing.T) {
	// 两个相距较远的三角形
	tris := []Geometry.Triangle{
		{A: Geometry.Vec3{0, 0, 0}, B: Geometry.Vec3{1, 0, 0}, C: Geometry.Vec3{0, 1, 0}},
		{A: Geometry.Vec3{10, 0, 0}, B: Geometry.Vec3{11, 0, 0}, C: Geometry.Vec3{10, 1, 0}},
	}
	bvh := NewBVH(tris)

	hit := bvh.FindNearest(Geometry.Vec3{X: 0.2, Y: 0.2, Z: 0.5})
	require.NotNil(t, hit)
	assert.Equal(t, 0, hit.TriIndex)
	assert.InDelta(t, 0.25, hit.DistSq, 1e-9)

	hit = bvh.FindNearest(Geometry.Vec3{X: 10.2, Y: 0.2, Z: -0.3})
	require.NotNil(t, hit)
	assert.Equal(t, 1, hit.TriIndex)
}

func TestBVHManyTriangles(t *testing.T) {
	// 10x10平面网格三角化后查询，保证树结构路径也被走到
	var tris []Geometry.Triangle
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			x, y := float64(i), float64(j)
			tris = append(tris,
				Geometry.Triangle{A: Geometry.Vec3{x, y, 0}, B: Geometry.Vec3{x + 1, y, 0}, C: Geometry.Vec3{x + 1, y + 1, 0}},
				Geometry.Triangle{A: Geometry.Vec3{x, y, 0}, B: Geometry.Vec3{x + 1, y + 1, 0}, C: Geometry.Vec3{x, y + 1, 0}},
			)
		}
	}
	bvh := NewBVH(tris)

	hit := bvh.FindNearest(Geometry.Vec3{X: 3.3, Y: 7.7, Z: 2})
	require.NotNil(t, hit)
	assert.InDelta(t, 3.3, hit.Point.X, 1e-9)
	assert.InDelta(t, 7.7, hit.Point.Y, 1e-9)
	assert.InDelta(t, 2.0, math.Sqrt(hit.DistSq), 1e-9)
	assert.InDelta(t, 1.0, math.Abs(hit.Normal.Z), 1e-9)
}

func TestBVHEmpty(t *testing.T) {
	bvh := NewBVH(nil)
	assert.Nil(t, bvh.FindNearest(Geometry.Vec3{}))
}

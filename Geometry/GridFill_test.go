package Geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareOutline(n int) *IndexedMesh {
	// 边长1的正方形轮廓均分成n个点
	line := Polyline{Cyclic: true}
	perimeter := []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0, 0, 0}}
	pts, _ := Resample(perimeter, n)
	line.Points = pts
	return OutlineMesh(line)
}

func TestFillBoundaryFourPoints(t *testing.T) {
	m := squareOutline(4)
	original := make([]Vec3, len(m.Vertices))
	copy(original, m.Vertices)

	cfg := DefaultFillConfig()
	cfg.Equalize = false
	err := FillBoundary(m, cfg)
	require.NoError(t, err)

	// 4点环+span=1只产生一个四边形
	assert.Len(t, m.Faces, 1)
	assert.Len(t, m.Faces[0], 4)
	// 边界坐标原样保留
	for i, p := range original {
		assert.InDelta(t, 0, p.Distance(m.Vertices[i]), 1e-9)
	}
}

func TestFillBoundaryEightPoints(t *testing.T) {
	m := squareOutline(8)
	original := make([]Vec3, len(m.Vertices))
	copy(original, m.Vertices)

	cfg := DefaultFillConfig()
	cfg.Equalize = false
	cfg.SmoothIters = 0
	err := FillBoundary(m, cfg)
	require.NoError(t, err)

	// span=1: 两条对边长度(1,3)，3个四边形，不新增顶点
	assert.Len(t, m.Faces, 3)
	assert.Len(t, m.Vertices, 8)
	for _, f := range m.Faces {
		assert.Len(t, f, 4)
	}
	for i, p := range original {
		assert.InDelta(t, 0, p.Distance(m.Vertices[i]), 1e-9)
	}
}

func TestFillBoundarySpanTwo(t *testing.T) {
	m := squareOutline(8)
	cfg := DefaultFillConfig()
	cfg.Span = 2
	cfg.Equalize = false
	cfg.SmoothIters = 0
	err := FillBoundary(m, cfg)
	require.NoError(t, err)

	// span=2: 2x2网格，1个内部新顶点，4个四边形
	assert.Len(t, m.Faces, 4)
	assert.Len(t, m.Vertices, 9)
}

func TestFillBoundaryOddCountFallsBack(t *testing.T) {
	// 奇数点环走三角填充回退，仍然要成功且边界保形
	m := squareOutline(5)
	original := make([]Vec3, len(m.Vertices))
	copy(original, m.Vertices)

	cfg := DefaultFillConfig()
	cfg.Equalize = false
	cfg.SmoothIters = 0
	err := FillBoundary(m, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, m.Faces)
	for i, p := range original {
		assert.InDelta(t, 0, p.Distance(m.Vertices[i]), 1e-9)
	}
}

func TestFillBoundaryRejectsOpenChain(t *testing.T) {
	m := &IndexedMesh{
		Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		Edges:    [][2]int{{0, 1}, {1, 2}},
	}
	err := FillBoundary(m, DefaultFillConfig())
	assert.Error(t, err)
}

func TestPreEqualizeDampsExtremeRatio(t *testing.T) {
	// 中间顶点两侧边长比100:1
	m := &IndexedMesh{
		Vertices: []Vec3{{0, 0, 0}, {0.01, 0, 0}, {1.01, 0, 0}},
		Edges:    [][2]int{{0, 1}, {1, 2}},
	}
	before := vertexEdgeAspect(m, m.NeighborTable(), 1)
	PreEqualize(m, 5.0, 0.12)
	after := vertexEdgeAspect(m, m.NeighborTable(), 1)
	assert.Less(t, after, before)
}

func TestPreEqualizeLeavesUniformAlone(t *testing.T) {
	m := squareOutline(8)
	original := make([]Vec3, len(m.Vertices))
	copy(original, m.Vertices)
	PreEqualize(m, 5.0, 0.12)
	for i := range original {
		assert.InDelta(t, 0, original[i].Distance(m.Vertices[i]), 1e-12)
	}
}

func TestTrisToQuads(t *testing.T) {
	m := &IndexedMesh{
		Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Faces:    [][]int{{0, 1, 2}, {0, 2, 3}},
	}
	TrisToQuads(m)
	require.Len(t, m.Faces, 1)
	assert.Len(t, m.Faces[0], 4)
}

func TestSmoothInteriorKeepsBoundary(t *testing.T) {
	m := squareOutline(8)
	cfg := DefaultFillConfig()
	cfg.Span = 2
	cfg.Equalize = false
	cfg.SmoothIters = 0
	require.NoError(t, FillBoundary(m, cfg))

	boundary := make([]Vec3, 8)
	copy(boundary, m.Vertices[:8])
	SmoothInterior(m, 3, 0.5)
	for i := 0; i < 8; i++ {
		assert.Equal(t, boundary[i], m.Vertices[i])
	}
}

func TestOrthonormalBasis(t *testing.T) {
	for _, n := range []Vec3{{0, 0, 1}, {1, 0, 0}, {0.3, -0.5, 0.8}} {
		nn := n.Normalize()
		t1, t2 := OrthonormalBasis(nn)
		assert.InDelta(t, 0, t1.Dot(nn), 1e-9)
		assert.InDelta(t, 0, t2.Dot(nn), 1e-9)
		assert.InDelta(t, 0, t1.Dot(t2), 1e-9)
		assert.InDelta(t, 1, t1.Length(), 1e-9)
		assert.InDelta(t, 1, t2.Length(), 1e-9)
	}
}

func TestQuadConvex(t *testing.T) {
	m := &IndexedMesh{
		Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0.1, 0.1, 0}},
	}
	assert.True(t, quadConvex(m, []int{0, 1, 2, 3}))
	// 顶点4让四边形凹陷
	assert.False(t, quadConvex(m, []int{0, 1, 4, 3}))
}

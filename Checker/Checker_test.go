package Checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrainArc/PanelForge/Geometry"
	"github.com/GrainArc/PanelForge/UVMapper"
)

// 单位正方形壳体，UV与XY重合
func squareShell() *UVMapper.ShellMesh {
	mesh := &Geometry.IndexedMesh{
		Vertices: []Geometry.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Faces:    [][]int{{0, 1, 2}, {0, 2, 3}},
	}
	uv := [][]Geometry.Vec2{
		{{0, 0}, {1, 0}, {1, 1}},
		{{0, 0}, {1, 1}, {0, 1}},
	}
	return &UVMapper.ShellMesh{Mesh: mesh, UV: uv, UVMapName: "UVMap"}
}

func squareEdges(t *testing.T) []BoundaryEdge {
	edges, err := UVBoundaryEdges(squareShell())
	require.NoError(t, err)
	return edges
}

func TestUVBoundaryEdges(t *testing.T) {
	edges := squareEdges(t)
	// 对角线被两个面共享，不算边界
	assert.Len(t, edges, 4)
}

func TestIsOutside(t *testing.T) {
	edges := squareEdges(t)

	assert.False(t, IsOutside(Geometry.Vec2{X: 0.5, Y: 0.5}, edges))
	assert.True(t, IsOutside(Geometry.Vec2{X: 1.5, Y: 0.5}, edges))
	assert.True(t, IsOutside(Geometry.Vec2{X: -0.1, Y: 0.5}, edges))
	// 落在边界线上算在内
	assert.False(t, IsOutside(Geometry.Vec2{X: 1.0, Y: 0.5}, edges))
	assert.False(t, IsOutside(Geometry.Vec2{X: 0, Y: 0}, edges))
}

func TestClosestOnBoundary(t *testing.T) {
	edges := squareEdges(t)
	q, ok := ClosestOnBoundary(Geometry.Vec2{X: 1.5, Y: 0.5}, edges)
	require.True(t, ok)
	assert.InDelta(t, 1.0, q.X, 1e-9)
	assert.InDelta(t, 0.5, q.Y, 1e-9)
}

func TestCheckPass(t *testing.T) {
	edges := squareEdges(t)
	panel := &Geometry.IndexedMesh{
		Vertices: []Geometry.Vec3{{0.5, 0.5, 0}, {0.4, 0.6, 0}},
	}
	cfg := DefaultCheckConfig()
	cfg.ScaleFactor = 1
	result, err := Check(panel, edges, cfg)
	require.NoError(t, err)
	assert.Equal(t, StatusPass, result.Status)
	assert.Empty(t, result.ViolationIDs)
}

func TestCheckDetectsOutsideAndNearMargin(t *testing.T) {
	edges := squareEdges(t)
	panel := &Geometry.IndexedMesh{
		Vertices: []Geometry.Vec3{
			{0.5, 0.5, 0},   // 界内安全
			{1.5, 0.5, 0},   // 界外
			{0.995, 0.5, 0}, // 界内但贴着安全边距
		},
	}
	cfg := DefaultCheckConfig()
	cfg.ScaleFactor = 1
	result, err := Check(panel, edges, cfg)
	require.NoError(t, err)
	assert.Equal(t, StatusViolations, result.Status)
	assert.Equal(t, []int{1, 2}, result.ViolationIDs)
	// CHECK动作不改动网格
	assert.Equal(t, 1.5, panel.Vertices[1].X)
}

func TestCheckFixThenClean(t *testing.T) {
	edges := squareEdges(t)
	panel := &Geometry.IndexedMesh{
		Vertices: []Geometry.Vec3{
			{0.5, 0.5, 0},
			{1.5, 0.5, 0},
		},
	}
	cfg := DefaultCheckConfig()
	cfg.Action = ActionFix
	cfg.ScaleFactor = 1
	result, err := Check(panel, edges, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Fixed)
	assert.Equal(t, 0, result.Remaining)
	assert.Equal(t, StatusPass, result.Status)

	// 修复后的点在界内且留有内边距
	fixed := Geometry.Vec2{X: panel.Vertices[1].X, Y: panel.Vertices[1].Y}
	assert.False(t, IsOutside(fixed, edges))
	assert.Less(t, fixed.X, 1.0)
}

func TestCheckFixRespectsScaleFactor(t *testing.T) {
	edges := squareEdges(t)
	// 面板坐标是UV的2倍
	panel := &Geometry.IndexedMesh{
		Vertices: []Geometry.Vec3{{3.0, 1.0, 0}},
	}
	cfg := DefaultCheckConfig()
	cfg.Action = ActionFix
	cfg.ScaleFactor = 2
	result, err := Check(panel, edges, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Fixed)
	assert.Equal(t, 0, result.Remaining)
	// 回写的坐标仍在面板空间
	assert.False(t, IsOutside(Geometry.Vec2{X: panel.Vertices[0].X / 2, Y: panel.Vertices[0].Y / 2}, edges))
}

func TestCheckEdgeMidpointDip(t *testing.T) {
	// 两端都在界内，中点跨出凹口的情况靠边抽查兜住：
	// 这里用跨越整个正方形外侧的长边模拟
	edges := squareEdges(t)
	panel := &Geometry.IndexedMesh{
		Vertices: []Geometry.Vec3{
			{0.1, 0.995, 0},
			{0.9, 0.995, 0},
		},
		Edges: [][2]int{{0, 1}},
	}
	cfg := DefaultCheckConfig()
	cfg.ScaleFactor = 1
	result, err := Check(panel, edges, cfg)
	require.NoError(t, err)
	// 两端点本身就在边距内，作为违规上报
	assert.Equal(t, StatusViolations, result.Status)
	assert.Len(t, result.ViolationIDs, 2)
}

func TestCheckTimeoutIsSentinelError(t *testing.T) {
	edges := squareEdges(t)
	panel := &Geometry.IndexedMesh{Vertices: []Geometry.Vec3{{0.5, 0.5, 0}}}
	cfg := DefaultCheckConfig()
	cfg.ScaleFactor = 1
	cfg.TimeoutSec = 1e-9
	_, err := Check(panel, edges, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCheckBadConfig(t *testing.T) {
	edges := squareEdges(t)
	panel := &Geometry.IndexedMesh{Vertices: []Geometry.Vec3{{0.5, 0.5, 0}}}
	cfg := DefaultCheckConfig()
	_, err := Check(panel, edges, cfg)
	assert.Error(t, err, "比例因子为0必须报错")

	cfg.ScaleFactor = 1
	_, err = Check(panel, nil, cfg)
	assert.Error(t, err)
}

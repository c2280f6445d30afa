package Pave

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrainArc/PanelForge/Geometry"
)

// z=0平面表面
type planeSurface struct{}

func (planeSurface) NearestSurface(p Geometry.Vec3) (Geometry.Vec3, Geometry.Vec3, bool) {
	return Geometry.Vec3{X: p.X, Y: p.Y, Z: 0}, Geometry.Vec3{X: 0, Y: 0, Z: 1}, true
}

// z=0且x<=0的半平面表面，x>0处的最近点被横向截到x=0
type halfPlaneSurface struct{}

func (halfPlaneSurface) NearestSurface(p Geometry.Vec3) (Geometry.Vec3, Geometry.Vec3, bool) {
	return Geometry.Vec3{X: math.Min(p.X, 0), Y: p.Y, Z: 0}, Geometry.Vec3{X: 0, Y: 0, Z: 1}, true
}

// 以Y轴为轴线的圆柱面
type cylinderSurface struct{ r float64 }

func (s cylinderSurface) NearestSurface(p Geometry.Vec3) (Geometry.Vec3, Geometry.Vec3, bool) {
	d := math.Hypot(p.X, p.Z)
	if d < 1e-12 {
		return Geometry.Vec3{X: s.r, Y: p.Y, Z: 0}, Geometry.Vec3{X: 1, Y: 0, Z: 0}, true
	}
	n := Geometry.Vec3{X: p.X / d, Y: 0, Z: p.Z / d}
	return Geometry.Vec3{X: s.r * p.X / d, Y: p.Y, Z: s.r * p.Z / d}, n, true
}

// 3x3平面网格，顶点恰好落在表面上
func flatGrid() *Geometry.IndexedMesh {
	m := &Geometry.IndexedMesh{}
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			m.Vertices = append(m.Vertices, Geometry.Vec3{X: float64(i), Y: float64(j), Z: 0})
		}
	}
	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			a := j*3 + i
			m.Faces = append(m.Faces, []int{a, a + 1, a + 4, a + 3})
		}
	}
	return m
}

func TestAutoPaveConvergesImmediatelyOnSurface(t *testing.T) {
	m := flatGrid()
	cfg := DefaultPaveConfig()
	cfg.BoundarySlide = false

	result, err := AutoPave(m, planeSurface{}, cfg)
	require.NoError(t, err)
	// 网格已经贴合且均匀，第一轮就应收敛
	assert.True(t, result.Converged)
	assert.Equal(t, 1, result.Iterations)
	assert.Less(t, result.MeanMove, cfg.MoveThreshold)
	assert.Equal(t, 0, result.MissCount)

	// 收尾投影后全部顶点抬起FinalOffset
	for _, v := range m.Vertices {
		assert.InDelta(t, cfg.FinalOffset, v.Z, 1e-12)
	}
}

func TestAutoPaveSnapsLiftedVertices(t *testing.T) {
	m := flatGrid()
	// 中心顶点抬离表面
	m.Vertices[4].Z = 0.5

	cfg := DefaultPaveConfig()
	cfg.Iterations = 10
	result, err := AutoPave(m, planeSurface{}, cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Iterations, 1)

	// 所有顶点最终回到表面加偏置
	for _, v := range m.Vertices {
		assert.InDelta(t, cfg.FinalOffset, v.Z, 1e-9)
	}
}

func TestAutoPaveConfigValidation(t *testing.T) {
	m := flatGrid()
	cfg := DefaultPaveConfig()
	cfg.Iterations = 0
	_, err := AutoPave(m, planeSurface{}, cfg)
	assert.Error(t, err)

	cfg = DefaultPaveConfig()
	cfg.RelaxFactor = 1.5
	_, err = AutoPave(m, planeSurface{}, cfg)
	assert.Error(t, err)

	cfg = DefaultPaveConfig()
	cfg.SnapFraction = -0.1
	_, err = AutoPave(m, planeSurface{}, cfg)
	assert.Error(t, err)

	cfg = DefaultPaveConfig()
	cfg.UseCurvature = true
	cfg.CurvSamples = 2
	_, err = AutoPave(m, planeSurface{}, cfg)
	assert.Error(t, err)
}

func TestAutoPaveEmptyMesh(t *testing.T) {
	_, err := AutoPave(&Geometry.IndexedMesh{}, planeSurface{}, DefaultPaveConfig())
	assert.Error(t, err)
}

func TestAutoPaveSnapOnlyPullsAlongNormal(t *testing.T) {
	// 网格横向远离半平面表面但法向距离为0：
	// 贴附只收法向分量时第一轮位移应为0，否则最近点的横向偏移会把网格拖走
	m := flatGrid()
	for i := range m.Vertices {
		m.Vertices[i].X += 10
	}
	cfg := DefaultPaveConfig()
	cfg.BoundarySlide = false

	result, err := AutoPave(m, halfPlaneSurface{}, cfg)
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assert.Equal(t, 1, result.Iterations)
	assert.Less(t, result.MeanMove, 1e-12)

	// Y坐标全程不受横向拉扯
	for i, v := range m.Vertices {
		assert.InDelta(t, float64(i/3), v.Y, 1e-12)
	}
}

func TestCurvatureFramePlaneIsTangent(t *testing.T) {
	n := Geometry.Vec3{X: 0, Y: 0, Z: 1}
	dirU, dirV := CurvatureFrame(planeSurface{}, Geometry.Vec3{X: 1, Y: 1, Z: 0}, n, 14, 0.005)
	assert.InDelta(t, 0, dirU.Dot(n), 1e-9)
	assert.InDelta(t, 0, dirV.Dot(n), 1e-9)
	assert.InDelta(t, 1, dirU.Length(), 1e-9)
	assert.InDelta(t, 0, dirU.Dot(dirV), 1e-9)
}

func TestCurvatureFrameCylinderAlignsWithAxis(t *testing.T) {
	// 圆柱面上主方向应当顺着轴线：切向偏移在弯曲方向上被收缩，
	// 协方差的主特征向量落在轴向
	surf := cylinderSurface{r: 1}
	p := Geometry.Vec3{X: 1, Y: 0, Z: 0}
	n := Geometry.Vec3{X: 1, Y: 0, Z: 0}
	dirU, _ := CurvatureFrame(surf, p, n, 16, 0.3)
	assert.InDelta(t, 0, dirU.Dot(n), 1e-9)
	assert.Greater(t, math.Abs(dirU.Y), 0.9)
}

func TestAutoPaveCurvatureFlowStaysOnSurface(t *testing.T) {
	m := flatGrid()
	m.Vertices[4].Z = 0.2

	cfg := DefaultPaveConfig()
	cfg.UseCurvature = true
	result, err := AutoPave(m, planeSurface{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, result.MissCount)
	for _, v := range m.Vertices {
		assert.InDelta(t, cfg.FinalOffset, v.Z, 1e-9)
	}
}

func TestEigenvec2x2(t *testing.T) {
	// 对角占优时主方向就是较大对角元所在轴
	v := eigenvec2x2(3, 0, 1)
	assert.InDelta(t, 1, math.Abs(v.X), 1e-12)

	v = eigenvec2x2(1, 0, 3)
	assert.InDelta(t, 1, math.Abs(v.Y), 1e-12)

	// [2 1; 1 2] 主特征向量沿(1,1)
	v = eigenvec2x2(2, 1, 2)
	assert.InDelta(t, math.Abs(v.X), math.Abs(v.Y), 1e-12)
}

func TestEigen2x2(t *testing.T) {
	// 对角矩阵特征值就是对角元
	l1, l2 := eigen2x2(3, 0, 1)
	assert.InDelta(t, 3, l1, 1e-12)
	assert.InDelta(t, 1, l2, 1e-12)

	// 对称矩阵 [2 1; 1 2] 特征值 3 和 1
	l1, l2 = eigen2x2(2, 1, 2)
	assert.InDelta(t, 3, l1, 1e-12)
	assert.InDelta(t, 1, l2, 1e-12)
}

package UVMapper

import (
	"fmt"
	"math"

	"github.com/GrainArc/PanelForge/Geometry"
)

// ShellMesh 带UV层的鞋楦壳体网格
// UV与Faces逐面逐角对齐，UVMapName记录来源UV层名称
type ShellMesh struct {
	Mesh      *Geometry.IndexedMesh
	UV        [][]Geometry.Vec2
	UVMapName string
}

// Validate 校验UV层与面结构对齐
func (s *ShellMesh) Validate() error {
	if s.Mesh == nil || len(s.Mesh.Faces) == 0 {
		return fmt.Errorf("壳体网格为空")
	}
	if len(s.UV) != len(s.Mesh.Faces) {
		return fmt.Errorf("UV层与面数量不一致(%d vs %d)", len(s.UV), len(s.Mesh.Faces))
	}
	for i, f := range s.Mesh.Faces {
		if len(s.UV[i]) != len(f) {
			return fmt.Errorf("面%d的UV角数不一致(%d vs %d)", i, len(s.UV[i]), len(f))
		}
	}
	return nil
}

// MapTriangle UV三角形与对应3D三角形的配对
type MapTriangle struct {
	UV0, UV1, UV2 Geometry.Vec2
	P0, P1, P2    Geometry.Vec3
}

// Mapper UV空间与3D表面的双向重心映射器
type Mapper struct {
	Triangles []MapTriangle
	bvh       *BVH
}

// NewMapper 由壳体网格构建三角形表
// 三角面保持原样，四边面按固定对角线(0,1,2)+(0,2,3)拆分，
// 多于4边的面跳过（与上游数据约定一致）
func NewMapper(shell *ShellMesh) (*Mapper, error) {
	if err := shell.Validate(); err != nil {
		return nil, err
	}
	mapper := &Mapper{}
	for fi, f := range shell.Mesh.Faces {
		switch len(f) {
		case 3:
			mapper.addTriangle(shell, fi, [3]int{0, 1, 2})
		case 4:
			mapper.addTriangle(shell, fi, [3]int{0, 1, 2})
			mapper.addTriangle(shell, fi, [3]int{0, 2, 3})
		}
	}
	if len(mapper.Triangles) == 0 {
		return nil, fmt.Errorf("壳体网格没有可用的UV三角形")
	}

	tris := make([]Geometry.Triangle, len(mapper.Triangles))
	for i, t := range mapper.Triangles {
		tris[i] = Geometry.Triangle{A: t.P0, B: t.P1, C: t.P2}
	}
	mapper.bvh = NewBVH(tris)
	return mapper, nil
}

func (mp *Mapper) addTriangle(shell *ShellMesh, face int, corners [3]int) {
	f := shell.Mesh.Faces[face]
	uvs := shell.UV[face]
	mp.Triangles = append(mp.Triangles, MapTriangle{
		UV0: uvs[corners[0]],
		UV1: uvs[corners[1]],
		UV2: uvs[corners[2]],
		P0:  shell.Mesh.Vertices[f[corners[0]]],
		P1:  shell.Mesh.Vertices[f[corners[1]]],
		P2:  shell.Mesh.Vertices[f[corners[2]]],
	})
}

// barycentric2D 计算二维点在三角形内的重心坐标
// 分母退化时返回false
func barycentric2D(p, a, b, c Geometry.Vec2) (float64, float64, float64, bool) {
	den := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if math.Abs(den) < 1e-12 {
		return 0, 0, 0, false
	}
	w0 := ((b.Y-c.Y)*(p.X-c.X) + (c.X-b.X)*(p.Y-c.Y)) / den
	w1 := ((c.Y-a.Y)*(p.X-c.X) + (a.X-c.X)*(p.Y-c.Y)) / den
	w2 := 1 - w0 - w1
	return w0, w1, w2, true
}

// pointInTriangle2D 基于重心坐标的点在三角形内判断
func pointInTriangle2D(p, a, b, c Geometry.Vec2) bool {
	w0, w1, w2, ok := barycentric2D(p, a, b, c)
	if !ok {
		return false
	}
	const eps = 1e-9
	return w0 >= -eps && w1 >= -eps && w2 >= -eps
}

// UVTo3D 反向查询：UV坐标插值出3D点
// 首个包含该点的三角形胜出；无命中返回false，由调用方按点级可恢复
// 条件累计告警，不中断整体操作（UV缝隙附近属常见情况）
func (mp *Mapper) UVTo3D(uv Geometry.Vec2) (Geometry.Vec3, bool) {
	for _, t := range mp.Triangles {
		// 包围盒粗筛
		if uv.X < min3(t.UV0.X, t.UV1.X, t.UV2.X) || uv.X > max3(t.UV0.X, t.UV1.X, t.UV2.X) ||
			uv.Y < min3(t.UV0.Y, t.UV1.Y, t.UV2.Y) || uv.Y > max3(t.UV0.Y, t.UV1.Y, t.UV2.Y) {
			continue
		}
		if !pointInTriangle2D(uv, t.UV0, t.UV1, t.UV2) {
			continue
		}
		w0, w1, w2, ok := barycentric2D(uv, t.UV0, t.UV1, t.UV2)
		if !ok {
			continue
		}
		p := t.P0.Scale(w0).Add(t.P1.Scale(w1)).Add(t.P2.Scale(w2))
		return p, true
	}
	return Geometry.Vec3{}, false
}

// PointTo3DBarycentric 3D点在三角形内的重心坐标（投影到三角形平面）
func pointTo3DBarycentric(p, a, b, c Geometry.Vec3) (float64, float64, float64) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	den := d00*d11 - d01*d01
	if math.Abs(den) < 1e-18 {
		return 1, 0, 0
	}
	w1 := (d11*d20 - d01*d21) / den
	w2 := (d00*d21 - d01*d20) / den
	return 1 - w1 - w2, w1, w2
}

// PointToUV 正向查询：3D点投到最近表面三角形后插值出UV坐标
func (mp *Mapper) PointToUV(p Geometry.Vec3) (Geometry.Vec2, bool) {
	hit := mp.bvh.FindNearest(p)
	if hit == nil {
		return Geometry.Vec2{}, false
	}
	t := mp.Triangles[hit.TriIndex]
	w0, w1, w2 := pointTo3DBarycentric(hit.Point, t.P0, t.P1, t.P2)
	uv := t.UV0.Scale(w0).Add(t.UV1.Scale(w1)).Add(t.UV2.Scale(w2))
	return uv, true
}

// NearestSurface 最近表面点与法向，供贴合与偏置使用
func (mp *Mapper) NearestSurface(p Geometry.Vec3) (Geometry.Vec3, Geometry.Vec3, bool) {
	hit := mp.bvh.FindNearest(p)
	if hit == nil {
		return Geometry.Vec3{}, Geometry.Vec3{}, false
	}
	return hit.Point, hit.Normal, true
}

// PanelToUV 面板平面坐标按比例因子换算回原始UV
// 比例因子与UV层名称由UV网格的元数据显式传入，不在此处重新推断
func PanelToUV(p Geometry.Vec3, scaleFactor float64) (Geometry.Vec2, error) {
	if scaleFactor == 0 {
		return Geometry.Vec2{}, fmt.Errorf("UV网格比例因子为0")
	}
	return Geometry.Vec2{X: p.X / scaleFactor, Y: p.Y / scaleFactor}, nil
}

// UVToPanel UV坐标换算为面板平面坐标
func UVToPanel(uv Geometry.Vec2, scaleFactor float64) Geometry.Vec3 {
	return Geometry.Vec3{X: uv.X * scaleFactor, Y: uv.Y * scaleFactor, Z: 0}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

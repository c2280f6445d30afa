package Pave

import (
	"math"

	"github.com/GrainArc/PanelForge/Geometry"
)

// Surface 可查询最近点与法向的表面
type Surface interface {
	NearestSurface(p Geometry.Vec3) (Geometry.Vec3, Geometry.Vec3, bool)
}

// eigen2x2 对称2x2矩阵 [a b; b c] 的特征值解析解，按大到小返回
func eigen2x2(a, b, c float64) (float64, float64) {
	tr := a + c
	det := a*c - b*b
	d := math.Sqrt(math.Max(tr*tr/4-det, 0))
	return tr/2 + d, tr/2 - d
}

// eigenvec2x2 对称2x2矩阵的主特征向量（最大特征值方向），单位长度
// 退化时退回(1,0)
func eigenvec2x2(a, b, c float64) Geometry.Vec2 {
	l1, _ := eigen2x2(a, b, c)
	if math.Abs(b) < 1e-12 && math.Abs(l1-a) < 1e-12 {
		return Geometry.Vec2{X: 1, Y: 0}
	}
	v := Geometry.Vec2{X: b, Y: l1 - a}
	if v.Length() == 0 {
		return Geometry.Vec2{X: 1, Y: 0}
	}
	return v.Normalize()
}

// sampleRing 切平面内的固定角度采样环
// 采样角度完全由序号决定，同一输入必然得到同一结果
func sampleRing(center, normal Geometry.Vec3, samples int, radius float64) []Geometry.Vec3 {
	u, v := Geometry.OrthonormalBasis(normal)
	out := make([]Geometry.Vec3, samples)
	for k := 0; k < samples; k++ {
		ang := 2 * math.Pi * float64(k) / float64(samples)
		dir := u.Scale(math.Cos(ang)).Add(v.Scale(math.Sin(ang)))
		out[k] = center.Add(dir.Scale(radius))
	}
	return out
}

// CurvatureFrame 估算表面点处切平面内的主方向架
// 采样环上查最近表面点，偏移投回切平面后做2x2协方差分解，
// 主特征向量映射回3D即为网格应当顺着流动的方向；
// 命中不足时退回普通正交切基
func CurvatureFrame(surf Surface, p, normal Geometry.Vec3, samples int, radius float64) (Geometry.Vec3, Geometry.Vec3) {
	t1, t2 := Geometry.OrthonormalBasis(normal)
	if samples < 3 || radius < 1e-9 {
		return t1, t2
	}

	var a, b, c float64
	count := 0
	for _, sp := range sampleRing(p, normal, samples, radius) {
		hit, _, ok := surf.NearestSurface(sp)
		if !ok {
			continue
		}
		d := hit.Sub(p)
		d = d.Sub(normal.Scale(d.Dot(normal)))
		if d.LengthSquared() == 0 {
			continue
		}
		x := d.Dot(t1)
		y := d.Dot(t2)
		a += x * x
		b += x * y
		c += y * y
		count++
	}
	if count < 3 {
		return t1, t2
	}

	v1 := eigenvec2x2(a, b, c)
	dirU := t1.Scale(v1.X).Add(t2.Scale(v1.Y)).Normalize()
	dirV := t1.Scale(-v1.Y).Add(t2.Scale(v1.X)).Normalize()
	return dirU, dirV
}

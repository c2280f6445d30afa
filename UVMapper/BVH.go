package UVMapper

import (
	"math"
	"sort"

	"github.com/GrainArc/PanelForge/Geometry"
)

// BVH 三角形包围盒层次树，支持最近点查询
// 建树用中位数切分最长轴，叶子最多8个三角形
type BVH struct {
	tris  []Geometry.Triangle
	nodes []bvhNode
	order []int
}

type bvhNode struct {
	min, max Geometry.Vec3
	// left>=0时为内部节点，left/right为子节点下标
	// left<0时为叶子，start/count索引triOrder
	left, right  int
	start, count int
}

type bvhItem struct {
	index    int
	centroid Geometry.Vec3
	min, max Geometry.Vec3
}

// Hit 最近点查询结果
type Hit struct {
	Point    Geometry.Vec3
	Normal   Geometry.Vec3
	TriIndex int
	DistSq   float64
}

const bvhLeafSize = 8

// NewBVH 由三角形列表建树
func NewBVH(tris []Geometry.Triangle) *BVH {
	if len(tris) == 0 {
		return &BVH{}
	}
	items := make([]bvhItem, len(tris))
	for i, t := range tris {
		mn := vecMin(vecMin(t.A, t.B), t.C)
		mx := vecMax(vecMax(t.A, t.B), t.C)
		items[i] = bvhItem{
			index:    i,
			centroid: t.A.Add(t.B).Add(t.C).Scale(1.0 / 3.0),
			min:      mn,
			max:      mx,
		}
	}
	b := &BVH{tris: tris}
	b.build(items)
	return b
}

func (b *BVH) build(items []bvhItem) int {
	node := bvhNode{left: -1, right: -1}
	node.min = items[0].min
	node.max = items[0].max
	for _, it := range items[1:] {
		node.min = vecMin(node.min, it.min)
		node.max = vecMax(node.max, it.max)
	}

	self := len(b.nodes)
	b.nodes = append(b.nodes, node)

	if len(items) <= bvhLeafSize {
		// 叶子直接记录原始下标区间
		start := len(b.order)
		for _, it := range items {
			b.order = append(b.order, it.index)
		}
		b.nodes[self].start = start
		b.nodes[self].count = len(items)
		return self
	}

	// 按最长轴中位数切分
	ext := node.max.Sub(node.min)
	axis := 0
	if ext.Y > ext.X {
		axis = 1
	}
	if ext.Z > ext.X && ext.Z > ext.Y {
		axis = 2
	}
	sort.Slice(items, func(i, j int) bool {
		return axisValue(items[i].centroid, axis) < axisValue(items[j].centroid, axis)
	})
	mid := len(items) / 2
	left := b.build(items[:mid])
	right := b.build(items[mid:])
	b.nodes[self].left = left
	b.nodes[self].right = right
	return self
}

// FindNearest 查询点到表面的最近命中，树为空返回nil
func (b *BVH) FindNearest(p Geometry.Vec3) *Hit {
	if len(b.nodes) == 0 {
		return nil
	}
	best := &Hit{TriIndex: -1, DistSq: math.MaxFloat64}
	b.nearest(0, p, best)
	if best.TriIndex < 0 {
		return nil
	}
	best.Normal = b.tris[best.TriIndex].Normal()
	return best
}

func (b *BVH) nearest(ni int, p Geometry.Vec3, best *Hit) {
	node := &b.nodes[ni]
	if boxDistSq(p, node.min, node.max) >= best.DistSq {
		return
	}
	if node.left < 0 {
		for i := node.start; i < node.start+node.count; i++ {
			ti := b.order[i]
			t := b.tris[ti]
			cp := ClosestPointOnTriangle(p, t.A, t.B, t.C)
			d := cp.Sub(p).LengthSquared()
			if d < best.DistSq {
				best.DistSq = d
				best.Point = cp
				best.TriIndex = ti
			}
		}
		return
	}
	// 先走更近的子树，便于尽早收紧上界
	dl := boxDistSq(p, b.nodes[node.left].min, b.nodes[node.left].max)
	dr := boxDistSq(p, b.nodes[node.right].min, b.nodes[node.right].max)
	if dl <= dr {
		b.nearest(node.left, p, best)
		b.nearest(node.right, p, best)
	} else {
		b.nearest(node.right, p, best)
		b.nearest(node.left, p, best)
	}
}

// ClosestPointOnTriangle 点到三角形的最近点
func ClosestPointOnTriangle(p, a, b, c Geometry.Vec3) Geometry.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Scale(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Scale(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Scale(w))
	}

	den := 1.0 / (va + vb + vc)
	v := vb * den
	w := vc * den
	return a.Add(ab.Scale(v)).Add(ac.Scale(w))
}

func boxDistSq(p, mn, mx Geometry.Vec3) float64 {
	d := 0.0
	for axis := 0; axis < 3; axis++ {
		v := axisValue(p, axis)
		lo := axisValue(mn, axis)
		hi := axisValue(mx, axis)
		if v < lo {
			d += (lo - v) * (lo - v)
		} else if v > hi {
			d += (v - hi) * (v - hi)
		}
	}
	return d
}

func axisValue(v Geometry.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func vecMin(a, b Geometry.Vec3) Geometry.Vec3 {
	return Geometry.Vec3{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

func vecMax(a, b Geometry.Vec3) Geometry.Vec3 {
	return Geometry.Vec3{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

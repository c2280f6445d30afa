package Checker

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/GrainArc/PanelForge/Geometry"
	"github.com/GrainArc/PanelForge/UVMapper"
)

// ErrTimeout 检查超过墙钟时限，上层按错误处理，绝不当作通过
var ErrTimeout = errors.New("UV边界检查超时")

// 隐藏默认值，只有内边距暴露给调用方
const (
	SmartFactor    = 0.20
	MarginUV       = 0.01
	EdgeCheckLimit = 1000
	TimeoutSec     = 30.0
)

// CheckAction 两种动作：仅检查或检查并修复
type CheckAction string

const (
	ActionCheck CheckAction = "CHECK"
	ActionFix   CheckAction = "FIX"
)

// CheckConfig 边界检查参数记录
type CheckConfig struct {
	Action      CheckAction `json:"action"`
	PaddingUV   float64     `json:"padding_uv"`
	ScaleFactor float64     `json:"scale_factor"`
	TimeoutSec  float64     `json:"timeout_sec"`
}

// DefaultCheckConfig 默认仅检查，内边距0.005
func DefaultCheckConfig() CheckConfig {
	return CheckConfig{Action: ActionCheck, PaddingUV: 0.005, TimeoutSec: TimeoutSec}
}

// CheckStatus 检查结论
type CheckStatus string

const (
	StatusPass       CheckStatus = "PASS"
	StatusViolations CheckStatus = "VIOLATIONS"
)

// CheckResult 检查/修复结果
type CheckResult struct {
	Status       CheckStatus `json:"status"`
	ViolationIDs []int       `json:"violation_ids"`
	Fixed        int         `json:"fixed"`
	Remaining    int         `json:"remaining"`
}

// BoundaryEdge UV空间中的一条边界线段
type BoundaryEdge struct {
	A, B Geometry.Vec2
}

// UVBoundaryEdges 提取壳体UV边界：只被一个面引用的边，
// 取该面在这条边两端的UV坐标
func UVBoundaryEdges(shell *UVMapper.ShellMesh) ([]BoundaryEdge, error) {
	if err := shell.Validate(); err != nil {
		return nil, err
	}
	type edgeUse struct {
		count  int
		face   int
		ca, cb int
	}
	uses := make(map[[2]int]*edgeUse)
	for fi, f := range shell.Mesh.Faces {
		for i := range f {
			a, b := f[i], f[(i+1)%len(f)]
			ca, cb := i, (i+1)%len(f)
			if a > b {
				a, b = b, a
				ca, cb = cb, ca
			}
			key := [2]int{a, b}
			if u, ok := uses[key]; ok {
				u.count++
			} else {
				uses[key] = &edgeUse{count: 1, face: fi, ca: ca, cb: cb}
			}
		}
	}
	var edges []BoundaryEdge
	for _, u := range uses {
		if u.count != 1 {
			continue
		}
		uvs := shell.UV[u.face]
		edges = append(edges, BoundaryEdge{A: uvs[u.ca], B: uvs[u.cb]})
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("壳体UV没有边界边")
	}
	// 固定顺序，保证检查结果可复现
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A.X != edges[j].A.X {
			return edges[i].A.X < edges[j].A.X
		}
		if edges[i].A.Y != edges[j].A.Y {
			return edges[i].A.Y < edges[j].A.Y
		}
		if edges[i].B.X != edges[j].B.X {
			return edges[i].B.X < edges[j].B.X
		}
		return edges[i].B.Y < edges[j].B.Y
	})
	return edges, nil
}

func closestOnSegment(p, a, b Geometry.Vec2) Geometry.Vec2 {
	ab := b.Sub(a)
	d2 := ab.Dot(ab)
	if d2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / d2
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Scale(t))
}

// rayIntersects 水平射线与线段求交（射线方向固定为+X）
func rayIntersects(origin, dir, a, b Geometry.Vec2) bool {
	ld := b.Sub(a)
	den := dir.X*ld.Y - dir.Y*ld.X
	if math.Abs(den) < 1e-10 {
		return false
	}
	diff := origin.Sub(a)
	t2 := (dir.X*diff.Y - dir.Y*diff.X) / den
	t1 := (ld.X*diff.Y - ld.Y*diff.X) / den
	return t1 >= 0 && t2 >= 0 && t2 <= 1
}

// IsOutside 判断UV点是否在壳体UV边界之外
// [0,1]范围外直接算越界；落在边界线上(1e-6内)算在内；
// 否则向+X打一条射线按奇偶判定，偶数次相交为界外
func IsOutside(uv Geometry.Vec2, edges []BoundaryEdge) bool {
	if uv.X < 0 || uv.X > 1 || uv.Y < 0 || uv.Y > 1 {
		return true
	}
	const eps = 1e-6
	for _, e := range edges {
		if closestOnSegment(uv, e.A, e.B).Distance(uv) <= eps {
			return false
		}
	}
	hits := 0
	dir := Geometry.Vec2{X: 1, Y: 0}
	for _, e := range edges {
		if rayIntersects(uv, dir, e.A, e.B) {
			hits++
		}
	}
	return hits%2 == 0
}

// ClosestOnBoundary 边界上距离uv最近的点
func ClosestOnBoundary(uv Geometry.Vec2, edges []BoundaryEdge) (Geometry.Vec2, bool) {
	var best Geometry.Vec2
	dmin := math.MaxFloat64
	found := false
	for _, e := range edges {
		c := closestOnSegment(uv, e.A, e.B)
		d := uv.Distance(c)
		if d < dmin {
			best, dmin = c, d
			found = true
		}
	}
	return best, found
}

// inwardFromBoundary 边界点处指向界内的单位方向
// 先取所在线段法向中朝内的一侧，找不到时退回指向边界质心
func inwardFromBoundary(q Geometry.Vec2, edges []BoundaryEdge) Geometry.Vec2 {
	for _, e := range edges {
		if closestOnSegment(q, e.A, e.B).Distance(q) < 1e-4 {
			t := e.B.Sub(e.A)
			if t.Length() > 0 {
				t = t.Normalize()
			} else {
				t = Geometry.Vec2{X: 1, Y: 0}
			}
			n1 := Geometry.Vec2{X: -t.Y, Y: t.X}
			n2 := Geometry.Vec2{X: t.Y, Y: -t.X}
			if !IsOutside(q.Add(n1.Scale(1e-3)), edges) {
				return n1
			}
			return n2
		}
	}
	var cx, cy float64
	for _, e := range edges {
		cx += e.A.X + e.B.X
		cy += e.A.Y + e.B.Y
	}
	c := Geometry.Vec2{X: cx / float64(2*len(edges)), Y: cy / float64(2*len(edges))}
	v := c.Sub(q)
	if v.Length() > 0 {
		return v.Normalize()
	}
	return Geometry.Vec2{X: 0, Y: -1}
}

// panelUV 面板顶点换算到UV空间
func panelUV(p Geometry.Vec3, scale float64) Geometry.Vec2 {
	return Geometry.Vec2{X: p.X / scale, Y: p.Y / scale}
}

// Check 检查面板网格的UV边界越界，Action为FIX时就地修复
// 越界或距边界小于安全边距的顶点都记为违规；
// 修复把违规点拉到边界最近点并向内垫出内边距，凹角处按半衰回退
func Check(panel *Geometry.IndexedMesh, edges []BoundaryEdge, cfg CheckConfig) (*CheckResult, error) {
	if cfg.ScaleFactor == 0 {
		return nil, fmt.Errorf("UV网格比例因子为0")
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("壳体UV没有边界边")
	}
	timeout := cfg.TimeoutSec
	if timeout <= 0 {
		timeout = TimeoutSec
	}
	start := time.Now()
	deadline := start.Add(time.Duration(timeout * float64(time.Second)))

	violations := make(map[int]bool)
	uvCache := make([]Geometry.Vec2, len(panel.Vertices))

	for i, p := range panel.Vertices {
		if i%200 == 0 && time.Now().After(deadline) {
			return nil, fmt.Errorf("顶点扫描阶段: %w", ErrTimeout)
		}
		uv := panelUV(p, cfg.ScaleFactor)
		uvCache[i] = uv
		if IsOutside(uv, edges) {
			violations[i] = true
			continue
		}
		if q, ok := ClosestOnBoundary(uv, edges); ok && uv.Distance(q) < MarginUV {
			violations[i] = true
		}
	}

	// 轻量边中点抽查，限量保速度
	edgeCount := 0
	for _, e := range panel.AllEdges() {
		edgeCount++
		if edgeCount%50 == 0 {
			if time.Now().After(deadline) || edgeCount > EdgeCheckLimit {
				log.Printf("边抽查在第%d条提前结束", edgeCount)
				break
			}
		}
		uv1 := uvCache[e[0]]
		uv2 := uvCache[e[1]]
		mid := uv1.Add(uv2).Scale(0.5)
		if IsOutside(uv1, edges) || IsOutside(uv2, edges) || IsOutside(mid, edges) {
			violations[e[0]] = true
			violations[e[1]] = true
		}
	}

	ids := make([]int, 0, len(violations))
	for v := range violations {
		ids = append(ids, v)
	}
	sort.Ints(ids)

	result := &CheckResult{ViolationIDs: ids, Status: StatusPass}
	if len(ids) > 0 {
		result.Status = StatusViolations
	}
	if cfg.Action != ActionFix {
		return result, nil
	}

	// ---- 修复 ----
	epsInside := math.Max(1e-4, 0.25*MarginUV)
	neighbors := panel.NeighborTable()

	localSpacing := func(v int) float64 {
		dmin := -1.0
		for _, nb := range neighbors[v] {
			d := uvCache[nb].Distance(uvCache[v])
			if d > 0 && (dmin < 0 || d < dmin) {
				dmin = d
			}
		}
		if dmin < 0 {
			return 0.002
		}
		return dmin
	}

	for _, vi := range ids {
		uv := uvCache[vi]
		q, ok := ClosestOnBoundary(uv, edges)
		if !ok {
			continue
		}
		inward := inwardFromBoundary(q, edges)

		minPad := math.Max(cfg.PaddingUV, 1e-4)
		smart := SmartFactor * localSpacing(vi)
		pad := math.Max(minPad, smart) + epsInside

		newUV := q.Add(inward.Scale(pad))
		// 凹角或尖角处仍在界外时逐次减半回退
		for tries := 0; IsOutside(newUV, edges) && tries < 5; tries++ {
			pad *= 0.5
			newUV = q.Add(inward.Scale(pad))
		}

		panel.Vertices[vi].X = newUV.X * cfg.ScaleFactor
		panel.Vertices[vi].Y = newUV.Y * cfg.ScaleFactor
		result.Fixed++
	}

	// 修复后对违规子集复查
	limit := len(ids)
	if limit > 1000 {
		limit = 1000
	}
	for _, vi := range ids[:limit] {
		if IsOutside(panelUV(panel.Vertices[vi], cfg.ScaleFactor), edges) {
			result.Remaining++
		}
	}
	if result.Remaining == 0 {
		result.Status = StatusPass
	} else {
		result.Status = StatusViolations
	}
	return result, nil
}

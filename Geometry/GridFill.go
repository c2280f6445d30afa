package Geometry

import (
	"fmt"
	"log"
	"math"

	libtess2 "github.com/hajimehoshi/go-libtess2"
)

// FillConfig 网格填充参数
type FillConfig struct {
	Span        int     // 网格一个方向上的格数
	Offset      int     // 旋转起始角点，调整布线方向
	AspectLimit float64 // 预均衡触发的边长比阈值
	Damp        float64 // 预均衡阻尼系数
	Equalize    bool    // 是否执行预均衡
	SmoothIters int     // 填充后内部顶点平滑次数
}

// DefaultFillConfig 默认填充参数，阈值与阻尼沿用实测值
func DefaultFillConfig() FillConfig {
	return FillConfig{
		Span:        1,
		Offset:      0,
		AspectLimit: 5.0,
		Damp:        0.12,
		Equalize:    true,
		SmoothIters: 2,
	}
}

// vertexEdgeAspect 顶点处最长/最短邻边比
func vertexEdgeAspect(m *IndexedMesh, incident [][]int, v int) float64 {
	if len(incident[v]) < 2 {
		return 1.0
	}
	minLen := math.Inf(1)
	maxLen := 0.0
	for _, other := range incident[v] {
		l := m.Vertices[v].Distance(m.Vertices[other])
		if l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}
	return maxLen / (minLen + 1e-12)
}

// PreEqualize 单次阻尼极端边长比：比值超限的顶点，其每条邻边
// 的两端各向中间挪一小步。所有位移基于原始坐标计算后一次性落位，
// 避免逐点更新造成的级联偏置
func PreEqualize(m *IndexedMesh, aspectLimit, damp float64) {
	incident := m.NeighborTable()
	original := make([]Vec3, len(m.Vertices))
	copy(original, m.Vertices)
	deltas := make([]Vec3, len(m.Vertices))

	for v := range m.Vertices {
		if vertexEdgeAspect(m, incident, v) > aspectLimit {
			for _, other := range incident[v] {
				d := original[other].Sub(original[v]).Scale(damp * 0.5)
				deltas[v] = deltas[v].Add(d)
				deltas[other] = deltas[other].Sub(d)
			}
		}
	}
	for v := range m.Vertices {
		m.Vertices[v] = m.Vertices[v].Add(deltas[v])
	}
}

// FillBoundary 对单条闭合边界环做四边形为主的填充
// 流程：可选预均衡 -> 快照边界坐标 -> Coons网格填充 ->
// 失败时退化为libtess2三角填充+三角并四边 -> 恢复边界坐标
// 边界顶点数填充前后不一致按错误上报，不做静默处理
func FillBoundary(m *IndexedMesh, cfg FillConfig) error {
	loops, err := ExtractBoundary(m)
	if err != nil {
		return err
	}
	if len(loops) != 1 {
		return fmt.Errorf("填充要求单条边界环，实际有%d条", len(loops))
	}
	loop := loops[0]
	if !loop.Cyclic {
		return fmt.Errorf("边界环未闭合，无法填充")
	}

	if cfg.Equalize {
		PreEqualize(m, cfg.AspectLimit, cfg.Damp)
	}

	// 快照原始边界坐标，填充算法可能扰动边界
	snapshot := make([]Vec3, len(loop.Indices))
	for i, idx := range loop.Indices {
		snapshot[i] = m.Vertices[idx]
	}

	if err := coonsGridFill(m, loop, cfg.Span, cfg.Offset); err != nil {
		log.Printf("网格填充失败，尝试三角填充回退: %v", err)
		if err2 := tessFill(m, loop); err2 != nil {
			return fmt.Errorf("网格填充失败(%v)，三角填充回退同样失败(%v)", err, err2)
		}
		TrisToQuads(m)
	}

	// 按顶点身份恢复边界坐标
	newLoops, err := ExtractBoundary(m)
	if err != nil {
		return fmt.Errorf("填充后提取边界失败: %v", err)
	}
	restored := 0
	for _, nl := range newLoops {
		for _, idx := range nl.Indices {
			for i, orig := range loop.Indices {
				if idx == orig {
					m.Vertices[idx] = snapshot[i]
					restored++
					break
				}
			}
		}
	}
	if restored != len(loop.Indices) {
		return fmt.Errorf("填充后边界顶点数不一致(%d vs %d)，无法可靠恢复轮廓坐标", restored, len(loop.Indices))
	}

	if cfg.SmoothIters > 0 {
		SmoothInterior(m, cfg.SmoothIters, 0.5)
	}
	return nil
}

// coonsGridFill 对偶数顶点的闭合环生成结构化四边形网格
// 环被切成4段：两对对边长度为(span, n/2-span)，内部点按Coons双线性
// 超限插值生成。边界节点复用原始顶点索引，保证身份不变
func coonsGridFill(m *IndexedMesh, loop BoundaryLoop, span, offset int) error {
	n := len(loop.Indices)
	if n < 4 {
		return fmt.Errorf("边界顶点数过少: %d", n)
	}
	if n%2 != 0 {
		return fmt.Errorf("边界顶点数必须为偶数: %d", n)
	}

	half := n / 2
	s := span
	if s < 1 {
		s = 1
	}
	if s > half-1 {
		s = half - 1
	}
	t := half - s

	// offset旋转起始角点
	ring := make([]int, n)
	for i := 0; i < n; i++ {
		ring[i] = loop.Indices[((i+offset)%n+n)%n]
	}

	// 四条边：A(0..s) B(s..s+t) C(s+t..2s+t) D(2s+t..n回到0)
	sideA := ring[0 : s+1]
	sideB := ring[s : s+t+1]
	sideC := ring[s+t : 2*s+t+1]
	sideD := append(append([]int{}, ring[2*s+t:]...), ring[0])

	// 网格节点索引 (s+1)x(t+1)，角点与边复用环上顶点
	grid := make([][]int, s+1)
	for i := range grid {
		grid[i] = make([]int, t+1)
		for j := range grid[i] {
			grid[i][j] = -1
		}
	}
	for i := 0; i <= s; i++ {
		grid[i][0] = sideA[i]   // 底边
		grid[s-i][t] = sideC[i] // 顶边（反向）
	}
	for j := 0; j <= t; j++ {
		grid[s][j] = sideB[j]   // 右边
		grid[0][t-j] = sideD[j] // 左边（反向）
	}

	p00 := m.Vertices[grid[0][0]]
	p10 := m.Vertices[grid[s][0]]
	p01 := m.Vertices[grid[0][t]]
	p11 := m.Vertices[grid[s][t]]

	// 内部节点：Coons patch插值
	for i := 1; i < s; i++ {
		u := float64(i) / float64(s)
		for j := 1; j < t; j++ {
			v := float64(j) / float64(t)
			bottom := m.Vertices[grid[i][0]]
			top := m.Vertices[grid[i][t]]
			left := m.Vertices[grid[0][j]]
			right := m.Vertices[grid[s][j]]

			point := bottom.Scale(1 - v).Add(top.Scale(v)).
				Add(left.Scale(1 - u)).Add(right.Scale(u)).
				Sub(p00.Scale((1 - u) * (1 - v))).
				Sub(p10.Scale(u * (1 - v))).
				Sub(p01.Scale((1 - u) * v)).
				Sub(p11.Scale(u * v))

			m.Vertices = append(m.Vertices, point)
			grid[i][j] = len(m.Vertices) - 1
		}
	}

	// 生成四边面
	for i := 0; i < s; i++ {
		for j := 0; j < t; j++ {
			a := grid[i][j]
			b := grid[i+1][j]
			c := grid[i+1][j+1]
			d := grid[i][j+1]
			if a == -1 || b == -1 || c == -1 || d == -1 {
				return fmt.Errorf("网格节点缺失(%d,%d)", i, j)
			}
			m.Faces = append(m.Faces, []int{a, b, c, d})
		}
	}
	return nil
}

// tessFill 回退路径：把边界环投影到最佳拟合平面后交给libtess2
// 做三角剖分，三角形按坐标匹配映回原顶点索引
func tessFill(m *IndexedMesh, loop BoundaryLoop) error {
	n := len(loop.Indices)
	if n < 3 {
		return fmt.Errorf("边界顶点数过少: %d", n)
	}

	// 质心+法向的最佳拟合平面
	centroid := Vec3{}
	for _, idx := range loop.Indices {
		centroid = centroid.Add(m.Vertices[idx])
	}
	centroid = centroid.Scale(1.0 / float64(n))

	normal := Vec3{}
	for i := 0; i < n; i++ {
		a := m.Vertices[loop.Indices[i]].Sub(centroid)
		b := m.Vertices[loop.Indices[(i+1)%n]].Sub(centroid)
		normal = normal.Add(a.Cross(b))
	}
	if normal.Length() < 1e-12 {
		return fmt.Errorf("边界环退化，无法确定投影平面")
	}
	normal = normal.Normalize()
	t1, t2 := OrthonormalBasis(normal)

	contour := make([]libtess2.Vertex, n)
	for i, idx := range loop.Indices {
		d := m.Vertices[idx].Sub(centroid)
		contour[i] = libtess2.Vertex{
			X: float32(d.Dot(t1)),
			Y: float32(d.Dot(t2)),
		}
	}

	elements, vertices, err := libtess2.Tesselate([]libtess2.Contour{contour}, libtess2.WindingRuleOdd)
	if err != nil {
		return fmt.Errorf("三角剖分失败: %v", err)
	}

	// 剖分结果顶点按平面坐标映回原索引，交点等新顶点反投影后追加
	remap := make([]int, len(vertices))
	for vi, v := range vertices {
		best := -1
		bestDist := math.Inf(1)
		for i, idx := range loop.Indices {
			dx := float64(v.X - contour[i].X)
			dy := float64(v.Y - contour[i].Y)
			d := dx*dx + dy*dy
			if d < bestDist {
				bestDist = d
				best = idx
			}
		}
		if best != -1 && bestDist < 1e-10 {
			remap[vi] = best
		} else {
			p := centroid.Add(t1.Scale(float64(v.X))).Add(t2.Scale(float64(v.Y)))
			m.Vertices = append(m.Vertices, p)
			remap[vi] = len(m.Vertices) - 1
		}
	}

	for i := 0; i+2 < len(elements); i += 3 {
		a := remap[elements[i]]
		b := remap[elements[i+1]]
		c := remap[elements[i+2]]
		if a == b || b == c || a == c {
			continue
		}
		m.Faces = append(m.Faces, []int{a, b, c})
	}
	if len(m.Faces) == 0 {
		return fmt.Errorf("三角剖分没有产生任何面")
	}
	return nil
}

// TrisToQuads 贪心合并共享边的三角形对为四边形
// 仅合并后仍为凸且平面性尚可的组合
func TrisToQuads(m *IndexedMesh) {
	type edgeRef struct {
		face int
		a, b int
	}
	edgeFaces := make(map[[2]int][]edgeRef)
	for fi, f := range m.Faces {
		if len(f) != 3 {
			continue
		}
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			key := [2]int{a, b}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			edgeFaces[key] = append(edgeFaces[key], edgeRef{face: fi, a: a, b: b})
		}
	}

	merged := make([]bool, len(m.Faces))
	var newFaces [][]int

	for key, refs := range edgeFaces {
		if len(refs) != 2 {
			continue
		}
		f1, f2 := refs[0].face, refs[1].face
		if merged[f1] || merged[f2] {
			continue
		}
		tri1, tri2 := m.Faces[f1], m.Faces[f2]
		opp1 := oppositeVertex(tri1, key)
		opp2 := oppositeVertex(tri2, key)
		if opp1 == -1 || opp2 == -1 || opp1 == opp2 {
			continue
		}
		// 四边形顶点序：opp1 -> key[0] -> opp2 -> key[1]
		quad := []int{opp1, key[0], opp2, key[1]}
		if !quadConvex(m, quad) {
			continue
		}
		merged[f1] = true
		merged[f2] = true
		newFaces = append(newFaces, quad)
	}

	for fi, f := range m.Faces {
		if !merged[fi] {
			newFaces = append(newFaces, f)
		}
	}
	m.Faces = newFaces
}

func oppositeVertex(tri []int, edge [2]int) int {
	for _, v := range tri {
		if v != edge[0] && v != edge[1] {
			return v
		}
	}
	return -1
}

// quadConvex 四边形凸性检查：相邻边叉积与面法向同向
func quadConvex(m *IndexedMesh, quad []int) bool {
	normal := Vec3{}
	for i := 0; i < 4; i++ {
		a := m.Vertices[quad[i]]
		b := m.Vertices[quad[(i+1)%4]]
		c := m.Vertices[quad[(i+2)%4]]
		normal = normal.Add(b.Sub(a).Cross(c.Sub(b)))
	}
	if normal.Length() < 1e-12 {
		return false
	}
	for i := 0; i < 4; i++ {
		a := m.Vertices[quad[i]]
		b := m.Vertices[quad[(i+1)%4]]
		c := m.Vertices[quad[(i+2)%4]]
		if b.Sub(a).Cross(c.Sub(b)).Dot(normal) < 0 {
			return false
		}
	}
	return true
}

// OrthonormalBasis 由法向构造稳定的切平面正交基
func OrthonormalBasis(n Vec3) (Vec3, Vec3) {
	t1 := Vec3{1, 0, 0}
	if math.Abs(n.X) > 0.9 {
		t1 = Vec3{0, 1, 0}
	}
	t1 = t1.Sub(n.Scale(t1.Dot(n))).Normalize()
	if t1.Length() == 0 {
		t1 = Vec3{1, 0, 0}
	}
	t2 := n.Cross(t1).Normalize()
	return t1, t2
}
